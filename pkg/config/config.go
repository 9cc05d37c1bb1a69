package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"parknn/pkg/distance"
)

// Config describes one classification run.
type Config struct {
	Dataset    DatasetConfig    `yaml:"dataset"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Report     ReportConfig     `yaml:"report"`
}

// DatasetConfig is the preprocessing input.
type DatasetConfig struct {
	Path        string  `yaml:"path"`
	LabelColumn string  `yaml:"label_column"`
	TestRatio   float64 `yaml:"test_ratio"`
	Seed        int64   `yaml:"seed"`
	Scale       bool    `yaml:"scale"`
}

// ClassifierConfig holds the KNN hyperparameters.
type ClassifierConfig struct {
	K      int           `yaml:"k"`
	Metric distance.Name `yaml:"metric"`
}

// ParallelConfig sizes the worker pool. Workers <= 0 means GOMAXPROCS.
type ParallelConfig struct {
	Workers int  `yaml:"workers"`
	Serial  bool `yaml:"serial"`
}

// ReportConfig controls the output side.
type ReportConfig struct {
	Preview  int    `yaml:"preview"`            // rows of the prediction table
	Top      int    `yaml:"top"`                // entries of the distribution table
	PlotPath string `yaml:"plot,omitempty"`     // PNG bar chart, skipped when empty
	DBPath   string `yaml:"database,omitempty"` // SQLite run store, skipped when empty
}

// Default returns the settings of the reference crop run.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path:        "Crop_recommendation.csv",
			LabelColumn: "label",
			TestRatio:   0.2,
			Seed:        42,
			Scale:       true,
		},
		Classifier: ClassifierConfig{
			K:      5,
			Metric: distance.NameEuclidean,
		},
		Report: ReportConfig{
			Preview: 10,
			Top:     5,
		},
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// Validate checks values that do not depend on the data. k against the
// training set size is checked when the model is fitted.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("config: dataset.path is required")
	}
	if c.Dataset.LabelColumn == "" {
		return fmt.Errorf("config: dataset.label_column is required")
	}
	if c.Dataset.TestRatio <= 0 || c.Dataset.TestRatio >= 1 {
		return fmt.Errorf("config: dataset.test_ratio must be in (0, 1), got %v", c.Dataset.TestRatio)
	}
	if c.Classifier.K <= 0 {
		return fmt.Errorf("config: classifier.k must be positive, got %d", c.Classifier.K)
	}
	if _, err := c.Classifier.Metric.Function(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Report.Preview < 0 || c.Report.Top < 0 {
		return fmt.Errorf("config: report.preview and report.top must not be negative")
	}
	return nil
}
