package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parknn/pkg/distance"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Classifier.K)
	assert.Equal(t, distance.NameEuclidean, cfg.Classifier.Metric)
	assert.Equal(t, 0.2, cfg.Dataset.TestRatio)
	assert.Equal(t, int64(42), cfg.Dataset.Seed)
	assert.Equal(t, "label", cfg.Dataset.LabelColumn)
	assert.True(t, cfg.Dataset.Scale)
	assert.Equal(t, 0, cfg.Parallel.Workers)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dataset:
  path: crops.csv
  seed: 7
classifier:
  k: 3
  metric: manhattan
parallel:
  workers: 4
report:
  database: runs.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "crops.csv", cfg.Dataset.Path)
	assert.Equal(t, int64(7), cfg.Dataset.Seed)
	assert.Equal(t, "label", cfg.Dataset.LabelColumn, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Classifier.K)
	assert.Equal(t, distance.NameManhattan, cfg.Classifier.Metric)
	assert.Equal(t, 4, cfg.Parallel.Workers)
	assert.Equal(t, "runs.db", cfg.Report.DBPath)
	assert.Equal(t, 10, cfg.Report.Preview)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := Default()
	cfg.Classifier.K = 9
	cfg.Report.PlotPath = "dist.png"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad_k.yaml":      "classifier:\n  k: 0\n",
		"bad_metric.yaml": "classifier:\n  metric: cosine\n",
		"bad_ratio.yaml":  "dataset:\n  test_ratio: 1.5\n",
		"bad_yaml.yaml":   "dataset: [\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
