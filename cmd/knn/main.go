package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"parknn/pkg/config"
	"parknn/pkg/distance"
)

var version = "0.1.0-dev"

// verbose gates progress logging; errors are always returned to cobra.
var verbose = log.New(io.Discard, "knn: ", log.Ltime)

func main() {
	log.SetFlags(0)
	log.SetPrefix("knn: ")

	rootCmd := &cobra.Command{
		Use:   "knn",
		Short: "k-nearest-neighbor classification, serial or partitioned across workers",
		Long: `knn classifies the held-out rows of a labeled CSV by majority vote among
their k nearest training rows.

The query batch can be classified on one goroutine or split into contiguous
partitions, one per worker, whose predictions are joined back in order.

Example:
  knn classify --data Crop_recommendation.csv --k 5 --workers 8
  knn bench --data Crop_recommendation.csv`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				verbose.SetOutput(os.Stderr)
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "YAML run configuration")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")

	rootCmd.AddCommand(
		newVersionCmd(),
		newClassifyCmd(),
		newBenchCmd(),
		newRunsCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "knn version %s\n", version)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <path>",
		Short: "Write the effective run configuration as YAML",
		Long: `config resolves --config and the run flags the same way classify does and
writes the result, so a tuned command line can be replayed with --config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Bool("serial", false, "Classify on a single goroutine")
	return cmd
}

// addRunFlags registers the flags that override config file values.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("data", "", "Labeled CSV with a header row")
	f.String("label", "", "Name of the label column")
	f.Float64("test-ratio", 0, "Fraction of rows held out as queries")
	f.Int64("seed", 0, "Seed of the train/test shuffle")
	f.Bool("no-scale", false, "Skip standard scaling of features")
	f.IntP("k", "k", 0, "Number of neighbors")
	f.String("metric", "", "Distance metric: euclidean, manhattan, chebyshev")
	f.IntP("workers", "w", 0, "Worker count (default GOMAXPROCS)")
	f.Int("preview", 0, "Prediction rows to print")
	f.Int("top", 0, "Distribution entries to print")
	f.String("plot", "", "Save a bar chart of the prediction distribution")
	f.String("db", "", "SQLite file recording runs")
}

// loadConfig reads --config (or defaults) and applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("data") {
		cfg.Dataset.Path, _ = f.GetString("data")
	}
	if f.Changed("label") {
		cfg.Dataset.LabelColumn, _ = f.GetString("label")
	}
	if f.Changed("test-ratio") {
		cfg.Dataset.TestRatio, _ = f.GetFloat64("test-ratio")
	}
	if f.Changed("seed") {
		cfg.Dataset.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("no-scale") {
		noScale, _ := f.GetBool("no-scale")
		cfg.Dataset.Scale = !noScale
	}
	if f.Changed("k") {
		cfg.Classifier.K, _ = f.GetInt("k")
	}
	if f.Changed("metric") {
		m, _ := f.GetString("metric")
		cfg.Classifier.Metric = distance.Name(m)
	}
	if f.Changed("workers") {
		cfg.Parallel.Workers, _ = f.GetInt("workers")
	}
	if f.Lookup("serial") != nil && f.Changed("serial") {
		cfg.Parallel.Serial, _ = f.GetBool("serial")
	}
	if f.Changed("preview") {
		cfg.Report.Preview, _ = f.GetInt("preview")
	}
	if f.Changed("top") {
		cfg.Report.Top, _ = f.GetInt("top")
	}
	if f.Changed("plot") {
		cfg.Report.PlotPath, _ = f.GetString("plot")
	}
	if f.Changed("db") {
		cfg.Report.DBPath, _ = f.GetString("db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
