package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"parknn/pkg/config"
	"parknn/pkg/core"
	"parknn/pkg/model"
	"parknn/pkg/parallel"
	"parknn/pkg/pipeline"
	"parknn/pkg/report"
)

const (
	modeSerial   = "serial"
	modeParallel = "parallel"
)

// session is one prepared dataset and fitted model shared by the runs of a
// command.
type session struct {
	cfg  *config.Config
	data *pipeline.Prepared
	knn  *model.KNN
}

// outcome is the result of classifying the query batch once.
type outcome struct {
	mode    string
	workers int
	preds   []core.Label
	elapsed time.Duration
}

func newSession(cfg *config.Config) (*session, error) {
	start := time.Now()
	data, err := pipeline.Prepare(cfg.Dataset.Path, pipeline.Options{
		LabelColumn: cfg.Dataset.LabelColumn,
		TestRatio:   cfg.Dataset.TestRatio,
		Seed:        cfg.Dataset.Seed,
		Scale:       cfg.Dataset.Scale,
	})
	if err != nil {
		return nil, err
	}
	verbose.Printf("loaded %s: %d training rows, %d queries, features %v, %d classes (%s)",
		cfg.Dataset.Path, data.Train.Len(), data.Queries.Rows(), data.Header,
		len(data.Train.Classes()), time.Since(start))

	metric, err := cfg.Classifier.Metric.Function()
	if err != nil {
		return nil, err
	}
	knn := model.NewKNN(model.WithK(cfg.Classifier.K), model.WithMetric(metric))
	if err := knn.Fit(data.Train); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, data: data, knn: knn}, nil
}

func (s *session) runSerial() (outcome, error) {
	start := time.Now()
	preds, err := s.knn.PredictBatch(s.data.Queries)
	if err != nil {
		return outcome{}, err
	}
	return outcome{mode: modeSerial, preds: preds, elapsed: time.Since(start)}, nil
}

func (s *session) runParallel(ctx context.Context) (outcome, error) {
	pool := parallel.NewPool(s.cfg.Parallel.Workers)
	defer pool.Close()

	if ranges, err := parallel.Partition(s.data.Queries.Rows(), pool.Size()); err == nil {
		verbose.Printf("%d workers, partitions %v", pool.Size(), ranges)
	}

	start := time.Now()
	preds, err := pool.PredictBatch(ctx, s.knn, s.data.Queries)
	if err != nil {
		return outcome{}, err
	}
	return outcome{mode: modeParallel, workers: pool.Size(), preds: preds, elapsed: time.Since(start)}, nil
}

// finish prints the report for o, and saves the chart and the run record
// when configured.
func (s *session) finish(ctx context.Context, w io.Writer, o outcome) error {
	acc, err := model.Accuracy(s.data.Truth, o.preds)
	if err != nil {
		return err
	}

	report.Write(w, report.Summary{
		Mode:      o.mode,
		K:         s.cfg.Classifier.K,
		Workers:   o.workers,
		TrainSize: s.data.Train.Len(),
		QuerySize: s.data.Queries.Rows(),
		Accuracy:  acc,
		Elapsed:   o.elapsed,
	}, s.data.Truth, o.preds, s.cfg.Report.Preview, s.cfg.Report.Top)

	if path := s.cfg.Report.PlotPath; path != "" {
		title := fmt.Sprintf("KNN %s predictions (k=%d)", o.mode, s.cfg.Classifier.K)
		if err := report.PlotDistribution(model.Distribution(o.preds), title, path); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
		fmt.Fprintf(w, "Saved prediction chart to %s\n", path)
	}

	if path := s.cfg.Report.DBPath; path != "" {
		store, err := report.OpenStore(path)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.SaveRun(ctx, report.Run{
			Dataset:   s.cfg.Dataset.Path,
			Mode:      o.mode,
			Metric:    string(s.cfg.Classifier.Metric),
			K:         s.cfg.Classifier.K,
			Workers:   o.workers,
			TrainSize: s.data.Train.Len(),
			QuerySize: s.data.Queries.Rows(),
			Accuracy:  acc,
			Elapsed:   o.elapsed,
		}, s.data.Truth, o.preds)
		if err != nil {
			return err
		}
		verbose.Printf("recorded run %s in %s", run.ID, path)
	}
	return nil
}

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify the held-out rows and report accuracy",
		Long: `Load the dataset, scale it, split it into training rows and queries, then
classify every query by majority vote among its k nearest training rows.

By default the queries are partitioned across workers; --serial runs them on
a single goroutine instead. Both produce identical predictions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := newSession(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var o outcome
			if cfg.Parallel.Serial {
				o, err = s.runSerial()
			} else {
				o, err = s.runParallel(ctx)
			}
			if err != nil {
				return err
			}
			return s.finish(ctx, cmd.OutOrStdout(), o)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Bool("serial", false, "Classify on a single goroutine")
	return cmd
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run serial and parallel classification and compare them",
		Long: `Classify the same query batch serially and in parallel, verify that the
predictions agree element for element, and report the speedup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			s, err := newSession(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			serial, err := s.runSerial()
			if err != nil {
				return err
			}
			par, err := s.runParallel(ctx)
			if err != nil {
				return err
			}
			if i := firstDifference(serial.preds, par.preds); i >= 0 {
				return fmt.Errorf("parallel prediction differs from serial at query %d", i)
			}

			out := cmd.OutOrStdout()
			for _, o := range []outcome{serial, par} {
				if err := s.finish(ctx, out, o); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "\nSerial %s, parallel %s on %d workers: %.2fx speedup\n",
				serial.elapsed, par.elapsed, par.workers, speedup(serial.elapsed, par.elapsed))
			return nil
		},
	}
	addRunFlags(cmd)
	return cmd
}

// firstDifference returns the first index where a and b disagree, or -1.
func firstDifference(a, b []core.Label) int {
	for i := range a {
		if i >= len(b) || a[i] != b[i] {
			return i
		}
	}
	if len(b) > len(a) {
		return len(a)
	}
	return -1
}

func speedup(serial, par time.Duration) float64 {
	if par <= 0 {
		return 0
	}
	return float64(serial) / float64(par)
}
