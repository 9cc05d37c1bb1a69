package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"parknn/pkg/core"
	"parknn/pkg/report"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List recorded runs, or show the predictions of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				return errors.New("--db is required")
			}
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := report.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				run, err := store.Run(ctx, args[0])
				if err != nil {
					return err
				}
				preds, err := store.Predictions(ctx, run.ID)
				if err != nil {
					return err
				}
				truth := make([]core.Label, len(preds))
				pred := make([]core.Label, len(preds))
				for i, p := range preds {
					truth[i], pred[i] = p.Actual, p.Predicted
				}
				fmt.Fprintf(out, "Run %s (%s, k=%d, %s)\n", run.ID, run.Mode, run.K, run.CreatedAt.Format(time.RFC3339))
				n := len(pred)
				if limit > 0 {
					n = limit
				}
				fmt.Fprintln(out, report.PredictionTable(truth, pred, n))
				return nil
			}

			runs, err := store.Runs(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.ID,
					r.CreatedAt.Format(time.DateTime),
					r.Mode,
					strconv.Itoa(r.K),
					strconv.Itoa(r.Workers),
					strconv.Itoa(r.QuerySize),
					fmt.Sprintf("%.2f %%", report.Percent(r.Accuracy)),
					r.Elapsed.Round(time.Microsecond).String(),
				}
			}
			fmt.Fprintln(out, table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "Created", "Mode", "k", "Workers", "Queries", "Accuracy", "Elapsed").
				Rows(rows...).
				String())
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite file recording runs")
	cmd.Flags().Int("limit", 20, "Maximum rows to show")
	return cmd
}
