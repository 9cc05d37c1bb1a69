// Package report renders and persists the outcome of a classification run.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"parknn/pkg/core"
	"parknn/pkg/model"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	mismatchStyle = cellStyle.Foreground(lipgloss.Color("9"))
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// Summary is what a run reports besides the predictions themselves.
type Summary struct {
	Mode      string
	K         int
	Workers   int
	TrainSize int
	QuerySize int
	Accuracy  float64
	Elapsed   time.Duration
}

// Percent rounds a fraction to a percentage with two decimals.
func Percent(frac float64) float64 {
	return math.Round(frac*10000) / 100
}

// PredictionTable renders the first n rows as No | Actual | Predicted.
// Mismatched predictions are highlighted.
func PredictionTable(truth, pred []core.Label, n int) string {
	if n > len(pred) {
		n = len(pred)
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		actual := ""
		if i < len(truth) {
			actual = string(truth[i])
		}
		rows[i] = []string{strconv.Itoa(i + 1), actual, string(pred[i])}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("No", "Actual", "Predicted").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && row < len(rows) && rows[row][1] != rows[row][2]:
				return mismatchStyle
			default:
				return cellStyle
			}
		}).
		Rows(rows...).
		String()
}

// DistributionTable renders label counts in the given order.
func DistributionTable(counts []model.LabelCount) string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{string(c.Label), strconv.Itoa(c.Count)}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Label", "Count").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...).
		String()
}

// Write prints the full report: summary, preview table, accuracy and the
// top prediction distribution.
func Write(w io.Writer, s Summary, truth, pred []core.Label, preview, top int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("=== KNN %s ===", s.Mode)))
	fmt.Fprintf(w, "Training rows: %d\n", s.TrainSize)
	fmt.Fprintf(w, "Query rows:    %d\n", s.QuerySize)
	fmt.Fprintf(w, "k:             %d\n", s.K)
	if s.Workers > 0 {
		fmt.Fprintf(w, "Workers:       %d\n", s.Workers)
	}
	fmt.Fprintf(w, "Elapsed:       %s\n", s.Elapsed)

	if preview > 0 {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("First %d predictions", min(preview, len(pred)))))
		fmt.Fprintln(w, PredictionTable(truth, pred, preview))
	}

	fmt.Fprintf(w, "\nAccuracy: %.2f %%\n", Percent(s.Accuracy))

	if top > 0 {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Prediction distribution (top %d)", top)))
		fmt.Fprintln(w, DistributionTable(model.MostCommon(pred, top)))
	}
}
