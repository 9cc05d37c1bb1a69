package report

import (
	"errors"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"parknn/pkg/model"
)

// PlotDistribution saves a bar chart of label counts. The image format
// follows the file extension (png, svg, pdf).
func PlotDistribution(counts []model.LabelCount, title, filename string) error {
	if len(counts) == 0 {
		return errors.New("report: nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Predictions"

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = string(c.Label)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 50, G: 120, B: 200, A: 255}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 0.8

	width := vg.Length(len(counts))*0.5*vg.Inch + 2*vg.Inch
	return p.Save(width, 4*vg.Inch, filename)
}
