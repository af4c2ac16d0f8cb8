package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"SurgeScope/internal/model"
)

// WriteScheduleChart renders the cumulative USD cost of a schedule as a
// PNG line chart, one point per step.
func WriteScheduleChart(path, title string, steps []model.BuybackStep) error {
	if len(steps) == 0 {
		return fmt.Errorf("no steps to chart")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "step"
	p.Y.Label.Text = "cumulative USD value"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(steps))
	for i, s := range steps {
		pts[i].X = float64(s.StepIndex)
		pts[i].Y = s.CumulativeUSD
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build line: %w", err)
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
