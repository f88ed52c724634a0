// Public domain.

package lcplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Panel is a scatter plot with fixed axis limits.
type Panel struct {
	Title, XLabel, YLabel  string
	X, Y                   []float64
	XMin, XMax, YMin, YMax float64
	LogY                   bool
}

// SavePanels writes panels in a grid with cols columns to the PNG file fn.
func SavePanels(fn string, panels []Panel, cols int) error {
	if len(panels) == 0 {
		return fmt.Errorf("%s: no panels", fn)
	}
	rows := (len(panels) + cols - 1) / cols
	grid := make([][]*plot.Plot, rows)
	for r := range grid {
		grid[r] = make([]*plot.Plot, cols)
	}
	for i, pn := range panels {
		p, err := pn.plot()
		if err != nil {
			return fmt.Errorf("%s panel %d: %w", fn, i+1, err)
		}
		grid[i/cols][i%cols] = p
	}
	return savePlots(fn, grid, vg.Length(cols)*5*vg.Inch, vg.Length(rows)*4*vg.Inch)
}

func (pn *Panel) plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pn.Title
	p.X.Label.Text = pn.XLabel
	p.Y.Label.Text = pn.YLabel
	var pts plotter.XYs
	for i := range pn.X {
		if pn.LogY && pn.Y[i] <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: pn.X[i], Y: pn.Y[i]})
	}
	if len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = dataColor
		s.GlyphStyle.Radius = vg.Points(1)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
	}
	if pn.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.X.Min, p.X.Max = pn.XMin, pn.XMax
	p.Y.Min, p.Y.Max = pn.YMin, pn.YMax
	return p, nil
}
