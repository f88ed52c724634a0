// Public domain.

// Package lcplot draws light curves, astrometric curves and tracks of
// observations against a model, and writes them as PNG images.
package lcplot

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	dataColor  = color.Black
	modelColor = color.RGBA{R: 220, A: 255}
)

// Fit is a time series of observations with errors, a model sampled on
// its own grid, and the model at the observation times for residuals.
type Fit struct {
	Title, XLabel, YLabel string
	DataLabel, ModelLabel string

	T, Y, YErr []float64
	ModelT     []float64
	ModelY     []float64
	ModelAtT   []float64

	InvertY bool // magnitudes: brighter is up
}

// Track is a path on the sky: observed positions with errors and the
// model positions at the same times.
type Track struct {
	Title          string
	X, Y           []float64
	XErr, YErr     []float64
	ModelX, ModelY []float64
}

// errPoints satisfies the interfaces needed by the error bar plotters.
type errPoints struct {
	plotter.XYs
	plotter.XErrors
	plotter.YErrors
}

func newErrPoints(x, y, xErr, yErr []float64) *errPoints {
	p := &errPoints{XYs: make(plotter.XYs, len(x))}
	for i := range x {
		p.XYs[i].X, p.XYs[i].Y = x[i], y[i]
	}
	if xErr != nil {
		p.XErrors = make(plotter.XErrors, len(x))
		for i, e := range xErr {
			p.XErrors[i].Low, p.XErrors[i].High = -e, e
		}
	}
	if yErr != nil {
		p.YErrors = make(plotter.YErrors, len(y))
		for i, e := range yErr {
			p.YErrors[i].Low, p.YErrors[i].High = -e, e
		}
	}
	return p
}

func xys(x, y []float64) plotter.XYs {
	p := make(plotter.XYs, len(x))
	for i := range x {
		p[i].X, p[i].Y = x[i], y[i]
	}
	return p
}

// addData adds observed points with error bars to p.
func addData(p *plot.Plot, ep *errPoints, label string) error {
	s, err := plotter.NewScatter(ep.XYs)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = dataColor
	s.GlyphStyle.Radius = vg.Points(1.5)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(s)
	if ep.YErrors != nil {
		yb, err := plotter.NewYErrorBars(ep)
		if err != nil {
			return err
		}
		yb.LineStyle.Color = dataColor
		p.Add(yb)
	}
	if ep.XErrors != nil {
		xb, err := plotter.NewXErrorBars(ep)
		if err != nil {
			return err
		}
		xb.LineStyle.Color = dataColor
		p.Add(xb)
	}
	if label != "" {
		p.Legend.Add(label, s)
	}
	return nil
}

// addModel adds a model line to p.
func addModel(p *plot.Plot, x, y []float64, label string) error {
	l, err := plotter.NewLine(xys(x, y))
	if err != nil {
		return err
	}
	l.LineStyle.Color = modelColor
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

func invert(a *plot.Axis) {
	a.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
}

// SaveFit writes f as two stacked panels, data with model above and
// residuals below, to the PNG file fn.
func SaveFit(fn string, f Fit) error {
	top := plot.New()
	top.Title.Text = f.Title
	top.Y.Label.Text = f.YLabel
	if err := addData(top, newErrPoints(f.T, f.Y, nil, f.YErr), f.DataLabel); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	if err := addModel(top, f.ModelT, f.ModelY, f.ModelLabel); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}

	res := make([]float64, len(f.Y))
	zero := make([]float64, len(f.Y))
	for i := range f.Y {
		res[i] = f.Y[i] - f.ModelAtT[i]
	}
	bottom := plot.New()
	bottom.X.Label.Text = f.XLabel
	bottom.Y.Label.Text = "data - model"
	if err := addData(bottom, newErrPoints(f.T, res, nil, f.YErr), ""); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	if err := addModel(bottom, f.T, zero, ""); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	if f.InvertY {
		invert(&top.Y)
		invert(&bottom.Y)
	}
	// share the time axis
	bottom.X.Min = min(top.X.Min, bottom.X.Min)
	bottom.X.Max = max(top.X.Max, bottom.X.Max)
	top.X.Min, top.X.Max = bottom.X.Min, bottom.X.Max

	return savePlots(fn, [][]*plot.Plot{{top}, {bottom}}, 8*vg.Inch, 8*vg.Inch)
}

// SaveTrack writes the sky track tr to the PNG file fn.  The X axis is
// inverted so east is left.
func SaveTrack(fn string, tr Track) error {
	p := plot.New()
	p.Title.Text = tr.Title
	p.X.Label.Text = `X Pos (")`
	p.Y.Label.Text = `Y Pos (")`
	if err := addModel(p, tr.ModelX, tr.ModelY, "model"); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	if err := addData(p, newErrPoints(tr.X, tr.Y, tr.XErr, tr.YErr), "aligned data"); err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}
	invert(&p.X)
	return savePlots(fn, [][]*plot.Plot{{p}}, 6*vg.Inch, 6*vg.Inch)
}

// savePlots draws a grid of plots to one PNG file.  Nil entries are left
// blank.
func savePlots(fn string, plots [][]*plot.Plot, w, h vg.Length) error {
	img := vgimg.New(w, h)
	dc := draw.New(img)
	t := draw.Tiles{
		Rows: len(plots),
		Cols: len(plots[0]),
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, t, dc)
	for r := range plots {
		for c, p := range plots[r] {
			if p != nil {
				p.Draw(canvases[r][c])
			}
		}
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if _, err = (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}
