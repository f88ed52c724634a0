// Public domain.

package lcplot

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Field is an image of a target field with the target marked.
type Field struct {
	Name   string
	Nx, Ny int
	Pix    []float64 // row major, row 0 at the bottom
	X, Y   float64   // target pixel position
	// length in pixels of a 2" scale bar
	ScaleBar float64
}

// window of the image shown, in pixels
const (
	winXMin, winXMax = 30, 1100
	winYMin, winYMax = 40, 1060
)

// grey scale limits, logarithmic
const (
	greyMin, greyMax = 1., 1e4
)

var (
	markColor  = color.RGBA{R: 255, A: 255}
	scaleColor = color.RGBA{R: 255, B: 255, A: 255}
)

// SaveStarfield writes fields side by side to the PNG file fn, each a
// negative grey scale image with the target and a scale bar marked.
func SaveStarfield(fn string, fields []Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("%s: no fields", fn)
	}
	row := make([]*plot.Plot, len(fields))
	for i := range fields {
		p, err := fields[i].plot()
		if err != nil {
			return fmt.Errorf("%s %s: %w", fn, fields[i].Name, err)
		}
		row[i] = p
	}
	return savePlots(fn, [][]*plot.Plot{row}, vg.Length(len(fields))*5*vg.Inch, 5*vg.Inch)
}

func (f *Field) plot() (*plot.Plot, error) {
	if f.Nx <= 0 || f.Ny <= 0 || len(f.Pix) != f.Nx*f.Ny {
		return nil, fmt.Errorf("image %dx%d with %d pixels", f.Nx, f.Ny, len(f.Pix))
	}
	x0, x1 := max(winXMin, 0), min(winXMax, f.Nx)
	y0, y1 := max(winYMin, 0), min(winYMax, f.Ny)
	if x0 >= x1 || y0 >= y1 {
		return nil, fmt.Errorf("image %dx%d outside of window", f.Nx, f.Ny)
	}
	p := plot.New()
	p.Add(plotter.NewImage(f.grey(x0, x1, y0, y1),
		float64(x0), float64(y0), float64(x1), float64(y1)))

	mark, err := plotter.NewLine(plotter.XYs{{X: f.X + 100, Y: f.Y - 100}, {X: f.X, Y: f.Y}})
	if err != nil {
		return nil, err
	}
	mark.LineStyle.Color = markColor
	bar, err := plotter.NewLine(plotter.XYs{{X: 150, Y: 100}, {X: 150 + f.ScaleBar, Y: 100}})
	if err != nil {
		return nil, err
	}
	bar.LineStyle.Color = scaleColor
	bar.LineStyle.Width = vg.Points(2)
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: f.X + 100, Y: f.Y - 150},
			{X: 150 + f.ScaleBar/2 - 12, Y: 125},
		},
		Labels: []string{f.Name, `2"`},
	})
	if err != nil {
		return nil, err
	}
	labels.TextStyle[0].Color = markColor
	labels.TextStyle[1].Color = scaleColor
	p.Add(mark, bar, labels)

	p.X.Min, p.X.Max = winXMin, winXMax
	p.Y.Min, p.Y.Max = winYMin, winYMax
	p.HideAxes()
	return p, nil
}

// grey renders columns x0 to x1 and rows y0 to y1 of the field.  Counts
// map logarithmically from white at greyMin to black at greyMax.
func (f *Field) grey(x0, x1, y0, y1 int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, x1-x0, y1-y0))
	lo, hi := math.Log10(greyMin), math.Log10(greyMax)
	for y := y0; y < y1; y++ {
		// image rows go down
		r := y1 - 1 - y
		for x := x0; x < x1; x++ {
			v := f.Pix[y*f.Nx+x]
			t := 0.
			if v > 0 {
				t = (math.Log10(v) - lo) / (hi - lo)
				t = min(max(t, 0), 1)
			}
			g.SetGray(x-x0, r, color.Gray{Y: uint8(math.Round(255 * (1 - t)))})
		}
	}
	return g
}
