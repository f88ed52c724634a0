// Public domain.

// Package starlist reads starfinder star lists and computes positional
// uncertainty statistics over a field.
package starlist

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/soniakeys/unit"
	"gonum.org/v1/gonum/floats"
)

// Star is one row of a star list.  Positions and their errors are in
// pixels.
type Star struct {
	Name       string
	Mag        float64
	X, Y       float64
	XErr, YErr float64
	SNR        float64
	Corr       float64
}

// columns: name, mag, epoch, x, y, xerr, yerr, snr, corr, ...
const ncol = 9

// Path is the rms star list of target for an observing epoch under root.
func Path(root, epoch, target string) string {
	return filepath.Join(root, epoch, "combo", "starfinder",
		fmt.Sprintf("mag%s_%s_kp_rms.lis", epoch, target))
}

// Read reads a star list.  name is used in error messages.
func Read(r io.Reader, name string) ([]Star, error) {
	var sl []Star
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < ncol {
			return nil, fmt.Errorf("%s line %d: %d columns, need %d",
				name, ln, len(f), ncol)
		}
		var v [ncol]float64
		for c := 1; c < ncol; c++ {
			var err error
			if v[c], err = strconv.ParseFloat(f[c], 64); err != nil {
				return nil, fmt.Errorf("%s line %d column %d: %w", name, ln, c+1, err)
			}
		}
		sl = append(sl, Star{
			Name: f[0],
			Mag:  v[1],
			X:    v[3], Y: v[4],
			XErr: v[5], YErr: v[6],
			SNR:  v[7],
			Corr: v[8],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(sl) == 0 {
		return nil, fmt.Errorf("%s: no stars", name)
	}
	return sl, nil
}

// ReadFile is Read on a named file.
func ReadFile(fn string) ([]Star, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, fn)
}

// Field holds per star quantities derived from a star list.
type Field struct {
	Mag  []float64
	R    []float64 // arc seconds from field center
	Err  []float64 // mean of x and y position errors, mas
	MErr []float64 // photometric error, mag
}

// NewField derives field quantities using plate scale ps.  The field
// center is taken as half the largest x and y, assuming stars are
// detected out to the edges.
func NewField(sl []Star, ps unit.Angle) *Field {
	n := len(sl)
	x := make([]float64, n)
	y := make([]float64, n)
	for i, s := range sl {
		x[i], y[i] = s.X, s.Y
	}
	xh, yh := floats.Max(x)/2, floats.Max(y)/2
	sec := ps.Sec()
	mas := sec * 1000
	f := &Field{
		Mag:  make([]float64, n),
		R:    make([]float64, n),
		Err:  make([]float64, n),
		MErr: make([]float64, n),
	}
	for i, s := range sl {
		f.Mag[i] = s.Mag
		f.R[i] = math.Hypot((s.X-xh)*sec, (s.Y-yh)*sec)
		f.Err[i] = (s.XErr*mas + s.YErr*mas) / 2
		f.MErr[i] = 1.086 / s.SNR
	}
	return f
}

// Bin is the median uncertainty of stars in one bin.  Err and MErr are
// zero for an empty bin.
type Bin struct {
	Center float64
	N      int
	Err    float64
	MErr   float64
}

// Magnitude bins are 1 mag wide centered on 10 through 19.  Radius bins
// are 1 arc second wide centered on .5 through 8.5.
var (
	MagBinCenters    = floats.Span(make([]float64, 10), 10, 19)
	RadiusBinCenters = floats.Span(make([]float64, 9), .5, 8.5)
)

// MagBins bins stars within radius of the field center by magnitude.
func (f *Field) MagBins(radius float64) []Bin {
	return f.bins(MagBinCenters, f.Mag, func(i int) bool { return f.R[i] < radius })
}

// RadiusBins bins stars brighter than magCutoff by distance from the
// field center.
func (f *Field) RadiusBins(magCutoff float64) []Bin {
	return f.bins(RadiusBinCenters, f.R, func(i int) bool { return f.Mag[i] < magCutoff })
}

func (f *Field) bins(centers, v []float64, sel func(int) bool) []Bin {
	b := make([]Bin, len(centers))
	for j, c := range centers {
		b[j].Center = c
		var e, m stats.Float64Data
		for i, vi := range v {
			if vi >= c-.5 && vi < c+.5 && sel(i) {
				e = append(e, f.Err[i])
				m = append(m, f.MErr[i])
			}
		}
		if b[j].N = len(e); b[j].N > 0 {
			b[j].Err, _ = e.Median()
			b[j].MErr, _ = m.Median()
		}
	}
	return b
}

// Median returns the median position error of stars brighter than
// magCutoff within radius, and the number of such stars.
func (f *Field) Median(magCutoff, radius float64) (float64, int, error) {
	var e stats.Float64Data
	for i, r := range f.R {
		if r < radius && f.Mag[i] < magCutoff {
			e = append(e, f.Err[i])
		}
	}
	m, err := stats.Median(e)
	return m, len(e), err
}

// Within returns magnitudes and position errors of stars within radius.
func (f *Field) Within(radius float64) (mag, err []float64) {
	for i, r := range f.R {
		if r < radius {
			mag = append(mag, f.Mag[i])
			err = append(err, f.Err[i])
		}
	}
	return
}
