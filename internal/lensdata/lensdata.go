// Public domain.

// Package lensdata loads the observations of a microlensing target:
// OGLE photometry and Keck astrometry aligned across epochs.
package lensdata

import (
	"fmt"
	"path/filepath"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/microlens/internal/astro"
	"github.com/soniakeys/microlens/internal/target"
)

// Record holds the observations of one target.  Times are MJD, magnitudes
// are OGLE I, positions and their errors are arc seconds relative to the
// first astrometric epoch.
//
// Each series is ordered by its own time axis.  Photometric and
// astrometric series are independent and generally differ in length.
type Record struct {
	TPhot  []float64 `json:"t_phot"`
	Mag    []float64 `json:"mag"`
	MagErr []float64 `json:"mag_err"`

	TAst    []float64 `json:"t_ast,omitempty"`
	XPos    []float64 `json:"xpos,omitempty"`
	YPos    []float64 `json:"ypos,omitempty"`
	XPosErr []float64 `json:"xpos_err,omitempty"`
	YPosErr []float64 `json:"ypos_err,omitempty"`

	RA  unit.RA    `json:"-"`
	Dec unit.Angle `json:"-"`
}

// Paths locates input tables.
type Paths struct {
	PhotDir   string     // root of OGLE photometry, one subdirectory per target
	PointsDir string     // directory of aligned .points tables
	Scale     unit.Angle // plate scale, per pixel
}

// Load reads photometry and astrometry of target t.  With photOnly the
// points table is not read.
func Load(t *target.Target, p Paths, photOnly bool) (*Record, error) {
	rec := &Record{RA: t.RA, Dec: t.Dec}
	if err := rec.readPhot(filepath.Join(p.PhotDir, t.PhotFile())); err != nil {
		return nil, err
	}
	if photOnly {
		return rec, nil
	}
	scale := p.Scale
	if scale == 0 {
		scale = astro.PlateScale
	}
	if err := rec.readPoints(filepath.Join(p.PointsDir, t.PointsFile()), scale); err != nil {
		return nil, err
	}
	return rec, nil
}

// HasAstrometry reports whether astrometric series were loaded.
func (r *Record) HasAstrometry() bool {
	return len(r.TAst) > 0
}

// columns: HJD, I mag, mag error
func (r *Record) readPhot(fn string) error {
	c, err := ReadColumnsFile(fn, 3)
	if err != nil {
		return fmt.Errorf("photometry: %w", err)
	}
	r.TPhot = c[0]
	for i, hjd := range r.TPhot {
		r.TPhot[i] = astro.HJDToMJD(hjd)
	}
	r.Mag, r.MagErr = c[1], c[2]
	if err := ordered(r.TPhot); err != nil {
		return fmt.Errorf("photometry %s: %w", fn, err)
	}
	return nil
}

// columns: decimal year, x, y, x error, y error.  x, y in pixels.
func (r *Record) readPoints(fn string, scale unit.Angle) error {
	c, err := ReadColumnsFile(fn, 5)
	if err != nil {
		return fmt.Errorf("astrometry: %w", err)
	}
	r.TAst = c[0]
	for i, y := range r.TAst {
		r.TAst[i] = astro.YearToMJD(y)
	}
	if err := ordered(r.TAst); err != nil {
		return fmt.Errorf("astrometry %s: %w", fn, err)
	}
	x0, y0 := c[1][0], c[2][0]
	for i := range r.TAst {
		c[1][i] = astro.PixToSec(c[1][i]-x0, scale)
		c[2][i] = astro.PixToSec(c[2][i]-y0, scale)
		c[3][i] = astro.PixToSec(c[3][i], scale)
		c[4][i] = astro.PixToSec(c[4][i], scale)
	}
	r.XPos, r.YPos, r.XPosErr, r.YPosErr = c[1], c[2], c[3], c[4]
	return nil
}

func ordered(t []float64) error {
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return fmt.Errorf("row %d: time %g precedes %g", i+1, t[i], t[i-1])
		}
	}
	return nil
}
