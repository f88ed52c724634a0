// Public domain.

// Package astro, time and angle conversions used across microlens.
package astro

import (
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/unit"
)

// PlateScale is the NIRC2 narrow camera pixel scale.
var PlateScale = unit.AngleFromSec(.00995)

// jdMod is the Julian date of MJD zero.
const jdMod = 2400000.5

// yearMJD0 is the offset used to place decimal years of the astrometric
// alignment on the MJD axis.  It is approximate, as are the alignment
// epochs themselves.
const yearMJD0 = 678943.

// HJDToMJD converts a heliocentric Julian date, as published by OGLE,
// to an approximate MJD.  The heliocentric correction is ignored.
func HJDToMJD(hjd float64) float64 {
	return hjd - jdMod
}

// YearToMJD converts a decimal year of an astrometric epoch to MJD.
func YearToMJD(year float64) float64 {
	return year*base.JulianYear - yearMJD0
}

// TimeToMJD converts a calendar time to MJD.
func TimeToMJD(t time.Time) float64 {
	return julian.TimeToJD(t) - jdMod
}

// PixToSec scales a pixel offset to arc seconds using plate scale ps.
func PixToSec(pix float64, ps unit.Angle) float64 {
	return pix * ps.Sec()
}

// epochLayout is the layout of observing epoch names such as "15jun07".
const epochLayout = "06Jan02"

// ParseEpoch parses an observing epoch name, for example "15may05".
func ParseEpoch(e string) (time.Time, error) {
	return time.Parse(epochLayout, e)
}
