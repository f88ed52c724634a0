// Public domain.

// Package target holds constants for the microlensing events under study.
package target

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/microlens/internal/astro"
)

// ErrUnknown is returned for a target identifier not in the table.
var ErrUnknown = errors.New("unknown target")

// Range bounds a uniform prior.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Target describes one event: where it is on the sky, where its
// photometry lives, and which Keck epochs have been analyzed.
type Target struct {
	ID string
	// OGLE event name, used for the photometry directory and file
	Event  string
	RA     unit.RA
	Dec    unit.Angle
	Epochs []string
	// solver prior overrides, keyed by parameter name
	Priors map[string]Range
}

var table = map[string]*Target{
	"ob150211": {
		ID:     "ob150211",
		Event:  "OGLE-2015-BLG-0211",
		RA:     unit.RAFromHour(17.4906056),
		Dec:    unit.AngleFromDeg(-30.9817500),
		Epochs: []string{"15may05", "15jun07", "15jun28", "15jul23", "16may03", "16jul14", "16aug02"},
		Priors: map[string]Range{
			"mag_base": {16, 18},
			"dL":       {500, 8000},
		},
	},
	"ob140613": {
		ID:     "ob140613",
		Event:  "OGLE-2014-BLG-0613",
		RA:     unit.RAFromHour(17.8993556),
		Dec:    unit.AngleFromDeg(-28.5726667),
		Epochs: []string{"15jun07", "15jun28", "16apr17", "16may24", "16aug02"},
	},
	"ob150029": {
		ID:     "ob150029",
		Event:  "OGLE-2015-BLG-0029",
		RA:     unit.RAFromHour(17.9962778),
		Dec:    unit.AngleFromDeg(-28.6449444),
		Epochs: []string{"15jun07", "15jul23", "16may24", "16jul14"},
	},
}

// Lookup returns a copy of the target with identifier id.
func Lookup(id string) (*Target, error) {
	t, ok := table[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q does not have a listed RA and Dec", ErrUnknown, id)
	}
	c := *t
	c.Epochs = slices.Clone(t.Epochs)
	c.Priors = maps.Clone(t.Priors)
	return &c, nil
}

// IDs lists the known target identifiers in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PhotFile is the OGLE photometry file name relative to the photometry
// root, for example "OB150211/OGLE-2015-BLG-0211.dat".
func (t *Target) PhotFile() string {
	return fmt.Sprintf("%s/%s.dat", strings.ToUpper(t.ID), t.Event)
}

// PointsFile is the name of the aligned astrometry table.
func (t *Target) PointsFile() string {
	return t.ID + ".points"
}

// EpochDates parses the epoch list.
func (t *Target) EpochDates() ([]time.Time, error) {
	d := make([]time.Time, len(t.Epochs))
	for i, e := range t.Epochs {
		var err error
		if d[i], err = astro.ParseEpoch(e); err != nil {
			return nil, fmt.Errorf("target %s epoch %q: %w", t.ID, e, err)
		}
	}
	return d, nil
}
