// Public domain.

package lensdata_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/microlens/internal/astro"
	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/target"
)

const photData = `# HJD I Ierr seeing sky
2457000.5 17.012 0.011 1.2 500
2457001.5 16.950 0.010 1.1 480

2457002.5 16.801 0.009 1.0 470
`

const pointsData = `2015.3 100.0 200.0 0.10 0.20 5
2015.5 110.0 190.0 0.20 0.10 5
2016.5 120.0 180.0 0.30 0.30 5
`

func writeTables(t *testing.T, tg *target.Target) lensdata.Paths {
	dir := t.TempDir()
	p := lensdata.Paths{
		PhotDir:   filepath.Join(dir, "phot"),
		PointsDir: filepath.Join(dir, "points_d"),
	}
	phot := filepath.Join(p.PhotDir, tg.PhotFile())
	require.NoError(t, os.MkdirAll(filepath.Dir(phot), 0o755))
	require.NoError(t, os.WriteFile(phot, []byte(photData), 0o644))
	require.NoError(t, os.MkdirAll(p.PointsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p.PointsDir, tg.PointsFile()),
		[]byte(pointsData), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	tg, err := target.Lookup("ob150211")
	require.NoError(t, err)
	rec, err := lensdata.Load(tg, writeTables(t, tg), false)
	require.NoError(t, err)

	assert.Equal(t, []float64{57000, 57001, 57002}, rec.TPhot)
	assert.Equal(t, []float64{17.012, 16.950, 16.801}, rec.Mag)
	assert.Equal(t, []float64{.011, .010, .009}, rec.MagErr)

	require.True(t, rec.HasAstrometry())
	require.Len(t, rec.TAst, 3)
	assert.InDelta(t, astro.YearToMJD(2015.3), rec.TAst[0], 1e-9)
	assert.InDeltaSlice(t, []float64{0, .0995, .199}, rec.XPos, 1e-12)
	assert.InDeltaSlice(t, []float64{0, -.0995, -.199}, rec.YPos, 1e-12)
	assert.InDeltaSlice(t, []float64{.000995, .00199, .002985}, rec.XPosErr, 1e-12)
	assert.InDeltaSlice(t, []float64{.00199, .000995, .002985}, rec.YPosErr, 1e-12)
	assert.Equal(t, tg.RA, rec.RA)
	assert.Equal(t, tg.Dec, rec.Dec)
}

func TestLoadPhotOnly(t *testing.T) {
	tg, _ := target.Lookup("ob140613")
	p := writeTables(t, tg)
	require.NoError(t, os.Remove(filepath.Join(p.PointsDir, tg.PointsFile())))
	rec, err := lensdata.Load(tg, p, true)
	require.NoError(t, err)
	assert.False(t, rec.HasAstrometry())
	assert.Len(t, rec.TPhot, 3)
}

func TestLoadMissingPoints(t *testing.T) {
	tg, _ := target.Lookup("ob140613")
	p := writeTables(t, tg)
	require.NoError(t, os.Remove(filepath.Join(p.PointsDir, tg.PointsFile())))
	_, err := lensdata.Load(tg, p, false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadColumnsErrors(t *testing.T) {
	for _, c := range []struct {
		name, data, msg string
	}{
		{"short", "1 2 3\n4 5\n", "line 2: 2 columns"},
		{"nonnumeric", "1 2 x\n", "line 1 column 3"},
		{"empty", "# only a comment\n\n", "no data rows"},
	} {
		t.Run(c.name, func(t *testing.T) {
			_, err := lensdata.ReadColumns(strings.NewReader(c.data), "tbl", 3)
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func TestLoadUnordered(t *testing.T) {
	tg, _ := target.Lookup("ob150029")
	p := writeTables(t, tg)
	fn := filepath.Join(p.PhotDir, tg.PhotFile())
	require.NoError(t, os.WriteFile(fn, []byte("2457002 17 .01\n2457001 17 .01\n"), 0o644))
	_, err := lensdata.Load(tg, p, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precedes")
}
