// Public domain.

package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/soniakeys/microlens/internal/posterior"
	"github.com/soniakeys/microlens/internal/report"
	"github.com/soniakeys/microlens/internal/wquant"
)

var summary = []posterior.Summary{
	{Name: "t0", Best: 57123.4567, Interval: wquant.Interval{Median: 57123.5, Lo: .25, Hi: .75}},
	{Name: "tE", Best: 41.2, Interval: wquant.Interval{Median: 40.9, Lo: 1.5, Hi: 2}},
}

func TestWriteText(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, report.WriteText(&b, summary))
	want := "                       best      median\n" +
		"             t0   57123.457   57123.500 +      0.750 -      0.250\n" +
		"             tE      41.200      40.900 +      2.000 -      1.500\n"
	assert.Equal(t, want, b.String())
}

func TestWriteTextFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "aa_final.txt")
	require.NoError(t, report.WriteTextFile(fn, summary))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(b), "\n"))
}

func TestWriteXLSX(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "aa_final.xlsx")
	lnL := -1.25
	h := report.Header{
		Target:  "ob150211",
		Variant: "pspl_phot",
		RA:      unit.RAFromHour(17.4906056),
		Dec:     unit.AngleFromDeg(-30.98175),
		LnL:     &lnL,
		Samples: 5,
	}
	require.NoError(t, report.WriteXLSX(fn, h, summary))

	f, err := excelize.OpenFile(fn)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 9)
	assert.Equal(t, []string{"target", "ob150211"}, rows[0])
	assert.Equal(t, "parameter", rows[6][0])
	assert.Equal(t, "tE", rows[8][0])
	assert.Equal(t, "40.9", rows[8][2])
}
