// Public domain.

package astro_test

import (
	"math"
	"testing"
	"time"

	"github.com/soniakeys/microlens/internal/astro"
)

func TestHJDToMJD(t *testing.T) {
	if got := astro.HJDToMJD(2457000.5); got != 57000 {
		t.Fatal("HJDToMJD(2457000.5) =", got)
	}
}

func TestYearToMJD(t *testing.T) {
	got := astro.YearToMJD(2015.5)
	if math.Abs(got-57218.375) > 1e-9 {
		t.Fatal("YearToMJD(2015.5) =", got)
	}
}

func TestTimeToMJD(t *testing.T) {
	got := astro.TimeToMJD(time.Date(1858, 11, 17, 0, 0, 0, 0, time.UTC))
	if math.Abs(got) > 1e-9 {
		t.Fatal("MJD epoch =", got)
	}
}

func TestPixToSec(t *testing.T) {
	if got := astro.PixToSec(100, astro.PlateScale); math.Abs(got-.995) > 1e-12 {
		t.Fatal("100 pixels =", got, "arcsec")
	}
}

func TestParseEpoch(t *testing.T) {
	for _, c := range []struct {
		epoch string
		want  string
	}{
		{"15may05", "2015 May 05"},
		{"16aug02", "2016 Aug 02"},
		{"15jun07", "2015 Jun 07"},
	} {
		d, err := astro.ParseEpoch(c.epoch)
		if err != nil {
			t.Fatal(err)
		}
		if got := d.Format("2006 Jan 02"); got != c.want {
			t.Errorf("%s: got %s, want %s", c.epoch, got, c.want)
		}
	}
	if _, err := astro.ParseEpoch("15xyz07"); err == nil {
		t.Fatal("expected error for bad month")
	}
}
