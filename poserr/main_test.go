// Public domain.

package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/microlens/internal/starlist"
	"github.com/soniakeys/microlens/internal/target"
)

const testList = `ob150029 15.5 2015.4 1000 1000 0.1 0.1 100 0.9
s1       16.2 2015.4 1100 1000 0.2 0.2 50  0.9
s2       18.4 2015.4 1000 1100 1.0 1.0 8   0.8
s3       20.0 2015.4 2000 2000 3.0 3.0 3   0.7
`

func writeLists(t *testing.T, id string) string {
	tg, err := target.Lookup(id)
	require.NoError(t, err)
	root := t.TempDir()
	for _, e := range tg.Epochs {
		fn := starlist.Path(root, e, id)
		require.NoError(t, os.MkdirAll(filepath.Dir(fn), 0o755))
		require.NoError(t, os.WriteFile(fn, []byte(testList), 0o644))
	}
	return root
}

func TestPosErr(t *testing.T) {
	t.Setenv("MICROLENS_CONFIG", "")
	root := writeLists(t, "ob150029")
	out := filepath.Join(t.TempDir(), "plots", "poserr.png")
	var b bytes.Buffer
	err := command(&b).Run(context.Background(),
		[]string{"poserr", "-root", root, "-o", out, "ob150029"})
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// four epochs, two rows of three
	assert.Greater(t, img.Bounds().Dx(), img.Bounds().Dy())

	s := b.String()
	assert.Equal(t, 4, strings.Count(s, "median error"))
	assert.Contains(t, s, "15jun07  2015 Jun 07")
	// stars at 15.5 and 16.2 are brighter than 17 and within 4"
	assert.Contains(t, s, "2 stars with K < 17 within 4\"")
}

func TestPosErrMissingList(t *testing.T) {
	t.Setenv("MICROLENS_CONFIG", "")
	err := command(&bytes.Buffer{}).Run(context.Background(),
		[]string{"poserr", "-root", t.TempDir(), "-o",
			filepath.Join(t.TempDir(), "p.png"), "ob150211"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPosErrUsage(t *testing.T) {
	err := command(&bytes.Buffer{}).Run(context.Background(), []string{"poserr"})
	assert.Error(t, err)
}
