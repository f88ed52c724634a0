// Public domain.

// Package kpimage reads combined K' band images of a target field and the
// pixel position of the target marked on them.
package kpimage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/soniakeys/microlens/internal/lensdata"
)

// Image is a two dimensional image.  Pix is row major with row 0 at the
// bottom, as stored in FITS.
type Image struct {
	Nx, Ny int
	Pix    []float64
}

// At returns the pixel value at column x, row y.
func (m *Image) At(x, y int) float64 {
	return m.Pix[y*m.Nx+x]
}

// Path is the combined K' image of target for an observing epoch under root.
func Path(root, epoch, target string) string {
	return filepath.Join(root, epoch, "combo",
		fmt.Sprintf("mag%s_%s_kp.fits", epoch, strings.ToUpper(target)))
}

// CooPath is the coordinate file that goes with the image at Path.
func CooPath(root, epoch, target string) string {
	return strings.TrimSuffix(Path(root, epoch, target), ".fits") + ".coo"
}

// Read reads the primary image of a FITS file.  Integer pixels are scaled
// by BSCALE and BZERO when present.
func Read(r io.Reader) (*Image, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	hdu, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, errors.New("primary HDU is not an image")
	}
	hdr := hdu.Header()
	axes := hdr.Axes()
	if len(axes) != 2 {
		return nil, fmt.Errorf("image has %d axes, want 2", len(axes))
	}
	m := &Image{Nx: axes[0], Ny: axes[1]}
	n := m.Nx * m.Ny
	switch bp := hdr.Bitpix(); bp {
	case 8:
		m.Pix, err = readAs[uint8](hdu, n)
	case 16:
		m.Pix, err = readAs[int16](hdu, n)
	case 32:
		m.Pix, err = readAs[int32](hdu, n)
	case 64:
		m.Pix, err = readAs[int64](hdu, n)
	case -32:
		m.Pix, err = readAs[float32](hdu, n)
	case -64:
		m.Pix, err = readAs[float64](hdu, n)
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bp)
	}
	if err != nil {
		return nil, err
	}
	if hdr.Bitpix() > 0 {
		scale, zero := cardValue(hdr, "BSCALE", 1), cardValue(hdr, "BZERO", 0)
		if scale != 1 || zero != 0 {
			for i, v := range m.Pix {
				m.Pix[i] = v*scale + zero
			}
		}
	}
	return m, nil
}

func readAs[T uint8 | int16 | int32 | int64 | float32 | float64](hdu fitsio.Image, n int) ([]float64, error) {
	raw := make([]T, n)
	if err := hdu.Read(&raw); err != nil {
		return nil, err
	}
	p := make([]float64, n)
	for i, v := range raw {
		p[i] = float64(v)
	}
	return p, nil
}

func cardValue(hdr *fitsio.Header, key string, def float64) float64 {
	c := hdr.Get(key)
	if c == nil {
		return def
	}
	switch v := c.Value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return def
}

// ReadFile reads the FITS image file fn.
func ReadFile(fn string) (*Image, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return m, nil
}

// ReadCoo returns the target pixel position, the first two columns of the
// first row of coordinate file fn.
func ReadCoo(fn string) (x, y float64, err error) {
	cols, err := lensdata.ReadColumnsFile(fn, 2)
	if err != nil {
		return 0, 0, err
	}
	return cols[0][0], cols[1][0], nil
}
