// Public domain.

package lensdata

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadColumns reads a whitespace delimited numeric table and returns its
// first ncol columns.  Blank lines and lines starting with # are skipped.
// Additional columns are ignored.  Short rows and cells that do not parse
// as numbers are errors; name is used in error messages.
func ReadColumns(r io.Reader, name string, ncol int) ([][]float64, error) {
	cols := make([][]float64, ncol)
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
		for c := range cols {
			v, err := strconv.ParseFloat(f[c], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %d: %w",
					name, ln, c+1, err)
			}
			cols[c] = append(cols[c], v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(cols[0]) == 0 {
		return nil, fmt.Errorf("%s: no data rows", name)
	}
	return cols, nil
}

// ReadColumnsFile is ReadColumns on a named file.
func ReadColumnsFile(fn string, ncol int) ([][]float64, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadColumns(f, fn, ncol)
}
