// Public domain.

// Package posterior reads the weighted posterior samples written by
// MultiNest and reduces them to a best fit and credible intervals.
package posterior

import (
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/wquant"
)

// Suffix is appended to a MultiNest output basename to name the file of
// weighted samples.  Its columns are: sample weight, -2 ln L, then the
// fitted parameters.
const Suffix = ".txt"

// Table is the posterior sample table.  Params[j][i] is the value of
// parameter Names[j] in row i.
type Table struct {
	Names   []string
	Weights []float64
	LogLike []float64
	Params  [][]float64
}

// Params is a named parameter record.
type Params map[string]float64

// Summary holds the reduced posterior of one parameter.
type Summary struct {
	Name string
	Best float64
	wquant.Interval
}

// ReadFile reads MultiNest output for basename.  The number of parameter
// columns must match len(names).
func ReadFile(basename string, names []string) (*Table, error) {
	fn := basename + Suffix
	cols, err := lensdata.ReadColumnsFile(fn, 2+len(names))
	if err != nil {
		return nil, err
	}
	t := &Table{
		Names:   append([]string(nil), names...),
		Weights: cols[0],
		LogLike: cols[1],
		Params:  cols[2:],
	}
	floats.Scale(-.5, t.LogLike)
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return t, nil
}

// Exists reports whether MultiNest output for basename is present.
func Exists(basename string) bool {
	_, err := os.Stat(basename + Suffix)
	return err == nil
}

func (t *Table) validate() error {
	if len(t.Names) != len(t.Params) {
		return fmt.Errorf("%d parameter names, %d columns",
			len(t.Names), len(t.Params))
	}
	if len(t.Weights) == 0 {
		return errors.New("no samples")
	}
	for i, w := range t.Weights {
		if w < 0 {
			return fmt.Errorf("row %d: negative weight %g", i+1, w)
		}
	}
	if floats.Sum(t.Weights) <= 0 {
		return errors.New("weights do not sum positive")
	}
	return nil
}

// Len returns the number of samples.
func (t *Table) Len() int { return len(t.Weights) }

// Column returns the samples of the named parameter.
func (t *Table) Column(name string) ([]float64, bool) {
	for j, n := range t.Names {
		if n == name {
			return t.Params[j], true
		}
	}
	return nil, false
}

// BestRow returns the index of the maximum likelihood sample.
func (t *Table) BestRow() int {
	return floats.MaxIdx(t.LogLike)
}

// BestFit returns the maximum likelihood parameters.
func (t *Table) BestFit() Params {
	i := t.BestRow()
	p := make(Params, len(t.Names))
	for j, n := range t.Names {
		p[n] = t.Params[j][i]
	}
	return p
}

// Summarize returns, for each parameter in table order, the best fit value
// and the weighted median and one sigma credible interval.
func (t *Table) Summarize() ([]Summary, error) {
	best := t.BestFit()
	s := make([]Summary, len(t.Names))
	for j, n := range t.Names {
		iv, err := wquant.CredibleInterval(t.Params[j], t.Weights)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", n, err)
		}
		s[j] = Summary{Name: n, Best: best[n], Interval: iv}
	}
	return s, nil
}
