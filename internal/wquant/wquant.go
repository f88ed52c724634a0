// Public domain.

// Package wquant computes quantiles of weighted empirical distributions,
// such as the importance-weighted samples written by a nested sampler,
// and reduces them to credible intervals.
package wquant

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Credible levels corresponding to one, two and three standard deviations
// of a normal distribution.
const (
	Sigma1 = .682689
	Sigma2 = .9545
	Sigma3 = .9973
)

// ErrInvalidInput is wrapped by all validation failures.
var ErrInvalidInput = errors.New("wquant: invalid input")

// Interval is a credible interval expressed as a median with distances
// to the lower and upper bounds.  Both deltas are non-negative.
type Interval struct {
	Median, Lo, Hi float64
}

// Quantiles returns the value at each probability in probs of the
// empirical distribution where samples[i] carries weight weights[i].
//
// Weights need not be normalized.  For 0 < q < 1 the result is the first
// sample in sorted order at which the cumulative weight reaches q.
// Probabilities 0 and 1 give the smallest and largest sample regardless
// of weight.
//
// Samples and weights are not modified.
func Quantiles(samples, weights, probs []float64) ([]float64, error) {
	d, err := newDist(samples, weights)
	if err != nil {
		return nil, err
	}
	q := make([]float64, len(probs))
	for i, p := range probs {
		if !(p >= 0 && p <= 1) {
			return nil, fmt.Errorf("%w: probability %g outside [0,1]",
				ErrInvalidInput, p)
		}
		q[i] = d.quantile(p)
	}
	return q, nil
}

// CredibleInterval returns the median and the one sigma credible interval.
func CredibleInterval(samples, weights []float64) (Interval, error) {
	return CredibleIntervalLevel(samples, weights, Sigma1)
}

// CredibleIntervalLevel returns the median and the central credible
// interval containing fraction level of the weight.
func CredibleIntervalLevel(samples, weights []float64, level float64) (Interval, error) {
	if !(level > 0 && level < 1) {
		return Interval{}, fmt.Errorf("%w: credible level %g outside (0,1)",
			ErrInvalidInput, level)
	}
	lo := (1 - level) / 2
	q, err := Quantiles(samples, weights, []float64{.5, lo, 1 - lo})
	if err != nil {
		return Interval{}, err
	}
	return Interval{
		Median: q[0],
		Lo:     q[0] - q[1],
		Hi:     q[2] - q[0],
	}, nil
}

// dist is a validated, sorted, normalized weighted distribution.
type dist struct {
	x, w []float64
	cum  float64 // weight accumulated in sorted order
}

func newDist(samples, weights []float64) (*dist, error) {
	switch {
	case len(samples) == 0:
		return nil, fmt.Errorf("%w: no samples", ErrInvalidInput)
	case len(samples) != len(weights):
		return nil, fmt.Errorf("%w: %d samples, %d weights",
			ErrInvalidInput, len(samples), len(weights))
	case floats.HasNaN(samples):
		return nil, fmt.Errorf("%w: NaN sample", ErrInvalidInput)
	}
	for i, wt := range weights {
		if !(wt >= 0) || math.IsInf(wt, 1) {
			return nil, fmt.Errorf("%w: weight %d is %g",
				ErrInvalidInput, i, wt)
		}
	}
	top := floats.Max(weights)
	if top == 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidInput)
	}
	d := &dist{
		x: append([]float64(nil), samples...),
		w: make([]float64, len(weights)),
	}
	// scaling by the largest weight first keeps the sum finite and
	// subnormal weights representable
	for i, wt := range weights {
		d.w[i] = wt / top
	}
	sum := floats.Sum(d.w)
	for i := range d.w {
		d.w[i] /= sum
	}
	stat.SortWeighted(d.x, d.w)
	c := floats.CumSum(make([]float64, len(d.w)), d.w)
	d.cum = c[len(c)-1]
	return d, nil
}

func (d *dist) quantile(p float64) float64 {
	last := d.x[len(d.x)-1]
	switch {
	case p == 0:
		return d.x[0]
	case p == 1:
		return last
	case p*floats.Sum(d.w) > d.cum:
		// rounding left the running total short of the threshold
		return last
	}
	return stat.Quantile(p, stat.Empirical, d.x, d.w)
}
