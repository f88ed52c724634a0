// Public domain.

package fitter

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// PhotLogLike returns the log likelihood of each observed magnitude given
// model magnitudes at the same times and gaussian errors.
func PhotLogLike(mag, magErr, model []float64) []float64 {
	lnL := make([]float64, len(mag))
	for i := range mag {
		lnL[i] = distuv.Normal{Mu: model[i], Sigma: magErr[i]}.LogProb(mag[i])
	}
	return lnL
}

// AstLogLike returns the joint log likelihood of each observed position.
func AstLogLike(x, y, xErr, yErr, mx, my []float64) []float64 {
	lnL := make([]float64, len(x))
	for i := range x {
		lnL[i] = distuv.Normal{Mu: mx[i], Sigma: xErr[i]}.LogProb(x[i]) +
			distuv.Normal{Mu: my[i], Sigma: yErr[i]}.LogProb(y[i])
	}
	return lnL
}

// LikelyPhotometry evaluates m at times t and returns the per-observation
// log likelihood of mag.
func LikelyPhotometry(ctx context.Context, m Model, t, mag, magErr []float64) ([]float64, error) {
	pm, err := m.Photometry(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(pm) != len(mag) {
		return nil, fmt.Errorf("model returned %d magnitudes for %d times", len(pm), len(t))
	}
	return PhotLogLike(mag, magErr, pm), nil
}

// LikelyAstrometry evaluates m at times t and returns the per-observation
// log likelihood of positions x, y.
func LikelyAstrometry(ctx context.Context, m Model, t, x, y, xErr, yErr []float64) ([]float64, error) {
	mx, my, err := m.Astrometry(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(mx) != len(x) || len(my) != len(y) {
		return nil, fmt.Errorf("model returned %d positions for %d times", len(mx), len(t))
	}
	return AstLogLike(x, y, xErr, yErr, mx, my), nil
}
