// Public domain.

package bridge

import (
	"bytes"
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/soniakeys/microlens/internal/fitter"
	"github.com/soniakeys/microlens/internal/posterior"
)

// Model evaluates a fitted model through the external program.
type Model struct {
	s      *Solver
	params posterior.Params
}

type evalRequest struct {
	Params posterior.Params `json:"params"`
	RAHour float64          `json:"raL"`
	DecDeg float64          `json:"decL"`
	TPhot  []float64        `json:"t_phot,omitempty"`
	TAst   []float64        `json:"t_ast,omitempty"`
}

type evalResponse struct {
	Mag []float64 `json:"mag"`
	X   []float64 `json:"x"`
	Y   []float64 `json:"y"`
}

// Params returns the parameters the model was constructed with.
func (m *Model) Params() posterior.Params { return m.params }

// Photometry returns model magnitudes at times t.
func (m *Model) Photometry(ctx context.Context, t []float64) ([]float64, error) {
	r, err := m.evaluate(ctx, evalRequest{TPhot: t})
	if err != nil {
		return nil, err
	}
	if len(r.Mag) != len(t) {
		return nil, fmt.Errorf("evaluate: %d magnitudes for %d times", len(r.Mag), len(t))
	}
	return r.Mag, nil
}

// Astrometry returns model positions at times t, in arc seconds.
func (m *Model) Astrometry(ctx context.Context, t []float64) (x, y []float64, err error) {
	if !m.s.variant.Astrometric() {
		return nil, nil, fitter.ErrNoAstrometry
	}
	r, err := m.evaluate(ctx, evalRequest{TAst: t})
	if err != nil {
		return nil, nil, err
	}
	if len(r.X) != len(t) || len(r.Y) != len(t) {
		return nil, nil, fmt.Errorf("evaluate: %d, %d positions for %d times",
			len(r.X), len(r.Y), len(t))
	}
	return r.X, r.Y, nil
}

func (m *Model) evaluate(ctx context.Context, req evalRequest) (*evalResponse, error) {
	req.Params = m.params
	if d := m.s.data; d != nil {
		req.RAHour, req.DecDeg = d.RA.Hour(), d.Dec.Deg()
	}
	in, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := m.s.run(ctx, in, &out, "evaluate",
		"--variant", m.s.variant.SolverName()); err != nil {
		return nil, err
	}
	var r evalResponse
	if err := json.Unmarshal(out.Bytes(), &r); err != nil {
		return nil, fmt.Errorf("evaluate response: %w", err)
	}
	return &r, nil
}
