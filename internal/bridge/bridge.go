// Public domain.

// Package bridge implements the fitter Solver and Model capabilities by
// running an external modeling program.
//
// The program is invoked as
//
//	<command...> solve --variant <solver> --basename <basename> --data <file>
//	<command...> plot-posteriors --variant <solver> --basename <basename>
//	<command...> evaluate --variant <solver>
//
// Solve writes MultiNest output under basename.  Evaluate reads an
// evalRequest as JSON on stdin and writes an evalResponse as JSON on
// stdout.  Posterior samples are read directly from the MultiNest output.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/soniakeys/microlens/internal/fitter"
	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/posterior"
	"github.com/soniakeys/microlens/internal/target"
)

// DataSuffix names the data file written for the solver.
const DataSuffix = "data.json"

// Solver runs one variant of the external solver.
type Solver struct {
	command  []string
	variant  fitter.Variant
	data     *lensdata.Record
	basename string
	priors   map[string]target.Range
	log      zerolog.Logger

	table *posterior.Table
}

// Factory returns a fitter.NewSolverFunc running command.
func Factory(command []string, log zerolog.Logger) fitter.NewSolverFunc {
	return func(v fitter.Variant, rec *lensdata.Record, basename string,
		priors map[string]target.Range) fitter.Solver {
		return &Solver{
			command:  command,
			variant:  v,
			data:     rec,
			basename: basename,
			priors:   priors,
			log:      log.With().Str("solver", v.SolverName()).Logger(),
		}
	}
}

// solveInput is the content of the data file.
type solveInput struct {
	*lensdata.Record
	RAHour float64                 `json:"raL"`
	DecDeg float64                 `json:"decL"`
	Params []string                `json:"params"`
	Priors map[string]target.Range `json:"priors,omitempty"`
}

func (s *Solver) writeData() (string, error) {
	if s.data == nil {
		return "", errors.New("no data to solve")
	}
	b, err := json.Marshal(solveInput{
		Record: s.data,
		RAHour: s.data.RA.Hour(),
		DecDeg: s.data.Dec.Deg(),
		Params: s.variant.Params(),
		Priors: s.priors,
	})
	if err != nil {
		return "", err
	}
	fn := s.basename + DataSuffix
	return fn, os.WriteFile(fn, b, 0o644)
}

// Solve writes the data file and runs the solver to completion.
func (s *Solver) Solve(ctx context.Context) error {
	fn, err := s.writeData()
	if err != nil {
		return err
	}
	s.table = nil
	return s.run(ctx, nil, nil, "solve",
		"--variant", s.variant.SolverName(),
		"--basename", s.basename,
		"--data", fn)
}

// PlotPosteriors has the solver plot marginal posteriors of its last run.
func (s *Solver) PlotPosteriors(ctx context.Context) error {
	return s.run(ctx, nil, nil, "plot-posteriors",
		"--variant", s.variant.SolverName(),
		"--basename", s.basename)
}

// PosteriorTable reads the weighted samples of the last run.  The table
// is read once and cached.
func (s *Solver) PosteriorTable() (*posterior.Table, error) {
	if s.table != nil {
		return s.table, nil
	}
	t, err := posterior.ReadFile(s.basename, s.variant.Params())
	if err != nil {
		return nil, err
	}
	s.table = t
	return t, nil
}

// BestFit returns the maximum likelihood sample.
func (s *Solver) BestFit() (posterior.Params, error) {
	t, err := s.PosteriorTable()
	if err != nil {
		return nil, err
	}
	return t.BestFit(), nil
}

// BestFitModel returns the model at the best fit parameters.
func (s *Solver) BestFitModel(ctx context.Context) (fitter.Model, error) {
	p, err := s.BestFit()
	if err != nil {
		return nil, err
	}
	return &Model{s: s, params: p}, nil
}

// run runs the command with args appended.  Stdout goes to out if not
// nil, otherwise it is logged along with stderr.
func (s *Solver) run(ctx context.Context, in []byte, out *bytes.Buffer, args ...string) error {
	if len(s.command) == 0 {
		return errors.New("no solver command configured")
	}
	c := exec.CommandContext(ctx, s.command[0],
		append(append([]string(nil), s.command[1:]...), args...)...)
	if in != nil {
		c.Stdin = bytes.NewReader(in)
	}
	if out != nil {
		c.Stdout = out
	} else {
		c.Stdout = s.log
	}
	var stderr bytes.Buffer
	c.Stderr = &stderr
	s.log.Debug().Strs("args", c.Args).Msg("exec")
	if err := c.Run(); err != nil {
		if stderr.Len() > 0 {
			s.log.Error().Str("stderr", stderr.String()).Msg(args[0])
		}
		return fmt.Errorf("%s %s: %w", s.command[0], args[0], err)
	}
	if stderr.Len() > 0 {
		s.log.Warn().Str("stderr", stderr.String()).Msg(args[0])
	}
	return nil
}
