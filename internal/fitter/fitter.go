// Public domain.

// Package fitter runs point source point lens fits of microlensing
// targets through an external solver and reports the results.
package fitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soniakeys/microlens/internal/lcplot"
	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/posterior"
	"github.com/soniakeys/microlens/internal/report"
	"github.com/soniakeys/microlens/internal/target"
)

var (
	// ErrNotRun is returned when reusing a fit whose output directory
	// does not exist.
	ErrNotRun = errors.New("this model has not been run yet")
	// ErrNoAstrometry is returned by models of photometry only variants.
	ErrNoAstrometry = errors.New("model has no astrometry")
)

// Solver is the capability of an external nested sampling solver bound
// to a data record and an output basename.
type Solver interface {
	// Solve runs the sampler.  It blocks until the solver has written
	// its output files.
	Solve(ctx context.Context) error
	PlotPosteriors(ctx context.Context) error
	PosteriorTable() (*posterior.Table, error)
	BestFit() (posterior.Params, error)
	BestFitModel(ctx context.Context) (Model, error)
}

// Model is a lens model that can be evaluated at arbitrary times.
type Model interface {
	Photometry(ctx context.Context, t []float64) ([]float64, error)
	// Astrometry returns ErrNoAstrometry for photometry only variants.
	Astrometry(ctx context.Context, t []float64) (x, y []float64, err error)
}

// NewSolverFunc constructs a Solver.  Priors are nil unless the solver is
// about to be run.
type NewSolverFunc func(v Variant, rec *lensdata.Record, basename string,
	priors map[string]target.Range) Solver

// Fitter orchestrates fits.
type Fitter struct {
	newSolver NewSolverFunc
	log       zerolog.Logger
}

// New creates a Fitter that obtains solvers from newSolver.
func New(newSolver NewSolverFunc, log zerolog.Logger) *Fitter {
	return &Fitter{newSolver: newSolver, log: log}
}

// Options select what to fit and where results go.
type Options struct {
	Target   *target.Target
	Data     *lensdata.Record
	AlignDir string // root of the fit output directories
	Runcode  string // prefix of output files, for example "aa_"
	Parallax bool
	PhotOnly bool
	Solve    bool // false reuses the output of a previous run
	NoXLSX   bool
}

// Result describes a completed fit.
type Result struct {
	Variant  Variant
	Dir      string
	Basename string
	LnL      float64 // zero when the model was not evaluated
	Summary  []posterior.Summary
	Files    []string // written by this package

	evaluated bool
}

func (o *Options) variant() Variant {
	return Select(o.Parallax, o.PhotOnly)
}

// Evaluated reports whether the best fit model was evaluated against the
// data, so that LnL is meaningful.
func (r *Result) Evaluated() bool { return r.evaluated }

// Run fits, or reuses a previous fit of, o.Target, then writes plots and
// the summary.
func (f *Fitter) Run(ctx context.Context, o Options) (*Result, error) {
	v := o.variant()
	r := &Result{Variant: v, Dir: filepath.Join(o.AlignDir, v.Dir())}
	r.Basename = filepath.Join(r.Dir, o.Runcode)
	log := f.log.With().Str("target", o.Target.ID).Stringer("model", v).Logger()

	if o.Data == nil || len(o.Data.TPhot) == 0 {
		return nil, errors.New("fit: no photometry")
	}
	if v.Astrometric() && !o.Data.HasAstrometry() {
		return nil, fmt.Errorf("fit: model %s needs astrometry", v)
	}

	var priors map[string]target.Range
	if o.Solve {
		priors = o.Target.Priors
	}
	s := f.newSolver(v, o.Data, r.Basename, priors)
	if o.Solve {
		if err := os.MkdirAll(r.Dir, 0o755); err != nil {
			return nil, err
		}
		log.Info().Str("basename", r.Basename).Msg("solving")
		if err := s.Solve(ctx); err != nil {
			return nil, fmt.Errorf("solve: %w", err)
		}
		if err := s.PlotPosteriors(ctx); err != nil {
			return nil, fmt.Errorf("plot posteriors: %w", err)
		}
	}
	if _, err := os.Stat(r.Dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRun, r.Dir)
	}

	m, err := s.BestFitModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("best fit model: %w", err)
	}
	ev, err := evaluate(ctx, m, o.Data, v.Astrometric())
	if err != nil {
		return nil, err
	}
	r.LnL, r.evaluated = ev.lnL(), true
	log.Info().Float64("lnL", r.LnL).Msg("best fit")

	plotDir := filepath.Join(r.Dir, "plots")
	if err := os.MkdirAll(plotDir, 0o755); err != nil {
		return nil, err
	}
	files, err := ev.plot(plotDir, o.Target.ID)
	r.Files = append(r.Files, files...)
	if err != nil {
		return nil, err
	}
	if err := f.summarize(s, o, r); err != nil {
		return nil, err
	}
	log.Info().Strs("files", r.Files).Msg("done")
	return r, nil
}

// Summarize writes the summary of a previous run without evaluating the
// model or plotting.
func (f *Fitter) Summarize(ctx context.Context, o Options) (*Result, error) {
	v := o.variant()
	r := &Result{Variant: v, Dir: filepath.Join(o.AlignDir, v.Dir())}
	r.Basename = filepath.Join(r.Dir, o.Runcode)
	if _, err := os.Stat(r.Dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotRun, r.Dir)
	}
	s := f.newSolver(v, o.Data, r.Basename, nil)
	if err := f.summarize(s, o, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (f *Fitter) summarize(s Solver, o Options, r *Result) error {
	tab, err := s.PosteriorTable()
	if err != nil {
		return err
	}
	best, err := s.BestFit()
	if err != nil {
		return err
	}
	if r.Summary, err = tab.Summarize(); err != nil {
		return err
	}
	for i := range r.Summary {
		if b, ok := best[r.Summary[i].Name]; ok {
			r.Summary[i].Best = b
		}
	}
	f.log.Debug().Int("samples", tab.Len()).
		Float64("maxLogLike", floats.Max(tab.LogLike)).
		Float64("meanLogLike", stat.Mean(tab.LogLike, tab.Weights)).
		Msg("posterior")

	fn := r.Basename + "final.txt"
	if err := report.WriteTextFile(fn, r.Summary); err != nil {
		return err
	}
	r.Files = append(r.Files, fn)
	if o.NoXLSX {
		return nil
	}
	h := report.Header{
		Target:  o.Target.ID,
		Variant: r.Variant.String(),
		RA:      o.Target.RA,
		Dec:     o.Target.Dec,
		Samples: tab.Len(),
	}
	if r.evaluated {
		h.LnL = &r.LnL
	}
	fn = r.Basename + "final.xlsx"
	if err := report.WriteXLSX(fn, h, r.Summary); err != nil {
		return err
	}
	r.Files = append(r.Files, fn)
	return nil
}

// evaluation holds the model evaluated for one data record.
type evaluation struct {
	d *lensdata.Record

	tGrid, magGrid []float64 // smooth curve over the photometric span
	mag            []float64 // at photometric times
	lnLPhot        []float64

	x, y   []float64 // at astrometric times, nil for photometry only
	lnLAst []float64
}

func evaluate(ctx context.Context, m Model, d *lensdata.Record, ast bool) (*evaluation, error) {
	ev := &evaluation{d: d}
	// twice the data density for a smooth model curve
	ev.tGrid = floats.Span(make([]float64, 2*len(d.TPhot)),
		floats.Min(d.TPhot), floats.Max(d.TPhot))
	var err error
	if ev.magGrid, err = m.Photometry(ctx, ev.tGrid); err != nil {
		return nil, fmt.Errorf("model photometry: %w", err)
	}
	if ev.mag, err = m.Photometry(ctx, d.TPhot); err != nil {
		return nil, fmt.Errorf("model photometry: %w", err)
	}
	if len(ev.magGrid) != len(ev.tGrid) || len(ev.mag) != len(d.TPhot) {
		return nil, errors.New("model photometry: wrong number of values")
	}
	ev.lnLPhot = PhotLogLike(d.Mag, d.MagErr, ev.mag)
	if !ast {
		return ev, nil
	}
	if ev.x, ev.y, err = m.Astrometry(ctx, d.TAst); err != nil {
		return nil, fmt.Errorf("model astrometry: %w", err)
	}
	if len(ev.x) != len(d.TAst) || len(ev.y) != len(d.TAst) {
		return nil, errors.New("model astrometry: wrong number of values")
	}
	ev.lnLAst = AstLogLike(d.XPos, d.YPos, d.XPosErr, d.YPosErr, ev.x, ev.y)
	return ev, nil
}

// lnL is the mean photometric log likelihood plus, when fit, the mean
// astrometric log likelihood.
func (ev *evaluation) lnL() float64 {
	l := stat.Mean(ev.lnLPhot, nil)
	if ev.lnLAst != nil {
		l += stat.Mean(ev.lnLAst, nil)
	}
	return l
}

func (ev *evaluation) plot(dir, id string) (files []string, err error) {
	d := ev.d
	fn := filepath.Join(dir, "photo.png")
	if err = lcplot.SaveFit(fn, lcplot.Fit{
		Title:      id + " Photometry",
		XLabel:     "days (MJD)",
		YLabel:     "mag",
		DataLabel:  "OGLE-IV",
		ModelLabel: "best-fit model",
		T:          d.TPhot,
		Y:          d.Mag,
		YErr:       d.MagErr,
		ModelT:     ev.tGrid,
		ModelY:     ev.magGrid,
		ModelAtT:   ev.mag,
		InvertY:    true,
	}); err != nil {
		return
	}
	files = append(files, fn)
	if ev.x == nil {
		return
	}
	for _, c := range []struct {
		file, title string
		pos, err, model []float64
	}{
		{"x_pos.png", "X", d.XPos, d.XPosErr, ev.x},
		{"y_pos.png", "Y", d.YPos, d.YPosErr, ev.y},
	} {
		fn = filepath.Join(dir, c.file)
		if err = lcplot.SaveFit(fn, lcplot.Fit{
			Title:      c.title,
			XLabel:     "days (MJD)",
			YLabel:     c.title + ` Pos (")`,
			DataLabel:  "aligned data",
			ModelLabel: "model",
			T:          d.TAst,
			Y:          c.pos,
			YErr:       c.err,
			ModelT:     d.TAst,
			ModelY:     c.model,
			ModelAtT:   c.model,
		}); err != nil {
			return
		}
		files = append(files, fn)
	}
	fn = filepath.Join(dir, "pos.png")
	if err = lcplot.SaveTrack(fn, lcplot.Track{
		Title:  id + " X and Y",
		X:      d.XPos,
		Y:      d.YPos,
		XErr:   d.XPosErr,
		YErr:   d.YPosErr,
		ModelX: ev.x,
		ModelY: ev.y,
	}); err != nil {
		return
	}
	files = append(files, fn)
	return
}
