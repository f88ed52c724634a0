// Public domain.

// Package mlprog implements the microlens command.
package mlprog

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/soniakeys/exit"
	"github.com/urfave/cli/v3"

	"github.com/soniakeys/microlens/internal/bridge"
	"github.com/soniakeys/microlens/internal/config"
	"github.com/soniakeys/microlens/internal/fitter"
	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/logging"
	"github.com/soniakeys/microlens/internal/report"
	"github.com/soniakeys/microlens/internal/target"
)

const parentImport = "github.com/soniakeys/microlens"
const versionString = "microlens version 0.1"

// Main runs the command with os.Args and terminates on error.
func Main() {
	defer exit.Handler()

	// interrupt cancels the external solver as well
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := Command(os.Stdout).Run(ctx, os.Args); err != nil {
		exit.Log(err)
	}
}

// Command returns the command tree writing results to w.
func Command(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "microlens",
		Usage:   "fit point source point lens models to microlensing events",
		Version: versionString,
		Writer:  w,
		Commands: []*cli.Command{
			fitCommand(w),
			summarizeCommand(w),
			targetsCommand(w),
			starfieldCommand(w),
		},
		Description: "For full documentation:\n   go doc " + parentImport,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to YAML config file",
		Sources: cli.EnvVars(config.EnvFile),
	}
}

// selection flags common to fit and summarize
func selectionFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.StringFlag{Name: "align-dir", Aliases: []string{"a"},
			Usage: "root of fit output directories"},
		&cli.StringFlag{Name: "runcode", Aliases: []string{"r"},
			Usage: "prefix of output file names"},
		&cli.BoolFlag{Name: "parallax", Aliases: []string{"p"},
			Usage: "fit annual parallax"},
		&cli.BoolFlag{Name: "phot-only", Usage: "fit photometry only"},
		&cli.BoolFlag{Name: "no-xlsx", Usage: "skip the spreadsheet summary"},
	}
}

// rowOrder warns that final.txt of the earlier Python scripts swapped the
// interval deltas.
const rowOrder = "Summary rows are: name  best  median + high - low.\n" +
	"final.txt files of the earlier Python scripts put the low delta after \"+\"."

func fitCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "fit",
		Usage:       "solve, or reuse a previous solution, then plot and summarize",
		Description: rowOrder,
		ArgsUsage:   "<target>",
		Flags: append(selectionFlags(),
			&cli.StringFlag{Name: "points-dir",
				Usage: "directory of aligned astrometry, relative to align-dir"},
			&cli.BoolFlag{Name: "reuse",
				Usage: "reuse output of a previous run instead of solving"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := newRun(cmd)
			if err != nil {
				return err
			}
			return r.fit(ctx, w)
		},
	}
}

func summarizeCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:        "summarize",
		Usage:       "summarize the posterior of a previous run",
		Description: rowOrder,
		ArgsUsage:   "<target>",
		Flags:       selectionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r, err := newRun(cmd)
			if err != nil {
				return err
			}
			return r.summarize(ctx, w)
		},
	}
}

// run is one fit or summarize invocation, configuration resolved.
type run struct {
	cfg *config.Config
	tg  *target.Target
	log zerolog.Logger
}

func newRun(cmd *cli.Command) (*run, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if id := cmd.Args().First(); id != "" {
		cfg.Fit.Target = id
	}
	if cfg.Fit.Target == "" {
		return nil, fmt.Errorf("no target; known targets: %v", target.IDs())
	}
	tg, err := target.Lookup(cfg.Fit.Target)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &run{cfg: cfg, tg: tg, log: log}, nil
}

// applyFlags overrides configuration with flags given on the command line.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	for _, s := range []struct {
		flag string
		dst  *string
	}{
		{"align-dir", &cfg.Data.AlignDir},
		{"points-dir", &cfg.Data.PointsDir},
		{"runcode", &cfg.Fit.Runcode},
	} {
		if cmd.IsSet(s.flag) {
			*s.dst = cmd.String(s.flag)
		}
	}
	for _, b := range []struct {
		flag string
		dst  *bool
	}{
		{"parallax", &cfg.Fit.Parallax},
		{"phot-only", &cfg.Fit.PhotOnly},
		{"no-xlsx", &cfg.Fit.NoXLSX},
	} {
		if cmd.IsSet(b.flag) {
			*b.dst = cmd.Bool(b.flag)
		}
	}
	if cmd.IsSet("reuse") {
		cfg.Fit.Solve = !cmd.Bool("reuse")
	}
}

func (r *run) options() fitter.Options {
	f := r.cfg.Fit
	return fitter.Options{
		Target:   r.tg,
		AlignDir: r.cfg.Data.AlignDir,
		Runcode:  f.Runcode,
		Parallax: f.Parallax,
		PhotOnly: f.PhotOnly,
		Solve:    f.Solve,
		NoXLSX:   f.NoXLSX,
	}
}

func (r *run) fitter() *fitter.Fitter {
	return fitter.New(bridge.Factory(r.cfg.Solver.Command, r.log), r.log)
}

func (r *run) fit(ctx context.Context, w io.Writer) error {
	o := r.options()
	if o.Solve {
		if err := r.cfg.Solver.Validate(); err != nil {
			return fmt.Errorf("solver: %w", err)
		}
	}
	var err error
	if o.Data, err = lensdata.Load(r.tg, r.cfg.Data.Paths(), o.PhotOnly); err != nil {
		return err
	}
	r.log.Info().Str("target", r.tg.ID).
		Int("phot", len(o.Data.TPhot)).
		Int("ast", len(o.Data.TAst)).
		Msg("loaded")
	res, err := r.fitter().Run(ctx, o)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s lnL %.3f\n", r.tg.ID, res.Variant, res.LnL)
	return report.WriteText(w, res.Summary)
}

func (r *run) summarize(ctx context.Context, w io.Writer) error {
	res, err := r.fitter().Summarize(ctx, r.options())
	if err != nil {
		return err
	}
	return report.WriteText(w, res.Summary)
}
