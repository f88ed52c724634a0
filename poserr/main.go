// Public domain.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/soniakeys/exit"
	"github.com/soniakeys/unit"
	"github.com/urfave/cli/v3"

	"github.com/soniakeys/microlens/internal/astro"
	"github.com/soniakeys/microlens/internal/config"
	"github.com/soniakeys/microlens/internal/lcplot"
	"github.com/soniakeys/microlens/internal/logging"
	"github.com/soniakeys/microlens/internal/starlist"
	"github.com/soniakeys/microlens/internal/target"
)

const parentImport = "github.com/soniakeys/microlens"
const versionString = "poserr version 0.1"

func main() {
	defer exit.Handler()
	if err := command(os.Stdout).Run(context.Background(), os.Args); err != nil {
		exit.Log(err)
	}
}

func command(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "poserr",
		Usage:     "plot positional uncertainty against magnitude for each epoch of a target",
		Version:   versionString,
		ArgsUsage: "<target>",
		Writer:    w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config file",
				Sources: cli.EnvVars(config.EnvFile),
			},
			&cli.StringFlag{Name: "root", Usage: "root of epoch directories"},
			&cli.StringFlag{Name: "o", Usage: "output PNG file (default <target>_poserr.png)"},
		},
		Description: "For full documentation:\n   go doc " + parentImport + "/poserr",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: poserr [options] <target>")
			}
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if cmd.IsSet("root") {
				cfg.PosErr.DataRoot = cmd.String("root")
			}
			log, err := logging.New(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			t, err := target.Lookup(cmd.Args().First())
			if err != nil {
				return err
			}
			out := cmd.String("o")
			if out == "" {
				out = t.ID + "_poserr.png"
			}
			return run(w, log, t, cfg, out)
		},
	}
}

// epochStats are the uncertainty statistics of one epoch.
type epochStats struct {
	epoch   string
	date    string
	field   *starlist.Field
	magBins []starlist.Bin
	radBins []starlist.Bin
	median  float64
	nMedian int
}

func analyze(log zerolog.Logger, t *target.Target, epoch string, pe config.PosErr, ps unit.Angle) (*epochStats, error) {
	d, err := astro.ParseEpoch(epoch)
	if err != nil {
		return nil, err
	}
	fn := starlist.Path(pe.DataRoot, epoch, t.ID)
	log.Info().Str("starlist", fn).Send()
	sl, err := starlist.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	f := starlist.NewField(sl, ps)
	s := &epochStats{
		epoch:   epoch,
		date:    d.Format("2006 Jan 02"),
		field:   f,
		magBins: f.MagBins(pe.Radius),
		radBins: f.RadiusBins(pe.MagCutoff),
	}
	if s.median, s.nMedian, err = f.Median(pe.MagCutoff, pe.Radius); err != nil {
		log.Warn().Str("epoch", epoch).Msg("no stars for median")
	}
	return s, nil
}

func run(w io.Writer, log zerolog.Logger, t *target.Target, cfg *config.Config, out string) error {
	ps := unit.AngleFromSec(cfg.Data.PlateScale)
	pe := cfg.PosErr
	const cols = 3
	rows := (len(t.Epochs) + cols - 1) / cols
	var panels []lcplot.Panel
	for i, e := range t.Epochs {
		s, err := analyze(log, t, e, pe, ps)
		if err != nil {
			return err
		}
		writeTable(w, s, pe)
		mag, perr := s.field.Within(pe.Radius)
		pn := lcplot.Panel{
			Title:  s.date,
			YLabel: "Positional Uncertainty (mas)",
			X:      mag,
			Y:      perr,
			XMin:   15, XMax: 23,
			YMin:   1e-2, YMax: 30,
			LogY:   true,
		}
		if i/cols == rows-1 {
			pn.XLabel = "K Magnitude"
		}
		panels = append(panels, pn)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := lcplot.SavePanels(out, panels, cols); err != nil {
		return err
	}
	log.Info().Str("file", out).Msg("saved")
	return nil
}

func writeTable(w io.Writer, s *epochStats, pe config.PosErr) {
	fmt.Fprintf(w, "%s  %s\n", s.epoch, s.date)
	if s.nMedian > 0 {
		fmt.Fprintf(w, "median error %.3f mas, %d stars with K < %g within %g\"\n",
			s.median, s.nMedian, pe.MagCutoff, pe.Radius)
	} else {
		fmt.Fprintf(w, "median error -, no stars with K < %g within %g\"\n",
			pe.MagCutoff, pe.Radius)
	}
	fmt.Fprintln(w, "    mag     N   err(mas)  merr(mag)")
	for _, b := range s.magBins {
		fmt.Fprintf(w, "%7.1f  %4d  %9.3f  %9.3f\n", b.Center, b.N, b.Err, b.MErr)
	}
	fmt.Fprintln(w, `   r(")     N   err(mas)  merr(mag)`)
	for _, b := range s.radBins {
		fmt.Fprintf(w, "%7.1f  %4d  %9.3f  %9.3f\n", b.Center, b.N, b.Err, b.MErr)
	}
	fmt.Fprintln(w)
}
