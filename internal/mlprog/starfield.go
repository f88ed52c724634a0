// Public domain.

package mlprog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/soniakeys/microlens/internal/config"
	"github.com/soniakeys/microlens/internal/kpimage"
	"github.com/soniakeys/microlens/internal/lcplot"
	"github.com/soniakeys/microlens/internal/logging"
	"github.com/soniakeys/microlens/internal/target"
)

func starfieldCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "starfield",
		Usage:     "show targets in their K' images of one epoch",
		ArgsUsage: "[target ...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "root", Usage: "root of epoch directories"},
			&cli.StringFlag{Name: "epoch", Value: "15jun07", Usage: "epoch of the images"},
			&cli.StringFlag{Name: "o", Value: "starfield.png", Usage: "output PNG file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			if cmd.IsSet("root") {
				cfg.PosErr.DataRoot = cmd.String("root")
			}
			ids := cmd.Args().Slice()
			if len(ids) == 0 {
				ids = target.IDs()
			}
			return starfield(w, cfg, cmd.String("epoch"), ids, cmd.String("o"))
		},
	}
}

func starfield(w io.Writer, cfg *config.Config, epoch string, ids []string, out string) error {
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	root := cfg.PosErr.DataRoot
	fields := make([]lcplot.Field, len(ids))
	for i, id := range ids {
		if _, err := target.Lookup(id); err != nil {
			return err
		}
		fn := kpimage.Path(root, epoch, id)
		log.Info().Str("image", fn).Send()
		m, err := kpimage.ReadFile(fn)
		if err != nil {
			return err
		}
		x, y, err := kpimage.ReadCoo(kpimage.CooPath(root, epoch, id))
		if err != nil {
			return err
		}
		fields[i] = lcplot.Field{
			Name:     strings.ToUpper(id),
			Nx:       m.Nx,
			Ny:       m.Ny,
			Pix:      m.Pix,
			X:        x,
			Y:        y,
			ScaleBar: 2 / cfg.Data.PlateScale,
		}
		fmt.Fprintf(w, "%s  %dx%d  target at %.1f %.1f\n", fields[i].Name, m.Nx, m.Ny, x, y)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := lcplot.SaveStarfield(out, fields); err != nil {
		return err
	}
	log.Info().Str("file", out).Msg("saved")
	return nil
}
