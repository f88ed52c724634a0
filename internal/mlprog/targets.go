// Public domain.

package mlprog

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/urfave/cli/v3"

	"github.com/soniakeys/microlens/internal/astro"
	"github.com/soniakeys/microlens/internal/target"
)

func targetsCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "targets",
		Usage: "list known targets, their positions and analyzed epochs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "epochs", Aliases: []string{"e"},
				Usage: "also list epochs with MJD"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return listTargets(w, cmd.Bool("epochs"))
		},
	}
}

func listTargets(w io.Writer, epochs bool) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, id := range target.IDs() {
		t, err := target.Lookup(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2s\t%.1s\n",
			t.ID, t.Event, sexa.FmtRA(t.RA), sexa.FmtAngle(t.Dec))
		if !epochs {
			continue
		}
		d, err := t.EpochDates()
		if err != nil {
			return err
		}
		for i, e := range t.Epochs {
			fmt.Fprintf(tw, "\t%s\t%.1f\t\n", e, astro.TimeToMJD(d[i]))
		}
	}
	return tw.Flush()
}
