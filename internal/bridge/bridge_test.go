// Public domain.

package bridge_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/microlens/internal/bridge"
	"github.com/soniakeys/microlens/internal/fitter"
	"github.com/soniakeys/microlens/internal/lensdata"
	"github.com/soniakeys/microlens/internal/posterior"
	"github.com/soniakeys/microlens/internal/target"
)

const helperEnv = "MICROLENS_BRIDGE_HELPER"

// TestHelperProcess stands in for the external modeling program.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}
	args = args[1:]
	flag := func(name string) string {
		for i := 1; i+1 < len(args); i++ {
			if args[i] == name {
				return args[i+1]
			}
		}
		return ""
	}
	switch args[0] {
	case "solve":
		var in struct {
			Params []string                `json:"params"`
			Priors map[string]target.Range `json:"priors"`
			TPhot  []float64               `json:"t_phot"`
		}
		b, err := os.ReadFile(flag("--data"))
		if err != nil || json.Unmarshal(b, &in) != nil || len(in.TPhot) == 0 {
			os.Exit(3)
		}
		var out bytes.Buffer
		for row := 0; row < 3; row++ {
			fmt.Fprintf(&out, "%g %g", []float64{.25, .5, .25}[row], float64(10+row))
			for j := range in.Params {
				fmt.Fprintf(&out, " %d", 10*j+row)
			}
			out.WriteByte('\n')
		}
		if err := os.WriteFile(flag("--basename")+posterior.Suffix, out.Bytes(), 0o644); err != nil {
			os.Exit(4)
		}
		fmt.Println("solved", flag("--variant"))
	case "plot-posteriors":
	case "evaluate":
		var req struct {
			Params posterior.Params `json:"params"`
			TPhot  []float64        `json:"t_phot"`
			TAst   []float64        `json:"t_ast"`
		}
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			os.Exit(5)
		}
		var resp struct {
			Mag []float64 `json:"mag"`
			X   []float64 `json:"x"`
			Y   []float64 `json:"y"`
		}
		for _, t := range req.TPhot {
			resp.Mag = append(resp.Mag, req.Params["mag_base"]-t/1000)
		}
		for _, t := range req.TAst {
			resp.X = append(resp.X, t)
			resp.Y = append(resp.Y, -t)
		}
		json.NewEncoder(os.Stdout).Encode(resp)
	default:
		fmt.Fprintln(os.Stderr, "unknown subcommand", args[0])
		os.Exit(6)
	}
	os.Exit(0)
}

func helperCommand(t *testing.T) []string {
	t.Setenv(helperEnv, "1")
	return []string{os.Args[0], "-test.run=TestHelperProcess", "--"}
}

func testRecord() *lensdata.Record {
	tg, _ := target.Lookup("ob150211")
	return &lensdata.Record{
		TPhot:   []float64{57000, 57001},
		Mag:     []float64{17, 16.9},
		MagErr:  []float64{.01, .01},
		TAst:    []float64{57100, 57200},
		XPos:    []float64{0, .001},
		YPos:    []float64{0, -.001},
		XPosErr: []float64{.0001, .0001},
		YPosErr: []float64{.0001, .0001},
		RA:      tg.RA,
		Dec:     tg.Dec,
	}
}

func TestSolveAndEvaluate(t *testing.T) {
	newSolver := bridge.Factory(helperCommand(t), zerolog.New(io.Discard))
	base := filepath.Join(t.TempDir(), "aa_")
	tg, _ := target.Lookup("ob150211")
	s := newSolver(fitter.PSPLPhot, testRecord(), base, tg.Priors)
	ctx := context.Background()

	require.NoError(t, s.Solve(ctx))
	require.NoError(t, s.PlotPosteriors(ctx))

	b, err := os.ReadFile(base + bridge.DataSuffix)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"priors"`)
	assert.Contains(t, string(b), `"mag_base"`)

	tab, err := s.PosteriorTable()
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())
	assert.Equal(t, fitter.PSPLPhot.Params(), tab.Names)

	best, err := s.BestFit()
	require.NoError(t, err)
	// -2lnL is smallest in the first row
	assert.Equal(t, posterior.Params{"t0": 0, "u0_amp": 10, "tE": 20, "mag_base": 30}, best)

	m, err := s.BestFitModel(ctx)
	require.NoError(t, err)
	mag, err := m.Photometry(ctx, []float64{1000, 2000})
	require.NoError(t, err)
	assert.Equal(t, []float64{29, 28}, mag)

	_, _, err = m.Astrometry(ctx, []float64{1})
	assert.ErrorIs(t, err, fitter.ErrNoAstrometry)
}

func TestAstrometricModel(t *testing.T) {
	newSolver := bridge.Factory(helperCommand(t), zerolog.New(io.Discard))
	base := filepath.Join(t.TempDir(), "aa_")
	s := newSolver(fitter.PSPL, testRecord(), base, nil)
	ctx := context.Background()
	require.NoError(t, s.Solve(ctx))
	m, err := s.BestFitModel(ctx)
	require.NoError(t, err)
	x, y, err := m.Astrometry(ctx, []float64{57100, 57200})
	require.NoError(t, err)
	assert.Equal(t, []float64{57100, 57200}, x)
	assert.Equal(t, []float64{-57100, -57200}, y)
}

func TestSolverFailure(t *testing.T) {
	var logs strings.Builder
	cmd := append(helperCommand(t), "bogus")
	s := bridge.Factory(cmd, zerolog.New(&logs))(fitter.PSPLPhot, testRecord(),
		filepath.Join(t.TempDir(), "aa_"), nil)
	err := s.Solve(context.Background())
	require.Error(t, err)
	assert.Contains(t, logs.String(), "unknown subcommand")
}

func TestNoCommand(t *testing.T) {
	s := bridge.Factory(nil, zerolog.Nop())(fitter.PSPLPhot, testRecord(),
		filepath.Join(t.TempDir(), "aa_"), nil)
	assert.Error(t, s.Solve(context.Background()))
}

func TestPosteriorTableMissing(t *testing.T) {
	s := bridge.Factory([]string{"true"}, zerolog.Nop())(fitter.PSPL, nil,
		filepath.Join(t.TempDir(), "aa_"), nil)
	_, err := s.PosteriorTable()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
