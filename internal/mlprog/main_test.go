// Public domain.

package mlprog_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/microlens/internal/config"
	"github.com/soniakeys/microlens/internal/fitter"
	"github.com/soniakeys/microlens/internal/mlprog"
	"github.com/soniakeys/microlens/internal/target"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	var b bytes.Buffer
	err := mlprog.Command(&b).Run(context.Background(), append([]string{"microlens"}, args...))
	return b.String(), err
}

func TestTargets(t *testing.T) {
	out, err := runCommand(t, "targets", "-e")
	require.NoError(t, err)
	for _, s := range []string{"ob140613", "OGLE-2015-BLG-0211", "15may05", "57147.0"} {
		assert.Contains(t, out, s)
	}
	out, err = runCommand(t, "targets")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(target.IDs()))
}

// writeRun lays out a previous photometry only run under a temp align dir
// and returns a config file pointing at it.
func writeRun(t *testing.T) (cfgFile, dir string) {
	align := t.TempDir()
	dir = filepath.Join(align, fitter.PSPLPhot.Dir())
	require.NoError(t, os.MkdirAll(dir, 0o755))
	post := "0.25 10 57100 0.1 20 17.0\n" +
		"0.50 8  57101 0.2 21 17.1\n" +
		"0.25 12 57102 0.3 22 17.2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aa_.txt"), []byte(post), 0o644))

	cfgFile = filepath.Join(t.TempDir(), "microlens.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("log: {level: error}\n"+
		"data: {align_dir: "+align+"}\n"), 0o644))
	return cfgFile, dir
}

func TestSummarize(t *testing.T) {
	cfgFile, dir := writeRun(t)
	out, err := runCommand(t, "summarize", "-c", cfgFile, "--phot-only", "ob150211")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "                       best      median", lines[0])
	assert.Equal(t, "             t0   57101.000   57101.000 +      1.000 -      1.000", lines[1])
	assert.Contains(t, lines[2], "u0_amp")
	assert.FileExists(t, filepath.Join(dir, "aa_final.txt"))
	assert.FileExists(t, filepath.Join(dir, "aa_final.xlsx"))
}

func TestSummarizeEnvConfig(t *testing.T) {
	cfgFile, dir := writeRun(t)
	t.Setenv(config.EnvFile, cfgFile)
	_, err := runCommand(t, "summarize", "--phot-only", "--no-xlsx", "ob150211")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "aa_final.xlsx"))
}

func TestSummarizeNotRun(t *testing.T) {
	cfgFile, _ := writeRun(t)
	_, err := runCommand(t, "summarize", "-c", cfgFile, "--parallax", "ob150211")
	assert.ErrorIs(t, err, fitter.ErrNotRun)
}

func TestUnknownTarget(t *testing.T) {
	cfgFile, _ := writeRun(t)
	_, err := runCommand(t, "summarize", "-c", cfgFile, "ob999999")
	assert.ErrorIs(t, err, target.ErrUnknown)
	_, err = runCommand(t, "summarize", "-c", cfgFile)
	assert.Error(t, err)
}

func TestFitHelpRowOrder(t *testing.T) {
	out, err := runCommand(t, "fit", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "median + high - low")
}
