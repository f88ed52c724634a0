// Public domain.

package logging_test

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/microlens/internal/config"
	"github.com/soniakeys/microlens/internal/logging"
)

func TestJSON(t *testing.T) {
	var b bytes.Buffer
	log, err := logging.New(config.Log{Level: "info", Format: "json"}, &b)
	require.NoError(t, err)
	log.Debug().Msg("hidden")
	log.Info().Str("target", "ob150211").Msg("solving")

	var m map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &m))
	assert.Equal(t, "info", m["level"])
	assert.Equal(t, "ob150211", m["target"])
	assert.Equal(t, "solving", m["message"])
	assert.Contains(t, m, "time")
}

func TestConsole(t *testing.T) {
	var b bytes.Buffer
	log, err := logging.New(config.Log{Level: "debug", Format: "console"}, &b)
	require.NoError(t, err)
	log.Debug().Int("samples", 3).Msg("posterior")
	assert.Contains(t, b.String(), "posterior")
	assert.Contains(t, b.String(), "samples=")
}

func TestInvalid(t *testing.T) {
	_, err := logging.New(config.Log{Level: "loud", Format: "json"}, &bytes.Buffer{})
	assert.Error(t, err)
	_, err = logging.New(config.Log{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
