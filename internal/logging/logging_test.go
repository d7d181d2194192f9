package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriterTagsService(t *testing.T) {
	t.Cleanup(func() { Logger = zerolog.Nop(); zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	InitWriter("debug", &buf)
	log := Component("poller")
	log.Info().Str("query", "bmw").Msg("tick")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "xtrend", line["service"])
	assert.Equal(t, "poller", line["component"])
	assert.Equal(t, "bmw", line["query"])
	assert.Equal(t, "tick", line["message"])
}

func TestInitWriterUnknownLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { Logger = zerolog.Nop(); zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	InitWriter("loud", &buf)
	Logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	Logger.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitCreatesLogFile(t *testing.T) {
	t.Cleanup(func() { Logger = zerolog.Nop(); zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	path := filepath.Join(t.TempDir(), "state", "xtrend.log")
	closer, err := Init("info", path)
	require.NoError(t, err)
	Logger.Warn().Msg("sync failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync failed")
}
