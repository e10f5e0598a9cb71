package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "cli", "info").Component("vault")

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Int("bytes", 42).Msg("saved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cli", entry["role"])
	assert.Equal(t, "vault", entry["component"])
	assert.Equal(t, "saved", entry["message"])
	assert.EqualValues(t, 42, entry["bytes"])
	assert.Contains(t, entry, "time")
}

func TestUnknownLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "cli", "chatty")

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Warn().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNop(t *testing.T) {
	Nop().Error().Msg("discarded")
}
