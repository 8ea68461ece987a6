package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Production: true, Writer: &buf})
	t.Cleanup(Nop)

	Debug().Msg("hidden")
	Info().Str("component", "test").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "test", entry["component"])
}

func TestInit_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Production: true, Level: "ERROR", Writer: &buf})
	t.Cleanup(Nop)

	Warn().Msg("dropped")
	assert.Empty(t, buf.String())

	Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestInit_DevelopmentIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Writer: &buf})
	t.Cleanup(Nop)

	Debug().Msg("hello dev")
	out := buf.String()
	assert.Contains(t, out, "hello dev")
	assert.NotContains(t, out, `"message"`)
}

func TestInit_InvalidLevelKeepsDefault(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Production: true, Level: "loud", Writer: &buf})
	t.Cleanup(Nop)

	Debug().Msg("still hidden")
	Info().Msg("shown")
	assert.NotContains(t, buf.String(), "still hidden")
	assert.Contains(t, buf.String(), "shown")
}
