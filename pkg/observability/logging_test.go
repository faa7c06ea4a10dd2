package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: "info", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "warning", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "DEBUG", expected: slog.LevelDebug},
		{input: "Error", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "xyzzy", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{
		Output:      &buf,
		Level:       "info",
		Format:      "json",
		ServiceName: "risk-engine",
		Environment: "test",
	})

	logger.Debug("dropped")
	logger.Info("assessment completed", "score", 40)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "assessment completed", record["msg"])
	assert.Equal(t, "risk-engine", record["service"])
	assert.Equal(t, "test", record["env"])
	assert.EqualValues(t, 40, record["score"])
}

func TestInitLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Output: &buf, Level: "warn"})

	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "key=value")
}

func TestInitLoggerSetsDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Output: &buf, Format: "json"})

	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}
