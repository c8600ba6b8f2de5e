package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/catalystcommunity/hms/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{" Info ", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"INVALID", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.in))
		})
	}
}

func TestConfigure_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Configure(logging.Config{Level: "warn", Output: &buf})
	require.NotNil(t, logger)

	logger.Info("hidden")
	logger.Warn("zone deployed", "zone", "example.org")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "zone deployed")
	assert.Contains(t, out, "zone=example.org")
}

func TestConfigure_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Configure(logging.Config{
		Level:       "debug",
		Format:      "JSON",
		ExtraFields: map[string]string{"stanza": "dns"},
		Output:      &buf,
	})

	logger.Debug("staged", "path", "/tmp/hms-zone.stage")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "staged", entry["msg"])
	assert.Equal(t, "dns", entry["stanza"])
	assert.Equal(t, "/tmp/hms-zone.stage", entry["path"])
}

func TestDiscard(t *testing.T) {
	logger := logging.Discard()
	require.NotNil(t, logger)
	logger.Error("dropped")
}
