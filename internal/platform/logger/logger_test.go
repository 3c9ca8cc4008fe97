package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymap/studymap-api/internal/config"
)

func TestSetupLogLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		wantDebug   bool
		wantWarnOut bool
	}{
		{name: "debug level emits debug", level: "debug", wantDebug: true, wantWarnOut: true},
		{name: "info level drops debug", level: "info", wantDebug: false, wantWarnOut: true},
		{name: "error level drops warn", level: "error", wantDebug: false, wantWarnOut: false},
		{name: "mixed case accepted", level: "WARN", wantDebug: false, wantWarnOut: true},
		{name: "invalid level falls back to info", level: "bogus", wantDebug: false, wantWarnOut: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := setup(config.ServerConfig{LogLevel: tc.level}, &buf)

			log.Debug("debug message")
			log.Warn("warn message")

			out := buf.String()
			assert.Equal(t, tc.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")), out)
			assert.Equal(t, tc.wantWarnOut, bytes.Contains(buf.Bytes(), []byte("warn message")), out)
		})
	}
}

func TestSetupEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := setup(config.ServerConfig{LogLevel: "info"}, &buf)

	log.Info("hello", slog.String("component", "test"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), base)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, base, got)

	assert.Same(t, base, FromContextOrDefault(ctx, nil))

	_, ok = FromContext(context.Background())
	assert.False(t, ok)

	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))
}
