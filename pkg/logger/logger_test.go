package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithOptions(
		WithLevel(slog.LevelDebug),
		WithOutput(buf),
		WithTextFormat(),
	)
	require.NotNil(t, logger)

	logger.Debug("debug message", "key", "value")
	assert.Contains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "key=value")
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSON(buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_ContextMethods(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSON(buf, slog.LevelDebug)
	ctx := context.Background()

	logger.InfoContext(ctx, "info context message")
	logger.ErrorContext(ctx, "error context message")
	logger.WarnContext(ctx, "warn context message")
	logger.DebugContext(ctx, "debug context message")

	output := buf.String()
	assert.Contains(t, output, "info context message")
	assert.Contains(t, output, "error context message")
	assert.Contains(t, output, "warn context message")
	assert.Contains(t, output, "debug context message")
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSON(buf, slog.LevelInfo).With("component", "store")

	logger.Info("table written")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "store", record["component"])
}

func TestLogger_Service(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewWithOptions(WithOutput(buf), WithService("loop-service"))

	logger.Info("started")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "loop-service", record["service"])
}

func TestAppendCtx(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewJSON(buf, slog.LevelInfo)

	ctx := AppendCtx(context.Background(), slog.String("request_id", "req-1"))
	ctx = AppendCtx(ctx, slog.Int64("user_id", 7))
	logger.InfoContext(ctx, "handled")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, float64(7), record["user_id"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, slog.LevelInfo, config.Level)
	assert.Equal(t, "json", config.Format)
	assert.False(t, config.AddSource)
}

func TestNoOpLogger(t *testing.T) {
	logger := NoOpLogger()
	require.NotNil(t, logger)

	logger.Info("test")
	logger.Error("test")
	logger.With("k", "v").Warn("test")
}
