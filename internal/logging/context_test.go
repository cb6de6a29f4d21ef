package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeys(t *testing.T) {
	ctx := context.Background()

	// Initially empty.
	assert.Equal(t, "", BatchID(ctx))
	assert.Equal(t, "", ModelName(ctx))
	assert.Equal(t, "", PluginName(ctx))

	ctx = WithBatchID(ctx, "b-123")
	ctx = WithModelName(ctx, "host")
	ctx = WithPluginName(ctx, "csv-tools")

	// Round-trip.
	assert.Equal(t, "b-123", BatchID(ctx))
	assert.Equal(t, "host", ModelName(ctx))
	assert.Equal(t, "csv-tools", PluginName(ctx))
}

func TestLogWith(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := WithBatchID(context.Background(), "b-abc")
	ctx = WithModelName(ctx, "host")
	ctx = WithPluginName(ctx, "csv-tools")

	LogWith(ctx, logger).Info("test message")

	output := buf.String()
	assert.Contains(t, output, "batch_id=b-abc")
	assert.Contains(t, output, "model=host")
	assert.Contains(t, output, "plugin=csv-tools")
	assert.Contains(t, output, "test message")
}

func TestLogWithMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Only the plugin is set.
	LogWith(WithPluginName(context.Background(), "only"), logger).Info("partial context")

	output := buf.String()
	assert.Contains(t, output, "plugin=only")
	assert.NotContains(t, output, "batch_id")
	assert.NotContains(t, output, "model=")
}

func TestCorrelationHandler(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelationHandler(inner))

	ctx := WithBatchID(context.Background(), "b-auto")
	ctx = WithModelName(ctx, "host")
	ctx = WithPluginName(ctx, "p")
	logger.InfoContext(ctx, "auto inject")

	output := buf.String()
	assert.Contains(t, output, `"batch_id":"b-auto"`)
	assert.Contains(t, output, `"model":"host"`)
	assert.Contains(t, output, `"plugin":"p"`)
	assert.Contains(t, output, "auto inject")
}

func TestCorrelationHandlerEmptyContext(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelationHandler(inner))

	logger.InfoContext(context.Background(), "bare log")

	output := buf.String()
	assert.NotContains(t, output, "batch_id")
	assert.NotContains(t, output, `"plugin"`)
	assert.Contains(t, output, "bare log")
}

func TestCorrelationHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	handler := NewCorrelationHandler(inner)
	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "validator")}))

	logger.InfoContext(WithBatchID(context.Background(), "b-attr"), "with attrs")

	output := buf.String()
	assert.Contains(t, output, `"batch_id":"b-attr"`)
	assert.Contains(t, output, `"component":"validator"`)
}

func TestCorrelationHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewCorrelationHandler(inner).WithGroup("validate"))

	logger.InfoContext(WithPluginName(context.Background(), "p-grp"), "grouped", "key", "val")

	output := buf.String()
	assert.Contains(t, output, "p-grp")
	assert.Contains(t, output, "grouped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTextLogger(&buf, slog.LevelWarn)

	ctx := WithModelName(context.Background(), "host")
	logger.InfoContext(ctx, "dropped")
	logger.WarnContext(ctx, "kept")

	output := buf.String()
	assert.NotContains(t, output, "dropped")
	assert.Contains(t, output, "kept")
	assert.Contains(t, output, "model=host")
}
