package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

type ctxKey int

const (
	batchIDKey ctxKey = iota
	modelNameKey
	pluginNameKey
)

// attrNames maps each context key to its log attribute, in output order.
var attrNames = []struct {
	key  ctxKey
	attr string
}{
	{batchIDKey, "batch_id"},
	{modelNameKey, "model"},
	{pluginNameKey, "plugin"},
}

// WithBatchID returns a context tagged with the ID of a validation batch.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// WithModelName returns a context tagged with the model being validated against.
func WithModelName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, modelNameKey, name)
}

// WithPluginName returns a context tagged with the plugin being validated.
func WithPluginName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, pluginNameKey, name)
}

// BatchID extracts the batch ID from the context, or "" if absent.
func BatchID(ctx context.Context) string { return value(ctx, batchIDKey) }

// ModelName extracts the model name from the context, or "" if absent.
func ModelName(ctx context.Context) string { return value(ctx, modelNameKey) }

// PluginName extracts the plugin name from the context, or "" if absent.
func PluginName(ctx context.Context) string { return value(ctx, pluginNameKey) }

func value(ctx context.Context, k ctxKey) string {
	v, _ := ctx.Value(k).(string)
	return v
}

// correlationAttrs returns the non-empty correlation values on ctx.
func correlationAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, a := range attrNames {
		if v := value(ctx, a.key); v != "" {
			attrs = append(attrs, slog.String(a.attr, v))
		}
	}
	return attrs
}

// LogWith returns a logger enriched with correlation values from the context.
// Only non-empty values are added as attributes.
func LogWith(ctx context.Context, logger *slog.Logger) *slog.Logger {
	for _, a := range correlationAttrs(ctx) {
		logger = logger.With(a)
	}
	return logger
}

// CorrelationHandler wraps an slog.Handler, automatically injecting
// correlation values from the context into every log record.
// Use with slog.New(NewCorrelationHandler(inner)) so callers can use
// logger.DebugContext(ctx, ...) and the values appear automatically.
type CorrelationHandler struct {
	inner slog.Handler
}

// NewCorrelationHandler wraps the given handler with automatic correlation injection.
func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(correlationAttrs(ctx)...)
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}

// ParseLevel maps debug, info, warn and error (any case) to a level.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

// NewTextLogger returns a text logger on w at level, with correlation injection.
func NewTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewCorrelationHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
