package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"placery/pkg/middleware"
)

func InitGlobalSlog(service string) {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	handler := NewContextJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)
	logger = logger.With("service", service)
	slog.SetDefault(logger)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ContextJSONHandler struct {
	jsonHandler slog.Handler
}

func NewContextJSONHandler(w io.Writer, opts *slog.HandlerOptions) *ContextJSONHandler {
	return &ContextJSONHandler{slog.NewJSONHandler(w, opts)}
}

func (h *ContextJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.jsonHandler.Enabled(ctx, level)
}

func (h *ContextJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextJSONHandler{jsonHandler: h.jsonHandler.WithAttrs(attrs)}
}

func (h *ContextJSONHandler) WithGroup(name string) slog.Handler {
	return &ContextJSONHandler{jsonHandler: h.jsonHandler.WithGroup(name)}
}

func (h *ContextJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	trace_id := ctx.Value(middleware.CtxKeyTraceID)
	if str, ok := trace_id.(string); ok {
		r.AddAttrs(slog.String(string(middleware.CtxKeyTraceID), str))
	}

	return h.jsonHandler.Handle(ctx, r)
}
