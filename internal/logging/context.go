package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithContext stores a logger on the context for downstream callers.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext retrieves the logger stored on the context, falling back to a
// no-op logger when none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return NewNop()
	}
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return NewNop()
}
