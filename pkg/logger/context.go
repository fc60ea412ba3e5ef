package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Into stores l in ctx; nil leaves ctx unchanged.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// With derives a request-scoped logger carrying fields, e.g. trace and principal ids.
func With(ctx context.Context, fields ...any) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return Into(ctx, From(ctx).With(fields...))
}

// From returns the request logger, or the process logger outside a request.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}
