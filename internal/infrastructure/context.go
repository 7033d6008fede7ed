package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateTraceID creates a new trace ID. Request IDs double as trace
// IDs, so the format matches X-Request-ID values.
func GenerateTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID returns a context carrying a trace ID, generating one
// when none is present. Used on paths where no request middleware has
// run, such as the startup dataset load.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return WithTraceID(ctx, GenerateTraceID())
	}
	return ctx
}

// WithComponent tags a logger with the component it logs for. Every
// service and handler derives its logger through this so log lines are
// attributable to one part of the pipeline.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}
