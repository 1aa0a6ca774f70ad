package common

import (
	"context"

	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// Context key for passing the engine logger through context.
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger shared.EngineLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op
// logger if none was attached
func LoggerFromContext(ctx context.Context) shared.EngineLogger {
	if logger, ok := ctx.Value(loggerKey).(shared.EngineLogger); ok {
		return logger
	}
	return shared.NopLogger{}
}
