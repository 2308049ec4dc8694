package logging

import "context"

// Levels understood by WorkshopLogger implementations
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// WorkshopLogger is the structured logging port handlers pull from the context
type WorkshopLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type loggerKey struct{}

// WithLogger stores logger in ctx
func WithLogger(ctx context.Context, logger WorkshopLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger stored in ctx. Handlers run from tests
// and one-shot CLI paths often carry none, so a discarding logger is returned
// instead of nil.
func LoggerFromContext(ctx context.Context) WorkshopLogger {
	if logger, ok := ctx.Value(loggerKey{}).(WorkshopLogger); ok {
		return logger
	}
	return discard{}
}

type discard struct{}

func (discard) Log(string, string, map[string]interface{}) {}
