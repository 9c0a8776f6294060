package logging

import "context"

type contextKey struct{}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext retrieves the logger from the context, or a no-op logger.
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(contextKey{}).(Logger); ok {
		return logger
	}
	return Nop()
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return noOpLogger{}
}

type noOpLogger struct{}

func (noOpLogger) Debug(msg string, fields ...Field) {}
func (noOpLogger) Info(msg string, fields ...Field) {}
func (noOpLogger) Warn(msg string, fields ...Field) {}
func (noOpLogger) Error(msg string, fields ...Field) {}
func (n noOpLogger) With(fields ...Field) Logger { return n }
func (n noOpLogger) WithError(err error) Logger { return n }
func (noOpLogger) Sync() error { return nil }
