package logger

import "context"

type contextKey string

const (
	loggerKey contextKey = "statedump.logger"
	opIDKey   contextKey = "statedump.op_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithOpID tags the context with the id of the running restore or capture.
func WithOpID(ctx context.Context, opID string) context.Context {
	return context.WithValue(ctx, opIDKey, opID)
}

// OpIDFromContext returns the operation id, or "" when none is set.
func OpIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(opIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that also adds the operation id.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := OpIDFromContext(ctx); id != "" {
		l = l.With("op_id", id)
	}
	return l
}
