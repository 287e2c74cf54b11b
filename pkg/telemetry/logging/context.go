package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// SessionKey is the context key for compile session identifiers.
	SessionKey contextKey = "session"

	// DocumentKey is the context key for the entry document path.
	DocumentKey contextKey = "document"

	// PassKey is the context key for the normalization pass name.
	PassKey contextKey = "pass"
)

// WithSession adds a session identifier to the context.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSession retrieves the session identifier from the context.
func GetSession(ctx context.Context) string {
	if session, ok := ctx.Value(SessionKey).(string); ok {
		return session
	}
	return ""
}

// WithDocument adds the entry document path to the context.
func WithDocument(ctx context.Context, document string) context.Context {
	return context.WithValue(ctx, DocumentKey, document)
}

// GetDocument retrieves the entry document path from the context.
func GetDocument(ctx context.Context) string {
	if document, ok := ctx.Value(DocumentKey).(string); ok {
		return document
	}
	return ""
}

// WithPass adds a pass name to the context.
func WithPass(ctx context.Context, pass string) context.Context {
	return context.WithValue(ctx, PassKey, pass)
}

// GetPass retrieves the pass name from the context.
func GetPass(ctx context.Context) string {
	if pass, ok := ctx.Value(PassKey).(string); ok {
		return pass
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if session := GetSession(ctx); session != "" {
		fields = append(fields, "session", session)
	}
	if document := GetDocument(ctx); document != "" {
		fields = append(fields, "document", document)
	}
	if pass := GetPass(ctx); pass != "" {
		fields = append(fields, "pass", pass)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger,
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
