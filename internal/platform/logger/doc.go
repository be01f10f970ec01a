// Package logger configures structured logging for the application using
// log/slog, and carries request-scoped loggers through context.Context.
package logger
