// Package logging provides structured logging for the compiler and its CLI.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Context-aware logging with compile session, document and pass fields
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "debug",
//	    Format: "text",
//	})
//
//	logger.Info("compiled", "document", "robot.xml", "duration_ms", 12)
//
//	ctx := logging.WithSession(ctx, id)
//	logger.WithContext(ctx).Debug("pass done", "iterations", 3)
//
// The compiler package takes a *slog.Logger; hand it Logger.Slog().
//
// Logs go to stderr unless a Writer is configured, so compiled documents
// written to stdout stay clean.
package logging
