// Package logger provides structured logging for statedump.
//
//   - logger.go: Logger interface and slog-backed implementation
//   - context.go: logger and operation id propagation
//   - attr.go: rendering of binary attributes
package logger
