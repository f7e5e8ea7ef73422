// Package log provides the logging abstraction used by picmovie components.
//
// The Logger interface decouples the rendering pipeline from any concrete
// logging library. A zerolog-backed adapter is provided for the CLI and a
// no-op implementation for tests and embedders that want silence.
//
// # Usage
//
// Use the zerolog adapter with automatic output selection (pretty console
// on a TTY, JSON otherwise):
//
//	logger := log.NewZerologAdapter()
//
// Or silence everything:
//
//	logger := log.NewNoopLogger()
//
// # Custom Loggers
//
// Implement the Logger interface to integrate with existing logging
// infrastructure:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
