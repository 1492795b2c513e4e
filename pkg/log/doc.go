// Package log provides the logging abstraction used by telebus.
//
// Library code never writes to stdout or stderr directly. Every component
// logs through the [Logger] interface, and the host decides where entries
// go by passing an implementation to telebus.WithLogger. Without one, a
// no-op logger is used.
//
// # Usage
//
// Wrap a zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or write console output at a chosen level:
//
//	logger := log.NewConsoleAdapter(os.Stderr, zerolog.DebugLevel)
//
// Attach fields to every entry of a component:
//
//	sessionLog := log.With(logger, log.String("session", id))
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
