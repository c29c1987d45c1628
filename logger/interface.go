// Package logger defines the structured logging contract used by the server and application packages.
package logger

import "time"

// Logger is the structured logging contract used throughout go-helmet.
// It creates leveled log events and derives loggers with extra context.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	Fatal() LogEvent
	WithContext(ctx any) Logger
	WithFields(fields map[string]any) Logger
}

// LogEvent is a log entry under construction. Field methods return the event
// for chaining; Msg or Msgf sends it.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Strs(key string, values []string) LogEvent
	Bool(key string, value bool) LogEvent
	Int(key string, value int) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
}
