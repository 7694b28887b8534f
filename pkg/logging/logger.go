package logging

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is an interface for logging
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
}

// ZeroLogger implements Logger using zerolog
type ZeroLogger struct {
	logger zerolog.Logger
}

// New creates a new ZeroLogger writing to stdout
func New() *ZeroLogger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()
	return &ZeroLogger{logger: logger}
}

// NewWithWriter creates a new ZeroLogger backed by the given zerolog.Logger.
// Useful for tests and for callers that already own a configured logger.
func NewWithWriter(logger zerolog.Logger) *ZeroLogger {
	return &ZeroLogger{logger: logger}
}

// WithLevel creates a new ZeroLogger with the specified level
func WithLevel(level string) func(*ZeroLogger) {
	return func(l *ZeroLogger) {
		switch level {
		case "debug":
			l.logger = l.logger.Level(zerolog.DebugLevel)
		case "info":
			l.logger = l.logger.Level(zerolog.InfoLevel)
		case "warn":
			l.logger = l.logger.Level(zerolog.WarnLevel)
		case "error":
			l.logger = l.logger.Level(zerolog.ErrorLevel)
		default:
			l.logger = l.logger.Level(zerolog.InfoLevel)
		}
	}
}

func (l *ZeroLogger) emit(event *zerolog.Event, msg string, fields map[string]interface{}) {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}

// Info logs an info message
func (l *ZeroLogger) Info(_ context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Info(), msg, fields)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(_ context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Warn(), msg, fields)
}

// Error logs an error message
func (l *ZeroLogger) Error(_ context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Error(), msg, fields)
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(_ context.Context, msg string, fields map[string]interface{}) {
	l.emit(l.logger.Debug(), msg, fields)
}

// NoOp returns a Logger that discards everything. Used as the default so
// tracing stays an invisible side channel unless a caller opts in.
func NoOp() Logger {
	return &ZeroLogger{logger: zerolog.Nop()}
}
