// Package logging provides the structured logger shared by the server and CLI
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger to provide a consistent interface
type Logger struct {
	zerolog.Logger
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New creates a human-readable console logger on stderr
func New(level string) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	logger := zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger}
}

// NewWithOutput creates a JSON logger writing to w
func NewWithOutput(level string, w io.Writer) *Logger {
	logger := zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: logger}
}

// NewForFormat picks the console or JSON logger. Any format other than
// "json" gets the console writer.
func NewForFormat(level, format string) *Logger {
	if strings.EqualFold(format, "json") {
		return NewWithOutput(level, os.Stderr)
	}
	return New(level)
}

// NewSilent creates a logger that discards all output
func NewSilent() *Logger {
	logger := zerolog.New(io.Discard)
	return &Logger{Logger: logger}
}

// Component returns a child logger tagged with a component name
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.With().Str("component", name).Logger()}
}
