// Package logger provides centralized logging for organizer using slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents a log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents the log output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger configuration.
type Config struct {
	Level  Level  `mapstructure:"level"`
	Format Format `mapstructure:"format"`
}

// DefaultConfig keeps the menu readable: only warnings and errors reach stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: FormatText,
	}
}

var defaultLogger *slog.Logger

// Init installs the default logger and returns it. A nil output means stderr.
func Init(cfg Config, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch Format(strings.ToLower(string(cfg.Format))) {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return defaultLogger
}

// Discard silences all logging. Tests use it to keep output clean.
func Discard() {
	Init(Config{Level: LevelError}, io.Discard)
}

// ParseLevel converts a level name to slog.Level, falling back to warn.
func ParseLevel(level Level) slog.Level {
	switch Level(strings.ToLower(string(level))) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// L returns the default logger.
func L() *slog.Logger {
	if defaultLogger == nil {
		Init(DefaultConfig(), nil)
	}
	return defaultLogger
}

// With returns a logger with additional context.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return With("component", name)
}
