// Package logging wraps log/slog with file rotation and timing helpers.
package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger and knows whether it discards everything.
type Logger struct {
	logger  *slog.Logger
	enabled bool
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Config describes where and how to log.
type Config struct {
	FilePath string    // rotated by lumberjack; empty disables logging
	Writer   io.Writer // takes precedence over FilePath
	Level    slog.Level
	Format   LogFormat

	MaxSizeMB  int
	MaxBackups int
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
	globalCloser io.Closer

	noopLogger = &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
)

// New builds a logger from config without touching the global one. The
// returned closer is nil unless a rotating file was opened.
func New(config Config) (*Logger, io.Closer) {
	var (
		w      io.Writer
		closer io.Closer
	)
	switch {
	case config.Writer != nil:
		w = config.Writer
	case config.FilePath != "":
		rot := &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
			Compress:   true,
		}
		w, closer = rot, rot
	default:
		return noopLogger, nil
	}

	opts := &slog.HandlerOptions{Level: config.Level}
	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{logger: slog.New(handler), enabled: true}, closer
}

// Init replaces the global logger. With neither FilePath nor Writer set,
// logging is disabled.
func Init(config Config) error {
	l, closer := New(config)

	mu.Lock()
	prev := globalCloser
	globalLogger, globalCloser = l, closer
	mu.Unlock()

	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Get returns the global logger, or a noop logger before Init.
func Get() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		return noopLogger
	}
	return globalLogger
}

// Shutdown closes the rotating log file, if any, and disables logging.
func Shutdown() error {
	mu.Lock()
	closer := globalCloser
	globalLogger, globalCloser = noopLogger, nil
	mu.Unlock()

	if closer != nil {
		return closer.Close()
	}
	return nil
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// With returns a child logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...), enabled: l.enabled}
}

// Slog exposes the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// IsEnabled is false for the noop logger.
func (l *Logger) IsEnabled() bool {
	return l.enabled
}

// ParseLevel maps a configured level name to slog. Unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat maps a configured format name. Anything but json is text.
func ParseFormat(format string) LogFormat {
	if strings.EqualFold(format, "json") {
		return FormatJSON
	}
	return FormatText
}
