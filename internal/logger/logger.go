// Package logger configures structured logging for fxlib.
// Console output uses slogor; a rotating file is added when LogDir is set.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	"gitlab.com/greyxor/slogor"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration options.
type Config struct {
	// LogDir is the directory where log files are stored.
	// If empty, only console logging is enabled.
	LogDir string

	// Level is one of debug, info, warn, error.
	Level string

	// ConsoleLevel overrides Level for console output when set.
	ConsoleLevel string

	// JSON writes the log file as JSON instead of text.
	JSON bool

	// NoColor disables colored console output.
	NoColor bool

	// Console receives human-readable output. Defaults to os.Stderr.
	Console io.Writer

	// Component is an optional component name to add to all log entries.
	Component string
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New builds a logger from cfg. The returned closer flushes the log file.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	consoleLevel := level
	if cfg.ConsoleLevel != "" {
		consoleLevel = ParseLevel(cfg.ConsoleLevel)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	var consoleHandler slog.Handler
	if cfg.NoColor {
		consoleHandler = slogor.NewHandler(console,
			slogor.SetLevel(consoleLevel),
			slogor.SetTimeFormat(time.TimeOnly),
			slogor.DisableColor(),
		)
	} else {
		consoleHandler = slogor.NewHandler(console,
			slogor.SetLevel(consoleLevel),
			slogor.SetTimeFormat(time.TimeOnly),
		)
	}
	handlers := []slog.Handler{consoleHandler}

	var closer io.Closer = nopCloser{}
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
			return nil, nil, err
		}

		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "fxlib.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		closer = logFile

		fileOpts := &slog.HandlerOptions{
			Level:     level,
			AddSource: level == slog.LevelDebug,
		}
		if cfg.JSON {
			handlers = append(handlers, slog.NewJSONHandler(logFile, fileOpts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(logFile, fileOpts))
		}
	}

	// Each handler keeps its own level; a record reaches only those that accept it
	logger := slog.New(slogmulti.Fanout(handlers...))
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger, closer, nil
}

// Init builds a logger and installs it as the slog default.
func Init(cfg Config) (io.Closer, error) {
	logger, closer, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

// With returns a new logger with the given attributes added to all log entries.
func With(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}

// WithComponent returns a new logger with a component attribute.
func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

// Discard returns a logger that drops everything, used by tests.
func Discard() *slog.Logger {
	return slog.New(slogor.NewHandler(io.Discard, slogor.SetLevel(slog.LevelError+1)))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
