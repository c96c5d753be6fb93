// Package logger provides structured logging for the storweave daemon,
// built on log/slog with a colored text handler for terminals and a JSON
// handler for log shippers.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// Config holds logger configuration.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

var (
	currentLevel atomic.Int32 // stores slog.Level
	jsonFormat   atomic.Bool

	mu       sync.RWMutex
	output   io.Writer = os.Stderr
	useColor bool
	slogger  *slog.Logger
)

func init() {
	currentLevel.Store(int32(slog.LevelInfo))
	useColor = isatty.IsTerminal(os.Stderr.Fd())
	reconfigure()
}

// Init configures the package logger. Output can be "stdout", "stderr",
// or a file path (opened in append mode).
func Init(cfg Config) error {
	mu.Lock()
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
		useColor = isatty.IsTerminal(os.Stdout.Fd())
	case "stderr", "":
		output = os.Stderr
		useColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			mu.Unlock()
			return fmt.Errorf("failed to open log file %q: %w", cfg.Output, err)
		}
		output = f
		useColor = false
	}
	mu.Unlock()

	if cfg.Level != "" {
		SetLevel(cfg.Level)
	}
	if cfg.Format != "" {
		SetFormat(cfg.Format)
	}
	reconfigure()
	return nil
}

// InitWithWriter points the logger at an arbitrary writer. Primarily for tests.
func InitWithWriter(w io.Writer, level, format string) {
	mu.Lock()
	output = w
	useColor = false
	mu.Unlock()

	if level != "" {
		SetLevel(level)
	}
	if format != "" {
		SetFormat(format)
	}
	reconfigure()
}

// SetLevel sets the minimum log level. Invalid levels are ignored.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		currentLevel.Store(int32(slog.LevelDebug))
	case "INFO":
		currentLevel.Store(int32(slog.LevelInfo))
	case "WARN":
		currentLevel.Store(int32(slog.LevelWarn))
	case "ERROR":
		currentLevel.Store(int32(slog.LevelError))
	default:
		return
	}
	reconfigure()
}

// SetFormat selects "text" or "json" output. Invalid formats are ignored.
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "text":
		jsonFormat.Store(false)
	case "json":
		jsonFormat.Store(true)
	default:
		return
	}
	reconfigure()
}

func reconfigure() {
	mu.Lock()
	defer mu.Unlock()

	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(currentLevel.Load()))
	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	if jsonFormat.Load() {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = NewTextHandler(output, opts, useColor)
	}
	slogger = slog.New(handler)
}

func getLogger() *slog.Logger {
	mu.RLock()
	l := slogger
	mu.RUnlock()
	return l
}

// Debug logs at debug level with structured fields.
// Usage: Debug("message", "key1", value1, "key2", value2)
func Debug(msg string, args ...any) {
	if slog.Level(currentLevel.Load()) > slog.LevelDebug {
		return
	}
	getLogger().Debug(msg, args...)
}

// Info logs at info level with structured fields.
func Info(msg string, args ...any) {
	if slog.Level(currentLevel.Load()) > slog.LevelInfo {
		return
	}
	getLogger().Info(msg, args...)
}

// Warn logs at warn level with structured fields.
func Warn(msg string, args ...any) {
	if slog.Level(currentLevel.Load()) > slog.LevelWarn {
		return
	}
	getLogger().Warn(msg, args...)
}

// Error logs at error level with structured fields.
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With returns a slog.Logger with pre-bound attributes.
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}
