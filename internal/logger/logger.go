// Package logger provides levelled logging for cortex-chef.
// Messages go through log/slog. Debug and Info are only emitted in verbose
// mode (--verbose); Warn and Error are always emitted.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Format selects the slog handler.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
)

var (
	format = FormatText
	output = io.Writer(os.Stderr)
	level  = new(slog.LevelVar)
	log    = newLogger()
)

func init() {
	level.Set(slog.LevelWarn)
}

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger()
}

// SetFormat switches between text and JSON output.
func SetFormat(f Format) error {
	if f != FormatText && f != FormatJSON {
		return fmt.Errorf("unknown log format %q", f)
	}
	mu.Lock()
	defer mu.Unlock()
	format = f
	log = newLogger()
	return nil
}

// Logger returns the underlying structured logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func emit(lvl slog.Level, msg string, attrs ...slog.Attr) {
	mu.RLock()
	l := log
	mu.RUnlock()
	l.LogAttrs(context.Background(), lvl, msg, attrs...)
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	emit(slog.LevelDebug, "section", slog.String("name", name))
}

// Info logs an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(format string, args ...any) {
	emit(slog.LevelError, fmt.Sprintf(format, args...))
}

// With returns a logger carrying the given attributes, e.g. a request id.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}
