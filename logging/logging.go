// Package logging configures slog for the mediscan service: console text
// output plus a weekly-rotating JSON file, exposed through package-level
// helpers so every package logs the same way.
package logging

import (
	"context"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// Init wires the default logger to console and the rotating file under
// logDir. Safe to call once at startup; before that the helpers fall back
// to a plain stderr logger.
func Init(logDir string, retentionWeeks int, maxFileSize int64) {
	defaultLogger = newLogger(logDir, retentionWeeks, maxFileSize)
	slog.SetDefault(defaultLogger)
}

func logger() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func Debug(msg string, args ...any) { logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { logger().Warn(msg, args...) }
func Error(msg string, args ...any) { logger().Error(msg, args...) }

// Logger returns the configured logger for callers that need to pass one on.
func Logger() *slog.Logger { return logger() }

func newLogger(logDir string, retentionWeeks int, maxFileSize int64) *slog.Logger {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		l := slog.New(console)
		l.Error("Failed to create logs directory, console only", "error", err)
		return l
	}

	rotating, err := newRotatingWriter(logDir, retentionWeeks, maxFileSize)
	if err != nil {
		l := slog.New(console)
		l.Error("Failed to initialize rotating log file, console only", "error", err)
		return l
	}

	file := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(&multiHandler{handlers: []slog.Handler{console, file}})
}

// multiHandler fans every record out to all handlers that accept its level.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
