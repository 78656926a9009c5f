// Package log is a thin structured-logging wrapper, matching the call shape
// used throughout the teacher repo (log.Debug("msg", "key", value, ...)).
// It is a minimal stand-in for go-ethereum's own log package, which itself
// wraps log/slog.
package log

import (
	"context"
	"log/slog"
	"os"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// SetDefault replaces the package-level logger, e.g. to raise verbosity or
// redirect output in tests.
func SetDefault(l *slog.Logger) { root = l }

func Trace(msg string, ctx ...any) { root.Log(context.Background(), slog.LevelDebug-4, msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// Crit logs at error level and terminates the process, matching the
// teacher's convention for unrecoverable invariant violations.
func Crit(msg string, ctx ...any) {
	root.Error(msg, ctx...)
	os.Exit(1)
}
