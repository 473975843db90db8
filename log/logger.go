// Copyright 2024 The Monad Authors
// This file is part of the monad library.

// Package log provides the structured logging used throughout the runloop,
// scheduler, and storage engine. It wraps log/slog with the go-ethereum
// Trace/Debug/Info/Warn/Error/Crit level set and a glog-style per-file
// verbosity override, so a single logger can be dialed up for one noisy
// subsystem (the fiber scheduler's retry loop, say) without raising global
// verbosity.
package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

const errorKey = "LOG_ERROR"

// The standard slog levels only span Debug..Error; Monad's runloop wants a
// Trace level below Debug (per-fiber scheduling decisions) and a Crit level
// above Error (state corruption, codec invariant violations) that exits the
// process once emitted through Root().
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelCrit  slog.Level = 12
)

// levelNames overrides how slog's default handlers print our extra levels.
var levelNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelCrit:  "CRIT",
}

// LevelString renders lvl using the Monad level name set, falling back to
// slog's default formatting for intermediate (non-canonical) values.
func LevelString(lvl slog.Level) string {
	if name, ok := levelNames[lvl]; ok {
		return name
	}
	return lvl.String()
}

// Logger writes leveled, structured log records. It mirrors slog.Logger's
// call shape (alternating key/value pairs) rather than accepting pre-built
// slog.Attr values, matching how the rest of this module calls into it.
type Logger interface {
	With(ctx ...any) Logger
	New(ctx ...any) Logger

	Log(level slog.Level, msg string, ctx ...any)

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	// Enabled reports whether a record at level would be emitted, letting
	// callers skip building an expensive ctx slice for a disabled level.
	Enabled(level slog.Level) bool

	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps an arbitrary slog.Handler as a Logger.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Log(level slog.Level, msg string, ctx ...any) { l.write(level, msg, ctx...) }

func (l *logger) write(level slog.Level, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	if len(attrs)%2 != 0 {
		attrs = append(attrs, nil, errorKey)
	}
	l.inner.Log(context.Background(), level, msg, attrs...)
}

func (l *logger) With(ctx ...any) Logger { return l.New(ctx...) }
func (l *logger) New(ctx ...any) Logger  { return &logger{inner: l.inner.With(ctx...)} }

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx...) }

// Crit logs at LevelCrit and then terminates the process: it is reserved
// for invariants the runloop cannot continue past (a commit that produced a
// state root mismatching the consensus header, a codec round-trip failure).
func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) Enabled(level slog.Level) bool {
	return l.inner.Enabled(context.Background(), level)
}

var (
	root     atomic.Pointer[Logger]
	rootOnce sync.Once
)

func defaultRoot() Logger {
	return NewLogger(NewTerminalHandlerWithLevel(os.Stderr, LevelInfo, false))
}

// Root returns the global default logger.
func Root() Logger {
	rootOnce.Do(func() {
		l := defaultRoot()
		root.Store(&l)
	})
	return *root.Load()
}

// SetDefault sets the global default logger returned by Root and used by
// the package-level Trace/Debug/.../Crit helpers below.
func SetDefault(l Logger) {
	rootOnce.Do(func() {})
	root.Store(&l)
}

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }

// New creates a fresh Logger bound to Root()'s handler plus the given
// context pairs, without disturbing the global default.
func New(ctx ...any) Logger { return Root().New(ctx...) }
