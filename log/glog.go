// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package log

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-stack/stack"
)

// GlogHandler wraps a slog.Handler with glog-style verbosity: a global
// level plus per-source-file overrides set with Vmodule (e.g.
// "scheduler.go=5,executor.go=3"). This lets the fiber scheduler's retry
// path run at Trace while the rest of the runloop stays at Info.
type GlogHandler struct {
	inner slog.Handler

	level    atomic.Int32
	mu       sync.RWMutex
	patterns []globPattern
}

type globPattern struct {
	pattern string
	level   slog.Level
}

// NewGlogHandler wraps h. Before any Verbosity/Vmodule call, every record
// passes straight through.
func NewGlogHandler(h slog.Handler) *GlogHandler {
	g := &GlogHandler{inner: h}
	g.level.Store(int32(LevelTrace))
	return g
}

// Verbosity sets the global minimum level. Vmodule patterns still take
// precedence for files they match.
func (g *GlogHandler) Verbosity(lvl slog.Level) {
	g.level.Store(int32(lvl))
}

// Vmodule parses a comma-separated list of "pattern=level" pairs, where
// pattern is matched (via filepath.Match) against the base name of the
// caller's source file.
func (g *GlogHandler) Vmodule(spec string) error {
	var patterns []globPattern
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.LastIndex(part, "=")
		if eq < 0 {
			continue
		}
		lvl, err := strconv.Atoi(part[eq+1:])
		if err != nil {
			return err
		}
		patterns = append(patterns, globPattern{pattern: part[:eq], level: slog.Level(lvl)})
	}
	g.mu.Lock()
	g.patterns = patterns
	g.mu.Unlock()
	return nil
}

func (g *GlogHandler) matchFile(file string) (slog.Level, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	base := filepath.Base(file)
	for _, p := range g.patterns {
		if ok, _ := filepath.Match(p.pattern, base); ok {
			return p.level, true
		}
	}
	return 0, false
}

func (g *GlogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.Level(g.level.Load()) {
		return true
	}
	if file := callerFile(); file != "" {
		if lvl, ok := g.matchFile(file); ok {
			return level >= lvl
		}
	}
	return false
}

func (g *GlogHandler) Handle(ctx context.Context, r slog.Record) error {
	return g.inner.Handle(ctx, r)
}

func (g *GlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := &GlogHandler{inner: g.inner.WithAttrs(attrs), patterns: g.patterns}
	cp.level.Store(g.level.Load())
	return cp
}

func (g *GlogHandler) WithGroup(name string) slog.Handler {
	cp := &GlogHandler{inner: g.inner.WithGroup(name), patterns: g.patterns}
	cp.level.Store(g.level.Load())
	return cp
}

// callerFile walks up the stack (via go-stack, a lightweight alternative to
// runtime.Callers+CallersFrames) past log/slog's frames and this package's
// own non-test frames, and returns the base name of the first remaining
// caller's source file.
func callerFile() string {
	const maxDepth = 12
	trace := stack.Trace().TrimRuntime()
	for i, c := range trace {
		if i > maxDepth {
			break
		}
		name := fmt.Sprintf("%+s", c)
		if strings.HasPrefix(name, "log/slog/") {
			continue
		}
		if !strings.Contains(name, "/log/") || strings.HasSuffix(name, "_test.go") {
			return filepath.Base(name)
		}
	}
	return ""
}
