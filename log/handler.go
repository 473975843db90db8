// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// terminalColors maps a level to its ANSI color code for TTY output.
var terminalColors = map[slog.Level]int{
	LevelCrit:  35, // magenta
	LevelError: 31, // red
	LevelWarn:  33, // yellow
	LevelInfo:  32, // green
	LevelDebug: 36, // cyan
	LevelTrace: 34, // blue
}

const termTimeFormat = "01-02|15:04:05.000"
const termMsgPadding = 40

// terminalHandler renders human-readable, column-aligned log lines the way
// a developer tails them in a terminal, with ANSI color when the output is
// a TTY (detected via mattn/go-isatty, same as the teacher's CLI output
// path) and coloring disabled otherwise.
type terminalHandler struct {
	mu      sync.Mutex
	wr      io.Writer
	level   slog.Leveler
	useColor bool
	attrs   []slog.Attr
}

// NewTerminalHandlerWithLevel returns a slog.Handler that writes
// human-readable lines to wr, filtering anything below minLevel. useColor
// is honored only when wr is an *os.File connected to a real TTY (checked
// via mattn/go-isatty, the same check the teacher's CLI output path uses);
// otherwise output falls back to plain text regardless of the argument.
func NewTerminalHandlerWithLevel(wr io.Writer, minLevel slog.Leveler, useColor bool) slog.Handler {
	if useColor {
		if f, ok := wr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			wr = colorable.NewColorable(f)
		} else {
			useColor = false
		}
	}
	return &terminalHandler{wr: wr, level: minLevel, useColor: useColor}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	color := 0
	if h.useColor {
		color = terminalColors[r.Level]
	}
	lvl := LevelString(r.Level)
	if color != 0 {
		fmt.Fprintf(&b, "\x1b[%dm%s\x1b[0m[%s] %s", color, lvl, ts.Format(termTimeFormat), r.Message)
	} else {
		fmt.Fprintf(&b, "%s[%s] %s", lvl, ts.Format(termTimeFormat), r.Message)
	}
	if pad := termMsgPadding - len(r.Message); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}

	attrs := append(append([]slog.Attr{}, h.attrs...), collectAttrs(r)...)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%s", a.Key, formatAttrValue(a.Value))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(h.wr, b.String())
	return err
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

func (h *terminalHandler) WithGroup(_ string) slog.Handler { return h }

func collectAttrs(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		out = append(out, a)
		return true
	})
	return out
}

func formatAttrValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindInt64:
		return FormatLogfmtInt64(v.Int64())
	case slog.KindUint64:
		return FormatLogfmtUint64(v.Uint64())
	case slog.KindAny:
		if bi, ok := v.Any().(*big.Int); ok {
			return formatLogfmtBigInt(bi)
		}
		return fmt.Sprintf("%v", v.Any())
	default:
		return v.String()
	}
}

// JSONHandler returns a handler that writes one JSON object per record,
// used by the event-ring consumer and anything piping logs into an
// off-process aggregator instead of a terminal.
func JSONHandler(wr io.Writer) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		Level: LevelTrace,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(LevelString(lvl))
				}
			}
			return a
		},
	})
}
