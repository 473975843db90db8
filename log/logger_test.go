// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package log

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"testing"
)

func TestTerminalHandlerLevelFilter(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(NewTerminalHandlerWithLevel(&out, LevelInfo, false))

	logger.Debug("swallowed")
	if out.Len() != 0 {
		t.Fatalf("expected Debug below Info to be filtered, got %q", out.String())
	}

	logger.Info("a message", "foo", "bar")
	if !strings.Contains(out.String(), "a message") || !strings.Contains(out.String(), "foo=bar") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestTerminalHandlerWithAttrs(t *testing.T) {
	var out bytes.Buffer
	h := NewTerminalHandlerWithLevel(&out, LevelTrace, false).WithAttrs([]slog.Attr{slog.String("baz", "bat")})
	logger := NewLogger(h)
	logger.Trace("a message", "foo", "bar")

	have := out.String()
	if !strings.Contains(have, "baz=bat") || !strings.Contains(have, "foo=bar") {
		t.Fatalf("expected both WithAttrs and call-site attrs present, got %q", have)
	}
}

func TestGlogHandlerVmoduleOverridesVerbosity(t *testing.T) {
	var out bytes.Buffer
	glog := NewGlogHandler(NewTerminalHandlerWithLevel(&out, LevelTrace, false))
	glog.Verbosity(LevelCrit)
	logger := NewLogger(glog)

	logger.Warn("should not be seen")
	if out.Len() != 0 {
		t.Fatalf("expected Warn below Crit to be filtered, got %q", out.String())
	}

	if err := glog.Vmodule("logger_test.go=" + strconv.Itoa(int(LevelTrace))); err != nil {
		t.Fatal(err)
	}
	logger.Trace("a message", "foo", "bar")
	if !strings.Contains(out.String(), "a message") {
		t.Fatalf("expected vmodule override to let this file's Trace through, got %q", out.String())
	}
}

func TestJSONHandlerEmitsDebug(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(JSONHandler(&out))
	logger.Debug("hi there")
	if out.Len() == 0 {
		t.Fatal("expected non-empty debug output from JSONHandler")
	}
}

func TestSetDefaultCustomLogger(t *testing.T) {
	type customLogger struct {
		Logger
	}
	custom := &customLogger{Logger: NewLogger(NewTerminalHandlerWithLevel(&bytes.Buffer{}, LevelInfo, false))}
	SetDefault(custom)
	if Root() != Logger(custom) {
		t.Error("expected custom logger to be set as default")
	}
}
