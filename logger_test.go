// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/rendercore/internal/logging"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
	if !logging.IsNop(l.Handler()) {
		t.Errorf("default handler is %T", l.Handler())
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Sub-packages log through the shared pointer.
	logging.Logger().Info("surface: configured", "width", 64)
	if !strings.Contains(buf.String(), "surface: configured") {
		t.Errorf("log output = %q", buf.String())
	}

	SetLogger(nil)
	if !logging.IsNop(Logger().Handler()) {
		t.Error("SetLogger(nil) did not restore the silent logger")
	}
}
