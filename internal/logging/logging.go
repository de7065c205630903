// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package logging holds the process-wide logger shared by all rendercore
// packages. The root package exposes it through rendercore.SetLogger.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active logger. Accessed atomically for thread safety.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// Logger returns the current logger.
// All logging in rendercore sub-packages goes through this function.
func Logger() *slog.Logger { return loggerPtr.Load() }

// Set updates the shared logger. A nil logger restores silent output.
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// IsNop reports whether h is the silent default handler.
func IsNop(h slog.Handler) bool {
	_, ok := h.(nopHandler)
	return ok
}
