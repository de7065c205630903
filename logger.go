// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import (
	"log/slog"

	"github.com/gogpu/rendercore/internal/logging"
)

// SetLogger configures the logger for rendercore and all its sub-packages.
// By default, rendercore produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by rendercore:
//   - [slog.LevelDebug]: resource details (layouts, buffers, uploads)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, surface configured)
//   - [slog.LevelWarn]: recovered conditions (surface reconfigured, frame dropped)
//   - [slog.LevelError]: device loss
//
// Example:
//
//	rendercore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logging.Logger()
}
