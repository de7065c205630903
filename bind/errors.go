// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import "errors"

// Bind errors.
var (
	// ErrNoReadback is returned by Dump on a uniform created without
	// WithReadback.
	ErrNoReadback = errors.New("bind: uniform has no readback")

	// ErrDecode is returned when a dump has the wrong length.
	ErrDecode = errors.New("bind: malformed uniform data")

	// ErrDimension is returned when a texture does not match the view
	// dimension of the group layout.
	ErrDimension = errors.New("bind: texture view dimension mismatch")

	// ErrClosed is returned after the manager was closed.
	ErrClosed = errors.New("bind: manager closed")
)
