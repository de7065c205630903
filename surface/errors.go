// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "errors"

// Context errors.
var (
	// ErrUnknownBackend is returned when no backend is registered under the
	// requested name.
	ErrUnknownBackend = errors.New("surface: unknown backend")

	// ErrNoAdapter is returned when the backend exposes no adapter.
	ErrNoAdapter = errors.New("surface: no GPU adapter available")

	// ErrNoSurface is returned by operations that need a presentation
	// surface on a headless context.
	ErrNoSurface = errors.New("surface: context has no surface")

	// ErrInvalidProvider is returned by FromProvider when the provider does
	// not hand out HAL device and queue objects.
	ErrInvalidProvider = errors.New("surface: provider does not expose a HAL device and queue")

	// ErrClosed is returned when the context has been closed.
	ErrClosed = errors.New("surface: context closed")
)
