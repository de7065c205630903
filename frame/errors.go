// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "errors"

var (
	// ErrFrameDropped marks a skipped frame. The cause is wrapped
	// alongside it.
	ErrFrameDropped = errors.New("frame: dropped")

	// ErrDeviceLost is fatal; the loop refuses further frames.
	ErrDeviceLost = errors.New("frame: device lost")

	// ErrInvalidDraw reports a draw that does not fit its pipeline.
	ErrInvalidDraw = errors.New("frame: invalid draw")

	// ErrNoCapture is returned by Captured when no image is ready.
	ErrNoCapture = errors.New("frame: no captured image")
)
