// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import "errors"

var (
	// ErrClosed is returned after Renderer.Close.
	ErrClosed = errors.New("rendercore: renderer closed")

	// ErrNoSkybox is returned by skybox operations before SetSkybox.
	ErrNoSkybox = errors.New("rendercore: no skybox")
)
