// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import "github.com/gogpu/gputypes"

// Option configures a Loop.
type Option func(*options)

type options struct {
	clear    gputypes.Color
	onState  func(from, to State)
	onResize func(width, height int)
}

// WithClearColor sets the color the pass clears to. Default: opaque black.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithStateHook is called on the render thread at every transition.
func WithStateHook(fn func(from, to State)) Option {
	return func(o *options) {
		o.onState = fn
	}
}

// WithResizeHandler is called on the render thread after a resize has been
// applied to the surface.
func WithResizeHandler(fn func(width, height int)) Option {
	return func(o *options) {
		o.onResize = fn
	}
}
