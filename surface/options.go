// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Context during creation.
type Option func(*options)

type options struct {
	backend       string
	display       uintptr
	window        uintptr
	width, height int
	format        gputypes.TextureFormat
	presentMode   gputypes.PresentMode
	surface       hal.Surface
	depth         bool
	headless      bool
}

func defaultOptions() options {
	return options{
		width:       800,
		height:      600,
		format:      gputypes.TextureFormatBGRA8Unorm,
		presentMode: gputypes.PresentModeFifo,
		depth:       true,
	}
}

// WithBackend selects a backend by registry name ("vulkan", "software",
// "noop", ...). The default is the highest-priority registered backend.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithWindow sets the native display and window handles the surface is
// created for. Zero handles create a headless surface on backends that
// support it (software, noop).
func WithWindow(display, window uintptr) Option {
	return func(o *options) {
		o.display = display
		o.window = window
	}
}

// WithSize sets the initial surface size in pixels. Default: 800x600.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithFormat sets the preferred surface format. It is used when the adapter
// supports it, otherwise the adapter's first format is chosen.
// Default: BGRA8Unorm.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithPresentMode sets the present mode. Default: Fifo (vsync).
func WithPresentMode(mode gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentMode = mode
	}
}

// WithSurface attaches an existing HAL surface. Used with FromProvider,
// where the host application created the surface.
func WithSurface(s hal.Surface) Option {
	return func(o *options) {
		o.surface = s
	}
}

// WithDepth enables or disables the depth attachment. Default: enabled.
func WithDepth(enabled bool) Option {
	return func(o *options) {
		o.depth = enabled
	}
}

// WithHeadless creates the context without a presentation surface, also
// dropping one given with WithSurface. Frames render to an offscreen
// target and are never presented.
func WithHeadless() Option {
	return func(o *options) {
		o.headless = true
	}
}
