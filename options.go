// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendercore/camera"
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	debugView bool
	spirv     bool
	readback  bool
	workers   int
	clear     *gputypes.Color
	camera    *camera.Camera
}

// WithDebugView builds both programs with their debug visualization: the
// text program shows texture coordinates and the skybox paints each face
// with a flat color derived from its layer.
func WithDebugView(enabled bool) Option {
	return func(o *options) {
		o.debugView = enabled
	}
}

// WithSPIRV hands shaders to the backend as SPIR-V compiled by naga
// instead of WGSL source.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithReadback gives uniform buffers a staging buffer so that
// Object.DumpModel and friends can read them back.
func WithReadback(enabled bool) Option {
	return func(o *options) {
		o.readback = enabled
	}
}

// WithLoaderWorkers sets the number of image decode goroutines.
// Default: GOMAXPROCS.
func WithLoaderWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithClearColor sets the background color. Default: opaque black.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = &c
	}
}

// WithCamera sets the initial camera. Default: camera.Default with the
// aspect ratio of the surface.
func WithCamera(c camera.Camera) Option {
	return func(o *options) {
		o.camera = &c
	}
}
