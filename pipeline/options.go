// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import "github.com/gogpu/gputypes"

// Option configures a Builder.
type Option func(*options)

type options struct {
	vertex    VertexLayout
	layouts   []BindGroupLayout
	debugView bool
	cullMode  gputypes.CullMode
	depth     *bool
	blend     *gputypes.BlendState
	spirv     bool
	cache     *LayoutCache
	vsEntry   string
	fsEntry   string
	colorFmt  gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		cullMode: gputypes.CullModeBack,
	}
}

// WithVertexLayout sets the vertex buffer layout.
func WithVertexLayout(v VertexLayout) Option {
	return func(o *options) {
		o.vertex = v
	}
}

// WithBindGroupLayouts sets the bind group layouts in group order.
func WithBindGroupLayouts(layouts ...BindGroupLayout) Option {
	return func(o *options) {
		o.layouts = layouts
	}
}

// WithDebugView turns on the program's debug visualization (texture
// coordinates as color instead of the sampled texture).
func WithDebugView(enabled bool) Option {
	return func(o *options) {
		o.debugView = enabled
	}
}

// WithCullMode sets face culling. Default: back faces culled.
func WithCullMode(mode gputypes.CullMode) Option {
	return func(o *options) {
		o.cullMode = mode
	}
}

// WithDepth forces the depth test on or off. By default it follows whether
// the context has a depth attachment.
func WithDepth(enabled bool) Option {
	return func(o *options) {
		o.depth = &enabled
	}
}

// WithBlend sets the color target blend state. Default: no blending.
func WithBlend(blend *gputypes.BlendState) Option {
	return func(o *options) {
		o.blend = blend
	}
}

// WithSPIRV hands the backend SPIR-V compiled by naga instead of WGSL.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithLayoutCache shares bind group layouts with other pipelines.
func WithLayoutCache(c *LayoutCache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithEntryPoints names the vertex and fragment entry points. Empty names
// select the program's first entry point of each stage.
func WithEntryPoints(vs, fs string) Option {
	return func(o *options) {
		o.vsEntry = vs
		o.fsEntry = fs
	}
}

// WithColorFormat overrides the color target format. Default: the
// context's surface format.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.colorFmt = f
	}
}
