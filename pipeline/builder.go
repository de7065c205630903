// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/internal/shaders"
	"github.com/gogpu/rendercore/shader"
	"github.com/gogpu/rendercore/surface"
)

// Builder turns a WGSL program and its layouts into a Pipeline.
type Builder struct {
	ctx    *surface.Context
	label  string
	source string
	opts   options
}

// NewBuilder prepares a pipeline build. Nothing is compiled until Build.
func NewBuilder(ctx *surface.Context, label, source string, opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{ctx: ctx, label: label, source: source, opts: o}
}

// Build specializes, reflects and validates the program, then creates the
// HAL objects. Shader errors are returned as *shader.CompileError and layout
// disagreements as *LayoutMismatchError; in both cases no GPU object is
// created.
func (b *Builder) Build() (*Pipeline, error) {
	src, err := b.specialize()
	if err != nil {
		return nil, err
	}
	mod, err := shader.Reflect(b.label, src)
	if err != nil {
		return nil, err
	}
	if err := Validate(mod, b.opts.vertex, b.opts.layouts); err != nil {
		return nil, err
	}

	vs, err := b.entryPoint(mod, gputypes.ShaderStageVertex, b.opts.vsEntry)
	if err != nil {
		return nil, err
	}
	fs, err := b.entryPoint(mod, gputypes.ShaderStageFragment, b.opts.fsEntry)
	if err != nil {
		return nil, err
	}

	device := b.ctx.HalDevice()
	p := &Pipeline{
		device:  device,
		label:   b.label,
		module:  mod,
		vertex:  b.opts.vertex,
		layouts: slices.Clone(b.opts.layouts),
		cache:   b.opts.cache,
	}
	if p.cache == nil {
		p.cache = NewLayoutCache(device)
		p.ownsCache = true
	}
	if err := b.create(p, src, vs, fs); err != nil {
		p.Destroy()
		return nil, err
	}

	logging.Logger().Info("pipeline: built",
		"label", b.label,
		"groups", len(p.groups),
		"debug_view", b.opts.debugView,
		"spirv", b.opts.spirv)
	return p, nil
}

func (b *Builder) specialize() (string, error) {
	flags := map[string]bool{}
	if slices.Contains(shader.DeclaredOverrides(b.source), shaders.DebugViewFlag) {
		flags[shaders.DebugViewFlag] = b.opts.debugView
	} else if b.opts.debugView {
		return "", fmt.Errorf("pipeline %q: %w: %s", b.label, shader.ErrUnknownOverride, shaders.DebugViewFlag)
	}
	src, err := shader.Specialize(b.source, flags)
	if err != nil {
		return "", fmt.Errorf("pipeline %q: %w", b.label, err)
	}
	return src, nil
}

func (b *Builder) entryPoint(mod *shader.Module, stage gputypes.ShaderStage, name string) (string, error) {
	for _, ep := range mod.EntryPoints {
		if ep.Stage == stage && (name == "" || ep.Name == name) {
			return ep.Name, nil
		}
	}
	if name == "" {
		return "", fmt.Errorf("%w: pipeline %q has no %v stage", ErrNoEntryPoint, b.label, stage)
	}
	return "", fmt.Errorf("%w: pipeline %q has no %v entry point %q", ErrNoEntryPoint, b.label, stage, name)
}

func (b *Builder) create(p *Pipeline, src, vs, fs string) error {
	device := p.device

	for _, l := range p.layouts {
		hl, err := p.cache.Get(l)
		if err != nil {
			return err
		}
		p.groups = append(p.groups, hl)
	}

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            b.label + "_pipeline_layout",
		BindGroupLayouts: p.groups,
	})
	if err != nil {
		return fmt.Errorf("pipeline %q: create pipeline layout: %w", b.label, err)
	}
	p.layout = layout

	source := hal.ShaderSource{WGSL: src}
	if b.opts.spirv {
		code, err := shader.CompileSPIRV(b.label, src)
		if err != nil {
			return err
		}
		source = hal.ShaderSource{SPIRV: code}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  b.label + "_shader",
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("pipeline %q: create shader module: %w", b.label, err)
	}
	p.shader = module

	format := b.opts.colorFmt
	if format == gputypes.TextureFormatUndefined {
		format = b.ctx.SurfaceFormat()
	}

	desc := &hal.RenderPipelineDescriptor{
		Label:  b.label + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: vs,
			Buffers:    b.opts.vertex.HAL(),
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: fs,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     b.opts.blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  b.opts.cullMode,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if b.depthEnabled() {
		desc.DepthStencil = &hal.DepthStencilState{
			Format:            surface.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      gputypes.CompareFunctionLess,
			StencilFront:      hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
			StencilBack:       hal.StencilFaceState{Compare: gputypes.CompareFunctionAlways},
		}
		p.depth = true
	}

	raw, err := device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("pipeline %q: create render pipeline: %w", b.label, err)
	}
	p.raw = raw
	return nil
}

func (b *Builder) depthEnabled() bool {
	if b.opts.depth != nil {
		return *b.opts.depth
	}
	return b.ctx.DepthFormat() != gputypes.TextureFormatUndefined
}
