// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/shader"
)

// Pipeline is a validated render pipeline together with the layouts it
// was built from.
type Pipeline struct {
	device hal.Device
	label  string
	module *shader.Module

	vertex  VertexLayout
	layouts []BindGroupLayout
	groups  []hal.BindGroupLayout

	cache     *LayoutCache
	ownsCache bool

	layout hal.PipelineLayout
	shader hal.ShaderModule
	raw    hal.RenderPipeline
	depth  bool
}

// Raw returns the HAL render pipeline.
func (p *Pipeline) Raw() hal.RenderPipeline { return p.raw }

// Label returns the pipeline label.
func (p *Pipeline) Label() string { return p.label }

// Module returns the reflected program.
func (p *Pipeline) Module() *shader.Module { return p.module }

// Groups returns the number of bind groups the pipeline layout has.
func (p *Pipeline) Groups() int { return len(p.groups) }

// Layout returns the HAL layout of group, or nil when out of range.
func (p *Pipeline) Layout(group int) hal.BindGroupLayout {
	if group < 0 || group >= len(p.groups) {
		return nil
	}
	return p.groups[group]
}

// BindGroupLayout returns the layout description of group.
func (p *Pipeline) BindGroupLayout(group int) (BindGroupLayout, bool) {
	if group < 0 || group >= len(p.layouts) {
		return BindGroupLayout{}, false
	}
	return p.layouts[group], true
}

// VertexLayout returns the vertex layout the pipeline consumes.
func (p *Pipeline) VertexLayout() VertexLayout { return p.vertex }

// DepthTested reports whether the pipeline has a depth-stencil state.
func (p *Pipeline) DepthTested() bool { return p.depth }

// Destroy releases the pipeline's HAL objects. Shared layouts stay in their
// cache.
func (p *Pipeline) Destroy() {
	if p.raw != nil {
		p.device.DestroyRenderPipeline(p.raw)
		p.raw = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	if p.layout != nil {
		p.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	p.groups = nil
	if p.ownsCache && p.cache != nil {
		p.cache.Destroy()
		p.cache = nil
	}
}
