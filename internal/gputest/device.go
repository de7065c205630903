// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// Device counts resource creation and hands out recording encoders.
type Device struct {
	hal.Device
	Recorder *Recorder

	mu     sync.Mutex
	counts map[string]int

	// BufferDescs holds every buffer descriptor seen, in order.
	BufferDescs []hal.BufferDescriptor
	// TextureDescs holds every texture descriptor seen, in order.
	TextureDescs []hal.TextureDescriptor
}

func (d *Device) count(kind string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.counts == nil {
		d.counts = make(map[string]int)
	}
	d.counts[kind]++
}

// Count returns how many objects of kind were created. Kinds are
// "buffer", "texture", "sampler", "bind_group", "bind_group_layout",
// "pipeline_layout", "shader_module", "render_pipeline", "encoder".
func (d *Device) Count(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[kind]
}

func (d *Device) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.count("buffer")
	d.mu.Lock()
	d.BufferDescs = append(d.BufferDescs, *desc)
	d.mu.Unlock()
	return d.Device.CreateBuffer(desc)
}

func (d *Device) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	d.count("texture")
	d.mu.Lock()
	d.TextureDescs = append(d.TextureDescs, *desc)
	d.mu.Unlock()
	return d.Device.CreateTexture(desc)
}

func (d *Device) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	d.count("sampler")
	return d.Device.CreateSampler(desc)
}

func (d *Device) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	d.count("bind_group")
	return d.Device.CreateBindGroup(desc)
}

func (d *Device) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	d.count("bind_group_layout")
	return d.Device.CreateBindGroupLayout(desc)
}

func (d *Device) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	d.count("pipeline_layout")
	return d.Device.CreatePipelineLayout(desc)
}

func (d *Device) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.count("shader_module")
	return d.Device.CreateShaderModule(desc)
}

func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.count("render_pipeline")
	return d.Device.CreateRenderPipeline(desc)
}

func (d *Device) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	d.count("encoder")
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &Encoder{CommandEncoder: enc, rec: d.Recorder, dev: d.Device}, nil
}
