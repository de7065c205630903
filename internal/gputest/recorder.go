// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Op names a recorded render pass command.
type Op string

const (
	OpBeginPass    Op = "begin_pass"
	OpSetPipeline  Op = "set_pipeline"
	OpSetBindGroup Op = "set_bind_group"
	OpSetVertex    Op = "set_vertex_buffer"
	OpSetIndex     Op = "set_index_buffer"
	OpDraw         Op = "draw"
	OpDrawIndexed  Op = "draw_indexed"
	OpEndPass      Op = "end_pass"
	OpCopyToBuffer Op = "copy_texture_to_buffer"
	OpCopyBuffer   Op = "copy_buffer_to_buffer"
)

// Command is one recorded call.
type Command struct {
	Op       Op
	Index    uint32 // bind group slot or vertex buffer slot
	Count    uint32 // vertex or index count
	Group    hal.BindGroup
	Pipeline hal.RenderPipeline
	Pass     *hal.RenderPassDescriptor
}

// Recorder is a thread-safe command log.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
}

func (r *Recorder) add(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
}

// Commands returns a copy of the log.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Filter returns the commands with the given op.
func (r *Recorder) Filter(op Op) []Command {
	var out []Command
	for _, c := range r.Commands() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset clears the log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}

// Encoder records passes and copies.
type Encoder struct {
	hal.CommandEncoder
	rec *Recorder
	dev hal.Device
}

func (e *Encoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	d := *desc
	e.rec.add(Command{Op: OpBeginPass, Pass: &d})
	return &Pass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), rec: e.rec}
}

func (e *Encoder) CopyTextureToBuffer(src hal.Texture, dst hal.Buffer, regions []hal.BufferTextureCopy) {
	e.rec.add(Command{Op: OpCopyToBuffer})
	e.CommandEncoder.CopyTextureToBuffer(src, dst, regions)
}

// CopyBufferToBuffer moves the bytes at record time, since noop encoders
// drop copies and readbacks would otherwise see zeros.
func (e *Encoder) CopyBufferToBuffer(src, dst hal.Buffer, regions []hal.BufferCopy) {
	e.rec.add(Command{Op: OpCopyBuffer})
	e.CommandEncoder.CopyBufferToBuffer(src, dst, regions)
	for _, r := range regions {
		from, err := e.dev.MapBuffer(src, r.SrcOffset, r.Size)
		if err != nil {
			continue
		}
		to, err := e.dev.MapBuffer(dst, r.DstOffset, r.Size)
		if err != nil {
			continue
		}
		copy(unsafe.Slice((*byte)(to.Ptr), r.Size), unsafe.Slice((*byte)(from.Ptr), r.Size))
	}
}

// Pass records draw state changes.
type Pass struct {
	hal.RenderPassEncoder
	rec *Recorder
}

func (p *Pass) SetPipeline(pipeline hal.RenderPipeline) {
	p.rec.add(Command{Op: OpSetPipeline, Pipeline: pipeline})
	p.RenderPassEncoder.SetPipeline(pipeline)
}

func (p *Pass) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	p.rec.add(Command{Op: OpSetBindGroup, Index: index, Group: group})
	p.RenderPassEncoder.SetBindGroup(index, group, offsets)
}

func (p *Pass) SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64) {
	p.rec.add(Command{Op: OpSetVertex, Index: slot})
	p.RenderPassEncoder.SetVertexBuffer(slot, buffer, offset)
}

func (p *Pass) SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.rec.add(Command{Op: OpSetIndex})
	p.RenderPassEncoder.SetIndexBuffer(buffer, format, offset)
}

func (p *Pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.rec.add(Command{Op: OpDraw, Count: vertexCount})
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.rec.add(Command{Op: OpDrawIndexed, Count: indexCount})
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *Pass) End() {
	p.rec.add(Command{Op: OpEndPass})
	p.RenderPassEncoder.End()
}
