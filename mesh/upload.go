// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/surface"
)

// Buffers are the GPU copies of a mesh.
type Buffers struct {
	device hal.Device

	Vertex      hal.Buffer
	Index       hal.Buffer // nil for unindexed meshes
	IndexFormat gputypes.IndexFormat
	VertexCount uint32
	IndexCount  uint32
}

// Upload creates and fills the vertex buffer and, for indexed meshes, the
// index buffer.
func Upload[V Vertex](ctx *surface.Context, m *Mesh[V]) (*Buffers, error) {
	if len(m.Vertices) == 0 {
		return nil, fmt.Errorf("mesh %q: no vertices", m.Label)
	}
	b := &Buffers{
		device:      ctx.HalDevice(),
		VertexCount: uint32(len(m.Vertices)),
	}

	vb, err := createAndUpload(ctx, m.Label+"_vertices", m.VertexBytes(), gputypes.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	b.Vertex = vb

	if m.Indexed() {
		ib, err := createAndUpload(ctx, m.Label+"_indices", m.IndexBytes(), gputypes.BufferUsageIndex)
		if err != nil {
			b.Destroy()
			return nil, err
		}
		b.Index = ib
		b.IndexFormat = m.IndexFormat()
		b.IndexCount = uint32(len(m.Indices))
	}

	logging.Logger().Debug("mesh: uploaded",
		"label", m.Label, "vertices", b.VertexCount, "indices", b.IndexCount)
	return b, nil
}

func createAndUpload(ctx *surface.Context, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	device := ctx.HalDevice()
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("mesh: create %s: %w", label, err)
	}
	if err := ctx.HalQueue().WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("mesh: write %s: %w", label, err)
	}
	return buf, nil
}

// Indexed reports whether draws should use the index buffer.
func (b *Buffers) Indexed() bool { return b.Index != nil }

// Destroy releases both buffers.
func (b *Buffers) Destroy() {
	if b.Index != nil {
		b.device.DestroyBuffer(b.Index)
		b.Index = nil
	}
	if b.Vertex != nil {
		b.device.DestroyBuffer(b.Vertex)
		b.Vertex = nil
	}
}
