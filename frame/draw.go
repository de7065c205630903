// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/mesh"
	"github.com/gogpu/rendercore/pipeline"
)

// Group is anything that resolves to a bind group handle, such as
// bind.Uniform and bind.TextureGroup.
type Group interface {
	Handle() hal.BindGroup
}

// Draw is one draw call. Groups fill slots 1, 2, ... in order; slot 0 is
// always the frame's camera group.
type Draw struct {
	Label    string
	Pipeline *pipeline.Pipeline
	Groups   []Group
	Mesh     *mesh.Buffers
}

func (d *Draw) validate() error {
	switch {
	case d.Pipeline == nil:
		return fmt.Errorf("%w: %s: no pipeline", ErrInvalidDraw, d.Label)
	case d.Mesh == nil || d.Mesh.Vertex == nil:
		return fmt.Errorf("%w: %s: no vertex buffer", ErrInvalidDraw, d.Label)
	case len(d.Groups)+1 != d.Pipeline.Groups():
		return fmt.Errorf("%w: %s: %d bind groups for pipeline %q with %d",
			ErrInvalidDraw, d.Label, len(d.Groups)+1, d.Pipeline.Label(), d.Pipeline.Groups())
	}
	for i, g := range d.Groups {
		if g == nil {
			return fmt.Errorf("%w: %s: nil bind group at slot %d", ErrInvalidDraw, d.Label, i+1)
		}
	}
	return nil
}

func (d *Draw) record(pass hal.RenderPassEncoder, camera hal.BindGroup) {
	pass.SetPipeline(d.Pipeline.Raw())
	pass.SetBindGroup(0, camera, nil)
	for i, g := range d.Groups {
		pass.SetBindGroup(uint32(i+1), g.Handle(), nil)
	}
	pass.SetVertexBuffer(0, d.Mesh.Vertex, 0)
	if d.Mesh.Indexed() {
		pass.SetIndexBuffer(d.Mesh.Index, d.Mesh.IndexFormat, 0)
		pass.DrawIndexed(d.Mesh.IndexCount, 1, 0, 0, 0)
		return
	}
	pass.Draw(d.Mesh.VertexCount, 1, 0, 0)
}
