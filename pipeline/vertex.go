// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import "github.com/gogpu/gputypes"

// Vertex strides in bytes.
const (
	TextVertexStride   = 20 // position f32x3 + uv f32x2
	SkyboxVertexStride = 24 // position f32x3 + tex_index i32 + uv f32x2
)

// VertexLayout is the single per-vertex buffer a pipeline consumes.
type VertexLayout struct {
	ArrayStride uint64
	Attributes  []gputypes.VertexAttribute
}

// HAL returns the layout as the one-element buffer list the HAL expects.
// An empty layout yields no buffers.
func (v VertexLayout) HAL() []gputypes.VertexBufferLayout {
	if len(v.Attributes) == 0 {
		return nil
	}
	return []gputypes.VertexBufferLayout{{
		ArrayStride: v.ArrayStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes:  v.Attributes,
	}}
}

// TextVertexLayout matches VertexInput in text.wgsl:
//
//	location 0: position   (vec3<f32>)
//	location 1: tex_coords (vec2<f32>)
func TextVertexLayout() VertexLayout {
	return VertexLayout{
		ArrayStride: TextVertexStride,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// SkyboxVertexLayout matches VertexInput in skybox.wgsl:
//
//	location 0: position   (vec3<f32>)
//	location 1: tex_index  (i32)
//	location 2: tex_coords (vec2<f32>)
func SkyboxVertexLayout() VertexLayout {
	return VertexLayout{
		ArrayStride: SkyboxVertexStride,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatSint32, Offset: 12, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2},
		},
	}
}
