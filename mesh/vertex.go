// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package mesh holds CPU-side geometry for the rendercore programs and
// uploads it into vertex and index buffers.
package mesh

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a vertex type with a fixed little-endian encoding matching a
// pipeline vertex layout.
type Vertex interface {
	AppendBytes(dst []byte) []byte
}

// TextVertex feeds the text program (stride 20).
type TextVertex struct {
	Position  mgl32.Vec3
	TexCoords mgl32.Vec2
}

// SkyboxVertex feeds the skybox program (stride 24). TexIndex selects the
// texture array layer the face samples.
type SkyboxVertex struct {
	Position  mgl32.Vec3
	TexIndex  int32
	TexCoords mgl32.Vec2
}

func appendFloat(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
}

// AppendBytes appends position then texture coordinates.
func (v TextVertex) AppendBytes(dst []byte) []byte {
	for _, f := range v.Position {
		dst = appendFloat(dst, f)
	}
	for _, f := range v.TexCoords {
		dst = appendFloat(dst, f)
	}
	return dst
}

// AppendBytes appends position, layer index, then texture coordinates.
func (v SkyboxVertex) AppendBytes(dst []byte) []byte {
	for _, f := range v.Position {
		dst = appendFloat(dst, f)
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(v.TexIndex))
	for _, f := range v.TexCoords {
		dst = appendFloat(dst, f)
	}
	return dst
}
