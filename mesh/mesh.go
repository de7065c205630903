// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"
)

// Mesh is a triangle list. A nil Indices slice draws the vertices in order.
type Mesh[V Vertex] struct {
	Label    string
	Vertices []V
	Indices  []uint32
}

// VertexBytes encodes every vertex.
func (m *Mesh[V]) VertexBytes() []byte {
	var out []byte
	for _, v := range m.Vertices {
		out = v.AppendBytes(out)
	}
	return out
}

// IndexFormat returns Uint16 when every index fits, otherwise Uint32.
func (m *Mesh[V]) IndexFormat() gputypes.IndexFormat {
	for _, i := range m.Indices {
		if i > 0xFFFF {
			return gputypes.IndexFormatUint32
		}
	}
	return gputypes.IndexFormatUint16
}

// IndexBytes encodes the indices in IndexFormat, padded to a multiple of
// four bytes.
func (m *Mesh[V]) IndexBytes() []byte {
	var out []byte
	if m.IndexFormat() == gputypes.IndexFormatUint32 {
		for _, i := range m.Indices {
			out = binary.LittleEndian.AppendUint32(out, i)
		}
		return out
	}
	for _, i := range m.Indices {
		out = binary.LittleEndian.AppendUint16(out, uint16(i))
	}
	if len(out)%4 != 0 {
		out = append(out, 0, 0)
	}
	return out
}

// Indexed reports whether the mesh has an index list.
func (m *Mesh[V]) Indexed() bool { return m.Indices != nil }

// faceIndices repeats pattern once per quad face, offset by 4 vertices
// per face.
func faceIndices(faces int, pattern [6]uint32) []uint32 {
	out := make([]uint32, 0, faces*6)
	for f := 0; f < faces; f++ {
		for _, i := range pattern {
			out = append(out, i+uint32(4*f))
		}
	}
	return out
}
