// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendercore/internal/gputest"
	"github.com/gogpu/rendercore/pipeline"
)

func TestVertexStrides(t *testing.T) {
	if got := len(TextVertex{}.AppendBytes(nil)); got != pipeline.TextVertexStride {
		t.Errorf("TextVertex encodes %d bytes, want %d", got, pipeline.TextVertexStride)
	}
	if got := len(SkyboxVertex{}.AppendBytes(nil)); got != pipeline.SkyboxVertexStride {
		t.Errorf("SkyboxVertex encodes %d bytes, want %d", got, pipeline.SkyboxVertexStride)
	}
}

func TestSkyboxVertexEncoding(t *testing.T) {
	v := SkyboxVertex{Position: mgl32.Vec3{1, 2, 3}, TexIndex: -5, TexCoords: mgl32.Vec2{0.25, 0.75}}
	b := v.AppendBytes(nil)
	floatAt := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	if floatAt(0) != 1 || floatAt(4) != 2 || floatAt(8) != 3 {
		t.Errorf("position = %v %v %v", floatAt(0), floatAt(4), floatAt(8))
	}
	if got := int32(binary.LittleEndian.Uint32(b[12:])); got != -5 {
		t.Errorf("tex_index = %d, want -5", got)
	}
	if floatAt(16) != 0.25 || floatAt(20) != 0.75 {
		t.Errorf("tex_coords = %v %v", floatAt(16), floatAt(20))
	}
}

func TestSkyboxCubeFaces(t *testing.T) {
	m := SkyboxCube()
	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	for i, v := range m.Vertices {
		if want := int32(i / 4); v.TexIndex != want {
			t.Errorf("vertex %d tex_index = %d, want %d", i, v.TexIndex, want)
		}
	}
	// Every triangle stays on one face, so it samples a single layer.
	for tri := 0; tri < len(m.Indices); tri += 3 {
		face := m.Vertices[m.Indices[tri]].TexIndex
		for _, idx := range m.Indices[tri : tri+3] {
			if m.Vertices[idx].TexIndex != face {
				t.Errorf("triangle %d mixes faces", tri/3)
			}
		}
	}
	if m.Indices[6] != 4 || m.Indices[7] != 6 || m.Indices[8] != 5 {
		t.Errorf("second face indices = %v, want [4 6 5 ...]", m.Indices[6:12])
	}
}

func TestUnitCube(t *testing.T) {
	m := UnitCube()
	if len(m.Vertices) != 24 || len(m.Indices) != 36 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	want := []uint32{20, 21, 22, 22, 23, 20}
	for i, idx := range m.Indices[30:] {
		if idx != want[i] {
			t.Fatalf("last face indices = %v, want %v", m.Indices[30:], want)
		}
	}
}

func TestQuad(t *testing.T) {
	m := Quad(2, 1)
	if m.Indexed() {
		t.Error("quad should be unindexed")
	}
	if len(m.Vertices) != 6 {
		t.Fatalf("got %d vertices, want 6", len(m.Vertices))
	}
	if m.Vertices[0].Position != (mgl32.Vec3{-1, 0.5, 0}) {
		t.Errorf("top left = %v", m.Vertices[0].Position)
	}
	// Counter-clockwise seen from +Z.
	a, b, c := m.Vertices[0].Position, m.Vertices[1].Position, m.Vertices[2].Position
	if n := b.Sub(a).Cross(c.Sub(a)); n.Z() <= 0 {
		t.Errorf("first triangle normal = %v, want +Z", n)
	}
}

func TestPlane(t *testing.T) {
	tests := []struct {
		align PlaneAlign
		axis  int // the constant coordinate
	}{
		{PlaneXY, 2},
		{PlaneXZ, 1},
		{PlaneYZ, 0},
	}
	for _, tt := range tests {
		m := Plane(tt.align, 2, 4, 2, 3, mgl32.Vec3{})
		if len(m.Vertices) != 12 {
			t.Fatalf("align %d: %d vertices, want 12", tt.align, len(m.Vertices))
		}
		if len(m.Indices) != 36 {
			t.Fatalf("align %d: %d indices, want 36", tt.align, len(m.Indices))
		}
		for _, v := range m.Vertices {
			if v.Position[tt.axis] != 0 {
				t.Errorf("align %d: vertex %v leaves the plane", tt.align, v.Position)
			}
		}
		last := m.Vertices[len(m.Vertices)-1].TexCoords
		if last != (mgl32.Vec2{1, 1}) {
			t.Errorf("align %d: last uv = %v", tt.align, last)
		}
	}

	m := Plane(PlaneXY, 2, 4, 1, 1, mgl32.Vec3{})
	if m.Vertices[0].Position != (mgl32.Vec3{-2, 1, 0}) {
		t.Errorf("corner = %v, want (-2, 1, 0)", m.Vertices[0].Position)
	}
	if m := Plane(PlaneXY, 1, 1, 0, 0, mgl32.Vec3{}); len(m.Vertices) != 4 {
		t.Errorf("zero rows/cols: %d vertices, want 4", len(m.Vertices))
	}
}

func TestIndexFormat(t *testing.T) {
	small := &Mesh[TextVertex]{Indices: []uint32{0, 1, 2}}
	if small.IndexFormat() != gputypes.IndexFormatUint16 {
		t.Error("small indices should be uint16")
	}
	if got := len(small.IndexBytes()); got != 8 {
		t.Errorf("uint16 index bytes = %d, want 8 (padded)", got)
	}
	wide := &Mesh[TextVertex]{Indices: []uint32{0, 70000, 1}}
	if wide.IndexFormat() != gputypes.IndexFormatUint32 {
		t.Error("large indices should be uint32")
	}
	b := wide.IndexBytes()
	if len(b) != 12 || binary.LittleEndian.Uint32(b[4:]) != 70000 {
		t.Errorf("uint32 index bytes = %v", b)
	}
}

func TestUpload(t *testing.T) {
	env := gputest.New(t)

	sky := SkyboxCube()
	b, err := Upload(env.Ctx, sky)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	defer b.Destroy()

	if !b.Indexed() || b.VertexCount != 24 || b.IndexCount != 36 {
		t.Errorf("buffers = %+v", b)
	}
	if b.IndexFormat != gputypes.IndexFormatUint16 {
		t.Errorf("index format = %v", b.IndexFormat)
	}
	writes := env.Queue.Writes()
	if len(writes) != 2 {
		t.Fatalf("got %d buffer writes, want 2", len(writes))
	}
	if len(writes[0].Data) != 24*pipeline.SkyboxVertexStride {
		t.Errorf("vertex upload = %d bytes", len(writes[0].Data))
	}
	if len(writes[1].Data) != 72 {
		t.Errorf("index upload = %d bytes, want 72", len(writes[1].Data))
	}
	if usage := env.Device.BufferDescs[0].Usage; usage&gputypes.BufferUsageVertex == 0 {
		t.Errorf("vertex buffer usage = %v", usage)
	}

	q, err := Upload(env.Ctx, Quad(1, 1))
	if err != nil {
		t.Fatalf("Upload(quad): %v", err)
	}
	defer q.Destroy()
	if q.Indexed() || q.VertexCount != 6 {
		t.Errorf("quad buffers = %+v", q)
	}
}

func TestUploadEmpty(t *testing.T) {
	env := gputest.New(t)
	if _, err := Upload(env.Ctx, &Mesh[TextVertex]{Label: "empty"}); err == nil {
		t.Fatal("Upload of an empty mesh succeeded")
	}
}
