// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mesh

import "github.com/go-gl/mathgl/mgl32"

// SkyboxFaces names the skybox array layers in order. Face image files are
// expected under these names.
var SkyboxFaces = [6]string{"negy", "posz", "posx", "negz", "negx", "posy"}

// Quad returns a width x height rectangle in the XY plane centered on the
// origin and facing +Z, as two unindexed triangles.
func Quad(width, height float32) *Mesh[TextVertex] {
	x, y := width/2, height/2
	tl := TextVertex{Position: mgl32.Vec3{-x, y, 0}, TexCoords: mgl32.Vec2{0, 0}}
	bl := TextVertex{Position: mgl32.Vec3{-x, -y, 0}, TexCoords: mgl32.Vec2{0, 1}}
	br := TextVertex{Position: mgl32.Vec3{x, -y, 0}, TexCoords: mgl32.Vec2{1, 1}}
	tr := TextVertex{Position: mgl32.Vec3{x, y, 0}, TexCoords: mgl32.Vec2{1, 0}}
	return &Mesh[TextVertex]{
		Label:    "quad",
		Vertices: []TextVertex{tl, bl, br, br, tr, tl},
	}
}

func sv(x, y, z float32, layer int32, u, v float32) SkyboxVertex {
	return SkyboxVertex{Position: mgl32.Vec3{x, y, z}, TexIndex: layer, TexCoords: mgl32.Vec2{u, v}}
}

// SkyboxCube returns a unit cube seen from the inside. Face i (in
// SkyboxFaces order) carries TexIndex i on all four of its vertices.
func SkyboxCube() *Mesh[SkyboxVertex] {
	verts := []SkyboxVertex{
		// negy
		sv(-0.5, -0.5, 0.5, 0, 0, 1),
		sv(-0.5, -0.5, -0.5, 0, 0, 0),
		sv(0.5, -0.5, -0.5, 0, 1, 0),
		sv(0.5, -0.5, 0.5, 0, 1, 1),
		// posz
		sv(-0.5, 0.5, 0.5, 1, 1, 0),
		sv(-0.5, -0.5, 0.5, 1, 1, 1),
		sv(0.5, -0.5, 0.5, 1, 0, 1),
		sv(0.5, 0.5, 0.5, 1, 0, 0),
		// posx
		sv(0.5, 0.5, 0.5, 2, 1, 0),
		sv(0.5, -0.5, 0.5, 2, 1, 1),
		sv(0.5, -0.5, -0.5, 2, 0, 1),
		sv(0.5, 0.5, -0.5, 2, 0, 0),
		// negz
		sv(0.5, 0.5, -0.5, 3, 1, 0),
		sv(0.5, -0.5, -0.5, 3, 1, 1),
		sv(-0.5, -0.5, -0.5, 3, 0, 1),
		sv(-0.5, 0.5, -0.5, 3, 0, 0),
		// negx
		sv(-0.5, 0.5, -0.5, 4, 1, 0),
		sv(-0.5, -0.5, -0.5, 4, 1, 1),
		sv(-0.5, -0.5, 0.5, 4, 0, 1),
		sv(-0.5, 0.5, 0.5, 4, 0, 0),
		// posy
		sv(-0.5, 0.5, -0.5, 5, 0, 1),
		sv(-0.5, 0.5, 0.5, 5, 0, 0),
		sv(0.5, 0.5, 0.5, 5, 1, 0),
		sv(0.5, 0.5, -0.5, 5, 1, 1),
	}
	return &Mesh[SkyboxVertex]{
		Label:    "skybox",
		Vertices: verts,
		Indices:  faceIndices(6, [6]uint32{0, 2, 1, 2, 0, 3}),
	}
}

func tv(x, y, z, u, v float32) TextVertex {
	return TextVertex{Position: mgl32.Vec3{x, y, z}, TexCoords: mgl32.Vec2{u, v}}
}

// UnitCube returns a unit cube seen from the outside, with each face
// mapping the whole texture.
func UnitCube() *Mesh[TextVertex] {
	verts := []TextVertex{
		tv(-0.5, -0.5, 0.5, 0, 1),
		tv(-0.5, -0.5, -0.5, 0, 0),
		tv(0.5, -0.5, -0.5, 1, 0),
		tv(0.5, -0.5, 0.5, 1, 1),

		tv(-0.5, 0.5, 0.5, 0, 0),
		tv(-0.5, -0.5, 0.5, 0, 1),
		tv(0.5, -0.5, 0.5, 1, 1),
		tv(0.5, 0.5, 0.5, 1, 0),

		tv(0.5, 0.5, 0.5, 0, 0),
		tv(0.5, -0.5, 0.5, 0, 1),
		tv(0.5, -0.5, -0.5, 1, 1),
		tv(0.5, 0.5, -0.5, 1, 0),

		tv(0.5, 0.5, -0.5, 0, 0),
		tv(0.5, -0.5, -0.5, 0, 1),
		tv(-0.5, -0.5, -0.5, 1, 1),
		tv(-0.5, 0.5, -0.5, 1, 0),

		tv(-0.5, 0.5, -0.5, 0, 0),
		tv(-0.5, -0.5, -0.5, 0, 1),
		tv(-0.5, -0.5, 0.5, 1, 1),
		tv(-0.5, 0.5, 0.5, 1, 0),

		tv(-0.5, 0.5, -0.5, 0, 0),
		tv(-0.5, 0.5, 0.5, 0, 1),
		tv(0.5, 0.5, 0.5, 1, 1),
		tv(0.5, 0.5, -0.5, 1, 0),
	}
	return &Mesh[TextVertex]{
		Label:    "cube",
		Vertices: verts,
		Indices:  faceIndices(6, [6]uint32{0, 1, 2, 2, 3, 0}),
	}
}

// PlaneAlign selects the axis plane of Plane.
type PlaneAlign int

const (
	PlaneXY PlaneAlign = iota // normal +Z
	PlaneXZ                   // normal +Y
	PlaneYZ                   // normal +X
)

func (a PlaneAlign) vector(f, s float32) mgl32.Vec3 {
	switch a {
	case PlaneXZ:
		return mgl32.Vec3{f, 0, -s}
	case PlaneYZ:
		return mgl32.Vec3{0, -f, -s}
	}
	return mgl32.Vec3{f, s, 0}
}

// Plane returns an axis-aligned grid of rows x cols cells, height h along
// the first axis and width w along the second, centered on center. Texture
// coordinates span the whole plane.
func Plane(align PlaneAlign, h, w float32, rows, cols int, center mgl32.Vec3) *Mesh[TextVertex] {
	rows, cols = max(rows, 1), max(cols, 1)
	corner := center.Add(align.vector(-w/2, h/2))
	hStep := h / float32(rows)
	wStep := w / float32(cols)

	verts := make([]TextVertex, 0, (rows+1)*(cols+1))
	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			p := corner.Add(align.vector(float32(j)*wStep, float32(i)*-hStep))
			verts = append(verts, TextVertex{
				Position:  p,
				TexCoords: mgl32.Vec2{float32(j) / float32(cols), float32(i) / float32(rows)},
			})
		}
	}

	at := func(i, j int) uint32 { return uint32(i*(cols+1) + j) }
	indices := make([]uint32, 0, rows*cols*6)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			indices = append(indices,
				at(i, j), at(i+1, j), at(i+1, j+1),
				at(i+1, j+1), at(i, j+1), at(i, j))
		}
	}
	return &Mesh[TextVertex]{Label: "plane", Vertices: verts, Indices: indices}
}
