// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/rendercore/bind"
)

// Transform places an object: scale, then rotation about Y, then
// translation.
type Transform struct {
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
	RotationY   float32 // radians
}

// Identity leaves an object where its mesh puts it.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z())
	if t.RotationY != 0 {
		m = m.Mul4(mgl32.HomogRotate3DY(t.RotationY))
	}
	return m.Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Uniform returns the model group contents.
func (t Transform) Uniform() bind.ModelUniform {
	return bind.ModelUniform{Model: t.Matrix()}
}
