// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package camera computes the view-projection matrix uploaded to the
// shared camera group, and model matrices for placed objects.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/rendercore/bind"
)

// OpenGLToWGPU maps OpenGL clip space depth [-1, 1] to the [0, 1] range
// wgpu expects.
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Camera is a right-handed perspective camera.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	FovY   float32 // radians
	Aspect float32
	ZNear  float32
	ZFar   float32
}

// Default looks at the origin from (0, 1, 2) with a 45 degree field of view.
func Default() Camera {
	return Camera{
		Eye:    mgl32.Vec3{0, 1, 2},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   math.Pi / 4,
		Aspect: 1,
		ZNear:  0.1,
		ZFar:   1000,
	}
}

// SetAspect updates the aspect ratio from a surface size. Zero sizes are
// ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// View returns the look-at matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection returns the perspective matrix in OpenGL clip space.
func (c Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, c.Aspect, c.ZNear, c.ZFar)
}

// ViewProj returns the combined matrix in wgpu clip space.
func (c Camera) ViewProj() mgl32.Mat4 {
	return OpenGLToWGPU.Mul4(c.Projection()).Mul4(c.View())
}

// Uniform returns the camera group contents.
func (c Camera) Uniform() bind.CameraUniform {
	return bind.CameraUniform{ViewProj: c.ViewProj()}
}
