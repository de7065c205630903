// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Value is a uniform block with a fixed std140-compatible encoding.
type Value interface {
	Size() uint64
	Bytes() []byte
}

// CameraUniform is group 0: the view-projection matrix.
type CameraUniform struct {
	ViewProj mgl32.Mat4
}

// ModelUniform is group 1: the object-to-world matrix.
type ModelUniform struct {
	Model mgl32.Mat4
}

// ColorUniform is group 2: an RGB tint. The WGSL struct is padded to 16
// bytes; the fourth float is always zero.
type ColorUniform struct {
	Tint mgl32.Vec3
}

// White is the neutral tint.
var White = ColorUniform{Tint: mgl32.Vec3{1, 1, 1}}

func (CameraUniform) Size() uint64 { return 64 }
func (ModelUniform) Size() uint64  { return 64 }
func (ColorUniform) Size() uint64  { return 16 }

func (u CameraUniform) Bytes() []byte { return putFloats(make([]byte, 64), u.ViewProj[:]) }
func (u ModelUniform) Bytes() []byte  { return putFloats(make([]byte, 64), u.Model[:]) }
func (u ColorUniform) Bytes() []byte  { return putFloats(make([]byte, 16), u.Tint[:]) }

// UnmarshalBinary decodes the 64-byte encoding produced by Bytes.
func (u *CameraUniform) UnmarshalBinary(data []byte) error {
	return getFloats(data, u.ViewProj[:], "camera")
}

// UnmarshalBinary decodes the 64-byte encoding produced by Bytes.
func (u *ModelUniform) UnmarshalBinary(data []byte) error {
	return getFloats(data, u.Model[:], "model")
}

// UnmarshalBinary decodes the 16-byte encoding produced by Bytes. The
// padding float is ignored.
func (u *ColorUniform) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("%w: color needs 16 bytes, have %d", ErrDecode, len(data))
	}
	return getFloats(data[:12], u.Tint[:], "color")
}

func putFloats(buf []byte, fs []float32) []byte {
	for i, f := range fs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func getFloats(data []byte, fs []float32, what string) error {
	if len(data) != len(fs)*4 {
		return fmt.Errorf("%w: %s needs %d bytes, have %d", ErrDecode, what, len(fs)*4, len(data))
	}
	for i := range fs {
		fs[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return nil
}
