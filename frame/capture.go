// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment texture-to-buffer copies require.
const copyPitchAlignment = 256

// PaddedBytesPerRow returns the row pitch of a width-pixel RGBA8 row in a
// readback buffer.
func PaddedBytesPerRow(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// readback is the staging buffer of one captured frame.
type readback struct {
	device hal.Device
	buffer hal.Buffer
	format gputypes.TextureFormat
	width  uint32
	height uint32
	pitch  uint32
}

func (rb *readback) size() uint64 { return uint64(rb.pitch) * uint64(rb.height) }

// encodeCapture copies the frame's color target into a new staging buffer.
func encodeCapture(device hal.Device, encoder hal.CommandEncoder, t *target) (*readback, error) {
	rb := &readback{
		device: device,
		format: t.format,
		width:  t.width,
		height: t.height,
		pitch:  PaddedBytesPerRow(t.width),
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_capture",
		Size:  rb.size(),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("frame: capture buffer: %w", err)
	}
	rb.buffer = buf

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.texture, buf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: rb.pitch, RowsPerImage: rb.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: rb.width, Height: rb.height, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
	return rb, nil
}

// read waits for the GPU, then unpads the rows into an RGBA image.
func (rb *readback) read() (*image.RGBA, error) {
	if err := rb.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("frame: capture wait: %w", err)
	}
	mapping, err := rb.device.MapBuffer(rb.buffer, 0, rb.size())
	if err != nil {
		return nil, fmt.Errorf("frame: capture map: %w", err)
	}
	data := unsafe.Slice((*byte)(mapping.Ptr), rb.size())

	img := image.NewRGBA(image.Rect(0, 0, int(rb.width), int(rb.height)))
	row := int(rb.width) * 4
	for y := 0; y < int(rb.height); y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+row], data[y*int(rb.pitch):])
	}
	if err := rb.device.UnmapBuffer(rb.buffer); err != nil {
		return nil, fmt.Errorf("frame: capture unmap: %w", err)
	}
	if isBGRA(rb.format) {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		}
	}
	return img, nil
}

func (rb *readback) destroy() {
	if rb.buffer != nil {
		rb.device.DestroyBuffer(rb.buffer)
		rb.buffer = nil
	}
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}
