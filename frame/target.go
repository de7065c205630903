// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/surface"
)

// target is the color attachment of one frame: an acquired surface
// texture, or the loop's offscreen texture on headless contexts.
type target struct {
	device  hal.Device
	surface hal.Surface
	st      hal.SurfaceTexture
	texture hal.Texture
	view    hal.TextureView
	format  gputypes.TextureFormat
	width   uint32
	height  uint32
}

func colorView(device hal.Device, tex hal.Texture, format gputypes.TextureFormat) (hal.TextureView, error) {
	return device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "frame_color_view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
}

func newSurfaceTarget(ctx *surface.Context, st hal.SurfaceTexture) (*target, error) {
	w, h := ctx.Size()
	view, err := colorView(ctx.HalDevice(), st, ctx.SurfaceFormat())
	if err != nil {
		ctx.Surface().DiscardTexture(st)
		return nil, fmt.Errorf("frame: surface view: %w", err)
	}
	return &target{
		device:  ctx.HalDevice(),
		surface: ctx.Surface(),
		st:      st,
		texture: st,
		view:    view,
		format:  ctx.SurfaceFormat(),
		width:   uint32(w),
		height:  uint32(h),
	}, nil
}

// present hands the surface texture to the compositor. Offscreen targets
// have nothing to present.
func (t *target) present(queue hal.Queue) error {
	if t.surface == nil {
		return nil
	}
	err := queue.Present(t.surface, t.st, nil)
	t.st = nil
	return err
}

// release destroys the view and returns an unpresented surface texture.
func (t *target) release() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.surface != nil && t.st != nil {
		t.surface.DiscardTexture(t.st)
		t.st = nil
	}
}

// offscreen is the render target of a context without a surface.
type offscreen struct {
	texture hal.Texture
	width   uint32
	height  uint32
}

func newOffscreen(ctx *surface.Context) (*offscreen, error) {
	w, h := ctx.Size()
	tex, err := ctx.HalDevice().CreateTexture(&hal.TextureDescriptor{
		Label: "frame_offscreen",
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        ctx.SurfaceFormat(),
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("frame: offscreen target: %w", err)
	}
	return &offscreen{texture: tex, width: uint32(w), height: uint32(h)}, nil
}

func (o *offscreen) target(ctx *surface.Context) (*target, error) {
	view, err := colorView(ctx.HalDevice(), o.texture, ctx.SurfaceFormat())
	if err != nil {
		return nil, fmt.Errorf("frame: offscreen view: %w", err)
	}
	return &target{
		device:  ctx.HalDevice(),
		texture: o.texture,
		view:    view,
		format:  ctx.SurfaceFormat(),
		width:   o.width,
		height:  o.height,
	}, nil
}

func (o *offscreen) destroy(device hal.Device) {
	device.DestroyTexture(o.texture)
}
