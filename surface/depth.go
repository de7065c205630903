// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DepthFormat is the format of the depth attachment created for every
// surface. Pipelines built for a Context test against it with Less.
const DepthFormat = gputypes.TextureFormatDepth32Float

// depthTarget is a depth texture sized to the surface.
type depthTarget struct {
	texture hal.Texture
	view    hal.TextureView
}

func newDepthTarget(device hal.Device, width, height uint32) (*depthTarget, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "depth_texture",
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("surface: create depth texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "depth_view",
		Format:          DepthFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("surface: create depth view: %w", err)
	}
	return &depthTarget{texture: tex, view: view}, nil
}

func (d *depthTarget) destroy(device hal.Device) {
	if d.view != nil {
		device.DestroyTextureView(d.view)
	}
	if d.texture != nil {
		device.DestroyTexture(d.texture)
	}
}
