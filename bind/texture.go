// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/texture"
)

// TextureGroup binds a texture view at binding 0 and its sampler at
// binding 1. It never changes after creation: Rebind returns a new group.
type TextureGroup struct {
	device hal.Device
	layout hal.BindGroupLayout
	label  string
	dim    gputypes.TextureViewDimension
	track  func(destroyer)

	tex *texture.Texture

	mu    sync.Mutex
	group hal.BindGroup
}

func newTextureGroup(device hal.Device, layout hal.BindGroupLayout, dim gputypes.TextureViewDimension,
	label string, tex *texture.Texture, track func(destroyer)) (*TextureGroup, error) {
	if tex == nil {
		return nil, fmt.Errorf("bind: texture group %s: nil texture", label)
	}
	if tex.ViewDimension() != dim {
		return nil, fmt.Errorf("bind: texture group %s: %w: texture is %v, layout wants %v",
			label, ErrDimension, tex.ViewDimension(), dim)
	}
	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind_group",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: tex.View().NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: tex.Sampler().NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bind: create %s bind group: %w", label, err)
	}
	g := &TextureGroup{
		device: device,
		layout: layout,
		label:  label,
		dim:    dim,
		track:  track,
		tex:    tex,
		group:  group,
	}
	if track != nil {
		track(g)
	}
	return g, nil
}

// Handle returns the bind group.
func (g *TextureGroup) Handle() hal.BindGroup {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.group
}

// Texture returns the bound texture.
func (g *TextureGroup) Texture() *texture.Texture { return g.tex }

// Rebind returns a group for tex on the same layout. The receiver is left
// untouched and stays valid until destroyed. Rebinding the texture already
// bound returns the receiver.
func (g *TextureGroup) Rebind(tex *texture.Texture) (*TextureGroup, error) {
	if tex == g.tex {
		return g, nil
	}
	return newTextureGroup(g.device, g.layout, g.dim, g.label, tex, g.track)
}

// Destroy releases the bind group. The texture is owned by the caller.
func (g *TextureGroup) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.group != nil {
		g.device.DestroyBindGroup(g.group)
		g.group = nil
	}
}
