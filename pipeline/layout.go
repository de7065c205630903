// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pipeline builds render pipelines from WGSL programs and checks,
// before any GPU object is created, that the supplied bind group and vertex
// layouts agree with what the program declares.
//
// Bind group layouts are passed in group order: layouts[0] describes
// @group(0), layouts[1] describes @group(1) and so on. All rendercore
// programs use the same numbering (camera, model, color, texture), so the
// standard layouts below can be shared between pipelines through a
// LayoutCache.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Uniform sizes of the standard groups, matching the WGSL struct spans.
const (
	CameraUniformSize = 64
	ModelUniformSize  = 64
	ColorUniformSize  = 16
)

// LayoutEntry is a bind group layout entry with an optional semantic name.
// When Name is set it must equal the WGSL variable bound at that slot.
type LayoutEntry struct {
	Name string
	gputypes.BindGroupLayoutEntry
}

// BindGroupLayout describes one @group.
type BindGroupLayout struct {
	Label   string
	Entries []LayoutEntry
}

// Entry returns the entry for binding.
func (l BindGroupLayout) Entry(binding uint32) (LayoutEntry, bool) {
	for _, e := range l.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return LayoutEntry{}, false
}

// HAL returns the plain gputypes entries.
func (l BindGroupLayout) HAL() []gputypes.BindGroupLayoutEntry {
	out := make([]gputypes.BindGroupLayoutEntry, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.BindGroupLayoutEntry
	}
	return out
}

// key identifies a layout by content. Labels are not part of the key.
func (l BindGroupLayout) key() string {
	var sb strings.Builder
	for _, e := range l.Entries {
		fmt.Fprintf(&sb, "%s/%d/%d", e.Name, e.Binding, e.Visibility)
		if b := e.Buffer; b != nil {
			fmt.Fprintf(&sb, "/buf:%d:%t:%d", b.Type, b.HasDynamicOffset, b.MinBindingSize)
		}
		if s := e.Sampler; s != nil {
			fmt.Fprintf(&sb, "/smp:%d", s.Type)
		}
		if t := e.Texture; t != nil {
			fmt.Fprintf(&sb, "/tex:%d:%d:%t", t.SampleType, t.ViewDimension, t.Multisampled)
		}
		if st := e.StorageTexture; st != nil {
			fmt.Fprintf(&sb, "/stex:%d:%d:%d", st.Access, st.Format, st.ViewDimension)
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

func uniformLayout(label, name string, size uint64) BindGroupLayout {
	return BindGroupLayout{
		Label: label,
		Entries: []LayoutEntry{{
			Name: name,
			BindGroupLayoutEntry: gputypes.BindGroupLayoutEntry{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: size,
				},
			},
		}},
	}
}

// CameraLayout is group 0: the view-projection uniform.
func CameraLayout() BindGroupLayout {
	return uniformLayout("camera_bind_group_layout", "camera", CameraUniformSize)
}

// ModelLayout is group 1: the per-object model matrix.
func ModelLayout() BindGroupLayout {
	return uniformLayout("model_bind_group_layout", "model", ModelUniformSize)
}

// ColorLayout is group 2: the per-object tint.
func ColorLayout() BindGroupLayout {
	return uniformLayout("color_bind_group_layout", "color", ColorUniformSize)
}

// TextureLayout is group 3: a filterable float texture at binding 0 and a
// filtering sampler at binding 1. Entry names are left empty so the layout
// fits any texture/sampler variable names.
func TextureLayout(dim gputypes.TextureViewDimension) BindGroupLayout {
	return BindGroupLayout{
		Label: "texture_bind_group_layout",
		Entries: []LayoutEntry{
			{BindGroupLayoutEntry: gputypes.BindGroupLayoutEntry{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: dim,
				},
			}},
			{BindGroupLayoutEntry: gputypes.BindGroupLayoutEntry{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			}},
		},
	}
}

// StandardLayouts returns the four standard groups in order, with a texture
// group of the given view dimension.
func StandardLayouts(dim gputypes.TextureViewDimension) []BindGroupLayout {
	return []BindGroupLayout{CameraLayout(), ModelLayout(), ColorLayout(), TextureLayout(dim)}
}
