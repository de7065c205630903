// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendercore/shader"
)

// Validate checks a reflected program against a vertex layout and an
// ordered list of bind group layouts. It returns a *LayoutMismatchError for
// the first disagreement found.
//
// Every @group/@binding an entry point uses needs an entry of a compatible
// kind in layouts[group], visible to each stage that uses it. Declared but
// unused bindings and layout entries the program does not use are allowed.
// Vertex attributes must cover the program's @location inputs exactly.
func Validate(mod *shader.Module, vertex VertexLayout, layouts []BindGroupLayout) error {
	for _, b := range mod.Bindings {
		if !b.Used() {
			continue
		}
		if int(b.Group) >= len(layouts) {
			return groupMismatch(mod.Label, b.Group,
				"%s %q declared but only %d layouts supplied", b.Kind, b.Name, len(layouts))
		}
		entry, ok := layouts[b.Group].Entry(b.Binding)
		if !ok {
			return bindingMismatch(mod.Label, b.Group, b.Binding,
				"%s %q has no layout entry in %q", b.Kind, b.Name, layouts[b.Group].Label)
		}
		if err := checkEntry(mod.Label, b, entry); err != nil {
			return err
		}
	}
	return checkVertex(mod, vertex)
}

func checkEntry(pipeline string, b shader.Binding, e LayoutEntry) error {
	fail := func(format string, args ...any) error {
		return bindingMismatch(pipeline, b.Group, b.Binding, format, args...)
	}

	if e.Name != "" && e.Name != b.Name {
		return fail("layout entry %q bound where the shader declares %q", e.Name, b.Name)
	}
	if e.Visibility == 0 {
		return fail("layout entry for %q is visible to no stage", b.Name)
	}
	if e.Visibility&b.Stages != b.Stages {
		return fail("layout entry for %q is visible to %v, shader uses it in %v",
			b.Name, e.Visibility, b.Stages)
	}

	switch b.Kind {
	case shader.KindUniform, shader.KindStorage:
		if e.Buffer == nil {
			return fail("shader declares %s %q, layout has %s", b.Kind, b.Name, entryKind(e))
		}
		want := gputypes.BufferBindingTypeUniform
		if b.Kind == shader.KindStorage {
			want = gputypes.BufferBindingTypeStorage
			if e.Buffer.Type == gputypes.BufferBindingTypeReadOnlyStorage {
				want = e.Buffer.Type
			}
		}
		if e.Buffer.Type != want {
			return fail("buffer type %v, shader declares %s", e.Buffer.Type, b.Kind)
		}
		if e.Buffer.MinBindingSize != 0 && e.Buffer.MinBindingSize < uint64(b.Size) {
			return fail("min binding size %d smaller than %q (%d bytes)",
				e.Buffer.MinBindingSize, b.Name, b.Size)
		}

	case shader.KindTexture:
		t := e.Texture
		if t == nil {
			return fail("shader declares texture %q, layout has %s", b.Name, entryKind(e))
		}
		dim := t.ViewDimension
		if dim == gputypes.TextureViewDimensionUndefined {
			dim = gputypes.TextureViewDimension2D
		}
		if dim != b.ViewDimension {
			return fail("view dimension %v, shader declares %v", dim, b.ViewDimension)
		}
		if !sampleTypeCompatible(b.SampleType, t.SampleType) {
			return fail("sample type %v, shader declares %v", t.SampleType, b.SampleType)
		}
		if t.Multisampled != b.Multisampled {
			return fail("multisampled=%t, shader declares %t", t.Multisampled, b.Multisampled)
		}

	case shader.KindStorageTexture:
		if e.StorageTexture == nil {
			return fail("shader declares storage texture %q, layout has %s", b.Name, entryKind(e))
		}

	case shader.KindSampler:
		if e.Sampler == nil {
			return fail("shader declares sampler %q, layout has %s", b.Name, entryKind(e))
		}
		comparison := e.Sampler.Type == gputypes.SamplerBindingTypeComparison
		if comparison != b.Comparison {
			return fail("comparison sampler=%t, shader declares %t", comparison, b.Comparison)
		}

	default:
		return fail("unsupported resource %q", b.Name)
	}
	return nil
}

func sampleTypeCompatible(shaderType, layoutType gputypes.TextureSampleType) bool {
	if shaderType == gputypes.TextureSampleTypeFloat {
		return layoutType == gputypes.TextureSampleTypeFloat ||
			layoutType == gputypes.TextureSampleTypeUnfilterableFloat
	}
	return shaderType == layoutType
}

func entryKind(e LayoutEntry) string {
	switch {
	case e.Buffer != nil:
		return "a buffer"
	case e.Texture != nil:
		return "a texture"
	case e.StorageTexture != nil:
		return "a storage texture"
	case e.Sampler != nil:
		return "a sampler"
	}
	return "no resource"
}

func checkVertex(mod *shader.Module, v VertexLayout) error {
	attrs := make(map[uint32]gputypes.VertexAttribute, len(v.Attributes))
	for _, a := range v.Attributes {
		if _, dup := attrs[a.ShaderLocation]; dup {
			return vertexMismatch(mod.Label, a.ShaderLocation, "location used by two attributes")
		}
		if end := a.Offset + a.Format.Size(); v.ArrayStride != 0 && end > v.ArrayStride {
			return vertexMismatch(mod.Label, a.ShaderLocation,
				"attribute ends at byte %d past stride %d", end, v.ArrayStride)
		}
		attrs[a.ShaderLocation] = a
	}

	for _, in := range mod.VertexInputs {
		a, ok := attrs[in.Location]
		if !ok {
			return vertexMismatch(mod.Label, in.Location, "shader input %q has no attribute", in.Name)
		}
		if a.Format != in.Format {
			return vertexMismatch(mod.Label, in.Location,
				"attribute format %v, shader input %q needs %v", a.Format, in.Name, in.Format)
		}
		delete(attrs, in.Location)
	}
	if len(attrs) > 0 {
		first := ^uint32(0)
		for loc := range attrs {
			first = min(first, loc)
		}
		return vertexMismatch(mod.Label, first, "attribute has no shader input")
	}
	return nil
}
