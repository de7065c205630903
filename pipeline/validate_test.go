// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendercore/internal/shaders"
	"github.com/gogpu/rendercore/shader"
)

func reflect(t *testing.T, label, src string) *shader.Module {
	t.Helper()
	m, err := shader.Reflect(label, src)
	if err != nil {
		t.Fatalf("Reflect(%s): %v", label, err)
	}
	return m
}

func withoutEntry(l BindGroupLayout, binding uint32) BindGroupLayout {
	out := BindGroupLayout{Label: l.Label}
	for _, e := range l.Entries {
		if e.Binding != binding {
			out.Entries = append(out.Entries, e)
		}
	}
	return out
}

func TestValidateStandardPrograms(t *testing.T) {
	text := reflect(t, "text", shaders.Text)
	if err := Validate(text, TextVertexLayout(), StandardLayouts(gputypes.TextureViewDimension2D)); err != nil {
		t.Errorf("text: %v", err)
	}
	sky := reflect(t, "skybox", shaders.Skybox)
	if err := Validate(sky, SkyboxVertexLayout(), StandardLayouts(gputypes.TextureViewDimension2DArray)); err != nil {
		t.Errorf("skybox: %v", err)
	}
}

// Every binding the program declares is removed in turn; each removal must
// be rejected, and the complete set must be accepted.
func TestValidateEveryBindingNeedsAnEntry(t *testing.T) {
	mod := reflect(t, "text", shaders.Text)
	full := StandardLayouts(gputypes.TextureViewDimension2D)

	for _, b := range mod.Bindings {
		layouts := StandardLayouts(gputypes.TextureViewDimension2D)
		layouts[b.Group] = withoutEntry(layouts[b.Group], b.Binding)

		err := Validate(mod, TextVertexLayout(), layouts)
		var lm *LayoutMismatchError
		if !errors.As(err, &lm) {
			t.Errorf("without %s: error = %v, want *LayoutMismatchError", b.Name, err)
			continue
		}
		if lm.Group != int(b.Group) || lm.Binding != int(b.Binding) {
			t.Errorf("without %s: mismatch at %d/%d, want %d/%d",
				b.Name, lm.Group, lm.Binding, b.Group, b.Binding)
		}
	}

	if err := Validate(mod, TextVertexLayout(), full); err != nil {
		t.Errorf("full layouts: %v", err)
	}
}

func TestValidateMissingGroup(t *testing.T) {
	mod := reflect(t, "text", shaders.Text)
	layouts := StandardLayouts(gputypes.TextureViewDimension2D)[:3]

	err := Validate(mod, TextVertexLayout(), layouts)
	var lm *LayoutMismatchError
	if !errors.As(err, &lm) || lm.Group != 3 || lm.Binding != -1 {
		t.Fatalf("Validate() = %v, want group 3 mismatch", err)
	}
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Errorf("error does not match ErrLayoutMismatch")
	}
}

func TestValidateUnusedEntriesAllowed(t *testing.T) {
	mod := reflect(t, "text", shaders.Text)
	layouts := StandardLayouts(gputypes.TextureViewDimension2D)
	layouts[2].Entries = append(layouts[2].Entries, LayoutEntry{
		BindGroupLayoutEntry: gputypes.BindGroupLayoutEntry{
			Binding:    5,
			Visibility: gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	})
	layouts = append(layouts, CameraLayout())

	if err := Validate(mod, TextVertexLayout(), layouts); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateUnusedBindingNeedsNoLayout(t *testing.T) {
	src := shaders.Text + "\n@group(5) @binding(0) var<uniform> unused_thing: CameraUniform;\n"
	mod := reflect(t, "text", src)
	if err := Validate(mod, TextVertexLayout(), StandardLayouts(gputypes.TextureViewDimension2D)); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestValidateUnusedDeclarationsOnly(t *testing.T) {
	src := `
struct CameraUniform {
    view_proj: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> unused_thing: CameraUniform;

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return camera.view_proj * vec4<f32>(position, 1.0);
}
`
	vertex := VertexLayout{
		ArrayStride: 12,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, ShaderLocation: 0},
		},
	}
	mod := reflect(t, "camera_only", src)
	if err := Validate(mod, vertex, []BindGroupLayout{CameraLayout()}); err != nil {
		t.Errorf("unused group 1: Validate() = %v, want nil", err)
	}

	used := strings.Replace(src, "return camera.view_proj", "return unused_thing.view_proj * camera.view_proj", 1)
	mod = reflect(t, "camera_and_extra", used)
	err := Validate(mod, vertex, []BindGroupLayout{CameraLayout()})
	var lm *LayoutMismatchError
	if !errors.As(err, &lm) || lm.Group != 1 {
		t.Errorf("used group 1: Validate() = %v, want group 1 mismatch", err)
	}
}

// vertexSampledText samples the diffuse texture in the vertex stage as well.
func vertexSampledText() string {
	return strings.Replace(shaders.Text,
		"    out.tex_coords = in.tex_coords;\n",
		"    out.tex_coords = in.tex_coords * textureSampleLevel(t_diffuse, s_diffuse, in.tex_coords, 0.0).a;\n", 1)
}

func TestValidateStageVisibility(t *testing.T) {
	mod := reflect(t, "text", vertexSampledText())
	tex, _ := mod.Binding(3, 0)
	if tex.Stages != gputypes.ShaderStageVertex|gputypes.ShaderStageFragment {
		t.Fatalf("t_diffuse stages = %v, want vertex|fragment", tex.Stages)
	}

	layouts := StandardLayouts(gputypes.TextureViewDimension2D)
	err := Validate(mod, TextVertexLayout(), layouts)
	var lm *LayoutMismatchError
	if !errors.As(err, &lm) || lm.Group != 3 || lm.Binding != 0 {
		t.Fatalf("Validate() = %v, want mismatch at 3/0", err)
	}
	if !strings.Contains(err.Error(), "visible to") {
		t.Errorf("error %q does not mention visibility", err)
	}

	for i := range layouts[3].Entries {
		layouts[3].Entries[i].Visibility = gputypes.ShaderStageVertex | gputypes.ShaderStageFragment
	}
	if err := Validate(mod, TextVertexLayout(), layouts); err != nil {
		t.Errorf("widened visibility: Validate() = %v, want nil", err)
	}
}

// originalTextOrder declares color at group 1 and model at group 2.
func originalTextOrder() string {
	src := strings.Replace(shaders.Text,
		"@group(1) @binding(0) var<uniform> model", "@group(9) @binding(0) var<uniform> model", 1)
	src = strings.Replace(src,
		"@group(2) @binding(0) var<uniform> color", "@group(1) @binding(0) var<uniform> color", 1)
	return strings.Replace(src,
		"@group(9) @binding(0) var<uniform> model", "@group(2) @binding(0) var<uniform> model", 1)
}

func TestValidateTextGroupOrder(t *testing.T) {
	mod := reflect(t, "text", originalTextOrder())
	texture := TextureLayout(gputypes.TextureViewDimension2D)

	tests := []struct {
		name    string
		layouts []BindGroupLayout
		ok      bool
	}{
		{"declared order", []BindGroupLayout{CameraLayout(), ColorLayout(), ModelLayout(), texture}, true},
		{"standard order", []BindGroupLayout{CameraLayout(), ModelLayout(), ColorLayout(), texture}, false},
		{"texture first", []BindGroupLayout{texture, ColorLayout(), ModelLayout(), CameraLayout()}, false},
		{"camera and model swapped", []BindGroupLayout{ModelLayout(), ColorLayout(), CameraLayout(), texture}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(mod, TextVertexLayout(), tt.layouts)
			if tt.ok && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrLayoutMismatch) {
				t.Fatalf("Validate() = %v, want ErrLayoutMismatch", err)
			}
		})
	}
}

func TestValidateEntryKinds(t *testing.T) {
	mod := reflect(t, "skybox", shaders.Skybox)

	tests := []struct {
		name   string
		mutate func([]BindGroupLayout)
		reason string
	}{
		{
			name: "2D view for array texture",
			mutate: func(l []BindGroupLayout) {
				l[3] = TextureLayout(gputypes.TextureViewDimension2D)
			},
			reason: "view dimension",
		},
		{
			name: "sampler where texture expected",
			mutate: func(l []BindGroupLayout) {
				l[3].Entries[0] = l[3].Entries[1]
				l[3].Entries[0].Binding = 0
			},
			reason: "texture",
		},
		{
			name: "comparison sampler",
			mutate: func(l []BindGroupLayout) {
				l[3].Entries[1].Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeComparison}
			},
			reason: "comparison",
		},
		{
			name: "uint sample type",
			mutate: func(l []BindGroupLayout) {
				l[3].Entries[0].Texture = &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeUint,
					ViewDimension: gputypes.TextureViewDimension2DArray,
				}
			},
			reason: "sample type",
		},
		{
			name: "storage buffer for uniform",
			mutate: func(l []BindGroupLayout) {
				l[0].Entries[0].Buffer = &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}
			},
			reason: "buffer type",
		},
		{
			name: "binding size too small",
			mutate: func(l []BindGroupLayout) {
				l[1].Entries[0].Buffer = &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: 16,
				}
			},
			reason: "min binding size",
		},
		{
			name: "invisible entry",
			mutate: func(l []BindGroupLayout) {
				l[2].Entries[0].Visibility = 0
			},
			reason: "no stage",
		},
		{
			name: "wrong semantic name",
			mutate: func(l []BindGroupLayout) {
				l[1].Entries[0].Name = "camera"
			},
			reason: `"camera"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layouts := StandardLayouts(gputypes.TextureViewDimension2DArray)
			tt.mutate(layouts)
			err := Validate(mod, SkyboxVertexLayout(), layouts)
			if !errors.Is(err, ErrLayoutMismatch) {
				t.Fatalf("Validate() = %v, want ErrLayoutMismatch", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("error %q does not mention %q", err, tt.reason)
			}
		})
	}
}

func TestValidateVertexLocations(t *testing.T) {
	mod := reflect(t, "skybox", shaders.Skybox)
	layouts := StandardLayouts(gputypes.TextureViewDimension2DArray)

	tests := []struct {
		name     string
		vertex   VertexLayout
		location int
	}{
		{
			name: "missing tex_index",
			vertex: VertexLayout{ArrayStride: 24, Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2},
			}},
			location: 1,
		},
		{
			name: "extra attribute",
			vertex: VertexLayout{ArrayStride: 28, Attributes: append(SkyboxVertexLayout().Attributes,
				gputypes.VertexAttribute{Format: gputypes.VertexFormatFloat32, Offset: 24, ShaderLocation: 3})},
			location: 3,
		},
		{
			name: "float index",
			vertex: VertexLayout{ArrayStride: 24, Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 2},
			}},
			location: 1,
		},
		{
			name:     "text layout for skybox",
			vertex:   TextVertexLayout(),
			location: 1,
		},
		{
			name:     "attribute past stride",
			vertex:   VertexLayout{ArrayStride: 20, Attributes: SkyboxVertexLayout().Attributes},
			location: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(mod, tt.vertex, layouts)
			var lm *LayoutMismatchError
			if !errors.As(err, &lm) {
				t.Fatalf("Validate() = %v, want *LayoutMismatchError", err)
			}
			if lm.Location != tt.location {
				t.Errorf("mismatch at location %d, want %d (%v)", lm.Location, tt.location, err)
			}
		})
	}
}

func TestLayoutMismatchErrorMessage(t *testing.T) {
	tests := []struct {
		err  *LayoutMismatchError
		want string
	}{
		{bindingMismatch("text", 1, 0, "x"), `pipeline "text": layout mismatch at group 1 binding 0: x`},
		{groupMismatch("text", 3, "y"), `pipeline "text": layout mismatch at group 3: y`},
		{vertexMismatch("sky", 2, "z"), `pipeline "sky": layout mismatch at vertex location 2: z`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
