// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/surface"
)

// DefaultFormat is the format image textures are created with.
const DefaultFormat = gputypes.TextureFormatRGBA8UnormSrgb

// Option configures texture creation.
type Option func(*options)

type options struct {
	format    gputypes.TextureFormat
	magFilter gputypes.FilterMode
	minFilter gputypes.FilterMode
}

// WithFormat sets the texture format. Default: RGBA8UnormSrgb.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithFilter sets the sampler's magnification and minification filters.
// Default: linear magnification, nearest minification.
func WithFilter(magnify, minify gputypes.FilterMode) Option {
	return func(o *options) {
		o.magFilter = magnify
		o.minFilter = minify
	}
}

// Texture is an immutable sampled texture with its view and sampler.
type Texture struct {
	device hal.Device
	label  string

	raw     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	width, height int
	layers        int
	format        gputypes.TextureFormat
	dimension     gputypes.TextureViewDimension
}

// New2D uploads img as a 2D texture.
func New2D(ctx *surface.Context, label string, img RawImage, opts ...Option) (*Texture, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("texture %q: %w", label, err)
	}
	return create(ctx, label, []RawImage{img}, gputypes.TextureViewDimension2D, opts)
}

// NewArray uploads layers as a 2D array texture, one layer per image in
// order. All layers must have the same size.
func NewArray(ctx *surface.Context, label string, layers []RawImage, opts ...Option) (*Texture, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("texture %q: %w", label, ErrNoLayers)
	}
	for i, l := range layers {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("texture %q layer %d: %w", label, i, err)
		}
		if l.Width != layers[0].Width || l.Height != layers[0].Height {
			return nil, fmt.Errorf("texture %q layer %d: %w: %dx%d, layer 0 is %dx%d",
				label, i, ErrLayerSize, l.Width, l.Height, layers[0].Width, layers[0].Height)
		}
	}
	return create(ctx, label, layers, gputypes.TextureViewDimension2DArray, opts)
}

func create(ctx *surface.Context, label string, layers []RawImage, dim gputypes.TextureViewDimension, opts []Option) (*Texture, error) {
	o := options{
		format:    DefaultFormat,
		magFilter: gputypes.FilterModeLinear,
		minFilter: gputypes.FilterModeNearest,
	}
	for _, opt := range opts {
		opt(&o)
	}

	device := ctx.HalDevice()
	w, h := uint32(layers[0].Width), uint32(layers[0].Height)
	t := &Texture{
		device:    device,
		label:     label,
		width:     layers[0].Width,
		height:    layers[0].Height,
		layers:    len(layers),
		format:    o.format,
		dimension: dim,
	}

	raw, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: uint32(len(layers))},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        o.format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("texture %q: create: %w", label, err)
	}
	t.raw = raw

	queue := ctx.HalQueue()
	for i, layer := range layers {
		err := queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture: raw,
				Origin:  hal.Origin3D{Z: uint32(i)},
				Aspect:  gputypes.TextureAspectAll,
			},
			layer.Pix,
			&hal.ImageDataLayout{BytesPerRow: 4 * w, RowsPerImage: h},
			&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		)
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("texture %q: upload layer %d: %w", label, i, err)
		}
	}

	view, err := device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:           label + "_view",
		Format:          o.format,
		Dimension:       dim,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: uint32(len(layers)),
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("texture %q: create view: %w", label, err)
	}
	t.view = view

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    o.magFilter,
		MinFilter:    o.minFilter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("texture %q: create sampler: %w", label, err)
	}
	t.sampler = sampler

	logging.Logger().Debug("texture: uploaded",
		"label", label, "width", w, "height", h, "layers", len(layers))
	return t, nil
}

// Label returns the texture label.
func (t *Texture) Label() string { return t.label }

// Raw returns the HAL texture.
func (t *Texture) Raw() hal.Texture { return t.raw }

// View returns the texture view used for binding.
func (t *Texture) View() hal.TextureView { return t.view }

// Sampler returns the texture's sampler.
func (t *Texture) Sampler() hal.Sampler { return t.sampler }

// Size returns the size of one layer in pixels.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Layers returns the array layer count (1 for 2D textures).
func (t *Texture) Layers() int { return t.layers }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// ViewDimension returns 2D or 2DArray.
func (t *Texture) ViewDimension() gputypes.TextureViewDimension { return t.dimension }

// Destroy releases the sampler, view and texture.
func (t *Texture) Destroy() {
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.raw != nil {
		t.device.DestroyTexture(t.raw)
		t.raw = nil
	}
}
