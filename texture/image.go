// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture creates immutable GPU textures from RGBA8 images: single
// 2D textures for quads and six-layer 2D arrays for skyboxes.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Texture errors.
var (
	// ErrPixelData is returned when Pix does not hold Width*Height RGBA8
	// pixels.
	ErrPixelData = errors.New("texture: pixel data does not match size")

	// ErrNoLayers is returned by NewArray for an empty layer list.
	ErrNoLayers = errors.New("texture: no layers")

	// ErrLayerSize is returned by NewArray when layers differ in size.
	ErrLayerSize = errors.New("texture: layers differ in size")

	// ErrEmptyImage is returned for zero-sized images.
	ErrEmptyImage = errors.New("texture: empty image")
)

// RawImage is tightly packed RGBA8 pixel data, rows top to bottom.
type RawImage struct {
	Width  int
	Height int
	Pix    []byte
}

// FromImage converts any image to RGBA8.
func FromImage(img image.Image) RawImage {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return RawImage{Width: b.Dx(), Height: b.Dy(), Pix: rgba.Pix}
}

// Solid returns a width x height image filled with c.
func Solid(width, height int, c color.RGBA) RawImage {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	return RawImage{Width: width, Height: height, Pix: pix}
}

// Image returns the pixels as an *image.RGBA sharing Pix.
func (r RawImage) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: 4 * r.Width,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Resize scales the image with bilinear filtering. Same-size requests
// return r unchanged.
func (r RawImage) Resize(width, height int) RawImage {
	if width == r.Width && height == r.Height {
		return r
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), r.Image(), r.Image().Bounds(), draw.Src, nil)
	return RawImage{Width: width, Height: height, Pix: dst.Pix}
}

// Validate checks that the image is non-empty and Pix matches its size.
func (r RawImage) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, r.Width, r.Height)
	}
	if want := r.Width * r.Height * 4; len(r.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, have %d", ErrPixelData, r.Width, r.Height, want, len(r.Pix))
	}
	return nil
}
