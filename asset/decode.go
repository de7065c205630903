// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp" // register BMP
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/rendercore/texture"
)

var (
	// ErrUnsupportedFormat is returned when no registered decoder
	// recognizes the data.
	ErrUnsupportedFormat = errors.New("asset: unsupported image format")

	// ErrEmptyData is returned for zero-length input.
	ErrEmptyData = errors.New("asset: empty data")
)

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP) and converts it to RGBA8.
func Decode(r io.Reader) (texture.RawImage, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return texture.RawImage{}, ErrUnsupportedFormat
		}
		return texture.RawImage{}, fmt.Errorf("asset: decode: %w", err)
	}
	return texture.FromImage(img), nil
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (texture.RawImage, error) {
	if len(data) == 0 {
		return texture.RawImage{}, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// DecodeFile decodes the image at path.
func DecodeFile(path string) (texture.RawImage, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return texture.RawImage{}, fmt.Errorf("asset: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := Decode(f)
	if err != nil {
		return texture.RawImage{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("asset: create file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("asset: encode PNG: %w", err)
	}
	return f.Close()
}
