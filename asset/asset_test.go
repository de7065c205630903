// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package asset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/rendercore/mesh"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func closeTo(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return x-y <= 1 || y-x <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func receive(t *testing.T, l *Loader) Result {
	t.Helper()
	select {
	case r := <-l.Results():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a result")
	}
	return Result{}
}

func TestDecodeFormats(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	src := solidImage(3, 2, red)

	encoders := map[string]func(*bytes.Buffer) error{
		"png":  func(b *bytes.Buffer) error { return png.Encode(b, src) },
		"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
		"tiff": func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := enc(&buf); err != nil {
				t.Fatalf("encode: %v", err)
			}
			raw, err := DecodeBytes(buf.Bytes())
			if err != nil {
				t.Fatalf("DecodeBytes: %v", err)
			}
			if raw.Width != 3 || raw.Height != 2 {
				t.Fatalf("size = %dx%d, want 3x2", raw.Width, raw.Height)
			}
			if got := raw.Image().RGBAAt(2, 1); got != red {
				t.Errorf("pixel = %v, want %v", got, red)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeBytes(nil) = %v, want ErrEmptyData", err)
	}
	if _, err := DecodeBytes([]byte("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("DecodeBytes(garbage) = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("DecodeFile(missing) = %v, want ErrNotExist", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	want := color.RGBA{G: 200, B: 10, A: 255}
	if err := SavePNG(path, solidImage(4, 4, want)); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	raw, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if got := raw.Image().RGBAAt(1, 1); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestLoaderLoadBytes(t *testing.T) {
	l := NewLoader(WithWorkers(2))
	defer l.Close()

	data := encodePNG(t, solidImage(2, 2, color.RGBA{B: 255, A: 255}))
	if err := l.LoadBytes("blue", data); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	r := receive(t, l)
	if r.Err != nil || r.Name != "blue" || r.Image.Width != 2 {
		t.Errorf("result = %+v", r)
	}

	if err := l.LoadBytes("bad", []byte{1, 2, 3}); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if r := receive(t, l); !errors.Is(r.Err, ErrUnsupportedFormat) {
		t.Errorf("bad result error = %v", r.Err)
	}
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "img.png")
	if err := os.WriteFile(path, encodePNG(t, solidImage(5, 1, color.RGBA{A: 255})), 0o600); err != nil {
		t.Fatal(err)
	}
	l := NewLoader()
	defer l.Close()
	if err := l.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	r := receive(t, l)
	if r.Err != nil || r.Name != path || r.Image.Width != 5 || r.Image.Height != 1 {
		t.Errorf("result = %+v", r)
	}
}

func TestLoaderCachesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, encodePNG(t, solidImage(3, 2, color.RGBA{G: 9, A: 255})), 0o600); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(WithWorkers(1))
	defer l.Close()
	if err := l.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := receive(t, l)

	// The second load must not need the file.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := l.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	second := receive(t, l)
	if second.Err != nil || second.Image.Width != 3 || !bytes.Equal(second.Image.Pix, first.Image.Pix) {
		t.Errorf("cached result = %+v", second)
	}
	if hits, misses := l.CacheStats(); hits != 1 || misses != 1 {
		t.Errorf("CacheStats() = %d hits %d misses, want 1 and 1", hits, misses)
	}
}

func TestLoaderCacheDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, encodePNG(t, solidImage(1, 1, color.RGBA{A: 255})), 0o600); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(WithCache(0))
	defer l.Close()
	if err := l.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	receive(t, l)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := l.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r := receive(t, l); !errors.Is(r.Err, os.ErrNotExist) {
		t.Errorf("uncached load of a removed file = %v, want ErrNotExist", r.Err)
	}
}

func TestLoaderSkybox(t *testing.T) {
	dir := t.TempDir()
	colors := make([]color.RGBA, len(mesh.SkyboxFaces))
	for i, face := range mesh.SkyboxFaces {
		colors[i] = color.RGBA{R: uint8(40 * i), G: 255 - uint8(40*i), A: 255}
		size := 2
		if i == 3 {
			size = 4 // resized to the first face
		}
		data := encodePNG(t, solidImage(size, size, colors[i]))
		if err := os.WriteFile(filepath.Join(dir, face+".png"), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	l := NewLoader(WithWorkers(3))
	defer l.Close()
	if err := l.LoadSkybox(dir, ".png"); err != nil {
		t.Fatalf("LoadSkybox: %v", err)
	}
	r := receive(t, l)
	if r.Err != nil {
		t.Fatalf("skybox error: %v", r.Err)
	}
	if len(r.Layers) != 6 {
		t.Fatalf("got %d layers, want 6", len(r.Layers))
	}
	for i, layer := range r.Layers {
		if layer.Width != 2 || layer.Height != 2 {
			t.Errorf("layer %d size = %dx%d, want 2x2", i, layer.Width, layer.Height)
		}
		got := layer.Image().RGBAAt(0, 0)
		if i == 3 {
			if !closeTo(got, colors[i]) {
				t.Errorf("resized layer 3 = %v, want about %v", got, colors[i])
			}
			continue
		}
		if got != colors[i] {
			t.Errorf("layer %d (%s) = %v, want %v", i, mesh.SkyboxFaces[i], got, colors[i])
		}
	}
	if err := r.Layers[0].Validate(); err != nil {
		t.Errorf("layer 0 invalid: %v", err)
	}
}

func TestLoaderSkyboxMissingFace(t *testing.T) {
	l := NewLoader()
	defer l.Close()
	if err := l.LoadSkybox(t.TempDir(), ".png"); err != nil {
		t.Fatalf("LoadSkybox: %v", err)
	}
	r := receive(t, l)
	if !errors.Is(r.Err, os.ErrNotExist) || r.Layers != nil {
		t.Errorf("result = %+v, want a not-exist error", r)
	}
}

func TestLoaderClose(t *testing.T) {
	l := NewLoader(WithWorkers(1), WithResultBuffer(0))
	data := encodePNG(t, solidImage(1, 1, color.RGBA{A: 255}))
	for range 4 {
		if err := l.LoadBytes("x", data); err != nil {
			t.Fatalf("LoadBytes: %v", err)
		}
	}
	// Nobody reads Results; Close must not hang.
	done := make(chan struct{})
	go func() {
		l.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close hung with undelivered results")
	}
	l.Close()

	if err := l.LoadBytes("late", data); !errors.Is(err, ErrClosed) {
		t.Errorf("LoadBytes after Close = %v, want ErrClosed", err)
	}
	for range l.Results() {
	}
}

func TestPoolRunsEveryJob(t *testing.T) {
	p := newPool(4)
	var n atomic.Int32
	for range 100 {
		if !p.submit(func() { n.Add(1) }) {
			t.Fatal("submit refused before close")
		}
	}
	p.close()
	if got := n.Load(); got != 100 {
		t.Errorf("ran %d jobs, want 100", got)
	}
	if p.submit(func() {}) {
		t.Error("submit accepted after close")
	}
	p.close()
}
