// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command rcdemo renders a textured quad over a skybox on a headless
// surface and saves the last frame.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/draw"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/rendercore"
	"github.com/gogpu/rendercore/asset"
	"github.com/gogpu/rendercore/camera"
	"github.com/gogpu/rendercore/mesh"
	"github.com/gogpu/rendercore/surface"
	"github.com/gogpu/rendercore/texture"
)

func main() {
	var (
		backend = flag.String("backend", "software", "HAL backend: software or noop")
		width   = flag.Int("width", 320, "frame width")
		height  = flag.Int("height", 240, "frame height")
		frames  = flag.Int("frames", 3, "frames to render")
		debug   = flag.Bool("debug", false, "render the debug visualization")
		verbose = flag.Bool("v", false, "log at debug level")
		output  = flag.String("output", "rcdemo.png", "capture of the last frame, empty to skip")
		label   = flag.String("text", "rendercore", "text drawn on the quad")
	)
	flag.Parse()

	if *verbose {
		rendercore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, err := surface.New(
		surface.WithBackend(*backend),
		surface.WithSize(*width, *height),
		surface.WithHeadless(),
	)
	if err != nil {
		log.Fatalf("Failed to create context: %v", err)
	}
	defer func() { _ = ctx.Close() }()

	r, err := rendercore.NewRenderer(ctx, rendercore.WithDebugView(*debug), rendercore.WithLoaderWorkers(2))
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer func() { _ = r.Close() }()

	if err := r.SetSkybox(skyFaces()); err != nil {
		log.Fatalf("Failed to set skybox: %v", err)
	}
	img := textImage(*label)
	aspect := float32(img.Width) / float32(img.Height)
	quad, err := r.AddText(img, mesh.Quad(0.4*aspect, 0.4), rendercore.WithLabel("banner"))
	if err != nil {
		log.Fatalf("Failed to add quad: %v", err)
	}

	for i := 0; i < *frames; i++ {
		t := camera.Identity()
		t.RotationY = float32(i) * mgl32.DegToRad(10)
		if err := quad.SetTransform(t); err != nil {
			log.Fatalf("Failed to move quad: %v", err)
		}
		if i == *frames-1 && *output != "" {
			r.CaptureNext()
		}
		if err := r.RenderFrame(); err != nil {
			log.Printf("Frame %d: %v", i, err)
		}
	}

	st := r.Stats()
	log.Printf("Rendered %d frames (%d dropped, %d draws) on %s", st.Frames, st.Dropped, st.Draws, ctx.Backend())

	if *output == "" {
		return
	}
	img, err := r.Captured()
	if err != nil {
		log.Fatalf("Failed to capture: %v", err)
	}
	if err := asset.SavePNG(*output, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Frame saved to %s (%dx%d)", *output, img.Bounds().Dx(), img.Bounds().Dy())
}

// skyFaces returns one solid color per face, in mesh.SkyboxFaces order.
func skyFaces() []texture.RawImage {
	colors := []color.RGBA{
		{R: 40, G: 40, B: 48, A: 255},
		{R: 70, G: 110, B: 180, A: 255},
		{R: 90, G: 130, B: 200, A: 255},
		{R: 60, G: 100, B: 170, A: 255},
		{R: 80, G: 120, B: 190, A: 255},
		{R: 140, G: 180, B: 240, A: 255},
	}
	faces := make([]texture.RawImage, len(colors))
	for i, c := range colors {
		faces[i] = texture.Solid(4, 4, c)
	}
	return faces
}

// textImage rasterizes s in white on a translucent dark background.
func textImage(s string) texture.RawImage {
	const pad = 4
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil() + 2*pad
	h := face.Metrics().Height.Ceil() + 2*pad

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(pad, pad+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	return texture.FromImage(dst)
}
