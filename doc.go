// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package rendercore is a small rendering core on the gogpu WebGPU HAL.
//
// # Overview
//
// A Renderer draws textured quads ("text" objects) over an optional
// six-layer skybox. Every program shares one bind group numbering:
//
//	group 0: camera  (view-projection matrix, shared by every draw)
//	group 1: model   (per-object transform)
//	group 2: color   (per-object tint)
//	group 3: texture (texture view and sampler)
//
// Pipelines are validated against their WGSL source before any GPU object
// is created, so a binding without a matching layout entry fails at
// startup with a pipeline.LayoutMismatchError instead of at draw time.
//
// # Quick Start
//
//	ctx, err := surface.New(surface.WithBackend("software"), surface.WithHeadless())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	r, err := rendercore.NewRenderer(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	obj, _ := r.AddText(img, mesh.Quad(1, 1))
//	obj.SetTint(mgl32.Vec3{1, 0.5, 0.5})
//	for {
//	    if err := r.RenderFrame(); errors.Is(err, frame.ErrDeviceLost) {
//	        break
//	    }
//	}
//
// # Threading
//
// The Renderer belongs to one goroutine, the render thread. Resize and the
// asynchronous loaders may be called from anywhere; their effects are
// handed to the render thread and applied at the start of the next frame.
//
// # Packages
//
//   - surface: adapter, device, queue and presentation surface
//   - shader: WGSL reflection and validation
//   - pipeline: layouts, validation and render pipeline construction
//   - bind: uniform buffers and bind groups
//   - texture, mesh, camera: resources and math
//   - asset: background image decoding
//   - frame: the acquire, record, submit and present cycle
package rendercore
