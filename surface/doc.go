// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface owns the GPU device, its command queue and the
// presentation surface.
//
// A Context is created once at startup and passed explicitly to every other
// rendercore component; there is no package-level device. Several contexts
// may coexist, which is how the tests run on the noop backend in parallel.
//
// # Backends
//
// HAL backends are looked up by name through a gpucontext.Registry with the
// priority vulkan, metal, dx12, gles, software, noop. The native backends
// are linked unless the nogpu build tag is set.
//
//	ctx, err := surface.New(
//	    surface.WithBackend("software"),
//	    surface.WithSize(800, 600),
//	)
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
// # External devices
//
// Applications that already own a device (for example through gogpu) wrap it
// with FromProvider. The Context then never destroys the device or queue.
//
// # Resizing
//
// Resize reconfigures the surface and recreates the depth texture. Zero
// sizes, as reported by minimized windows, are ignored.
package surface
