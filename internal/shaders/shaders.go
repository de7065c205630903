// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shaders embeds the WGSL programs used by the rendercore pipelines.
//
// Every program follows the same bind group numbering:
//
//	group 0: camera  (view-projection matrix)
//	group 1: model   (per-object transform)
//	group 2: color   (per-object tint)
//	group 3: texture (texture + sampler)
//
// Both programs declare a `debug_view` boolean override that the pipeline
// builder specializes at build time.
package shaders

import _ "embed"

// Text is the textured quad program.
//
//go:embed text.wgsl
var Text string

// Skybox is the six-layer skybox program.
//
//go:embed skybox.wgsl
var Skybox string

// DebugViewFlag is the name of the override both programs declare.
const DebugViewFlag = "debug_view"
