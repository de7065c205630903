// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Platform backends register themselves with the HAL.
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func init() {
	native := map[string]gputypes.Backend{
		"vulkan": gputypes.BackendVulkan,
		"metal":  gputypes.BackendMetal,
		"dx12":   gputypes.BackendDX12,
		"gles":   gputypes.BackendGL,
	}
	for name, variant := range native {
		if b, ok := hal.GetBackend(variant); ok {
			RegisterBackend(name, b)
		}
	}
}
