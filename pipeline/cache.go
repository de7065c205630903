// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
)

// LayoutCache shares hal.BindGroupLayouts between pipelines. Layouts with
// the same entries map to one HAL object, so a bind group created for one
// pipeline (the camera group, typically) is valid for every pipeline built
// through the same cache.
type LayoutCache struct {
	device hal.Device

	mu      sync.Mutex
	layouts map[string]hal.BindGroupLayout
}

// NewLayoutCache creates an empty cache on device.
func NewLayoutCache(device hal.Device) *LayoutCache {
	return &LayoutCache{
		device:  device,
		layouts: make(map[string]hal.BindGroupLayout),
	}
}

// Get returns the HAL layout for l, creating it on first use.
func (c *LayoutCache) Get(l BindGroupLayout) (hal.BindGroupLayout, error) {
	key := l.key()

	c.mu.Lock()
	defer c.mu.Unlock()
	if hl, ok := c.layouts[key]; ok {
		return hl, nil
	}
	hl, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   l.Label,
		Entries: l.HAL(),
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create bind group layout %q: %w", l.Label, err)
	}
	c.layouts[key] = hl
	logging.Logger().Debug("pipeline: bind group layout created",
		"label", l.Label, "entries", len(l.Entries))
	return hl, nil
}

// Len returns the number of distinct layouts created.
func (c *LayoutCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.layouts)
}

// Destroy releases every cached layout. Pipelines and bind groups created
// from them must be destroyed first.
func (c *LayoutCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, hl := range c.layouts {
		c.device.DestroyBindGroupLayout(hl)
		delete(c.layouts, key)
	}
}
