// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sort"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wgpu/hal/software"
)

// backendPriority is the selection order used when no backend is named.
var backendPriority = []string{"vulkan", "metal", "dx12", "gles", "software", "noop"}

var backends = gpucontext.NewRegistry[hal.Backend](
	gpucontext.WithPriority(backendPriority...),
)

func init() {
	backends.Register("software", func() hal.Backend { return software.API{} })
	backends.Register("noop", func() hal.Backend { return noop.API{} })
}

// RegisterBackend makes a HAL backend selectable by name. Registering an
// existing name replaces it.
func RegisterBackend(name string, b hal.Backend) {
	backends.Register(name, func() hal.Backend { return b })
}

// Backends returns the registered backend names in selection order.
func Backends() []string {
	names := backends.Available()
	rank := make(map[string]int, len(backendPriority))
	for i, n := range backendPriority {
		rank[n] = i
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}

// lookupBackend resolves name to a backend. An empty name selects the
// highest-priority registered backend.
func lookupBackend(name string) (string, hal.Backend, bool) {
	if name == "" {
		name = backends.BestName()
	}
	if !backends.Has(name) {
		return name, nil, false
	}
	return name, backends.Get(name), true
}
