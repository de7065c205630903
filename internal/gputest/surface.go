// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// Surface fails AcquireTexture with the queued AcquireErrs (nil entries
// succeed) and counts configurations. The next Suboptimal successful
// acquisitions report a suboptimal texture.
type Surface struct {
	hal.Surface

	mu          sync.Mutex
	AcquireErrs []error
	Suboptimal  int
	Acquires    int
	Configures  int
	Discards    int
}

// FailNext queues errors for the next acquisitions.
func (s *Surface) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AcquireErrs = append(s.AcquireErrs, errs...)
}

func (s *Surface) Configure(device hal.Device, config *hal.SurfaceConfiguration) error {
	s.mu.Lock()
	s.Configures++
	s.mu.Unlock()
	return s.Surface.Configure(device, config)
}

func (s *Surface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	s.mu.Lock()
	s.Acquires++
	var err error
	if len(s.AcquireErrs) > 0 {
		err, s.AcquireErrs = s.AcquireErrs[0], s.AcquireErrs[1:]
	}
	suboptimal := err == nil && s.Suboptimal > 0
	if suboptimal {
		s.Suboptimal--
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	acquired, err := s.Surface.AcquireTexture(fence)
	if err == nil && suboptimal {
		acquired.Suboptimal = true
	}
	return acquired, err
}

func (s *Surface) DiscardTexture(t hal.SurfaceTexture) {
	s.mu.Lock()
	s.Discards++
	s.mu.Unlock()
	s.Surface.DiscardTexture(t)
}

// Stats returns acquisition and configuration counts.
func (s *Surface) Stats() (acquires, configures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Acquires, s.Configures
}

// DiscardCount returns the number of discarded textures.
func (s *Surface) DiscardCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Discards
}
