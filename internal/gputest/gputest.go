// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gputest provides GPU-free test fixtures: a surface.Context on the
// noop HAL backend whose device, queue and surface are wrapped to record
// what rendercore does with them.
package gputest

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/rendercore/surface"
)

// Env is a recording test context.
type Env struct {
	Ctx     *surface.Context
	Device  *Device
	Queue   *Queue
	Surface *Surface
}

// New creates an Env with a configured 64x64 noop surface. Extra options
// are applied after the defaults. The context is closed on test cleanup.
func New(t testing.TB, opts ...surface.Option) *Env {
	t.Helper()

	host, err := surface.New(surface.WithBackend("noop"), surface.WithHeadless(), surface.WithDepth(false))
	if err != nil {
		t.Fatalf("gputest: noop context: %v", err)
	}

	rec := &Recorder{}
	env := &Env{
		Device:  &Device{Device: host.HalDevice(), Recorder: rec},
		Queue:   &Queue{Queue: host.HalQueue()},
		Surface: &Surface{Surface: &noop.Surface{}},
	}
	base := []surface.Option{surface.WithSurface(env.Surface), surface.WithSize(64, 64)}
	ctx, err := surface.FromProvider(Provider{Dev: env.Device, Q: env.Queue}, append(base, opts...)...)
	if err != nil {
		_ = host.Close()
		t.Fatalf("gputest: wrap context: %v", err)
	}
	env.Ctx = ctx
	t.Cleanup(func() {
		_ = ctx.Close()
		_ = host.Close()
	})
	return env
}

// Recorder returns the render pass command log shared by every encoder the
// device created.
func (e *Env) Recorder() *Recorder { return e.Device.Recorder }

// Provider is a gpucontext.DeviceProvider over fixed HAL objects.
type Provider struct {
	Dev    hal.Device
	Q      hal.Queue
	Format gputypes.TextureFormat
}

func (p Provider) Device() gpucontext.Device { return p.Dev }
func (p Provider) Queue() gpucontext.Queue   { return p.Q }
func (p Provider) Adapter() gpucontext.Adapter {
	return nil
}

func (p Provider) SurfaceFormat() gputypes.TextureFormat {
	if p.Format == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatBGRA8Unorm
	}
	return p.Format
}

func (p Provider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "gputest", Type: gpucontext.AdapterTypeSoftware}
}
