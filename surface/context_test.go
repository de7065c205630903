// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

func newNoop(t *testing.T, opts ...Option) *Context {
	t.Helper()
	ctx, err := New(append([]Option{WithBackend("noop")}, opts...)...)
	if err != nil {
		t.Fatalf("New(noop): %v", err)
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func TestNewNoop(t *testing.T) {
	ctx := newNoop(t, WithSize(320, 240))

	if ctx.HalDevice() == nil || ctx.HalQueue() == nil {
		t.Fatal("device or queue is nil")
	}
	if ctx.Surface() == nil {
		t.Fatal("expected a surface")
	}
	if w, h := ctx.Size(); w != 320 || h != 240 {
		t.Errorf("Size() = %dx%d, want 320x240", w, h)
	}
	if got := ctx.SurfaceFormat(); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want BGRA8Unorm", got)
	}
	if ctx.DepthView() == nil {
		t.Error("DepthView() is nil with depth enabled")
	}
	if ctx.DepthFormat() != gputypes.TextureFormatDepth32Float {
		t.Errorf("DepthFormat() = %v", ctx.DepthFormat())
	}
	if ctx.Backend() != "noop" {
		t.Errorf("Backend() = %q", ctx.Backend())
	}
	if info := ctx.AdapterInfo(); info.Name == "" || info.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("AdapterInfo() = %+v", info)
	}
}

func TestNewPreferredFormatFallback(t *testing.T) {
	// The noop adapter only reports BGRA8Unorm and RGBA8Unorm.
	ctx := newNoop(t, WithFormat(gputypes.TextureFormatRGBA16Float))
	if got := ctx.SurfaceFormat(); got != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want first supported format", got)
	}

	ctx = newNoop(t, WithFormat(gputypes.TextureFormatRGBA8Unorm))
	if got := ctx.SurfaceFormat(); got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want RGBA8Unorm", got)
	}
}

func TestNewHeadlessWithoutDepth(t *testing.T) {
	ctx := newNoop(t, WithHeadless(), WithDepth(false))
	if ctx.Surface() != nil {
		t.Error("headless context has a surface")
	}
	if ctx.DepthView() != nil {
		t.Error("depth view created with depth disabled")
	}
	if ctx.DepthFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("DepthFormat() = %v, want Undefined", ctx.DepthFormat())
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(WithBackend("glide"))
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("New(glide) error = %v, want ErrUnknownBackend", err)
	}
}

func TestResize(t *testing.T) {
	ctx := newNoop(t, WithSize(100, 100))
	before := ctx.DepthView()

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"grow", 640, 480, 640, 480},
		{"zero width ignored", 0, 300, 640, 480},
		{"zero height ignored", 300, 0, 640, 480},
		{"negative ignored", -1, -1, 640, 480},
		{"shrink", 10, 20, 10, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ctx.Resize(tt.width, tt.height); err != nil {
				t.Fatalf("Resize: %v", err)
			}
			if w, h := ctx.Size(); w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
	if ctx.DepthView() == nil || before == nil {
		t.Fatal("depth view missing after resize")
	}
}

func TestReconfigure(t *testing.T) {
	ctx := newNoop(t)
	if err := ctx.Reconfigure(); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	ctx, err := New(WithBackend("noop"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !ctx.Closed() {
		t.Error("Closed() = false after Close")
	}
	if err := ctx.Resize(10, 10); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize after Close = %v, want ErrClosed", err)
	}
	if err := ctx.Reconfigure(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reconfigure after Close = %v, want ErrClosed", err)
	}
}

// hostProvider plays the role of an application that owns the device.
type hostProvider struct {
	device gpucontext.Device
	queue  gpucontext.Queue
	format gputypes.TextureFormat
}

func (p hostProvider) Device() gpucontext.Device             { return p.device }
func (p hostProvider) Queue() gpucontext.Queue               { return p.queue }
func (p hostProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p hostProvider) Adapter() gpucontext.Adapter           { return nil }
func (p hostProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "host", Type: gpucontext.AdapterTypeIntegrated}
}

func TestFromProvider(t *testing.T) {
	host := newNoop(t, WithHeadless())

	ctx, err := FromProvider(hostProvider{
		device: host.HalDevice(),
		queue:  host.HalQueue(),
		format: gputypes.TextureFormatRGBA8Unorm,
	}, WithSize(64, 32))
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	if ctx.HalDevice() != host.HalDevice() {
		t.Error("provider device not reused")
	}
	if ctx.SurfaceFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want provider format", ctx.SurfaceFormat())
	}
	if info := ctx.AdapterInfo(); info.Name != "host" || info.Type != gpucontext.AdapterTypeIntegrated {
		t.Errorf("AdapterInfo() = %+v", info)
	}
	if ctx.Adapter() != nil {
		t.Errorf("Adapter() = %v, want nil", ctx.Adapter())
	}
	if ctx.DepthView() == nil {
		t.Error("no depth view")
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// The host's device must survive the wrapper.
	if host.Closed() || host.HalDevice() == nil {
		t.Error("closing the wrapper released the host device")
	}
}

func TestFromProviderInvalid(t *testing.T) {
	if _, err := FromProvider(nil); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("FromProvider(nil) = %v", err)
	}
	_, err := FromProvider(hostProvider{device: "not a device", queue: 42})
	if !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("FromProvider(bad) = %v, want ErrInvalidProvider", err)
	}
}
