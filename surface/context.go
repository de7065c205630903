// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
)

// Context holds the device, queue and surface shared by all rendercore
// components. Methods are safe for concurrent use.
type Context struct {
	mu sync.Mutex

	backend  string
	instance hal.Instance
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue

	surface hal.Surface
	config  hal.SurfaceConfiguration
	formats []gputypes.TextureFormat

	depthEnabled bool
	depth        *depthTarget

	// owned is false for contexts wrapping an external device.
	owned  bool
	closed bool
}

// Compile-time check that Context can be handed to gpucontext consumers.
var _ gpucontext.DeviceProvider = (*Context)(nil)

// New creates a device, queue and (unless WithHeadless is given) a
// configured surface on the selected backend.
func New(opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	name, backend, ok := lookupBackend(o.backend)
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.Backends(1) << backend.Variant(),
	})
	if err != nil {
		return nil, fmt.Errorf("surface: create %s instance: %w", name, err)
	}

	c := &Context{
		backend:      name,
		instance:     instance,
		depthEnabled: o.depth,
		owned:        true,
	}

	if !o.headless {
		s, err := instance.CreateSurface(o.display, o.window)
		if err != nil {
			instance.Destroy()
			return nil, fmt.Errorf("surface: create surface: %w", err)
		}
		c.surface = s
	}

	adapters := instance.EnumerateAdapters(c.surface)
	if len(adapters) == 0 {
		c.destroy()
		return nil, fmt.Errorf("%w (backend %s)", ErrNoAdapter, name)
	}
	exposed := pickAdapter(adapters)
	c.adapter = exposed.Adapter
	c.info = exposed.Info

	openDev, err := c.adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		c.destroy()
		return nil, fmt.Errorf("surface: open device: %w", err)
	}
	c.device = openDev.Device
	c.queue = openDev.Queue

	logging.Logger().Info("surface: adapter selected",
		"backend", name,
		"adapter", c.info.Name,
		"type", c.info.DeviceType)

	if c.surface != nil {
		if caps := c.adapter.SurfaceCapabilities(c.surface); caps != nil {
			c.formats = caps.Formats
		}
	}
	c.config = hal.SurfaceConfiguration{
		Width:       uint32(max(o.width, 1)),
		Height:      uint32(max(o.height, 1)),
		Format:      chooseFormat(o.format, c.formats),
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		PresentMode: o.presentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	}

	if err := c.configureLocked(); err != nil {
		c.destroy()
		return nil, err
	}
	return c, nil
}

// FromProvider wraps a device owned by the host application. The provider
// must hand out hal.Device and hal.Queue values. The returned Context never
// destroys them.
func FromProvider(p gpucontext.DeviceProvider, opts ...Option) (*Context, error) {
	if p == nil {
		return nil, ErrInvalidProvider
	}
	device, ok := p.Device().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: device is %T", ErrInvalidProvider, p.Device())
	}
	queue, ok := p.Queue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: queue is %T", ErrInvalidProvider, p.Queue())
	}

	o := defaultOptions()
	if f := p.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		o.format = f
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{
		backend:      "external",
		device:       device,
		queue:        queue,
		surface:      o.surface,
		depthEnabled: o.depth,
	}
	if o.headless {
		c.surface = nil
	}
	if a, ok := p.Adapter().(hal.Adapter); ok {
		c.adapter = a
	}
	pi := p.AdapterInfo()
	c.info = gputypes.AdapterInfo{Name: pi.Name, DeviceType: deviceType(pi.Type)}
	c.config = hal.SurfaceConfiguration{
		Width:       uint32(max(o.width, 1)),
		Height:      uint32(max(o.height, 1)),
		Format:      o.format,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		PresentMode: o.presentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.configureLocked(); err != nil {
		c.releaseLocked()
		return nil, err
	}
	return c, nil
}

// pickAdapter prefers a discrete GPU, then an integrated one, then whatever
// the backend listed first.
func pickAdapter(adapters []hal.ExposedAdapter) hal.ExposedAdapter {
	for _, want := range []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU} {
		for _, a := range adapters {
			if a.Info.DeviceType == want {
				return a
			}
		}
	}
	return adapters[0]
}

// chooseFormat returns preferred when supported (or when the supported set
// is unknown), otherwise the first supported format.
func chooseFormat(preferred gputypes.TextureFormat, supported []gputypes.TextureFormat) gputypes.TextureFormat {
	if len(supported) == 0 {
		return preferred
	}
	for _, f := range supported {
		if f == preferred {
			return f
		}
	}
	return supported[0]
}

// Resize reconfigures the surface for the new size and recreates the depth
// target. Non-positive sizes (minimized windows) are ignored.
func (c *Context) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.config.Width == uint32(width) && c.config.Height == uint32(height) {
		return nil
	}
	c.config.Width = uint32(width)
	c.config.Height = uint32(height)
	return c.configureLocked()
}

// Reconfigure re-applies the current configuration. The frame loop calls it
// after the surface reports it was lost or outdated.
func (c *Context) Reconfigure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.configureLocked()
}

func (c *Context) configureLocked() error {
	if c.surface != nil {
		if err := c.surface.Configure(c.device, &c.config); err != nil {
			return fmt.Errorf("surface: configure %dx%d: %w", c.config.Width, c.config.Height, err)
		}
		logging.Logger().Info("surface: configured",
			"width", c.config.Width,
			"height", c.config.Height,
			"format", c.config.Format)
	}
	if !c.depthEnabled {
		return nil
	}
	if c.depth != nil {
		c.depth.destroy(c.device)
		c.depth = nil
	}
	d, err := newDepthTarget(c.device, c.config.Width, c.config.Height)
	if err != nil {
		return err
	}
	c.depth = d
	return nil
}

// Device returns the hal.Device as a gpucontext token.
func (c *Context) Device() gpucontext.Device { return c.device }

// Queue returns the hal.Queue as a gpucontext token.
func (c *Context) Queue() gpucontext.Queue { return c.queue }

// Adapter returns the hal.Adapter as a gpucontext token. It is nil for
// provider contexts whose host did not expose one.
func (c *Context) Adapter() gpucontext.Adapter {
	if c.adapter == nil {
		return nil
	}
	return c.adapter
}

// SurfaceFormat returns the configured color format.
func (c *Context) SurfaceFormat() gputypes.TextureFormat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Format
}

// AdapterInfo reports the adapter name and type.
func (c *Context) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: c.info.Name, Type: adapterType(c.info.DeviceType)}
}

// HalDevice returns the underlying device.
func (c *Context) HalDevice() hal.Device { return c.device }

// HalQueue returns the underlying queue.
func (c *Context) HalQueue() hal.Queue { return c.queue }

// Surface returns the presentation surface, or nil for headless contexts.
func (c *Context) Surface() hal.Surface { return c.surface }

// Backend returns the name of the backend the context was created on.
func (c *Context) Backend() string { return c.backend }

// Info returns the full adapter description.
func (c *Context) Info() gputypes.AdapterInfo { return c.info }

// Size returns the configured surface size in pixels.
func (c *Context) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.config.Width), int(c.config.Height)
}

// DepthView returns the depth attachment view, or nil when depth is
// disabled.
func (c *Context) DepthView() hal.TextureView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.depth == nil {
		return nil
	}
	return c.depth.view
}

// DepthFormat returns the depth attachment format, or Undefined when depth
// is disabled.
func (c *Context) DepthFormat() gputypes.TextureFormat {
	if !c.depthEnabled {
		return gputypes.TextureFormatUndefined
	}
	return DepthFormat
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close waits for the device to go idle and releases everything the context
// created. It is safe to call more than once.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	var err error
	if c.device != nil {
		err = c.device.WaitIdle()
	}
	c.releaseLocked()
	return err
}

func (c *Context) releaseLocked() {
	c.closed = true
	if c.depth != nil {
		c.depth.destroy(c.device)
		c.depth = nil
	}
	if !c.owned {
		return
	}
	c.destroy()
}

// destroy releases owned objects in reverse creation order.
func (c *Context) destroy() {
	if c.surface != nil {
		if c.device != nil {
			c.surface.Unconfigure(c.device)
		}
		c.surface.Destroy()
		c.surface = nil
	}
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Destroy()
		c.adapter = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	c.closed = true
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterTypeUnknown
}

func deviceType(t gpucontext.AdapterType) gputypes.DeviceType {
	switch t {
	case gpucontext.AdapterTypeDiscrete:
		return gputypes.DeviceTypeDiscreteGPU
	case gpucontext.AdapterTypeIntegrated:
		return gputypes.DeviceTypeIntegratedGPU
	case gpucontext.AdapterTypeSoftware:
		return gputypes.DeviceTypeCPU
	}
	return gputypes.DeviceTypeOther
}
