// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package bind allocates the uniform buffers and bind groups that feed the
// rendercore programs: one shared camera group (slot 0) and per-object
// model (slot 1), color (slot 2) and texture (slot 3) groups.
//
// Groups are created against layouts from a pipeline.LayoutCache, so a
// group made here is compatible with every pipeline built on that cache.
package bind

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/pipeline"
	"github.com/gogpu/rendercore/surface"
	"github.com/gogpu/rendercore/texture"
)

type destroyer interface{ Destroy() }

// Option configures a Manager.
type Option func(*options)

type options struct {
	readback bool
}

// WithReadback creates uniform buffers that can be read back with Dump.
func WithReadback(enabled bool) Option {
	return func(o *options) {
		o.readback = enabled
	}
}

// Manager creates and owns bind groups.
type Manager struct {
	ctx   *surface.Context
	cache *pipeline.LayoutCache
	opts  options

	camera *Uniform[CameraUniform]

	mu     sync.Mutex
	owned  []destroyer
	closed bool
}

// NewManager creates the shared camera group, initialized to identity.
func NewManager(ctx *surface.Context, cache *pipeline.LayoutCache, opts ...Option) (*Manager, error) {
	m := &Manager{ctx: ctx, cache: cache}
	for _, opt := range opts {
		opt(&m.opts)
	}
	layout, err := cache.Get(pipeline.CameraLayout())
	if err != nil {
		return nil, err
	}
	camera, err := NewUniform(ctx, layout, "camera", CameraUniform{ViewProj: mgl32.Ident4()}, m.opts.readback)
	if err != nil {
		return nil, err
	}
	m.camera = camera
	m.track(camera)
	return m, nil
}

func (m *Manager) track(d destroyer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owned = append(m.owned, d)
}

func (m *Manager) checkOpen() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Camera returns the camera group shared by every draw of a frame.
func (m *Manager) Camera() *Uniform[CameraUniform] { return m.camera }

// NewModel creates a model group.
func (m *Manager) NewModel(label string, initial ModelUniform) (*Uniform[ModelUniform], error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	layout, err := m.cache.Get(pipeline.ModelLayout())
	if err != nil {
		return nil, err
	}
	u, err := NewUniform(m.ctx, layout, label+"_model", initial, m.opts.readback)
	if err != nil {
		return nil, err
	}
	m.track(u)
	return u, nil
}

// NewColor creates a color group.
func (m *Manager) NewColor(label string, initial ColorUniform) (*Uniform[ColorUniform], error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	layout, err := m.cache.Get(pipeline.ColorLayout())
	if err != nil {
		return nil, err
	}
	u, err := NewUniform(m.ctx, layout, label+"_color", initial, m.opts.readback)
	if err != nil {
		return nil, err
	}
	m.track(u)
	return u, nil
}

// NewTexture creates a texture group on the layout matching the texture's
// view dimension.
func (m *Manager) NewTexture(label string, tex *texture.Texture) (*TextureGroup, error) {
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	if tex == nil {
		return nil, fmt.Errorf("bind: texture group %s: nil texture", label)
	}
	dim := tex.ViewDimension()
	layout, err := m.cache.Get(pipeline.TextureLayout(dim))
	if err != nil {
		return nil, err
	}
	return newTextureGroup(m.ctx.HalDevice(), layout, dim, label+"_texture", tex, m.track)
}

// Close destroys every group the manager created, newest first.
func (m *Manager) Close() {
	m.mu.Lock()
	owned := m.owned
	m.owned = nil
	m.closed = true
	m.mu.Unlock()

	for i := len(owned) - 1; i >= 0; i-- {
		owned[i].Destroy()
	}
	if len(owned) > 0 {
		logging.Logger().Debug("bind: manager closed", "groups", len(owned))
	}
}
