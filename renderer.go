// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package rendercore

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rendercore/asset"
	"github.com/gogpu/rendercore/bind"
	"github.com/gogpu/rendercore/camera"
	"github.com/gogpu/rendercore/frame"
	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/internal/shaders"
	"github.com/gogpu/rendercore/mesh"
	"github.com/gogpu/rendercore/pipeline"
	"github.com/gogpu/rendercore/surface"
	"github.com/gogpu/rendercore/texture"
)

// Renderer draws text objects over an optional skybox.
type Renderer struct {
	ctx  *surface.Context
	opts options

	cache  *pipeline.LayoutCache
	text   *pipeline.Pipeline
	skybox *pipeline.Pipeline
	binds  *bind.Manager
	loop   *frame.Loop
	loader *asset.Loader
	pumped chan struct{}

	camera  camera.Camera
	objects []*Object
	sky     *skybox

	// retired holds releases of objects replaced while a frame may still
	// reference them. They run once the device is idle.
	retired []func()

	mu      sync.Mutex
	waiting map[string][]*Object // async texture loads by path
	closed  bool
}

// NewRenderer builds the text and skybox pipelines on ctx and starts the
// asset loader. The context stays owned by the caller.
func NewRenderer(ctx *surface.Context, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		ctx:     ctx,
		cache:   pipeline.NewLayoutCache(ctx.HalDevice()),
		waiting: make(map[string][]*Object),
	}
	for _, opt := range opts {
		opt(&r.opts)
	}

	if err := r.buildPipelines(); err != nil {
		r.release()
		return nil, err
	}

	binds, err := bind.NewManager(ctx, r.cache, bind.WithReadback(r.opts.readback))
	if err != nil {
		r.release()
		return nil, err
	}
	r.binds = binds

	r.camera = camera.Default()
	if r.opts.camera != nil {
		r.camera = *r.opts.camera
	} else {
		r.camera.SetAspect(ctx.Size())
	}
	if err := r.binds.Camera().Update(r.camera.Uniform()); err != nil {
		r.release()
		return nil, err
	}

	loopOpts := []frame.Option{frame.WithResizeHandler(r.onResize)}
	if r.opts.clear != nil {
		loopOpts = append(loopOpts, frame.WithClearColor(*r.opts.clear))
	}
	r.loop = frame.NewLoop(ctx, loopOpts...)

	r.loader = asset.NewLoader(asset.WithWorkers(r.opts.workers))
	r.pumped = make(chan struct{})
	go r.pump()

	logging.Logger().Info("rendercore: renderer ready",
		"backend", ctx.Backend(),
		"debug_view", r.opts.debugView,
		"spirv", r.opts.spirv)
	return r, nil
}

func (r *Renderer) buildPipelines() error {
	common := []pipeline.Option{
		pipeline.WithLayoutCache(r.cache),
		pipeline.WithDebugView(r.opts.debugView),
		pipeline.WithSPIRV(r.opts.spirv),
	}

	blend := gputypes.BlendStateAlpha()
	text, err := pipeline.NewBuilder(r.ctx, "text", shaders.Text, append(common,
		pipeline.WithVertexLayout(pipeline.TextVertexLayout()),
		pipeline.WithBindGroupLayouts(pipeline.StandardLayouts(gputypes.TextureViewDimension2D)...),
		pipeline.WithBlend(&blend),
	)...).Build()
	if err != nil {
		return err
	}
	r.text = text

	sky, err := pipeline.NewBuilder(r.ctx, "skybox", shaders.Skybox, append(common,
		pipeline.WithVertexLayout(pipeline.SkyboxVertexLayout()),
		pipeline.WithBindGroupLayouts(pipeline.StandardLayouts(gputypes.TextureViewDimension2DArray)...),
		pipeline.WithCullMode(gputypes.CullModeNone),
	)...).Build()
	if err != nil {
		return err
	}
	r.skybox = sky
	return nil
}

// pump hands decoded images to the render thread.
func (r *Renderer) pump() {
	defer close(r.pumped)
	for res := range r.loader.Results() {
		r.loop.Post(func(*surface.Context) error {
			return r.applyAsset(res)
		})
	}
}

func (r *Renderer) applyAsset(res asset.Result) error {
	if res.Err == nil && res.Layers != nil {
		return r.SetSkybox(res.Layers)
	}
	r.mu.Lock()
	objs := r.waiting[res.Name]
	delete(r.waiting, res.Name)
	r.mu.Unlock()
	if res.Err != nil {
		return res.Err
	}
	if len(objs) == 0 {
		return fmt.Errorf("rendercore: no object waiting for %s", res.Name)
	}
	var errs []error
	for _, obj := range objs {
		if err := obj.SetTexture(res.Image); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Renderer) checkOpen() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// Context returns the surface context the renderer draws on.
func (r *Renderer) Context() *surface.Context { return r.ctx }

// TextPipeline returns the textured quad pipeline.
func (r *Renderer) TextPipeline() *pipeline.Pipeline { return r.text }

// SkyboxPipeline returns the skybox pipeline.
func (r *Renderer) SkyboxPipeline() *pipeline.Pipeline { return r.skybox }

// Binds returns the bind group manager.
func (r *Renderer) Binds() *bind.Manager { return r.binds }

// AddText creates a textured object from img drawn with quad.
func (r *Renderer) AddText(img texture.RawImage, quad *mesh.Mesh[mesh.TextVertex], opts ...ObjectOption) (*Object, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	o := objectOptions{
		label:     fmt.Sprintf("text%d", len(r.objects)),
		transform: camera.Identity(),
		tint:      bind.White,
		visible:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	obj, err := newObject(r, o, img, quad)
	if err != nil {
		return nil, err
	}
	r.objects = append(r.objects, obj)
	return obj, nil
}

// Objects returns the objects in draw order.
func (r *Renderer) Objects() []*Object {
	return append([]*Object(nil), r.objects...)
}

// LoadTextureAsync decodes path in the background and sets it as obj's
// texture at the start of a later frame. Objects that request a path while
// it is still loading share the one decode.
func (r *Renderer) LoadTextureAsync(obj *Object, path string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.mu.Lock()
	pending := len(r.waiting[path]) > 0
	r.waiting[path] = append(r.waiting[path], obj)
	r.mu.Unlock()
	if pending {
		return nil
	}
	if err := r.loader.Load(path); err != nil {
		r.mu.Lock()
		delete(r.waiting, path)
		r.mu.Unlock()
		return err
	}
	return nil
}

// LoadSkyboxAsync decodes the six faces dir/<face><ext> (see
// mesh.SkyboxFaces) in the background and installs them as the skybox at
// the start of a later frame.
func (r *Renderer) LoadSkyboxAsync(dir, ext string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	return r.loader.LoadSkybox(dir, ext)
}

// Camera returns the current camera.
func (r *Renderer) Camera() camera.Camera { return r.camera }

// SetCamera replaces the camera and uploads its matrix.
func (r *Renderer) SetCamera(c camera.Camera) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.camera = c
	if err := r.binds.Camera().Update(c.Uniform()); err != nil {
		return err
	}
	if r.sky != nil {
		return r.sky.follow(c)
	}
	return nil
}

func (r *Renderer) onResize(width, height int) {
	r.camera.SetAspect(width, height)
	if err := r.SetCamera(r.camera); err != nil {
		logging.Logger().Warn("rendercore: camera update after resize", "err", err)
	}
}

// Resize requests a new surface size. Safe for concurrent use.
func (r *Renderer) Resize(width, height int) { r.loop.Resize(width, height) }

// Attach follows the resize events of a windowing host.
func (r *Renderer) Attach(events gpucontext.EventSource) { r.loop.Attach(events) }

// CaptureNext requests a copy of the next frame for Captured.
func (r *Renderer) CaptureNext() { r.loop.CaptureNext() }

// Captured returns the last captured frame.
func (r *Renderer) Captured() (*image.RGBA, error) { return r.loop.Captured() }

// Stats returns the frame counters.
func (r *Renderer) Stats() frame.Stats { return r.loop.Stats() }

// RenderFrame draws the skybox, then every visible object in the order
// they were added. A skipped frame returns an error matching
// frame.ErrFrameDropped; the next call renders normally.
func (r *Renderer) RenderFrame() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.flushRetired()

	draws := make([]frame.Draw, 0, len(r.objects)+1)
	if r.sky != nil {
		draws = append(draws, r.sky.draw())
	}
	for _, obj := range r.objects {
		if obj.visible {
			draws = append(draws, obj.draw())
		}
	}
	return r.loop.Render(r.binds.Camera(), draws)
}

// Close releases every GPU object the renderer created and stops the
// loader. The context is left open.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.loader.Close()
	<-r.pumped
	r.loop.Close()
	r.flushRetired()

	for _, obj := range r.objects {
		obj.destroy()
	}
	r.objects = nil
	if r.sky != nil {
		r.sky.destroy()
		r.sky = nil
	}
	r.release()
	logging.Logger().Debug("rendercore: renderer closed")
	return nil
}

func (r *Renderer) retire(fn func()) {
	r.retired = append(r.retired, fn)
}

func (r *Renderer) flushRetired() {
	if len(r.retired) == 0 {
		return
	}
	if err := r.ctx.HalDevice().WaitIdle(); err != nil {
		logging.Logger().Warn("rendercore: wait before release", "err", err)
	}
	for _, fn := range r.retired {
		fn()
	}
	r.retired = r.retired[:0]
}

// release destroys pipelines, groups and layouts.
func (r *Renderer) release() {
	if r.binds != nil {
		r.binds.Close()
	}
	if r.text != nil {
		r.text.Destroy()
	}
	if r.skybox != nil {
		r.skybox.Destroy()
	}
	r.cache.Destroy()
}
