// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frame

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/surface"
)

var errSuboptimal = errors.New("frame: surface suboptimal")

// inflight is a submitted command buffer awaiting GPU completion.
type inflight struct {
	index   uint64
	cmd     hal.CommandBuffer
	encoder hal.CommandEncoder
}

// Loop renders frames on a surface.Context.
type Loop struct {
	ctx  *surface.Context
	opts options

	state atomic.Int32

	mu       sync.Mutex
	posted   []func(*surface.Context) error
	resize   bool
	width    int
	height   int
	capture  bool
	captured *image.RGBA
	stats    Stats

	// Render thread only.
	reconfigure bool
	lost        bool
	offscreen   *offscreen
	inflight    []inflight
}

// NewLoop creates a loop in the Idle state.
func NewLoop(ctx *surface.Context, opts ...Option) *Loop {
	l := &Loop{ctx: ctx}
	l.opts.clear = gputypes.Color{R: 0, G: 0, B: 0, A: 1}
	for _, opt := range opts {
		opt(&l.opts)
	}
	return l
}

// State returns the current phase.
func (l *Loop) State() State { return State(l.state.Load()) }

func (l *Loop) transition(to State) {
	from := State(l.state.Swap(int32(to)))
	if l.opts.onState != nil && from != to {
		l.opts.onState(from, to)
	}
}

// Stats returns a snapshot of the counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

func (l *Loop) count(fn func(*Stats)) {
	l.mu.Lock()
	fn(&l.stats)
	l.mu.Unlock()
}

// Post queues fn to run on the render thread at the start of the next
// frame, before acquisition. Safe for concurrent use.
func (l *Loop) Post(fn func(*surface.Context) error) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
}

// Resize requests a new surface size. Requests coalesce; the latest one
// is applied before the next acquisition. Safe for concurrent use.
func (l *Loop) Resize(width, height int) {
	l.mu.Lock()
	l.resize = true
	l.width, l.height = width, height
	l.mu.Unlock()
}

// Attach forwards the event source's resize events to Resize.
func (l *Loop) Attach(events gpucontext.EventSource) {
	events.OnResize(l.Resize)
}

// CaptureNext requests a copy of the next rendered frame.
func (l *Loop) CaptureNext() {
	l.mu.Lock()
	l.capture = true
	l.mu.Unlock()
}

// Captured returns the last captured frame and clears it.
func (l *Loop) Captured() (*image.RGBA, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img := l.captured
	if img == nil {
		return nil, ErrNoCapture
	}
	l.captured = nil
	return img, nil
}

func (l *Loop) takeCapture() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.capture
	l.capture = false
	return c
}

// Render runs one frame: every draw in order, all sharing camera at
// slot 0. A skipped frame returns an error matching ErrFrameDropped and
// the cause; the loop stays usable. After ErrDeviceLost it is not.
func (l *Loop) Render(camera Group, draws []Draw) error {
	if l.lost {
		return ErrDeviceLost
	}
	if camera == nil {
		return fmt.Errorf("%w: nil camera group", ErrInvalidDraw)
	}
	for i := range draws {
		if err := draws[i].validate(); err != nil {
			return err
		}
	}

	l.runPosted()
	if err := l.prepare(); err != nil {
		return l.drop(err)
	}
	l.reclaim(false)

	l.transition(AcquireSurface)
	t, err := l.acquire()
	if err != nil {
		l.transition(Idle)
		return err
	}
	defer t.release()

	l.transition(Record)
	cmd, encoder, rb, err := l.record(t, camera.Handle(), draws)
	if err != nil {
		l.transition(Idle)
		return l.drop(err)
	}
	if rb != nil {
		defer rb.destroy()
	}

	l.transition(Submit)
	index, err := l.ctx.HalQueue().Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		l.ctx.HalDevice().FreeCommandBuffer(cmd)
		encoder.Destroy()
		l.transition(Idle)
		if errors.Is(err, hal.ErrDeviceLost) {
			return l.deviceLost(err)
		}
		return l.drop(fmt.Errorf("submit: %w", err))
	}
	l.inflight = append(l.inflight, inflight{index: index, cmd: cmd, encoder: encoder})

	if rb != nil {
		img, err := rb.read()
		if err != nil {
			logging.Logger().Warn("frame: capture failed", "err", err)
		} else {
			l.mu.Lock()
			l.captured = img
			l.mu.Unlock()
		}
	}

	l.transition(Present)
	err = t.present(l.ctx.HalQueue())
	l.transition(Idle)
	if err != nil {
		switch {
		case errors.Is(err, hal.ErrDeviceLost):
			return l.deviceLost(err)
		case errors.Is(err, hal.ErrSurfaceLost), errors.Is(err, hal.ErrSurfaceOutdated):
			l.reconfigure = true
		}
		return l.drop(fmt.Errorf("present: %w", err))
	}

	l.count(func(s *Stats) {
		s.Frames++
		s.Draws += uint64(len(draws))
	})
	return nil
}

func (l *Loop) runPosted() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()

	for _, fn := range posted {
		if err := fn(l.ctx); err != nil {
			logging.Logger().Warn("frame: posted work failed", "err", err)
			l.count(func(s *Stats) { s.PostFailures++ })
		}
	}
}

// prepare applies a pending resize and a pending reconfiguration.
func (l *Loop) prepare() error {
	l.mu.Lock()
	resize, w, h := l.resize, l.width, l.height
	l.resize = false
	l.mu.Unlock()

	if resize && w > 0 && h > 0 {
		bw, bh := l.ctx.Size()
		if err := l.ctx.Resize(w, h); err != nil {
			return err
		}
		if bw != w || bh != h {
			if l.offscreen != nil {
				l.offscreen.destroy(l.ctx.HalDevice())
				l.offscreen = nil
			}
			if l.opts.onResize != nil {
				l.opts.onResize(w, h)
			}
		}
	}
	if l.reconfigure {
		l.reconfigure = false
		return l.reconfigureSurface()
	}
	return nil
}

func (l *Loop) reconfigureSurface() error {
	l.count(func(s *Stats) { s.Reconfigures++ })
	if err := l.ctx.Reconfigure(); err != nil {
		return fmt.Errorf("reconfigure: %w", err)
	}
	return nil
}

// acquire gets the frame's color target. A lost, outdated or suboptimal
// surface is reconfigured and acquisition retried once.
func (l *Loop) acquire() (*target, error) {
	s := l.ctx.Surface()
	if s == nil {
		return l.acquireOffscreen()
	}

	st, err := tryAcquire(s, true)
	if err == nil {
		return newSurfaceTarget(l.ctx, st)
	}
	if !retryable(err) {
		return nil, l.acquireFailed(err)
	}

	logging.Logger().Warn("frame: surface unusable, reconfiguring", "err", err)
	if rerr := l.reconfigureSurface(); rerr != nil {
		return nil, l.drop(errors.Join(err, rerr))
	}
	st, err = tryAcquire(s, false)
	if err != nil {
		return nil, l.acquireFailed(err)
	}
	return newSurfaceTarget(l.ctx, st)
}

func tryAcquire(s hal.Surface, strict bool) (hal.SurfaceTexture, error) {
	acquired, err := s.AcquireTexture(nil)
	if err != nil {
		return nil, err
	}
	if acquired.Suboptimal && strict {
		s.DiscardTexture(acquired.Texture)
		return nil, errSuboptimal
	}
	return acquired.Texture, nil
}

func retryable(err error) bool {
	return errors.Is(err, hal.ErrSurfaceLost) ||
		errors.Is(err, hal.ErrSurfaceOutdated) ||
		errors.Is(err, errSuboptimal)
}

func (l *Loop) acquireFailed(err error) error {
	if errors.Is(err, hal.ErrDeviceLost) {
		return l.deviceLost(err)
	}
	return l.drop(fmt.Errorf("acquire: %w", err))
}

func (l *Loop) acquireOffscreen() (*target, error) {
	if l.offscreen == nil {
		o, err := newOffscreen(l.ctx)
		if err != nil {
			return nil, l.drop(err)
		}
		l.offscreen = o
	}
	t, err := l.offscreen.target(l.ctx)
	if err != nil {
		return nil, l.drop(err)
	}
	return t, nil
}

func (l *Loop) record(t *target, camera hal.BindGroup, draws []Draw) (hal.CommandBuffer, hal.CommandEncoder, *readback, error) {
	device := l.ctx.HalDevice()
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "frame_encoder"})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		encoder.Destroy()
		return nil, nil, nil, fmt.Errorf("begin encoding: %w", err)
	}

	desc := &hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: l.opts.clear,
		}},
	}
	if depth := l.ctx.DepthView(); depth != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:            depth,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpDiscard,
			DepthClearValue: 1.0,
		}
	}

	pass := encoder.BeginRenderPass(desc)
	for i := range draws {
		draws[i].record(pass, camera)
	}
	pass.End()

	var rb *readback
	if l.takeCapture() {
		rb, err = encodeCapture(device, encoder, t)
		if err != nil {
			encoder.DiscardEncoding()
			encoder.Destroy()
			return nil, nil, nil, err
		}
	}

	cmd, err := encoder.EndEncoding()
	if err != nil {
		if rb != nil {
			rb.destroy()
		}
		encoder.Destroy()
		return nil, nil, nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, encoder, rb, nil
}

// reclaim frees command buffers the GPU has finished with, or all of them
// when wait is set.
func (l *Loop) reclaim(wait bool) {
	if len(l.inflight) == 0 {
		return
	}
	device := l.ctx.HalDevice()
	if wait {
		if err := device.WaitIdle(); err != nil {
			logging.Logger().Warn("frame: wait idle", "err", err)
		}
	}
	done := l.ctx.HalQueue().PollCompleted()
	keep := l.inflight[:0]
	for _, f := range l.inflight {
		if !wait && f.index > done {
			keep = append(keep, f)
			continue
		}
		device.FreeCommandBuffer(f.cmd)
		f.encoder.Destroy()
	}
	l.inflight = keep
}

func (l *Loop) drop(err error) error {
	l.count(func(s *Stats) { s.Dropped++ })
	logging.Logger().Warn("frame: dropped", "err", err)
	return fmt.Errorf("%w: %w", ErrFrameDropped, err)
}

func (l *Loop) deviceLost(err error) error {
	l.lost = true
	logging.Logger().Error("frame: device lost", "err", err)
	return fmt.Errorf("%w: %w", ErrDeviceLost, err)
}

// Close waits for in-flight frames and releases the loop's GPU objects.
// The context stays open.
func (l *Loop) Close() {
	l.reclaim(true)
	if l.offscreen != nil {
		l.offscreen.destroy(l.ctx.HalDevice())
		l.offscreen = nil
	}
}
