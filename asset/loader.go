// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package asset decodes images on background goroutines. Decoded images
// are plain CPU data; creating GPU objects from them is left to the
// render thread, which receives them from Results.
package asset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gogpu/rendercore/internal/cache"
	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/mesh"
	"github.com/gogpu/rendercore/texture"
)

// ErrClosed is returned by loads issued after Close.
var ErrClosed = errors.New("asset: loader closed")

// Result is one finished load. Skybox loads fill Layers in face order;
// single image loads fill Image.
type Result struct {
	Name   string
	Image  texture.RawImage
	Layers []texture.RawImage
	Err    error
}

// Option configures a Loader.
type Option func(*options)

type options struct {
	workers int
	buffer  int
	cached  int
}

// WithWorkers sets the number of decode goroutines. Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithResultBuffer sets the capacity of the Results channel. Default: 16.
func WithResultBuffer(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// WithCache keeps up to n decoded files in memory so that loading the
// same path again skips the disk. Zero disables the cache. Default: 32.
func WithCache(n int) Option {
	return func(o *options) {
		o.cached = n
	}
}

// Loader decodes images concurrently.
type Loader struct {
	pool    *pool
	files   *cache.Cache[string, texture.RawImage]
	results chan Result
	quit    chan struct{}

	// mu orders submissions against Close.
	mu        sync.Mutex
	closed    bool
	pending   sync.WaitGroup
	closeOnce sync.Once
}

// NewLoader starts the decode workers.
func NewLoader(opts ...Option) *Loader {
	o := options{buffer: 16, cached: 32}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{
		pool:    newPool(o.workers),
		files:   cache.New[string, texture.RawImage](o.cached),
		results: make(chan Result, o.buffer),
		quit:    make(chan struct{}),
	}
}

// Results delivers finished loads. The channel is closed by Close.
func (l *Loader) Results() <-chan Result { return l.results }

func (l *Loader) deliver(r Result) {
	if r.Err != nil {
		logging.Logger().Warn("asset: load failed", "name", r.Name, "err", r.Err)
	} else {
		logging.Logger().Debug("asset: loaded", "name", r.Name, "layers", max(len(r.Layers), 1))
	}
	select {
	case l.results <- r:
	case <-l.quit:
	}
}

// submit queues jobs, or fails once the loader is closed.
func (l *Loader) submit(jobs ...func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.pending.Add(len(jobs))
	for _, job := range jobs {
		if !l.pool.submit(func() {
			defer l.pending.Done()
			job()
		}) {
			l.pending.Done()
		}
	}
	return nil
}

// Load decodes the file at path.
func (l *Loader) Load(path string) error {
	return l.submit(func() {
		img, err := l.decodeFile(path)
		l.deliver(Result{Name: path, Image: img, Err: err})
	})
}

// LoadBytes decodes an in-memory image reported under name.
func (l *Loader) LoadBytes(name string, data []byte) error {
	return l.submit(func() {
		img, err := DecodeBytes(data)
		l.deliver(Result{Name: name, Image: img, Err: err})
	})
}

// LoadSkybox decodes the six faces dir/<face><ext> in parallel, in
// mesh.SkyboxFaces order, and delivers them as one result named dir.
// Faces whose size differs from the first face are resized to it.
func (l *Loader) LoadSkybox(dir, ext string) error {
	faces := mesh.SkyboxFaces
	layers := make([]texture.RawImage, len(faces))
	errs := make([]error, len(faces))
	var remaining atomic.Int32
	remaining.Store(int32(len(faces)))

	jobs := make([]func(), len(faces))
	for i, face := range faces {
		path := filepath.Join(dir, face+ext)
		jobs[i] = func() {
			layers[i], errs[i] = l.decodeFile(path)
			if remaining.Add(-1) == 0 {
				l.deliver(finishSkybox(dir, layers, errs))
			}
		}
	}
	return l.submit(jobs...)
}

func finishSkybox(dir string, layers []texture.RawImage, errs []error) Result {
	if err := errors.Join(errs...); err != nil {
		return Result{Name: dir, Err: fmt.Errorf("asset: skybox %s: %w", dir, err)}
	}
	w, h := layers[0].Width, layers[0].Height
	for i := range layers[1:] {
		if layers[i+1].Width != w || layers[i+1].Height != h {
			layers[i+1] = layers[i+1].Resize(w, h)
		}
	}
	return Result{Name: dir, Layers: layers}
}

// decodeFile decodes path through the file cache. Cached images share
// their pixel data and must not be modified.
func (l *Loader) decodeFile(path string) (texture.RawImage, error) {
	if img, ok := l.files.Get(path); ok {
		return img, nil
	}
	img, err := DecodeFile(path)
	if err != nil {
		return texture.RawImage{}, err
	}
	l.files.Put(path, img)
	return img, nil
}

// CacheStats returns the file cache hit and miss counts.
func (l *Loader) CacheStats() (hits, misses uint64) { return l.files.Stats() }

// Wait blocks until every load issued so far has been delivered or
// dropped by Close.
func (l *Loader) Wait() { l.pending.Wait() }

// Close stops the workers and closes Results. Results not yet received
// are discarded.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		close(l.quit)
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()

		l.pool.close()
		l.pending.Wait()
		close(l.results)
	})
}
