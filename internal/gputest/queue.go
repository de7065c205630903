// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"image"
	"sync"

	"github.com/gogpu/wgpu/hal"
)

// BufferWrite is a recorded Queue.WriteBuffer call.
type BufferWrite struct {
	Buffer hal.Buffer
	Offset uint64
	Data   []byte
}

// TextureWrite is a recorded Queue.WriteTexture call.
type TextureWrite struct {
	Dst    hal.ImageCopyTexture
	Data   []byte
	Layout hal.ImageDataLayout
	Size   hal.Extent3D
}

// Queue records uploads, submissions and presents. PresentErrs are
// returned by successive Present calls (nil entries succeed).
type Queue struct {
	hal.Queue

	mu            sync.Mutex
	BufferWrites  []BufferWrite
	TextureWrites []TextureWrite
	Submits       int
	Presents      int
	PresentErrs   []error
}

func (q *Queue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error {
	q.mu.Lock()
	q.BufferWrites = append(q.BufferWrites, BufferWrite{
		Buffer: buffer,
		Offset: offset,
		Data:   append([]byte(nil), data...),
	})
	q.mu.Unlock()
	return q.Queue.WriteBuffer(buffer, offset, data)
}

func (q *Queue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	q.mu.Lock()
	q.TextureWrites = append(q.TextureWrites, TextureWrite{
		Dst:    *dst,
		Data:   append([]byte(nil), data...),
		Layout: *layout,
		Size:   *size,
	})
	q.mu.Unlock()
	return q.Queue.WriteTexture(dst, data, layout, size)
}

func (q *Queue) Submit(commandBuffers []hal.CommandBuffer) (uint64, error) {
	q.mu.Lock()
	q.Submits++
	q.mu.Unlock()
	return q.Queue.Submit(commandBuffers)
}

func (q *Queue) Present(s hal.Surface, texture hal.SurfaceTexture, damage []image.Rectangle) error {
	q.mu.Lock()
	q.Presents++
	var err error
	if len(q.PresentErrs) > 0 {
		err, q.PresentErrs = q.PresentErrs[0], q.PresentErrs[1:]
	}
	q.mu.Unlock()
	if err != nil {
		return err
	}
	return q.Queue.Present(s, texture, damage)
}

// Writes returns a copy of the buffer writes.
func (q *Queue) Writes() []BufferWrite {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]BufferWrite(nil), q.BufferWrites...)
}

// Counts returns the number of submits and presents.
func (q *Queue) Counts() (submits, presents int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.Submits, q.Presents
}
