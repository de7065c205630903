// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package bind

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rendercore/internal/logging"
	"github.com/gogpu/rendercore/surface"
)

// Uniform is a uniform buffer with a CPU mirror and the bind group that
// exposes it at binding 0. Update copies the value to the GPU through the
// queue, so the new bytes are visible to the next submitted command buffer.
type Uniform[T Value] struct {
	device hal.Device
	queue  hal.Queue
	label  string

	mu       sync.Mutex
	value    T
	buffer   hal.Buffer
	staging  hal.Buffer
	group    hal.BindGroup
	readback bool
}

// NewUniform creates the buffer and bind group for layout and uploads
// initial. Most callers go through a Manager instead.
func NewUniform[T Value](ctx *surface.Context, layout hal.BindGroupLayout, label string, initial T, readback bool) (*Uniform[T], error) {
	device := ctx.HalDevice()
	size := initial.Size()

	usage := gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
	if readback {
		usage |= gputypes.BufferUsageCopySrc
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_buffer",
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("bind: create %s buffer: %w", label, err)
	}

	// Uniform buffers cannot be mapped; Dump copies into a staging buffer.
	var staging hal.Buffer
	if readback {
		staging, err = device.CreateBuffer(&hal.BufferDescriptor{
			Label: label + "_readback",
			Size:  size,
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			device.DestroyBuffer(buf)
			return nil, fmt.Errorf("bind: create %s readback buffer: %w", label, err)
		}
	}

	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind_group",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: size,
			}},
		},
	})
	if err != nil {
		if staging != nil {
			device.DestroyBuffer(staging)
		}
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("bind: create %s bind group: %w", label, err)
	}

	u := &Uniform[T]{
		device:   device,
		queue:    ctx.HalQueue(),
		label:    label,
		buffer:   buf,
		staging:  staging,
		group:    group,
		readback: readback,
	}
	if err := u.Update(initial); err != nil {
		u.Destroy()
		return nil, err
	}
	logging.Logger().Debug("bind: uniform created", "label", label, "size", size)
	return u, nil
}

// Update stores v in the CPU mirror and writes its bytes to the buffer.
// Writing the same value again leaves the buffer unchanged.
func (u *Uniform[T]) Update(v T) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.buffer == nil {
		return fmt.Errorf("bind: update %s: %w", u.label, ErrClosed)
	}
	if err := u.queue.WriteBuffer(u.buffer, 0, v.Bytes()); err != nil {
		return fmt.Errorf("bind: write %s: %w", u.label, err)
	}
	u.value = v
	return nil
}

// Value returns the last value passed to Update.
func (u *Uniform[T]) Value() T {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.value
}

// Handle returns the bind group.
func (u *Uniform[T]) Handle() hal.BindGroup {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.group
}

// Buffer returns the uniform buffer.
func (u *Uniform[T]) Buffer() hal.Buffer {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.buffer
}

// Label returns the uniform label.
func (u *Uniform[T]) Label() string { return u.label }

// Dump reads the buffer contents back from the GPU by copying them into
// the staging buffer. It waits for the device to go idle and is meant for
// debugging and tests.
func (u *Uniform[T]) Dump() ([]byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.readback {
		return nil, fmt.Errorf("bind: dump %s: %w", u.label, ErrNoReadback)
	}
	if u.buffer == nil {
		return nil, fmt.Errorf("bind: dump %s: %w", u.label, ErrClosed)
	}
	size := u.value.Size()
	if err := u.copyToStaging(size); err != nil {
		return nil, fmt.Errorf("bind: dump %s: %w", u.label, err)
	}
	mapping, err := u.device.MapBuffer(u.staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("bind: map %s: %w", u.label, err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := u.device.UnmapBuffer(u.staging); err != nil {
		return nil, fmt.Errorf("bind: unmap %s: %w", u.label, err)
	}
	return out, nil
}

func (u *Uniform[T]) copyToStaging(size uint64) error {
	encoder, err := u.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: u.label + "_readback"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Destroy()
	if err := encoder.BeginEncoding(u.label + "_readback"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(u.buffer, u.staging, []hal.BufferCopy{{Size: size}})
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer u.device.FreeCommandBuffer(cmd)
	if _, err := u.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return fmt.Errorf("submit copy: %w", err)
	}
	if err := u.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	return nil
}

// Destroy releases the bind group and buffers.
func (u *Uniform[T]) Destroy() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.group != nil {
		u.device.DestroyBindGroup(u.group)
		u.group = nil
	}
	if u.staging != nil {
		u.device.DestroyBuffer(u.staging)
		u.staging = nil
	}
	if u.buffer != nil {
		u.device.DestroyBuffer(u.buffer)
		u.buffer = nil
	}
}
