// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame drives the per-frame cycle of acquiring the surface
// texture, recording one render pass, submitting it and presenting:
//
//	Idle -> AcquireSurface -> Record -> Submit -> Present -> Idle
//
// A Loop is owned by the render thread. Post and Resize are the only
// methods safe to call from other goroutines.
package frame

// State is a phase of the frame cycle.
type State int32

const (
	Idle State = iota
	AcquireSurface
	Record
	Submit
	Present
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AcquireSurface:
		return "acquire_surface"
	case Record:
		return "record"
	case Submit:
		return "submit"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// Stats counts frame outcomes since the loop was created.
type Stats struct {
	Frames       uint64 // presented (or completed offscreen)
	Dropped      uint64
	Reconfigures uint64
	Draws        uint64
	PostFailures uint64
}
