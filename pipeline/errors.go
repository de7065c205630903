// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

// ErrLayoutMismatch is matched by every LayoutMismatchError.
var ErrLayoutMismatch = errors.New("pipeline: layout mismatch")

// ErrNoEntryPoint is returned when the program lacks a vertex or fragment
// entry point.
var ErrNoEntryPoint = errors.New("pipeline: missing entry point")

// LayoutMismatchError reports a disagreement between a program and the
// layouts supplied for it. Group and Binding are -1 for vertex attribute
// mismatches; Location is -1 for bind group mismatches.
type LayoutMismatchError struct {
	Pipeline string
	Group    int
	Binding  int
	Location int
	Reason   string
}

func (e *LayoutMismatchError) Error() string {
	if e.Location >= 0 {
		return fmt.Sprintf("pipeline %q: layout mismatch at vertex location %d: %s",
			e.Pipeline, e.Location, e.Reason)
	}
	if e.Binding < 0 {
		return fmt.Sprintf("pipeline %q: layout mismatch at group %d: %s",
			e.Pipeline, e.Group, e.Reason)
	}
	return fmt.Sprintf("pipeline %q: layout mismatch at group %d binding %d: %s",
		e.Pipeline, e.Group, e.Binding, e.Reason)
}

// Is reports whether target is ErrLayoutMismatch.
func (e *LayoutMismatchError) Is(target error) bool { return target == ErrLayoutMismatch }

func bindingMismatch(pipeline string, group, binding uint32, format string, args ...any) *LayoutMismatchError {
	return &LayoutMismatchError{
		Pipeline: pipeline,
		Group:    int(group),
		Binding:  int(binding),
		Location: -1,
		Reason:   fmt.Sprintf(format, args...),
	}
}

func groupMismatch(pipeline string, group uint32, format string, args ...any) *LayoutMismatchError {
	return &LayoutMismatchError{
		Pipeline: pipeline,
		Group:    int(group),
		Binding:  -1,
		Location: -1,
		Reason:   fmt.Sprintf(format, args...),
	}
}

func vertexMismatch(pipeline string, location uint32, format string, args ...any) *LayoutMismatchError {
	return &LayoutMismatchError{
		Pipeline: pipeline,
		Group:    -1,
		Binding:  -1,
		Location: int(location),
		Reason:   fmt.Sprintf(format, args...),
	}
}
