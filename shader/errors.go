// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Shader front-end errors.
var (
	// ErrCompile is matched by every CompileError.
	ErrCompile = errors.New("shader: compile failed")

	// ErrUnknownOverride is returned by Specialize for a flag the source
	// does not declare.
	ErrUnknownOverride = errors.New("shader: unknown override")

	// ErrMissingOverride is returned by Specialize when an override has no
	// default and no value was supplied.
	ErrMissingOverride = errors.New("shader: override has no value")

	// ErrEmptySource is returned when the WGSL source is empty.
	ErrEmptySource = errors.New("shader: empty source")
)

// CompileError reports a WGSL syntax, type or validation failure.
// Line and Column are 1-based and zero when naga did not report a location.
type CompileError struct {
	Label  string
	Line   int
	Column int
	Err    error
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("shader %q: %d:%d: %v", e.Label, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("shader %q: %v", e.Label, e.Err)
}

// Unwrap returns the underlying naga error.
func (e *CompileError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCompile.
func (e *CompileError) Is(target error) bool { return target == ErrCompile }

// naga reports parse errors as "line L, column C: msg" and lowering errors
// as "L:C: msg".
var (
	parseLocation = regexp.MustCompile(`line (\d+), column (\d+)`)
	lowerLocation = regexp.MustCompile(`(?:^|\s)(\d+):(\d+):`)
)

func newCompileError(label string, err error) *CompileError {
	ce := &CompileError{Label: label, Err: err}
	msg := err.Error()
	m := parseLocation.FindStringSubmatch(msg)
	if m == nil {
		m = lowerLocation.FindStringSubmatch(msg)
	}
	if m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
		ce.Column, _ = strconv.Atoi(m[2])
	}
	return ce
}
