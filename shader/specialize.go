// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// boolOverride matches `[@id(N)] override NAME: bool [= true|false];`.
var boolOverride = regexp.MustCompile(
	`(?:@id\(\s*\d+\s*\)\s*)?override\s+([A-Za-z_][A-Za-z0-9_]*)\s*:\s*bool\s*(?:=\s*(true|false)\s*)?;`)

// Specialize rewrites every boolean override declaration in source into a
// constant. Flags present in the map take the given value, others keep
// their declared default. HAL backends consume WGSL directly and accept no
// pipeline constants, so this is how a build-time flag reaches the shader.
func Specialize(source string, flags map[string]bool) (string, error) {
	declared := make(map[string]bool)
	var missing []string
	out := boolOverride.ReplaceAllStringFunc(source, func(decl string) string {
		m := boolOverride.FindStringSubmatch(decl)
		name, def := m[1], m[2]
		declared[name] = true
		value, ok := flags[name]
		if !ok {
			if def == "" {
				missing = append(missing, name)
				return decl
			}
			value = def == "true"
		}
		return fmt.Sprintf("const %s: bool = %t;", name, value)
	})

	var unknown []string
	for name := range flags {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return "", fmt.Errorf("%w: %s", ErrUnknownOverride, strings.Join(unknown, ", "))
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingOverride, strings.Join(missing, ", "))
	}
	return out, nil
}

// DeclaredOverrides returns the names of the boolean overrides declared in
// source, in declaration order.
func DeclaredOverrides(source string) []string {
	var names []string
	for _, m := range boolOverride.FindAllStringSubmatch(source, -1) {
		names = append(names, m[1])
	}
	return names
}
