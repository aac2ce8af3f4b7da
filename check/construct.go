// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package check

import (
	"strings"

	"github.com/gogpu/glsles/glsl"
)

// Swizzle component sets. A swizzle draws all its components from one set.
var swizzleSets = [...]string{"xyzw", "rgba", "stpq"}

// SwizzleSets returns the three component sets in their canonical order.
func SwizzleSets() []string {
	return swizzleSets[:]
}

func (c *checker) swizzle(e *glsl.MemberExpr, vec *glsl.Type) *glsl.Type {
	name := e.Member
	if len(name) > 4 {
		c.errorAt(e, e.MemberSpan, "swizzle '%s' has more than 4 components", name)
		return nil
	}
	set := ""
	for _, s := range swizzleSets {
		if strings.IndexByte(s, name[0]) >= 0 {
			set = s
			break
		}
	}
	if set == "" {
		c.errorAt(e, e.MemberSpan, "'%s' is not a valid swizzle for %s", name, vec)
		return nil
	}
	for i := 0; i < len(name); i++ {
		idx := strings.IndexByte(set, name[i])
		if idx < 0 {
			c.errorAt(e, e.MemberSpan, "swizzle '%s' mixes component sets", name)
			return nil
		}
		if idx >= vec.Length {
			c.errorAt(e, e.MemberSpan, "swizzle component '%c' out of range for %s", name[i], vec)
			return nil
		}
	}
	return glsl.VectorOf(vec.Scalar, len(name))
}

func hasRepeats(swizzle string) bool {
	for i := 1; i < len(swizzle); i++ {
		if strings.IndexByte(swizzle[:i], swizzle[i]) >= 0 {
			return true
		}
	}
	return false
}

// construct checks a constructor call for type t.
//
//nolint:gocyclo,cyclop // one rule per constructed kind
func (c *checker) construct(e *glsl.CallExpr, t *glsl.Type, args []*glsl.Type) *glsl.Type {
	e.Constructor = true
	e.Signature = glsl.Signature(t.Name, typeNames(args)...)

	switch t.Kind {
	case glsl.TypeStruct:
		return c.constructStruct(e, t, args)
	case glsl.TypeVoid, glsl.TypeSampler, glsl.TypeArray:
		c.errorAt(e, e.CalleeSpan, "cannot construct a value of type %s", t)
		return nil
	}

	if len(args) == 0 {
		c.errorf(e, "constructor %s needs at least one argument", t)
		return nil
	}
	for i, a := range args {
		if a.Components() == 0 {
			c.errorf(e.Args[i], "cannot use a value of type %s in a constructor", a)
			return nil
		}
	}

	switch t.Kind {
	case glsl.TypeScalar:
		if len(args) != 1 {
			c.errorf(e, "constructor %s needs exactly one argument, got %d", t, len(args))
			return nil
		}
		return t

	case glsl.TypeVector:
		if len(args) == 1 && args[0].IsScalar() {
			return t
		}
		return c.components(e, t, args, t.Length)

	case glsl.TypeMatrix:
		if len(args) == 1 && (args[0].IsScalar() || args[0].IsMatrix()) {
			return t
		}
		for i, a := range args {
			if a.IsMatrix() {
				c.errorf(e.Args[i], "cannot construct %s from a matrix and other values", t)
				return nil
			}
		}
		total := 0
		for _, a := range args {
			total += a.Components()
		}
		if want := t.Length * t.Length; total != want {
			c.errorf(e, "constructor %s needs %d components, got %d", t, want, total)
			return nil
		}
		return t
	}
	return nil
}

// components checks that args supply at least want components and that
// every argument contributes at least one of them.
func (c *checker) components(e *glsl.CallExpr, t *glsl.Type, args []*glsl.Type, want int) *glsl.Type {
	total := 0
	for i, a := range args {
		if total >= want {
			c.errorf(e.Args[i], "too many arguments to %s constructor", t)
			return nil
		}
		total += a.Components()
	}
	if total < want {
		c.errorf(e, "too few components for %s constructor: got %d, want %d", t, total, want)
		return nil
	}
	return t
}

func (c *checker) constructStruct(e *glsl.CallExpr, t *glsl.Type, args []*glsl.Type) *glsl.Type {
	if len(args) != len(t.Fields) {
		c.errorf(e, "constructor %s expects %d arguments, got %d", t, len(t.Fields), len(args))
		return nil
	}
	for i, f := range t.Fields {
		if !args[i].Equal(f.Type) {
			c.errorf(e.Args[i], "argument %d of %s constructor has type %s, want %s for field '%s'",
				i+1, t, args[i], f.Type, f.Name)
			return nil
		}
	}
	return t
}
