// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package link checks that a vertex shader and a fragment shader agree on
// the interface between them.
//
// Link is pure: it reads the two units and returns per-stage diagnostics,
// keeping no state between calls.
package link

import (
	"fmt"
	"slices"

	"github.com/gogpu/glsles/glsl"
)

// Options controls the linker rules.
type Options struct {
	// UnusedVarying is the severity of a varying the vertex stage writes
	// but the fragment stage never declares. SeverityIgnore suppresses it.
	UnusedVarying glsl.Severity
	// CheckUniforms requires uniforms declared in both stages to agree.
	CheckUniforms bool
	// RequireMain requires each stage to define void main(). It is off by
	// default: the linker contract is the interface between the stages.
	RequireMain bool
}

// DefaultOptions returns the standard rule set.
func DefaultOptions() Options {
	return Options{
		UnusedVarying: glsl.SeverityWarning,
		CheckUniforms: true,
	}
}

// Result holds the diagnostics of each stage. Both slices are non-nil.
type Result struct {
	Vertex   []glsl.Diagnostic
	Fragment []glsl.Diagnostic
}

// HasErrors reports whether either stage has an error.
func (r Result) HasErrors() bool {
	return glsl.Diagnostics(r.Vertex).HasErrors() || glsl.Diagnostics(r.Fragment).HasErrors()
}

// Link compares the varying and uniform interfaces of vertex and fragment.
func Link(vertex, fragment *glsl.TranslationUnit, opts Options) Result {
	res := Result{Vertex: []glsl.Diagnostic{}, Fragment: []glsl.Diagnostic{}}

	vs, fs := collect(vertex, glsl.StorageVarying), collect(fragment, glsl.StorageVarying)
	vinv, finv := invariants(vertex), invariants(fragment)
	for _, name := range names(vs, fs) {
		v, f := vs[name], fs[name]
		switch {
		case v.skip || f.skip:
		case f.decl == nil:
			if opts.UnusedVarying != glsl.SeverityIgnore {
				res.Vertex = append(res.Vertex, at(opts.UnusedVarying, v.decl,
					"varying '%s' is not read by the fragment stage", name))
			}
		case v.decl == nil:
			res.Fragment = append(res.Fragment, at(glsl.SeverityError, f.decl,
				"varying '%s' is not written by the vertex stage", name))
		default:
			res.mismatch("varying", name, v.decl, f.decl)
			if (v.decl.Invariant || vinv[name]) != (f.decl.Invariant || finv[name]) {
				res.Vertex = append(res.Vertex, at(glsl.SeverityError, v.decl,
					"varying '%s' must be declared invariant in both stages", name))
				res.Fragment = append(res.Fragment, at(glsl.SeverityError, f.decl,
					"varying '%s' must be declared invariant in both stages", name))
			}
		}
	}

	if opts.CheckUniforms {
		vu, fu := collect(vertex, glsl.StorageUniform), collect(fragment, glsl.StorageUniform)
		for _, name := range names(vu, fu) {
			v, f := vu[name], fu[name]
			if v.decl != nil && f.decl != nil && !v.skip && !f.skip {
				res.mismatch("uniform", name, v.decl, f.decl)
			}
		}
	}

	if opts.RequireMain {
		if !hasMain(vertex) {
			res.Vertex = append(res.Vertex, glsl.Diagnostic{
				Severity: glsl.SeverityError,
				Message:  "missing 'void main()' in the vertex stage",
			})
		}
		if !hasMain(fragment) {
			res.Fragment = append(res.Fragment, glsl.Diagnostic{
				Severity: glsl.SeverityError,
				Message:  "missing 'void main()' in the fragment stage",
			})
		}
	}
	return res
}

// mismatch reports a type disagreement on both sides.
func (r *Result) mismatch(kind, name string, v, f *glsl.VarDecl) {
	vt, ft := typeName(v), typeName(f)
	if vt == ft {
		return
	}
	r.Vertex = append(r.Vertex, at(glsl.SeverityError, v,
		"%s '%s' has type %s here but %s in the fragment stage", kind, name, vt, ft))
	r.Fragment = append(r.Fragment, at(glsl.SeverityError, f,
		"%s '%s' has type %s here but %s in the vertex stage", kind, name, ft, vt))
}

type entry struct {
	decl *glsl.VarDecl
	// skip is set when a declaration of the name is incomplete.
	skip bool
}

// collect gathers the top-level declarations with the given qualifier.
// The first declaration of a name wins.
func collect(unit *glsl.TranslationUnit, qual glsl.StorageQualifier) map[string]entry {
	out := make(map[string]entry)
	if unit == nil {
		return out
	}
	for _, d := range unit.Decls {
		v, ok := d.(*glsl.VarDecl)
		if !ok || v.Qualifier != qual {
			continue
		}
		e := out[v.Name]
		if v.IsIncomplete() {
			e.skip = true
		} else if e.decl == nil {
			e.decl = v
		}
		out[v.Name] = e
	}
	return out
}

// invariants returns the names listed by top-level invariant
// redeclarations such as "invariant vColor;".
func invariants(unit *glsl.TranslationUnit) map[string]bool {
	out := make(map[string]bool)
	if unit == nil {
		return out
	}
	for _, d := range unit.Decls {
		if inv, ok := d.(*glsl.InvariantDecl); ok {
			for _, id := range inv.Names {
				out[id.Name] = true
			}
		}
	}
	return out
}

func names(a, b map[string]entry) []string {
	out := make([]string, 0, len(a)+len(b))
	for name := range a {
		out = append(out, name)
	}
	for name := range b {
		if _, ok := a[name]; !ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// typeName is the resolved type name, or the written one for a unit that
// was never checked.
func typeName(d *glsl.VarDecl) string {
	if d.Resolved != nil {
		return d.Resolved.String()
	}
	name := d.Type.Name
	if d.ArraySize != nil {
		size := "?"
		if lit, ok := d.ArraySize.(*glsl.Literal); ok {
			size = lit.Value
		}
		name += "[" + size + "]"
	}
	return name
}

func hasMain(unit *glsl.TranslationUnit) bool {
	if unit == nil {
		return false
	}
	for _, d := range unit.Decls {
		if def, ok := d.(*glsl.FunctionDef); ok && def.Proto.Signature == "main()" {
			return true
		}
	}
	return false
}

func at(sev glsl.Severity, d *glsl.VarDecl, format string, args ...interface{}) glsl.Diagnostic {
	span := d.NameSpan
	return glsl.Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...), Span: &span}
}
