// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builtins

import (
	"strings"
	"testing"

	"github.com/gogpu/glsles/glsl"
	"github.com/kr/pretty"
)

func signatures(fs []*Function) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Signature
	}
	return out
}

func TestCatalogueIdempotent(t *testing.T) {
	a, b := New(), New()
	if diff := pretty.Diff(signatures(a.Functions), signatures(b.Functions)); len(diff) > 0 {
		t.Errorf("function tables differ:\n%s", strings.Join(diff, "\n"))
	}
	if diff := pretty.Diff(signatures(a.Operators), signatures(b.Operators)); len(diff) > 0 {
		t.Errorf("operator tables differ:\n%s", strings.Join(diff, "\n"))
	}

	// Registering everything again is a no-op.
	types, fns, ops, vars := len(a.Types), len(a.Functions), len(a.Operators), len(a.Variables)
	first := a.Functions[0]
	a.registerTypes()
	a.registerFunctions()
	a.registerOperators()
	a.registerVariables()
	if len(a.Types) != types || len(a.Functions) != fns || len(a.Operators) != ops || len(a.Variables) != vars {
		t.Errorf("re-registration changed sizes: types %d->%d functions %d->%d operators %d->%d variables %d->%d",
			types, len(a.Types), fns, len(a.Functions), ops, len(a.Operators), vars, len(a.Variables))
	}
	if f, _ := a.Function(first.Signature); f != first {
		t.Error("first registration was replaced")
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default built more than once")
	}
}

func TestGenTypeExpansion(t *testing.T) {
	c := New()
	for _, sig := range []string{"sin(float)", "sin(vec2)", "sin(vec3)", "sin(vec4)"} {
		f, ok := c.Function(sig)
		if !ok {
			t.Errorf("%s missing", sig)
			continue
		}
		if f.Return != f.Params[0] {
			t.Errorf("%s returns %s", sig, f.Return)
		}
	}
	for _, sig := range []string{"sin(mat2)", "sin(int)", "sin(ivec2)"} {
		if _, ok := c.Function(sig); ok {
			t.Errorf("%s should not exist", sig)
		}
	}
	if got := len(c.Overloads("sin")); got != 4 {
		t.Errorf("sin has %d overloads, want 4", got)
	}
	if f, ok := c.Function("dot(vec3,vec3)"); !ok || f.Return != glsl.Float {
		t.Errorf("dot(vec3,vec3) = %v, %v", f, ok)
	}
	if f, ok := c.Function("mix(vec3,vec3,float)"); !ok || f.Return != glsl.Vec3 {
		t.Errorf("mix(vec3,vec3,float) = %v, %v", f, ok)
	}
}

func TestArityExpansionIsLockstep(t *testing.T) {
	c := New()
	for _, n := range []string{"2", "3", "4"} {
		sig := "lessThan(vec" + n + ",vec" + n + ")"
		f, ok := c.Function(sig)
		if !ok {
			t.Errorf("%s missing", sig)
			continue
		}
		if f.Return.Name != "bvec"+n {
			t.Errorf("%s returns %s", sig, f.Return)
		}
	}
	for _, sig := range []string{"lessThan(vec2,vec3)", "equal(ivec2,vec2)", "matrixCompMult(mat2,mat3)"} {
		if _, ok := c.Function(sig); ok {
			t.Errorf("cross entry %s exists", sig)
		}
	}
	if got := len(c.Overloads("lessThan")); got != 6 {
		t.Errorf("lessThan has %d overloads, want 6", got)
	}
}

func TestMixedMarkersPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mixing genType and vec did not panic")
		}
	}()
	New().fn(AllStages, "genType", "bad", "genType", "vec")
}

func TestMatrixVectorProduct(t *testing.T) {
	c := New()
	tests := []struct {
		sig  string
		want *glsl.Type
	}{
		{"*(mat3,vec3)", glsl.Vec3},
		{"*(vec3,mat3)", glsl.Vec3},
		{"*(mat4,mat4)", glsl.Mat4},
		{"*(float,mat2)", glsl.Mat2},
		{"*(vec2,float)", glsl.Vec2},
		{"+(ivec3,int)", glsl.Ivec3},
		{"<(float,float)", glsl.Bool},
		{"==(bvec2,bvec2)", glsl.Bool},
		{"-(mat3)", glsl.Mat3},
		{"!(bool)", glsl.Bool},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			op, ok := c.Operator(tt.sig)
			if !ok {
				t.Fatalf("%s missing", tt.sig)
			}
			if op.Return != tt.want {
				t.Errorf("%s returns %s, want %s", tt.sig, op.Return, tt.want)
			}
		})
	}

	for _, sig := range []string{"*(mat3,vec4)", "<(vec2,vec2)", "==(sampler2D,sampler2D)", "+(float,int)"} {
		if _, ok := c.Operator(sig); ok {
			t.Errorf("%s should not exist", sig)
		}
	}
	if got := OperatorSignature(glsl.TokenStar, glsl.Mat3, glsl.Vec3); got != "*(mat3,vec3)" {
		t.Errorf("OperatorSignature = %q", got)
	}
}

func TestTextureStages(t *testing.T) {
	c := New()
	tests := []struct {
		sig      string
		vertex   bool
		fragment bool
	}{
		{"texture2D(sampler2D,vec2)", true, true},
		{"texture2D(sampler2D,vec2,float)", false, true},
		{"texture2DLod(sampler2D,vec2,float)", true, false},
		{"textureCubeLod(samplerCube,vec3,float)", true, false},
	}
	for _, tt := range tests {
		f, ok := c.Function(tt.sig)
		if !ok {
			t.Errorf("%s missing", tt.sig)
			continue
		}
		if f.Stages.Has(glsl.StageVertex) != tt.vertex || f.Stages.Has(glsl.StageFragment) != tt.fragment {
			t.Errorf("%s stages = %s", tt.sig, f.Stages)
		}
	}
}

func TestVariables(t *testing.T) {
	c := New()
	pos, ok := c.Variable("gl_Position")
	if !ok || pos.ReadOnly || !pos.Stages.Has(glsl.StageVertex) || pos.Stages.Has(glsl.StageFragment) {
		t.Errorf("gl_Position = %+v", pos)
	}
	coord, ok := c.Variable("gl_FragCoord")
	if !ok || !coord.ReadOnly || coord.Stages != FragmentStage {
		t.Errorf("gl_FragCoord = %+v", coord)
	}
	data, ok := c.Variable("gl_FragData")
	if !ok || data.Type.Kind != glsl.TypeArray || data.Type.Length != 1 {
		t.Errorf("gl_FragData = %+v", data)
	}
	limit, ok := c.Variable("gl_MaxVertexAttribs")
	if !ok || !limit.Const || limit.Value != 8 || limit.Detail() != "const int = 8" {
		t.Errorf("gl_MaxVertexAttribs = %+v", limit)
	}
	if _, ok := c.Type("gl_DepthRangeParameters"); !ok {
		t.Error("gl_DepthRangeParameters type missing")
	}
}

func TestBuiltinSpans(t *testing.T) {
	c := New()
	seen := make(map[int]string)
	check := func(name string, tok glsl.Token) {
		if !tok.Span.IsBuiltin() {
			t.Errorf("%s has user span %v", name, tok.Span)
		}
		if prev, dup := seen[tok.Span.Start.Line]; dup {
			t.Errorf("%s shares span with %s", name, prev)
		}
		seen[tok.Span.Start.Line] = name
	}
	for _, d := range c.Types {
		if !d.Builtin {
			t.Errorf("type %s not marked builtin", d.Name)
		}
		check(d.Name, d.Token)
	}
	for _, f := range c.Functions {
		check(f.Signature, f.Token)
	}
	for _, v := range c.Variables {
		check(v.Name, v.Token)
	}
}
