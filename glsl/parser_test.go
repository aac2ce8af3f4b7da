// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"
)

// parseSource parses source and fails the test on any diagnostic.
func parseSource(t *testing.T, source string, stage Stage) *TranslationUnit {
	t.Helper()
	unit, diags := Parse(source, stage)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diags.FormatAll(source))
	}
	if unit.IsIncomplete() {
		t.Fatal("unit is incomplete without diagnostics")
	}
	return unit
}

// expectDiagnostic parses source and checks that some diagnostic contains
// want.
func expectDiagnostic(t *testing.T, source string, stage Stage, want string) (*TranslationUnit, Diagnostics) {
	t.Helper()
	unit, diags := Parse(source, stage)
	for _, d := range diags {
		if strings.Contains(d.Message, want) {
			return unit, diags
		}
	}
	t.Fatalf("expected a diagnostic containing %q, got %v", want, diags)
	return nil, nil
}

const vertexShader = `#version 100
precision mediump float;

attribute vec3 aPosition;
attribute vec2 aUV;
uniform mat4 uMVP;
varying vec2 vUV, vOther;

struct Light {
    vec3 dir;
    float power[2];
};

float shade(in vec3 n, const Light l);

float shade(in vec3 n, const Light l) {
    return max(dot(n, l.dir), 0.0) * l.power[0];
}

void main(void) {
    vUV = aUV;
    vOther = aUV.yx;
    for (int i = 0; i < 4; ++i) {
        if (i == 2) continue; else break;
    }
    float k = true ? 1.0 : 2.0, j = -k;
    do { k += 1.0; } while (k < 3.0);
    gl_Position = uMVP * vec4(aPosition, 1.0);
}
`

func TestParseVertexShader(t *testing.T) {
	unit := parseSource(t, vertexShader, StageVertex)

	if len(unit.Directives) != 1 || unit.Directives[0].Name != "version" || unit.Directives[0].Text != "100" {
		t.Errorf("directives = %+v", unit.Directives)
	}

	// precision, 2 attributes, uniform, 2 varyings, struct, prototype, 2 functions
	if len(unit.Decls) != 10 {
		t.Fatalf("expected 10 declarations, got %d", len(unit.Decls))
	}

	v, ok := unit.Decls[5].(*VarDecl)
	if !ok || v.Name != "vOther" || v.Qualifier != StorageVarying || v.Type.Name != "vec2" {
		t.Errorf("decl 5 = %#v", unit.Decls[5])
	}
	if first := unit.Decls[4].(*VarDecl); first.Type == v.Type {
		t.Error("declarators must own distinct TypeSpecs")
	}

	light, ok := unit.Decls[6].(*TypeDecl)
	if !ok || light.Name != "Light" || len(light.Fields) != 2 {
		t.Fatalf("decl 6 = %#v", unit.Decls[6])
	}
	if light.Fields[1].ArraySize == nil {
		t.Error("expected array size on Light.power")
	}

	proto, ok := unit.Decls[7].(*FunctionProto)
	if !ok || proto.Signature != "shade(vec3,Light)" {
		t.Fatalf("decl 7 = %#v", unit.Decls[7])
	}
	if !proto.Params[1].Const || proto.Params[0].Qualifier != ParamIn {
		t.Errorf("parameter qualifiers not recorded")
	}

	main, ok := unit.Decls[9].(*FunctionDef)
	if !ok || main.Proto.Signature != "main()" {
		t.Fatalf("decl 9 = %#v", unit.Decls[9])
	}
	if len(main.Body.Stmts) != 6 {
		t.Errorf("expected 6 statements in main, got %d", len(main.Body.Stmts))
	}
	if _, ok := main.Body.Stmts[2].(*ForStmt); !ok {
		t.Errorf("statement 2 = %T, want *ForStmt", main.Body.Stmts[2])
	}
	decl, ok := main.Body.Stmts[3].(*DeclStmt)
	if !ok || len(decl.Decls) != 2 {
		t.Fatalf("statement 3 = %#v", main.Body.Stmts[3])
	}
	if init := decl.Decls[0].(*VarDecl).Init; init == nil {
		t.Error("expected initializer on k")
	} else if _, ok := init.(*CondExpr); !ok {
		t.Errorf("k initializer = %T, want *CondExpr", init)
	}
}

func TestParsePrecedence(t *testing.T) {
	unit := parseSource(t, "void main() { a = b + c * d == e || f && g; }", StageVertex)
	stmt := unit.Decls[0].(*FunctionDef).Body.Stmts[0].(*ExprStmt)
	assign := stmt.X.(*AssignExpr)

	or := assign.Right.(*BinaryExpr)
	if or.Op != TokenPipePipe {
		t.Fatalf("top operator = %v, want ||", or.Op)
	}
	eq := or.Left.(*BinaryExpr)
	if eq.Op != TokenEqualEqual {
		t.Fatalf("left of || = %v, want ==", eq.Op)
	}
	add := eq.Left.(*BinaryExpr)
	if add.Op != TokenPlus {
		t.Fatalf("left of == = %v, want +", add.Op)
	}
	if mul := add.Right.(*BinaryExpr); mul.Op != TokenStar {
		t.Errorf("right of + = %v, want *", mul.Op)
	}
	if and := or.Right.(*BinaryExpr); and.Op != TokenAmpAmp {
		t.Errorf("right of || = %v, want &&", and.Op)
	}
}

func TestParsePostfixAndConstructors(t *testing.T) {
	unit := parseSource(t, `
struct S { float x; };
void main() {
    S s = S(1.0);
    vec4 c = vec4(s.x).xyzw;
    m[1][2]++;
}`, StageFragment)

	body := unit.Decls[1].(*FunctionDef).Body
	s := body.Stmts[0].(*DeclStmt).Decls[0].(*VarDecl)
	call, ok := s.Init.(*CallExpr)
	if !ok || call.Callee != "S" || !call.Constructor {
		t.Errorf("S(1.0) = %#v", s.Init)
	}

	c := body.Stmts[1].(*DeclStmt).Decls[0].(*VarDecl)
	member, ok := c.Init.(*MemberExpr)
	if !ok || member.Member != "xyzw" {
		t.Fatalf("swizzle = %#v", c.Init)
	}
	if ctor := member.X.(*CallExpr); !ctor.Constructor || ctor.Callee != "vec4" {
		t.Errorf("vec4 constructor = %#v", member.X)
	}

	inc := body.Stmts[2].(*ExprStmt).X.(*UnaryExpr)
	if !inc.Postfix || inc.Op != TokenPlusPlus {
		t.Errorf("m[1][2]++ = %#v", inc)
	}
	if _, ok := inc.Operand.(*IndexExpr).X.(*IndexExpr); !ok {
		t.Error("expected nested index expressions")
	}
}

func TestParseInlineStruct(t *testing.T) {
	unit := parseSource(t, "struct P { vec2 a; } p1, p2;", StageVertex)
	if len(unit.Decls) != 3 {
		t.Fatalf("expected TypeDecl and two VarDecls, got %d decls", len(unit.Decls))
	}
	decl := unit.Decls[0].(*TypeDecl)
	p2 := unit.Decls[2].(*VarDecl)
	if p2.Type.Name != "P" || p2.Type.Struct != decl {
		t.Errorf("p2 type = %#v", p2.Type)
	}
}

func TestParseSpans(t *testing.T) {
	source := "uniform float u;\nvoid main() { u; }"
	unit := parseSource(t, source, StageVertex)

	u := unit.Decls[0].(*VarDecl)
	if u.NameSpan.Start != (Position{Line: 1, Column: 15, Offset: 14}) {
		t.Errorf("name span = %v", u.NameSpan)
	}
	if u.Span.Start.Offset != 0 || u.Span.End.Offset != 15 {
		t.Errorf("decl span = %d..%d, want 0..15", u.Span.Start.Offset, u.Span.End.Offset)
	}
	main := unit.Decls[1].(*FunctionDef)
	if main.Span.End.Offset != len(source) {
		t.Errorf("function ends at %d, want %d", main.Span.End.Offset, len(source))
	}
}

func TestParseStageLegality(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stage  Stage
		want   string
	}{
		{"attribute in fragment", "attribute vec3 a;", StageFragment, "only allowed in the vertex stage"},
		{"local varying", "void main() { varying vec3 v; }", StageVertex, "must be declared at global scope"},
		{"local attribute", "void main() { attribute vec3 v; }", StageVertex, "must be declared at global scope"},
		{"initialized uniform", "uniform float u = 1.0;", StageVertex, "cannot have an initializer"},
		{"initialized varying", "varying float v = 1.0;", StageFragment, "cannot have an initializer"},
		{"reserved prefix", "float gl_Thing;", StageVertex, "reserved prefix gl_"},
		{"invariant non-varying", "invariant uniform float u;", StageVertex, "only allowed on varying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, _ := expectDiagnostic(t, tt.source, tt.stage, tt.want)
			if !unit.IsIncomplete() {
				t.Error("expected incomplete unit")
			}
		})
	}
}

func TestParseReserved(t *testing.T) {
	unit, _ := expectDiagnostic(t, "void main() { int a = b % 2; }", StageVertex, "operator '%' is reserved")
	body := unit.Decls[0].(*FunctionDef).Body
	init := body.Stmts[0].(*DeclStmt).Decls[0].(*VarDecl).Init.(*BinaryExpr)
	if !init.IsIncomplete() || init.Op != TokenPercent {
		t.Errorf("reserved operator node = %#v", init)
	}

	expectDiagnostic(t, "float half;", StageVertex, "'half' is a reserved word")
	expectDiagnostic(t, "void main() { goto; }", StageVertex, "'goto' is a reserved word")
}

func TestParseMissingSemicolon(t *testing.T) {
	source := "uniform float a\nuniform float b;"
	unit, diags := expectDiagnostic(t, source, StageVertex, "expected ';' after declaration")
	if len(diags) != 1 {
		t.Errorf("expected exactly one diagnostic, got %v", diags)
	}
	if len(unit.Decls) != 2 {
		t.Fatalf("expected both declarations, got %d", len(unit.Decls))
	}
	if !unit.Decls[0].IsIncomplete() || unit.Decls[1].IsIncomplete() {
		t.Error("only the first declaration should be incomplete")
	}
	if d := diags[0]; d.Span.Start.Line != 1 || d.Span.Start.Column != 16 {
		t.Errorf("missing ';' reported at %v, want 1:16", d.Span.Start)
	}
}

func TestParseIncompleteMember(t *testing.T) {
	unit, _ := expectDiagnostic(t, "void main() { v. }", StageVertex, "expected field or swizzle name")
	stmt := unit.Decls[0].(*FunctionDef).Body.Stmts[0].(*ExprStmt)
	m, ok := stmt.X.(*MemberExpr)
	if !ok || m.Member != "" || !m.IsIncomplete() {
		t.Fatalf("expected incomplete member expression, got %#v", stmt.X)
	}
	if !unit.IsIncomplete() || !stmt.IsIncomplete() {
		t.Error("incompleteness must propagate to the root")
	}
}

func TestParseMaxErrors(t *testing.T) {
	var sb strings.Builder
	for range 10 {
		sb.WriteString("float = ;\n")
	}
	_, diags := ParseWithOptions(sb.String(), StageVertex, ParseOptions{MaxErrors: 3})
	if n := diags.Count(SeverityError); n != 3 {
		t.Errorf("expected 3 errors, got %d", n)
	}
	if n := diags.Count(SeverityInfo); n != 1 {
		t.Errorf("expected one truncation note, got %d", n)
	}
}

func TestParseLexicalErrors(t *testing.T) {
	unit, diags := expectDiagnostic(t, "float a; $ float b;", StageVertex, "unexpected character '$'")
	if len(unit.Decls) != 2 || len(diags) != 1 {
		t.Errorf("got %d decls and %d diagnostics", len(unit.Decls), len(diags))
	}
	expectDiagnostic(t, "float a; /* open", StageVertex, "unterminated block comment")
}

func TestParsePrecisionDecl(t *testing.T) {
	unit := parseSource(t, "precision highp float; precision lowp sampler2D;", StageFragment)
	d := unit.Decls[0].(*PrecisionDecl)
	if d.Precision != PrecisionHigh || d.Type.Name != "float" {
		t.Errorf("precision decl = %#v", d)
	}
	expectDiagnostic(t, "precision highp vec3;", StageFragment, "default precision")
}

func TestSignature(t *testing.T) {
	if got := Signature("mix", "vec3", "vec3", "float"); got != "mix(vec3,vec3,float)" {
		t.Errorf("Signature = %q", got)
	}
	if got := Signature("main"); got != "main()" {
		t.Errorf("Signature = %q", got)
	}
	unit := parseSource(t, "float sum(float v[4]);", StageVertex)
	if sig := unit.Decls[0].(*FunctionProto).Signature; sig != "sum(float[4])" {
		t.Errorf("array parameter signature = %q", sig)
	}
}
