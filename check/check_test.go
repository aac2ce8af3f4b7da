// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package check

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/glsles/glsl"
)

// checkSource parses and checks src, failing on parse diagnostics.
func checkSource(t *testing.T, src string, stage glsl.Stage) (*glsl.TranslationUnit, *Info) {
	t.Helper()
	unit, diags := glsl.Parse(src, stage)
	if len(diags) > 0 {
		t.Fatalf("parse diagnostics:\n%s", diags.FormatAll(src))
	}
	return unit, Check(unit)
}

func expectValid(t *testing.T, src string, stage glsl.Stage) (*glsl.TranslationUnit, *Info) {
	t.Helper()
	unit, info := checkSource(t, src, stage)
	if len(info.Diagnostics) > 0 {
		t.Fatalf("unexpected diagnostics:\n%s", info.Diagnostics.FormatAll(src))
	}
	if unit.IsIncomplete() {
		t.Error("valid unit marked incomplete")
	}
	return unit, info
}

func expectError(t *testing.T, src string, stage glsl.Stage, substr string) *Info {
	t.Helper()
	unit, info := checkSource(t, src, stage)
	for _, d := range info.Diagnostics {
		if strings.Contains(d.Message, substr) {
			if !unit.IsIncomplete() {
				t.Error("unit with a semantic error not marked incomplete")
			}
			return info
		}
	}
	t.Fatalf("no diagnostic containing %q, got %v", substr, info.Diagnostics)
	return nil
}

const vertexProgram = `attribute vec3 aPosition;
attribute vec2 aUV;
uniform mat4 uMVP;
uniform mat3 uNormalMatrix;
varying vec2 vUV;
varying vec3 vNormal;

struct Light {
    vec3 dir;
    float power;
};

const int COUNT = 2;
uniform Light uLights[COUNT];

float shade(vec3 n, Light l) {
    return max(dot(n, l.dir), 0.0) * l.power;
}

void main() {
    vec3 n = uNormalMatrix * aPosition;
    vec3 m = aPosition * uNormalMatrix;
    float total = 0.0;
    for (int i = 0; i < COUNT; i++) {
        total += shade(normalize(n + m), uLights[i]);
    }
    vUV = aUV * total;
    vNormal = n.xyz;
    gl_Position = uMVP * vec4(aPosition, 1.0);
    gl_PointSize = total > 0.5 ? 2.0 : 1.0;
}
`

func TestCheckValidProgram(t *testing.T) {
	unit, info := expectValid(t, vertexProgram, glsl.StageVertex)

	var assigns []*glsl.AssignExpr
	glsl.Inspect(unit, func(n glsl.Node) bool {
		if a, ok := n.(*glsl.AssignExpr); ok {
			assigns = append(assigns, a)
		}
		return true
	})
	if len(assigns) == 0 {
		t.Fatal("no assignments found")
	}
	pos := assigns[len(assigns)-2]
	if got := pos.ResolvedType(); got != glsl.Vec4 {
		t.Errorf("gl_Position assignment type = %s", got)
	}
	if got := pos.Right.ResolvedType(); got != glsl.Vec4 {
		t.Errorf("uMVP * vec4(...) type = %s", got)
	}

	lights := info.Globals.LookupLocal("uLights")
	if lights == nil || lights.Type.Kind != glsl.TypeArray || lights.Type.Length != 2 {
		t.Errorf("uLights = %+v", lights)
	}
	shade := info.Globals.LookupLocal("shade")
	if shade == nil || shade.Kind != SymbolFunction || shade.Overload("shade(vec3,Light)") == nil {
		t.Errorf("shade = %+v", shade)
	}
}

func TestMatrixVectorProduct(t *testing.T) {
	src := `uniform mat3 m;
uniform vec3 v;
void main() {
    vec3 a = m * v;
    vec3 b = v * m;
    mat3 c = m * m;
}
`
	unit, _ := expectValid(t, src, glsl.StageVertex)
	main := unit.Decls[2].(*glsl.FunctionDef)
	for i, want := range []*glsl.Type{glsl.Vec3, glsl.Vec3, glsl.Mat3} {
		decl := main.Body.Stmts[i].(*glsl.DeclStmt).Decls[0].(*glsl.VarDecl)
		if got := decl.Init.ResolvedType(); got != want {
			t.Errorf("statement %d: type %s, want %s", i, got, want)
		}
	}
}

func inMain(decls, body string) string {
	return decls + "\nvoid main() {\n    " + body + ";\n}\n"
}

func TestSwizzles(t *testing.T) {
	const decls = "uniform vec4 v4;\nuniform vec3 v3;\nuniform vec2 v2;"
	valid := []struct {
		expr string
		want *glsl.Type
	}{
		{"v4.xyz", glsl.Vec3},
		{"v4.rgba", glsl.Vec4},
		{"v4.x", glsl.Float},
		{"v3.stp", glsl.Vec3},
		{"v2.yx", glsl.Vec2},
		{"v2.xxxx", glsl.Vec4},
	}
	for _, tt := range valid {
		t.Run(tt.expr, func(t *testing.T) {
			unit, _ := expectValid(t, inMain(decls, tt.expr), glsl.StageVertex)
			main := unit.Decls[len(unit.Decls)-1].(*glsl.FunctionDef)
			x := main.Body.Stmts[0].(*glsl.ExprStmt).X.(*glsl.MemberExpr)
			if !x.Swizzle || x.ResolvedType() != tt.want {
				t.Errorf("type %s swizzle %v, want %s", x.ResolvedType(), x.Swizzle, tt.want)
			}
		})
	}

	invalid := []struct {
		expr string
		want string
	}{
		{"v3.xyzw", "out of range for vec3"},
		{"v2.q", "out of range for vec2"},
		{"v4.xg", "mixes component sets"},
		{"v4.xyzwx", "more than 4 components"},
		{"v4.foo", "not a valid swizzle"},
	}
	for _, tt := range invalid {
		t.Run(tt.expr, func(t *testing.T) {
			expectError(t, inMain(decls, tt.expr), glsl.StageVertex, tt.want)
		})
	}
}

func TestConstructors(t *testing.T) {
	const decls = "struct Light { vec3 dir; float power; };"
	valid := []string{
		"vec4(1.0)",
		"vec4(vec3(1.0), 1.0)",
		"vec4(vec2(1.0), vec2(2.0))",
		"vec2(vec4(1.0))",
		"ivec3(1, 2, 3)",
		"bvec2(true)",
		"float(vec3(1.0))",
		"int(2.5)",
		"mat2(1.0)",
		"mat3(mat4(1.0))",
		"mat2(vec2(1.0), vec2(0.0))",
		"mat2(1.0, 0.0, 0.0, 1.0)",
		"Light(vec3(1.0), 2.0)",
	}
	for _, expr := range valid {
		t.Run(expr, func(t *testing.T) {
			expectValid(t, inMain(decls, expr), glsl.StageVertex)
		})
	}

	invalid := []struct {
		expr string
		want string
	}{
		{"vec3(1.0, 2.0)", "too few components for vec3 constructor"},
		{"vec2(1.0, 2.0, 3.0)", "too many arguments to vec2 constructor"},
		{"vec2(vec2(1.0), 1.0)", "too many arguments to vec2 constructor"},
		{"float(1.0, 2.0)", "needs exactly one argument"},
		{"mat2(1.0, 2.0, 3.0)", "constructor mat2 needs 4 components, got 3"},
		{"mat3(mat2(1.0), 1.0)", "from a matrix and other values"},
		{"Light(1.0, 2.0)", "argument 1 of Light constructor has type float, want vec3"},
		{"Light(vec3(1.0))", "expects 2 arguments, got 1"},
		{"vec3(Light(vec3(1.0), 1.0))", "cannot use a value of type Light in a constructor"},
		{"vec4()", "needs at least one argument"},
	}
	for _, tt := range invalid {
		t.Run(tt.expr, func(t *testing.T) {
			expectError(t, inMain(decls, tt.expr), glsl.StageVertex, tt.want)
		})
	}
}

func TestLValues(t *testing.T) {
	const decls = `uniform float u;
attribute vec3 pos;
varying vec2 uv;
const float k = 1.0;
void f(const float c, out float o, inout vec4 io) {
    %s;
}`
	wrap := func(body string) string {
		return fmt.Sprintf(decls, body) + "\nvoid main() {}\n"
	}

	valid := []string{
		"uv = vec2(1.0)",
		"o = 1.0",
		"io.xy = vec2(1.0)",
		"gl_Position.zw = vec2(1.0)",
		"gl_PointSize += 1.0",
		"io++",
	}
	for _, body := range valid {
		t.Run(body, func(t *testing.T) {
			expectValid(t, wrap(body), glsl.StageVertex)
		})
	}

	invalid := []struct {
		body string
		want string
	}{
		{"u = 1.0", "cannot assign to uniform 'u'"},
		{"pos = vec3(1.0)", "cannot assign to attribute 'pos'"},
		{"k = 2.0", "cannot assign to const variable 'k'"},
		{"c = 2.0", "cannot assign to const parameter 'c'"},
		{"gl_MaxDrawBuffers = 2", "read-only builtin 'gl_MaxDrawBuffers'"},
		{"io.xx = vec2(1.0)", "repeated components"},
		{"sin(1.0) = 1.0", "not assignable"},
		{"u++", "cannot assign to uniform 'u'"},
		{"f(1.0, u, io)", "cannot assign to uniform 'u'"},
	}
	for _, tt := range invalid {
		t.Run(tt.body, func(t *testing.T) {
			expectError(t, wrap(tt.body), glsl.StageVertex, tt.want)
		})
	}

	frag := "varying vec2 uv;\nvoid main() {\n    uv = vec2(1.0);\n    gl_FragCoord = vec4(0.0);\n}\n"
	info := expectError(t, frag, glsl.StageFragment, "cannot assign to varying 'uv' in the fragment stage")
	if info.Diagnostics.Count(glsl.SeverityError) != 2 {
		t.Errorf("expected 2 errors, got %v", info.Diagnostics)
	}
}

func TestStatementRules(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stage glsl.Stage
		want  string
	}{
		{"break outside loop", "void main() { break; }", glsl.StageVertex, "'break' statement not in a loop"},
		{"continue outside loop", "void main() { if (true) continue; }", glsl.StageVertex, "'continue' statement not in a loop"},
		{"discard in vertex", "void main() { discard; }", glsl.StageVertex, "only allowed in the fragment stage"},
		{"int condition", "void main() { if (1) {} }", glsl.StageVertex, "if condition must be bool, got int"},
		{"float while", "void main() { while (1.0) {} }", glsl.StageVertex, "while condition must be bool"},
		{"ternary condition", "void main() { float x = 1 ? 1.0 : 2.0; }", glsl.StageVertex, "'?:' condition must be bool"},
		{"ternary branches", "void main() { float x = true ? 1.0 : 2; }", glsl.StageVertex, "different types float and int"},
		{"return mismatch", "float f() { return 1; }\nvoid main() {}", glsl.StageVertex, "cannot return int from function 'f' returning float"},
		{"missing value", "float f() { return; }\nvoid main() {}", glsl.StageVertex, "must return a value of type float"},
		{"void value", "void main() { return 1.0; }", glsl.StageVertex, "void function 'main' cannot return a value"},
		{"const without init", "void main() { const float x; }", glsl.StageVertex, "must be initialized"},
		{"initializer type", "void main() { float x = 1; }", glsl.StageVertex, "cannot initialize 'x' of type float with a value of type int"},
		{"redeclaration", "void main() { float x; int x; }", glsl.StageVertex, "redeclaration of 'x'"},
		{"global redeclaration", "uniform float x;\nvarying vec2 x;\nvoid main() {}", glsl.StageVertex, "redeclaration of 'x'"},
		{"function redefinition", "void f() {}\nvoid f() {}\nvoid main() {}", glsl.StageVertex, "redefinition of function 'f()'"},
		{"builtin overload", "float sin(int x) { return 1.0; }\nvoid main() {}", glsl.StageVertex, "cannot redefine or overload builtin function 'sin'"},
		{"proto mismatch", "float f(int a);\nint f(int a) { return a; }\nvoid main() {}", glsl.StageVertex, "was declared returning float"},
		{"undeclared function", "void main() { foo(1.0); }", glsl.StageVertex, "call to undeclared function 'foo'"},
		{"no overload", "float f(float a) { return a; }\nvoid main() { f(1); }", glsl.StageVertex, "no matching overload for call to f(int); candidates are f(float)"},
		{"builtin no overload", "void main() { float x = dot(vec2(1.0), vec3(1.0)); }", glsl.StageVertex, "no matching overload for call to dot(vec2, vec3)"},
		{"undeclared identifier", "void main() { float x = y; }", glsl.StageVertex, "undeclared identifier 'y'"},
		{"malformed octal", "void main() { int x = 09; }", glsl.StageVertex, "invalid integer literal 09"},
		{"empty hex", "void main() { int x = 0x; }", glsl.StageVertex, "invalid integer literal 0x"},
		{"int out of range", "void main() { int x = 4294967296; }", glsl.StageVertex, "integer literal 4294967296 is out of range"},
		{"not a function", "uniform float u;\nvoid main() { u(1.0); }", glsl.StageVertex, "'u' is a variable, not a function"},
		{"lod in fragment", "uniform sampler2D s;\nvoid main() { gl_FragColor = texture2DLod(s, vec2(0.0), 1.0); }", glsl.StageFragment, "not available in the fragment stage"},
		{"bias in vertex", "uniform sampler2D s;\nvoid main() { gl_Position = texture2D(s, vec2(0.0), 1.0); }", glsl.StageVertex, "not available in the vertex stage"},
		{"fragment builtin in vertex", "void main() { gl_FragColor = vec4(1.0); }", glsl.StageVertex, "undeclared identifier 'gl_FragColor'"},
		{"bad compound", "void main() { float f = 1.0; f *= vec3(1.0); }", glsl.StageVertex, "no operator '*=' for operands of type float and vec3"},
		{"bad operator", "void main() { bool b = 1.0 < vec2(1.0); }", glsl.StageVertex, "no operator '<' for operands of type float and vec2"},
		{"main signature", "int main() { return 0; }", glsl.StageVertex, "main must be declared as 'void main()'"},
		{"sampler local", "void main() { sampler2D s; }", glsl.StageVertex, "must be declared uniform"},
		{"int varying", "varying int n;\nvoid main() {}", glsl.StageVertex, "varying 'n' cannot have type int"},
		{"unknown type", "void main() { Foo x; }", glsl.StageVertex, "unknown type 'Foo'"},
		{"struct field", "struct S { float a; };\nvoid main() { S s = S(1.0); s.b; }", glsl.StageVertex, "no field 'b' in struct S"},
		{"duplicate field", "struct S { float a; vec2 a; };\nvoid main() {}", glsl.StageVertex, "duplicate field 'a'"},
		{"invariant non varying", "uniform float u;\ninvariant u;\nvoid main() {}", glsl.StageVertex, "not a varying"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.src, tt.stage, tt.want)
		})
	}
}

func TestValidStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"compound assign", "uniform mat3 m;\nvoid main() { vec3 v = vec3(1.0); v *= m; v += 1.0; }"},
		{"loops", "void main() { for (int i = 0; i < 4; ++i) { if (i == 2) break; continue; } do { } while (false); }"},
		{"nested shadowing", "void main() { float x = 1.0; { int x = 2; } for (int x = 0; x < 2; x++) {} }"},
		{"prototype then definition", "float f(float a);\nvoid main() { float y = f(1.0); }\nfloat f(float a) { return a * 2.0; }"},
		{"struct equality", "struct S { float a; };\nvoid main() { S p = S(1.0); S q = S(2.0); bool b = p == q; }"},
		{"vector equality", "void main() { bool b = vec2(1.0) != vec2(2.0) && true; }"},
		{"invariant varying", "varying vec3 v;\ninvariant v;\ninvariant gl_Position;\nvoid main() {}"},
		{"const array size", "const int N = 2 * 2;\nuniform vec4 colors[N];\nvoid main() { gl_Position = colors[N - 1]; }"},
		{"matrix index", "uniform mat4 m;\nvoid main() { vec4 col = m[3]; float e = m[0][1]; }"},
		{"builtin limits", "uniform vec4 u[gl_MaxVertexUniformVectors];\nvoid main() {}"},
		{"depth range", "void main() { float n = gl_DepthRange.near; }"},
		{"const-sized array parameter", "const int N = 3;\nfloat sum(float a[N]) { return a[0] + a[1] + a[2]; }\nvoid main() { float v[3]; float s = sum(v); }"},
		{"array prototype then definition", "const int N = 3;\nfloat f(float a[3]);\nfloat f(float a[N]) { return a[0]; }\nvoid main() { float v[N]; float s = f(v); }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectValid(t, tt.src, glsl.StageVertex)
		})
	}
}

func TestArrayParameterSignature(t *testing.T) {
	unit, _ := expectValid(t, "const int N = 2 + 1;\nfloat sum(float a[N]);\nvoid main() {}\n", glsl.StageVertex)
	proto, ok := unit.Decls[1].(*glsl.FunctionProto)
	if !ok {
		t.Fatalf("decl 1 is %T", unit.Decls[1])
	}
	if proto.Signature != "sum(float[3])" {
		t.Errorf("signature = %q, want sum(float[3])", proto.Signature)
	}

	// A size that does not fold keeps the written key.
	unit, _ = glsl.Parse("float sum(float a[M]);\n", glsl.StageVertex)
	Check(unit)
	if got := unit.Decls[0].(*glsl.FunctionProto).Signature; got != "sum(float[M])" {
		t.Errorf("unresolved signature = %q", got)
	}
}

func TestIndexing(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"float a[4]; a[4]", "index 4 out of range for float[4]"},
		{"vec3 v; v[-1]", "index -1 out of range for vec3"},
		{"vec3 v; v[1.0]", "index must be int, got float"},
		{"float f; f[0]", "cannot index a value of type float"},
		{"float a[0]", "array size must be greater than zero"},
		{"float n = 2.0; float a[n]", "array size must be a constant integer expression"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			expectError(t, inMain("", tt.body), glsl.StageVertex, tt.want)
		})
	}
}

// An expression that fails to type must not produce follow-on errors in
// the expressions built on it.
func TestNoCascade(t *testing.T) {
	src := inMain("", "float x = (missing + 1.0) * 2.0 + sin(missing).x")
	_, info := checkSource(t, src, glsl.StageVertex)
	if len(info.Diagnostics) != 2 {
		t.Fatalf("expected one diagnostic per use, got %v", info.Diagnostics)
	}
	for _, d := range info.Diagnostics {
		if !strings.Contains(d.Message, "undeclared identifier 'missing'") {
			t.Errorf("unexpected diagnostic %v", d)
		}
	}
}

func TestScopes(t *testing.T) {
	src := `uniform float g;
void main() {
    float a = g;
    for (int i = 0; i < 2; i++) {
        float b = a;
    }
}
`
	_, info := expectValid(t, src, glsl.StageVertex)
	if info.Globals.Parent != info.Builtins {
		t.Error("globals not nested in builtins")
	}
	if info.Builtins.LookupLocal("gl_Position") == nil || info.Builtins.LookupLocal("gl_FragColor") != nil {
		t.Error("builtin scope not filtered by stage")
	}

	inner := info.Globals.Innermost(strings.Index(src, "float b"))
	if inner.LookupLocal("b") == nil {
		t.Fatalf("innermost scope has %v", inner.Symbols)
	}
	if inner.Lookup("i") == nil || inner.Lookup("a") == nil || inner.Lookup("g") == nil {
		t.Error("enclosing symbols not visible")
	}
	if info.Globals.Innermost(strings.Index(src, "float a")).Lookup("i") != nil {
		t.Error("loop variable visible outside the loop")
	}
}
