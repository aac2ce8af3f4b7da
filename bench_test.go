// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsles

import (
	"runtime"
	"testing"

	"github.com/gogpu/glsles/builtins"
	"github.com/gogpu/glsles/check"
	"github.com/gogpu/glsles/glsl"
	"github.com/gogpu/glsles/link"
)

// ---------------------------------------------------------------------------
// Test shader sources — realistic GLSL ES shaders at different complexity levels
// ---------------------------------------------------------------------------

// shaderSmallVertex is a minimal pass-through vertex shader.
const shaderSmallVertex = `
attribute vec2 aPosition;
void main() {
    gl_Position = vec4(aPosition, 0.0, 1.0);
}
`

// shaderSmallFragment is a minimal solid-color fragment shader.
const shaderSmallFragment = `
precision mediump float;
uniform vec4 uColor;
void main() {
    gl_FragColor = uColor;
}
`

// shaderMediumSDF draws a rounded box with a signed distance field.
const shaderMediumSDF = `
precision mediump float;
uniform vec2 uResolution;
varying vec2 vUV;

float sdBox(vec2 p, vec2 b, float r) {
    vec2 d = abs(p) - b + vec2(r);
    return length(max(d, 0.0)) + min(max(d.x, d.y), 0.0) - r;
}

void main() {
    vec2 p = vUV * 2.0 - 1.0;
    p.x *= uResolution.x / uResolution.y;
    float d = sdBox(p, vec2(0.5, 0.3), 0.1);
    float alpha = clamp(0.5 - d * uResolution.y, 0.0, 1.0);
    vec3 color = d < 0.0 ? vec3(0.2, 0.6, 1.0) : vec3(0.0);
    gl_FragColor = vec4(color, alpha);
}
`

// shaderLargeVertex is a lit vertex shader with a skinning-style loop.
const shaderLargeVertex = `
attribute vec3 aPosition;
attribute vec3 aNormal;
attribute vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uViewProj;
uniform mat3 uNormalMatrix;
uniform vec4 uOffsets[4];

varying vec3 vWorldPos;
varying vec3 vNormal;
varying vec2 vTexCoord;

void main() {
    vec4 world = uModel * vec4(aPosition, 1.0);
    for (int i = 0; i < 4; i++) {
        world.xyz += uOffsets[i].xyz * uOffsets[i].w;
    }
    vWorldPos = world.xyz;
    vNormal = normalize(uNormalMatrix * aNormal);
    vTexCoord = aTexCoord;
    gl_Position = uViewProj * world;
}
`

// shaderLargeFragment is a Blinn-Phong fragment shader with a struct light,
// texture sampling and gamma correction.
const shaderLargeFragment = `
precision mediump float;

struct Light {
    vec3 position;
    vec3 color;
    float intensity;
};

uniform Light uLight;
uniform vec3 uCameraPos;
uniform sampler2D uAlbedo;

varying vec3 vWorldPos;
varying vec3 vNormal;
varying vec2 vTexCoord;

const float SHININESS = 32.0;
const float GAMMA = 2.2;

vec3 shade(vec3 n, vec3 albedo) {
    vec3 l = normalize(uLight.position - vWorldPos);
    vec3 v = normalize(uCameraPos - vWorldPos);
    vec3 h = normalize(l + v);
    float diffuse = max(dot(n, l), 0.0);
    float specular = pow(max(dot(n, h), 0.0), SHININESS);
    vec3 ambient = 0.05 * albedo;
    return ambient + (albedo * diffuse + vec3(specular) * 0.5) * uLight.color * uLight.intensity;
}

void main() {
    vec3 n = normalize(vNormal);
    if (!gl_FrontFacing) {
        n = -n;
    }
    vec3 albedo = texture2D(uAlbedo, vTexCoord).rgb;
    vec3 color = shade(n, albedo);
    color = color / (color + vec3(1.0));
    color = pow(color, vec3(1.0 / GAMMA));
    gl_FragColor = vec4(color, 1.0);
}
`

// ---------------------------------------------------------------------------
// Complexity-grouped shaders for table-driven benchmarks
// ---------------------------------------------------------------------------

type shaderCase struct {
	name   string
	stage  glsl.Stage
	source string
}

var shadersByComplexity = []shaderCase{
	{"small_vertex", glsl.StageVertex, shaderSmallVertex},
	{"small_fragment", glsl.StageFragment, shaderSmallFragment},
	{"medium_sdf", glsl.StageFragment, shaderMediumSDF},
	{"large_vertex", glsl.StageVertex, shaderLargeVertex},
	{"large_fragment", glsl.StageFragment, shaderLargeFragment},
}

// TestBenchmarkShadersCompile keeps the benchmark inputs honest.
func TestBenchmarkShadersCompile(t *testing.T) {
	for _, sc := range shadersByComplexity {
		t.Run(sc.name, func(t *testing.T) {
			r := Compile(sc.source, sc.stage)
			if len(r.Diagnostics) != 0 {
				t.Errorf("diagnostics:\n%s", r.Diagnostics.FormatAll(sc.source))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// End-to-End: parse + check by complexity
// ---------------------------------------------------------------------------

// BenchmarkCompile benchmarks the full parse and check pipeline grouped by
// shader complexity. Reports allocations and throughput in bytes/sec.
func BenchmarkCompile(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.source)))
			b.ResetTimer()

			var result *Result
			for i := 0; i < b.N; i++ {
				result = Compile(sc.source, sc.stage)
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkParse isolates the tokenizer and parser.
func BenchmarkParse(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(sc.source)))
			b.ResetTimer()

			var unit *glsl.TranslationUnit
			for i := 0; i < b.N; i++ {
				unit, _ = glsl.Parse(sc.source, sc.stage)
			}
			runtime.KeepAlive(unit)
		})
	}
}

// BenchmarkCheck isolates the type checker. The tree is re-parsed outside
// the timer because checking annotates it in place.
func BenchmarkCheck(b *testing.B) {
	for _, sc := range shadersByComplexity {
		b.Run(sc.name, func(b *testing.B) {
			b.ReportAllocs()
			var info *check.Info
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				unit, _ := glsl.Parse(sc.source, sc.stage)
				b.StartTimer()
				info = check.Check(unit)
			}
			runtime.KeepAlive(info)
		})
	}
}

// BenchmarkLink benchmarks interface matching of the large pipeline.
func BenchmarkLink(b *testing.B) {
	vs := Compile(shaderLargeVertex, glsl.StageVertex)
	fs := Compile(shaderLargeFragment, glsl.StageFragment)
	opts := link.DefaultOptions()
	b.ReportAllocs()
	b.ResetTimer()

	var res link.Result
	for i := 0; i < b.N; i++ {
		res = link.Link(vs.Unit, fs.Unit, opts)
	}
	runtime.KeepAlive(res)
}

// BenchmarkCatalogue measures building the builtin catalogue from scratch.
func BenchmarkCatalogue(b *testing.B) {
	b.ReportAllocs()
	var cat *builtins.Catalogue
	for i := 0; i < b.N; i++ {
		cat = builtins.New()
	}
	runtime.KeepAlive(cat)
}

// BenchmarkComplete measures scope completion inside a large function.
func BenchmarkComplete(b *testing.B) {
	r := Compile(shaderLargeFragment, glsl.StageFragment)
	offset := len(shaderLargeFragment) - len("}\n") - 1
	b.ReportAllocs()
	b.ResetTimer()

	var items []check.Item
	for i := 0; i < b.N; i++ {
		items = Complete(r, offset)
	}
	runtime.KeepAlive(items)
}
