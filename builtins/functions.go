// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builtins

func (c *Catalogue) registerFunctions() {
	all := AllStages

	// Angle and trigonometry
	for _, name := range []string{"radians", "degrees", "sin", "cos", "tan", "asin", "acos", "atan"} {
		c.fn(all, "genType", name, "genType")
	}
	c.fn(all, "genType", "atan", "genType", "genType")

	// Exponential
	c.fn(all, "genType", "pow", "genType", "genType")
	for _, name := range []string{"exp", "log", "exp2", "log2", "sqrt", "inversesqrt"} {
		c.fn(all, "genType", name, "genType")
	}

	// Common
	for _, name := range []string{"abs", "sign", "floor", "ceil", "fract"} {
		c.fn(all, "genType", name, "genType")
	}
	for _, name := range []string{"mod", "min", "max"} {
		c.fn(all, "genType", name, "genType", "float")
		c.fn(all, "genType", name, "genType", "genType")
	}
	c.fn(all, "genType", "clamp", "genType", "genType", "genType")
	c.fn(all, "genType", "clamp", "genType", "float", "float")
	c.fn(all, "genType", "mix", "genType", "genType", "genType")
	c.fn(all, "genType", "mix", "genType", "genType", "float")
	c.fn(all, "genType", "step", "genType", "genType")
	c.fn(all, "genType", "step", "float", "genType")
	c.fn(all, "genType", "smoothstep", "genType", "genType", "genType")
	c.fn(all, "genType", "smoothstep", "float", "float", "genType")

	// Geometric
	c.fn(all, "float", "length", "genType")
	c.fn(all, "float", "distance", "genType", "genType")
	c.fn(all, "float", "dot", "genType", "genType")
	c.fn(all, "vec3", "cross", "vec3", "vec3")
	c.fn(all, "genType", "normalize", "genType")
	c.fn(all, "genType", "faceforward", "genType", "genType", "genType")
	c.fn(all, "genType", "reflect", "genType", "genType")
	c.fn(all, "genType", "refract", "genType", "genType", "float")

	// Matrix
	c.fn(all, "mat", "matrixCompMult", "mat", "mat")

	// Vector relational
	for _, name := range []string{"lessThan", "lessThanEqual", "greaterThan", "greaterThanEqual"} {
		c.fn(all, "bvec", name, "vec", "vec")
		c.fn(all, "bvec", name, "ivec", "ivec")
	}
	for _, name := range []string{"equal", "notEqual"} {
		c.fn(all, "bvec", name, "vec", "vec")
		c.fn(all, "bvec", name, "ivec", "ivec")
		c.fn(all, "bvec", name, "bvec", "bvec")
	}
	c.fn(all, "bool", "any", "bvec")
	c.fn(all, "bool", "all", "bvec")
	c.fn(all, "bvec", "not", "bvec")

	// Texture lookup. The bias forms only exist in fragment shaders and
	// the explicit-LOD forms only in vertex shaders.
	c.fn(all, "vec4", "texture2D", "sampler2D", "vec2")
	c.fn(FragmentStage, "vec4", "texture2D", "sampler2D", "vec2", "float")
	c.fn(all, "vec4", "texture2DProj", "sampler2D", "vec3")
	c.fn(all, "vec4", "texture2DProj", "sampler2D", "vec4")
	c.fn(FragmentStage, "vec4", "texture2DProj", "sampler2D", "vec3", "float")
	c.fn(FragmentStage, "vec4", "texture2DProj", "sampler2D", "vec4", "float")
	c.fn(VertexStage, "vec4", "texture2DLod", "sampler2D", "vec2", "float")
	c.fn(VertexStage, "vec4", "texture2DProjLod", "sampler2D", "vec3", "float")
	c.fn(VertexStage, "vec4", "texture2DProjLod", "sampler2D", "vec4", "float")
	c.fn(all, "vec4", "textureCube", "samplerCube", "vec3")
	c.fn(FragmentStage, "vec4", "textureCube", "samplerCube", "vec3", "float")
	c.fn(VertexStage, "vec4", "textureCubeLod", "samplerCube", "vec3", "float")
}
