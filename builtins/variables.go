// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builtins

import (
	"strconv"

	"github.com/gogpu/glsles/glsl"
)

// Variable is a builtin variable or constant.
type Variable struct {
	Name     string
	Type     *glsl.Type
	Stages   StageMask
	ReadOnly bool
	// Const is set for the gl_Max* limits, whose value is Value.
	Const bool
	Value int
	Token glsl.Token
}

// Minimum implementation limits of GLSL ES 1.00.
var limits = []struct {
	name  string
	value int
}{
	{"gl_MaxVertexAttribs", 8},
	{"gl_MaxVertexUniformVectors", 128},
	{"gl_MaxVaryingVectors", 8},
	{"gl_MaxVertexTextureImageUnits", 0},
	{"gl_MaxCombinedTextureImageUnits", 8},
	{"gl_MaxTextureImageUnits", 8},
	{"gl_MaxFragmentUniformVectors", 16},
	{"gl_MaxDrawBuffers", 1},
}

// DepthRangeParameters is the type of gl_DepthRange.
var DepthRangeParameters = glsl.StructOf("gl_DepthRangeParameters", []glsl.Field{
	{Name: "near", Type: glsl.Float},
	{Name: "far", Type: glsl.Float},
	{Name: "diff", Type: glsl.Float},
})

func (c *Catalogue) registerVariables() {
	maxDrawBuffers := 0
	for _, l := range limits {
		v := c.addVariable(l.name, glsl.Int, AllStages, true)
		v.Const = true
		v.Value = l.value
		if l.name == "gl_MaxDrawBuffers" {
			maxDrawBuffers = l.value
		}
	}

	c.addType(DepthRangeParameters, glsl.TokenStruct)
	c.addVariable("gl_DepthRange", DepthRangeParameters, AllStages, true)

	c.addVariable("gl_Position", glsl.Vec4, VertexStage, false)
	c.addVariable("gl_PointSize", glsl.Float, VertexStage, false)

	c.addVariable("gl_FragCoord", glsl.Vec4, FragmentStage, true)
	c.addVariable("gl_FrontFacing", glsl.Bool, FragmentStage, true)
	c.addVariable("gl_PointCoord", glsl.Vec2, FragmentStage, true)
	c.addVariable("gl_FragColor", glsl.Vec4, FragmentStage, false)
	c.addVariable("gl_FragData", glsl.ArrayOf(glsl.Vec4, maxDrawBuffers), FragmentStage, false)
}

func (c *Catalogue) addVariable(name string, t *glsl.Type, stages StageMask, readOnly bool) *Variable {
	if v, ok := c.variableByName[name]; ok {
		return v
	}
	v := &Variable{
		Name:     name,
		Type:     t,
		Stages:   stages,
		ReadOnly: readOnly,
		Token:    c.token(glsl.TokenIdent, name),
	}
	c.Variables = append(c.Variables, v)
	c.variableByName[name] = v
	return v
}

// Detail describes the variable for completion lists, e.g.
// "const int = 8" or "vec4 (read-only)".
func (v *Variable) Detail() string {
	switch {
	case v.Const:
		return "const " + v.Type.String() + " = " + strconv.Itoa(v.Value)
	case v.ReadOnly:
		return v.Type.String() + " (read-only)"
	}
	return v.Type.String()
}
