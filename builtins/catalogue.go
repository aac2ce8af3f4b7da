// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package builtins is the GLSL ES 1.00 builtin catalogue: types,
// functions, operators and variables, keyed by overload signature.
//
// The catalogue is built once by Default and is read-only afterwards, so
// it can be shared by any number of concurrent checks.
package builtins

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/glsles/glsl"
)

// StageMask is a set of shader stages.
type StageMask uint8

const (
	VertexStage StageMask = 1 << iota
	FragmentStage

	AllStages = VertexStage | FragmentStage
)

// MaskOf returns the mask containing only stage.
func MaskOf(stage glsl.Stage) StageMask {
	if stage == glsl.StageFragment {
		return FragmentStage
	}
	return VertexStage
}

// Has reports whether the mask includes stage.
func (m StageMask) Has(stage glsl.Stage) bool {
	return m&MaskOf(stage) != 0
}

// String returns a readable list of the stages.
func (m StageMask) String() string {
	switch m {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	case AllStages:
		return "vertex|fragment"
	}
	return "none"
}

// Function is one concrete overload of a builtin function or operator.
type Function struct {
	Name      string
	Params    []*glsl.Type
	Return    *glsl.Type
	Signature string
	Stages    StageMask
	// Token is the synthetic token the overload was registered with.
	Token glsl.Token
}

// String renders the overload as a prototype, e.g. "float dot(vec3, vec3)".
func (f *Function) String() string {
	s := f.Return.String() + " " + f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}

// Catalogue holds the builtin tables. Each table keeps registration order
// in its slice and an index for exact lookups.
type Catalogue struct {
	Types     []*glsl.TypeDecl
	Functions []*Function
	Operators []*Function
	Variables []*Variable

	typeByName     map[string]*glsl.TypeDecl
	functionBySig  map[string]*Function
	functionByName map[string][]*Function
	operatorBySig  map[string]*Function
	variableByName map[string]*Variable

	// next numbers the synthetic builtin spans.
	next int
}

// Default returns the process-wide catalogue, building it on first use.
var Default = sync.OnceValue(New)

// New builds an independent catalogue.
func New() *Catalogue {
	c := &Catalogue{
		typeByName:     make(map[string]*glsl.TypeDecl),
		functionBySig:  make(map[string]*Function),
		functionByName: make(map[string][]*Function),
		operatorBySig:  make(map[string]*Function),
		variableByName: make(map[string]*Variable),
	}
	c.registerTypes()
	c.registerFunctions()
	c.registerOperators()
	c.registerVariables()
	return c
}

// Type returns the builtin type declaration with the given name.
func (c *Catalogue) Type(name string) (*glsl.TypeDecl, bool) {
	d, ok := c.typeByName[name]
	return d, ok
}

// Function returns the builtin function overload with the exact signature.
func (c *Catalogue) Function(signature string) (*Function, bool) {
	f, ok := c.functionBySig[signature]
	return f, ok
}

// Overloads returns every overload of a builtin function, in registration
// order.
func (c *Catalogue) Overloads(name string) []*Function {
	return c.functionByName[name]
}

// FunctionNames returns the distinct builtin function names, sorted.
func (c *Catalogue) FunctionNames() []string {
	names := make([]string, 0, len(c.functionByName))
	for name := range c.functionByName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Operator returns the operator overload with the exact signature, such
// as "*(mat3,vec3)" or "-(vec2)".
func (c *Catalogue) Operator(signature string) (*Function, bool) {
	f, ok := c.operatorBySig[signature]
	return f, ok
}

// Variable returns the builtin variable or constant with the given name.
func (c *Catalogue) Variable(name string) (*Variable, bool) {
	v, ok := c.variableByName[name]
	return v, ok
}

func (c *Catalogue) token(kind glsl.TokenKind, text string) glsl.Token {
	tok := glsl.BuiltinToken(kind, text, c.next)
	c.next++
	return tok
}

func (c *Catalogue) registerTypes() {
	for _, t := range glsl.BuiltinTypes {
		c.addType(t, glsl.LookupKeyword(t.Name))
	}
}

func (c *Catalogue) addType(t *glsl.Type, kind glsl.TokenKind) {
	if _, ok := c.typeByName[t.Name]; ok {
		return
	}
	tok := c.token(kind, t.Name)
	decl := &glsl.TypeDecl{
		Name:     t.Name,
		NameSpan: tok.Span,
		Builtin:  true,
		Token:    tok,
		Type:     t,
	}
	decl.Span = tok.Span
	c.Types = append(c.Types, decl)
	c.typeByName[t.Name] = decl
}

// Generic expansion

// marker stands for a family of concrete types in a rule.
type marker struct {
	group int
	types []*glsl.Type
}

const (
	groupGenType = iota + 1
	groupArity
)

// genType ranges over float and the float vectors. The arity markers
// expand in lockstep: index 0 is size 2 in every family, so a rule over
// (mat, vec) yields (mat2, vec2), (mat3, vec3) and (mat4, vec4), never
// (mat2, vec3).
var markers = map[string]marker{
	"genType": {groupGenType, []*glsl.Type{glsl.Float, glsl.Vec2, glsl.Vec3, glsl.Vec4}},
	"vec":     {groupArity, []*glsl.Type{glsl.Vec2, glsl.Vec3, glsl.Vec4}},
	"ivec":    {groupArity, []*glsl.Type{glsl.Ivec2, glsl.Ivec3, glsl.Ivec4}},
	"bvec":    {groupArity, []*glsl.Type{glsl.Bvec2, glsl.Bvec3, glsl.Bvec4}},
	"mat":     {groupArity, []*glsl.Type{glsl.Mat2, glsl.Mat3, glsl.Mat4}},
}

// expand turns a rule written with type names and markers into its
// concrete instances. The first slot is the return type.
//
// A rule that mixes genType with an arity marker has no defined pairing
// and panics. The tables are fixed, so this is a bug in a rule.
func expand(slots []string) [][]*glsl.Type {
	group, n := 0, 1
	for _, s := range slots {
		m, ok := markers[s]
		if !ok {
			continue
		}
		if group != 0 && group != m.group {
			panic(fmt.Sprintf("builtins: rule %v mixes genType with arity markers", slots))
		}
		group, n = m.group, len(m.types)
	}

	out := make([][]*glsl.Type, n)
	for i := range out {
		types := make([]*glsl.Type, len(slots))
		for j, s := range slots {
			if m, ok := markers[s]; ok {
				types[j] = m.types[i]
				continue
			}
			t, ok := glsl.LookupBuiltinType(s)
			if !ok {
				panic(fmt.Sprintf("builtins: unknown type %q in rule %v", s, slots))
			}
			types[j] = t
		}
		out[i] = types
	}
	return out
}

// fn registers the expansion of a function rule.
func (c *Catalogue) fn(stages StageMask, ret, name string, params ...string) {
	for _, types := range expand(append([]string{ret}, params...)) {
		c.addFunction(stages, name, types[0], types[1:])
	}
}

func (c *Catalogue) addFunction(stages StageMask, name string, ret *glsl.Type, params []*glsl.Type) {
	sig := glsl.Signature(name, typeNames(params)...)
	if _, ok := c.functionBySig[sig]; ok {
		return
	}
	f := &Function{
		Name:      name,
		Params:    params,
		Return:    ret,
		Signature: sig,
		Stages:    stages,
		Token:     c.token(glsl.TokenIdent, name),
	}
	c.Functions = append(c.Functions, f)
	c.functionBySig[sig] = f
	c.functionByName[name] = append(c.functionByName[name], f)
}

// binary registers a binary operator rule: ret op(lhs, rhs).
func (c *Catalogue) binary(op glsl.TokenKind, ret, lhs, rhs string) {
	for _, types := range expand([]string{ret, lhs, rhs}) {
		c.addOperator(op, types[0], types[1:])
	}
}

// unary registers a unary operator rule over the operand type; the result
// has the operand's type.
func (c *Catalogue) unary(op glsl.TokenKind, operand string) {
	for _, types := range expand([]string{operand, operand}) {
		c.addOperator(op, types[0], types[1:])
	}
}

func (c *Catalogue) addOperator(op glsl.TokenKind, ret *glsl.Type, params []*glsl.Type) {
	sig := OperatorSignature(op, params...)
	if _, ok := c.operatorBySig[sig]; ok {
		return
	}
	f := &Function{
		Name:      op.String(),
		Params:    params,
		Return:    ret,
		Signature: sig,
		Stages:    AllStages,
		Token:     c.token(op, op.String()),
	}
	c.Operators = append(c.Operators, f)
	c.operatorBySig[sig] = f
}

// OperatorSignature builds the lookup key of an operator applied to
// operands of the given types.
func OperatorSignature(op glsl.TokenKind, operands ...*glsl.Type) string {
	return glsl.Signature(op.String(), typeNames(operands)...)
}

func typeNames(types []*glsl.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
