// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strconv"
)

// TypeKind classifies a Type.
type TypeKind uint8

const (
	TypeVoid TypeKind = iota
	TypeScalar
	TypeVector
	TypeMatrix
	TypeSampler
	TypeStruct
	TypeArray
)

// String returns the classification name.
func (k TypeKind) String() string {
	switch k {
	case TypeVoid:
		return "void"
	case TypeScalar:
		return "scalar"
	case TypeVector:
		return "vector"
	case TypeMatrix:
		return "matrix"
	case TypeSampler:
		return "sampler"
	case TypeStruct:
		return "struct"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// ScalarKind is the element kind of scalars, vectors and matrices.
type ScalarKind uint8

const (
	ScalarNone ScalarKind = iota
	ScalarFloat
	ScalarInt
	ScalarBool
)

// String returns the scalar type name.
func (k ScalarKind) String() string {
	switch k {
	case ScalarFloat:
		return "float"
	case ScalarInt:
		return "int"
	case ScalarBool:
		return "bool"
	default:
		return "none"
	}
}

// Type is a resolved GLSL type. Types are compared with Equal, never by
// pointer: two separately built types with the same structure are the
// same type.
type Type struct {
	Kind   TypeKind
	Scalar ScalarKind
	// Length is the component count of a vector, the column count of a
	// (square) matrix and the element count of an array. Scalars have 1.
	Length int
	Name   string

	Fields []Field // struct members
	Elem   *Type   // array element
}

// Field is a struct member.
type Field struct {
	Name string
	Type *Type
}

// Canonical builtin types. They are shared by every parse and must not be
// modified.
var (
	Void = &Type{Kind: TypeVoid, Name: "void"}

	Float = &Type{Kind: TypeScalar, Scalar: ScalarFloat, Length: 1, Name: "float"}
	Int   = &Type{Kind: TypeScalar, Scalar: ScalarInt, Length: 1, Name: "int"}
	Bool  = &Type{Kind: TypeScalar, Scalar: ScalarBool, Length: 1, Name: "bool"}

	Vec2 = vector(ScalarFloat, 2)
	Vec3 = vector(ScalarFloat, 3)
	Vec4 = vector(ScalarFloat, 4)

	Ivec2 = vector(ScalarInt, 2)
	Ivec3 = vector(ScalarInt, 3)
	Ivec4 = vector(ScalarInt, 4)

	Bvec2 = vector(ScalarBool, 2)
	Bvec3 = vector(ScalarBool, 3)
	Bvec4 = vector(ScalarBool, 4)

	Mat2 = &Type{Kind: TypeMatrix, Scalar: ScalarFloat, Length: 2, Name: "mat2"}
	Mat3 = &Type{Kind: TypeMatrix, Scalar: ScalarFloat, Length: 3, Name: "mat3"}
	Mat4 = &Type{Kind: TypeMatrix, Scalar: ScalarFloat, Length: 4, Name: "mat4"}

	Sampler2D   = &Type{Kind: TypeSampler, Name: "sampler2D"}
	SamplerCube = &Type{Kind: TypeSampler, Name: "samplerCube"}
)

// BuiltinTypes lists the builtin types in declaration order.
var BuiltinTypes = []*Type{
	Void, Float, Int, Bool,
	Vec2, Vec3, Vec4,
	Ivec2, Ivec3, Ivec4,
	Bvec2, Bvec3, Bvec4,
	Mat2, Mat3, Mat4,
	Sampler2D, SamplerCube,
}

var builtinTypeByName = func() map[string]*Type {
	m := make(map[string]*Type, len(BuiltinTypes))
	for _, t := range BuiltinTypes {
		m[t.Name] = t
	}
	return m
}()

// LookupBuiltinType returns the builtin type with the given name.
func LookupBuiltinType(name string) (*Type, bool) {
	t, ok := builtinTypeByName[name]
	return t, ok
}

func vector(kind ScalarKind, n int) *Type {
	prefix := ""
	switch kind {
	case ScalarInt:
		prefix = "i"
	case ScalarBool:
		prefix = "b"
	}
	return &Type{Kind: TypeVector, Scalar: kind, Length: n, Name: prefix + "vec" + strconv.Itoa(n)}
}

// ScalarOf returns the canonical scalar type of the given kind.
func ScalarOf(kind ScalarKind) *Type {
	switch kind {
	case ScalarFloat:
		return Float
	case ScalarInt:
		return Int
	case ScalarBool:
		return Bool
	}
	return nil
}

// VectorOf returns the canonical vector type with n components, or the
// scalar type when n is 1. It returns nil for sizes outside 1..4.
func VectorOf(kind ScalarKind, n int) *Type {
	if n == 1 {
		return ScalarOf(kind)
	}
	if n < 2 || n > 4 {
		return nil
	}
	var row [3]*Type
	switch kind {
	case ScalarFloat:
		row = [3]*Type{Vec2, Vec3, Vec4}
	case ScalarInt:
		row = [3]*Type{Ivec2, Ivec3, Ivec4}
	case ScalarBool:
		row = [3]*Type{Bvec2, Bvec3, Bvec4}
	default:
		return nil
	}
	return row[n-2]
}

// MatrixOf returns the canonical n×n matrix type.
func MatrixOf(n int) *Type {
	switch n {
	case 2:
		return Mat2
	case 3:
		return Mat3
	case 4:
		return Mat4
	}
	return nil
}

// ArrayOf builds an array type.
func ArrayOf(elem *Type, length int) *Type {
	return &Type{
		Kind:   TypeArray,
		Scalar: elem.Scalar,
		Length: length,
		Name:   fmt.Sprintf("%s[%d]", elem.Name, length),
		Elem:   elem,
	}
}

// StructOf builds a struct type.
func StructOf(name string, fields []Field) *Type {
	return &Type{Kind: TypeStruct, Length: 1, Name: name, Fields: fields}
}

// String returns the display name.
func (t *Type) String() string {
	if t == nil {
		return "<unresolved>"
	}
	return t.Name
}

// Equal reports structural identity.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Kind != other.Kind || t.Scalar != other.Scalar || t.Length != other.Length || t.Name != other.Name {
		return false
	}
	switch t.Kind {
	case TypeArray:
		return t.Elem.Equal(other.Elem)
	case TypeStruct:
		if len(t.Fields) != len(other.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != other.Fields[i].Name || !t.Fields[i].Type.Equal(other.Fields[i].Type) {
				return false
			}
		}
	}
	return true
}

// Field returns the struct member with the given name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsScalar reports whether t is float, int or bool.
func (t *Type) IsScalar() bool { return t != nil && t.Kind == TypeScalar }

// IsVector reports whether t is a vector.
func (t *Type) IsVector() bool { return t != nil && t.Kind == TypeVector }

// IsMatrix reports whether t is a matrix.
func (t *Type) IsMatrix() bool { return t != nil && t.Kind == TypeMatrix }

// IsNumeric reports whether t is built from float or int components.
func (t *Type) IsNumeric() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeScalar, TypeVector, TypeMatrix:
		return t.Scalar == ScalarFloat || t.Scalar == ScalarInt
	}
	return false
}

// Components returns the number of scalar components of a scalar, vector
// or matrix type, and 0 for anything else.
func (t *Type) Components() int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case TypeScalar:
		return 1
	case TypeVector:
		return t.Length
	case TypeMatrix:
		return t.Length * t.Length
	}
	return 0
}

// ContainsSampler reports whether a value of type t holds a sampler,
// directly or through struct fields and array elements.
func (t *Type) ContainsSampler() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeSampler:
		return true
	case TypeArray:
		return t.Elem.ContainsSampler()
	case TypeStruct:
		for _, f := range t.Fields {
			if f.Type.ContainsSampler() {
				return true
			}
		}
	}
	return false
}
