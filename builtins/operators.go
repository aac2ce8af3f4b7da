// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package builtins

import "github.com/gogpu/glsles/glsl"

func (c *Catalogue) registerOperators() {
	// Arithmetic: same-typed operands, then scalar broadcast on either
	// side. For '*' on two matrices this is the linear-algebra product.
	for _, op := range []glsl.TokenKind{glsl.TokenPlus, glsl.TokenMinus, glsl.TokenStar, glsl.TokenSlash} {
		c.binary(op, "genType", "genType", "genType")
		c.binary(op, "int", "int", "int")
		c.binary(op, "ivec", "ivec", "ivec")
		c.binary(op, "mat", "mat", "mat")

		c.binary(op, "genType", "float", "genType")
		c.binary(op, "genType", "genType", "float")
		c.binary(op, "ivec", "int", "ivec")
		c.binary(op, "ivec", "ivec", "int")
		c.binary(op, "mat", "float", "mat")
		c.binary(op, "mat", "mat", "float")
	}
	c.binary(glsl.TokenStar, "vec", "mat", "vec")
	c.binary(glsl.TokenStar, "vec", "vec", "mat")

	// Relational operators compare scalars only and always yield bool.
	for _, op := range []glsl.TokenKind{glsl.TokenLess, glsl.TokenGreater, glsl.TokenLessEqual, glsl.TokenGreaterEqual} {
		c.binary(op, "bool", "int", "int")
		c.binary(op, "bool", "float", "float")
	}

	// Equality is defined for every non-sampler builtin type. Struct and
	// array operands are compared structurally by the checker.
	for _, op := range []glsl.TokenKind{glsl.TokenEqualEqual, glsl.TokenBangEqual} {
		for _, t := range glsl.BuiltinTypes {
			if t.Kind == glsl.TypeVoid || t.Kind == glsl.TypeSampler {
				continue
			}
			c.binary(op, "bool", t.Name, t.Name)
		}
	}

	for _, op := range []glsl.TokenKind{glsl.TokenAmpAmp, glsl.TokenPipePipe, glsl.TokenCaretCaret} {
		c.binary(op, "bool", "bool", "bool")
	}

	for _, op := range []glsl.TokenKind{glsl.TokenPlus, glsl.TokenMinus, glsl.TokenPlusPlus, glsl.TokenMinusMinus} {
		c.unary(op, "genType")
		c.unary(op, "int")
		c.unary(op, "ivec")
		c.unary(op, "mat")
	}
	c.unary(glsl.TokenBang, "bool")
}
