// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "slices"

var keywords = map[string]TokenKind{
	"attribute": TokenAttribute,
	"break":     TokenBreak,
	"const":     TokenConst,
	"continue":  TokenContinue,
	"discard":   TokenDiscard,
	"do":        TokenDo,
	"else":      TokenElse,
	"for":       TokenFor,
	"highp":     TokenHighp,
	"if":        TokenIf,
	"in":        TokenIn,
	"inout":     TokenInout,
	"invariant": TokenInvariant,
	"lowp":      TokenLowp,
	"mediump":   TokenMediump,
	"out":       TokenOut,
	"precision": TokenPrecision,
	"return":    TokenReturn,
	"struct":    TokenStruct,
	"uniform":   TokenUniform,
	"varying":   TokenVarying,
	"while":     TokenWhile,

	"true":  TokenBoolLiteral,
	"false": TokenBoolLiteral,

	// Types
	"void":        TokenVoid,
	"bool":        TokenBool,
	"int":         TokenInt,
	"float":       TokenFloat,
	"vec2":        TokenVec2,
	"vec3":        TokenVec3,
	"vec4":        TokenVec4,
	"bvec2":       TokenBvec2,
	"bvec3":       TokenBvec3,
	"bvec4":       TokenBvec4,
	"ivec2":       TokenIvec2,
	"ivec3":       TokenIvec3,
	"ivec4":       TokenIvec4,
	"mat2":        TokenMat2,
	"mat3":        TokenMat3,
	"mat4":        TokenMat4,
	"sampler2D":   TokenSampler2D,
	"samplerCube": TokenSamplerCube,
}

// reservedWords are the GLSL ES 1.00 words kept for future use.
var reservedWords = map[string]struct{}{
	"asm": {}, "class": {}, "union": {}, "enum": {}, "typedef": {}, "template": {}, "this": {},
	"packed": {}, "goto": {}, "switch": {}, "default": {}, "inline": {}, "noinline": {},
	"volatile": {}, "public": {}, "static": {}, "extern": {}, "external": {}, "interface": {},
	"flat": {}, "long": {}, "short": {}, "double": {}, "half": {}, "fixed": {}, "unsigned": {},
	"superp": {}, "input": {}, "output": {},
	"hvec2": {}, "hvec3": {}, "hvec4": {}, "dvec2": {}, "dvec3": {}, "dvec4": {},
	"fvec2": {}, "fvec3": {}, "fvec4": {},
	"sampler1D": {}, "sampler3D": {}, "sampler1DShadow": {}, "sampler2DShadow": {},
	"sampler2DRect": {}, "sampler3DRect": {}, "sampler2DRectShadow": {},
	"sizeof": {}, "cast": {}, "namespace": {}, "using": {},
}

var keywordSpelling = func() map[TokenKind]string {
	m := make(map[TokenKind]string, len(keywords))
	for word, kind := range keywords {
		if kind == TokenBoolLiteral {
			continue
		}
		m[kind] = word
	}
	return m
}()

// LookupKeyword returns the token kind for an identifier-shaped word.
func LookupKeyword(text string) TokenKind {
	if kind, ok := keywords[text]; ok {
		return kind
	}
	if _, ok := reservedWords[text]; ok {
		return TokenReserved
	}
	return TokenIdent
}

// Keywords returns the spellings of all non-type keywords, used for completion.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word, kind := range keywords {
		if kind.IsTypeKeyword() || kind == TokenBoolLiteral {
			continue
		}
		out = append(out, word)
	}
	slices.Sort(out)
	return out
}
