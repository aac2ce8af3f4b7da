// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "fmt"

// TokenKind represents the type of token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenDirective // preprocessor line, '#' through end of line

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenBoolLiteral

	// Operators
	TokenPlus                // +
	TokenMinus               // -
	TokenStar                // *
	TokenSlash               // /
	TokenPercent             // %
	TokenAmpersand           // &
	TokenPipe                // |
	TokenCaret               // ^
	TokenTilde               // ~
	TokenBang                // !
	TokenEqual               // =
	TokenLess                // <
	TokenGreater             // >
	TokenDot                 // .
	TokenComma               // ,
	TokenColon               // :
	TokenSemicolon           // ;
	TokenQuestion            // ?
	TokenPlusPlus            // ++
	TokenMinusMinus          // --
	TokenEqualEqual          // ==
	TokenBangEqual           // !=
	TokenLessEqual           // <=
	TokenGreaterEqual        // >=
	TokenAmpAmp              // &&
	TokenPipePipe            // ||
	TokenCaretCaret          // ^^
	TokenLessLess            // <<
	TokenGreaterGreater      // >>
	TokenPlusEqual           // +=
	TokenMinusEqual          // -=
	TokenStarEqual           // *=
	TokenSlashEqual          // /=
	TokenPercentEqual        // %=
	TokenAmpEqual            // &=
	TokenPipeEqual           // |=
	TokenCaretEqual          // ^=
	TokenLessLessEqual       // <<=
	TokenGreaterGreaterEqual // >>=

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]

	// Keywords
	TokenAttribute
	TokenBreak
	TokenConst
	TokenContinue
	TokenDiscard
	TokenDo
	TokenElse
	TokenFor
	TokenHighp
	TokenIf
	TokenIn
	TokenInout
	TokenInvariant
	TokenLowp
	TokenMediump
	TokenOut
	TokenPrecision
	TokenReturn
	TokenStruct
	TokenUniform
	TokenVarying
	TokenWhile

	// Type keywords
	TokenVoid
	TokenBool
	TokenInt
	TokenFloat
	TokenVec2
	TokenVec3
	TokenVec4
	TokenBvec2
	TokenBvec3
	TokenBvec4
	TokenIvec2
	TokenIvec3
	TokenIvec4
	TokenMat2
	TokenMat3
	TokenMat4
	TokenSampler2D
	TokenSamplerCube

	// TokenReserved is a word GLSL ES reserves for future use.
	TokenReserved
)

var tokenNames = map[TokenKind]string{
	TokenEOF:                 "EOF",
	TokenError:               "Error",
	TokenDirective:           "Directive",
	TokenIdent:               "Ident",
	TokenIntLiteral:          "IntLiteral",
	TokenFloatLiteral:        "FloatLiteral",
	TokenBoolLiteral:         "BoolLiteral",
	TokenPlus:                "+",
	TokenMinus:               "-",
	TokenStar:                "*",
	TokenSlash:               "/",
	TokenPercent:             "%",
	TokenAmpersand:           "&",
	TokenPipe:                "|",
	TokenCaret:               "^",
	TokenTilde:               "~",
	TokenBang:                "!",
	TokenEqual:               "=",
	TokenLess:                "<",
	TokenGreater:             ">",
	TokenDot:                 ".",
	TokenComma:               ",",
	TokenColon:               ":",
	TokenSemicolon:           ";",
	TokenQuestion:            "?",
	TokenPlusPlus:            "++",
	TokenMinusMinus:          "--",
	TokenEqualEqual:          "==",
	TokenBangEqual:           "!=",
	TokenLessEqual:           "<=",
	TokenGreaterEqual:        ">=",
	TokenAmpAmp:              "&&",
	TokenPipePipe:            "||",
	TokenCaretCaret:          "^^",
	TokenLessLess:            "<<",
	TokenGreaterGreater:      ">>",
	TokenPlusEqual:           "+=",
	TokenMinusEqual:          "-=",
	TokenStarEqual:           "*=",
	TokenSlashEqual:          "/=",
	TokenPercentEqual:        "%=",
	TokenAmpEqual:            "&=",
	TokenPipeEqual:           "|=",
	TokenCaretEqual:          "^=",
	TokenLessLessEqual:       "<<=",
	TokenGreaterGreaterEqual: ">>=",
	TokenLeftParen:           "(",
	TokenRightParen:          ")",
	TokenLeftBrace:           "{",
	TokenRightBrace:          "}",
	TokenLeftBracket:         "[",
	TokenRightBracket:        "]",
	TokenReserved:            "reserved word",
}

// String returns the string representation of the token kind.
// Keywords are rendered as their spelling.
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	if word, ok := keywordSpelling[k]; ok {
		return word
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// IsTypeKeyword reports whether the kind names a builtin type.
func (k TokenKind) IsTypeKeyword() bool {
	return k >= TokenVoid && k <= TokenSamplerCube
}

// IsPrecision reports whether the kind is a precision qualifier.
func (k TokenKind) IsPrecision() bool {
	return k == TokenLowp || k == TokenMediump || k == TokenHighp
}

// IsAssignOp reports whether the kind is '=' or a compound assignment.
func (k TokenKind) IsAssignOp() bool {
	switch k {
	case TokenEqual, TokenPlusEqual, TokenMinusEqual, TokenStarEqual,
		TokenSlashEqual, TokenPercentEqual, TokenAmpEqual, TokenPipeEqual,
		TokenCaretEqual, TokenLessLessEqual, TokenGreaterGreaterEqual:
		return true
	}
	return false
}

// IsReservedOp reports whether the operator is reserved in GLSL ES 1.00.
func (k TokenKind) IsReservedOp() bool {
	switch k {
	case TokenPercent, TokenAmpersand, TokenPipe, TokenCaret, TokenTilde,
		TokenLessLess, TokenGreaterGreater,
		TokenPercentEqual, TokenAmpEqual, TokenPipeEqual, TokenCaretEqual,
		TokenLessLessEqual, TokenGreaterGreaterEqual:
		return true
	}
	return false
}

// BinaryOpOf returns the arithmetic operator a compound assignment applies,
// e.g. '+' for "+=".
func (k TokenKind) BinaryOpOf() (TokenKind, bool) {
	switch k {
	case TokenPlusEqual:
		return TokenPlus, true
	case TokenMinusEqual:
		return TokenMinus, true
	case TokenStarEqual:
		return TokenStar, true
	case TokenSlashEqual:
		return TokenSlash, true
	case TokenPercentEqual:
		return TokenPercent, true
	case TokenAmpEqual:
		return TokenAmpersand, true
	case TokenPipeEqual:
		return TokenPipe, true
	case TokenCaretEqual:
		return TokenCaret, true
	case TokenLessLessEqual:
		return TokenLessLess, true
	case TokenGreaterGreaterEqual:
		return TokenGreaterGreater, true
	}
	return 0, false
}

// Token represents a lexical token.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}

// Span represents a source code location span. End is exclusive.
type Span struct {
	Start Position
	End   Position
}

// Position represents a position in source code.
// Line and Column are 1-based, Offset is a 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String formats the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsBuiltin reports whether the span was manufactured for a builtin
// declaration rather than taken from user source.
func (s Span) IsBuiltin() bool {
	return s.Start.Line < 0
}

// Contains reports whether the byte offset lies inside the span.
// The end offset is included so that a cursor placed right after a
// node still counts as touching it.
func (s Span) Contains(offset int) bool {
	return !s.IsBuiltin() && offset >= s.Start.Offset && offset <= s.End.Offset
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	out := s
	if other.Start.Offset < out.Start.Offset {
		out.Start = other.Start
	}
	if other.End.Offset > out.End.Offset {
		out.End = other.End
	}
	return out
}

// BuiltinSpan returns a synthetic span for the n-th builtin declaration.
// Builtin spans live on negative lines so they never collide with user
// source coordinates.
func BuiltinSpan(n int) Span {
	pos := Position{Line: -(n + 1), Column: 0, Offset: -1}
	return Span{Start: pos, End: pos}
}

// BuiltinToken manufactures a token for registering a builtin.
func BuiltinToken(kind TokenKind, text string, n int) Token {
	return Token{Kind: kind, Text: text, Span: BuiltinSpan(n)}
}
