// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// Lexer tokenizes GLSL ES source code. A Lexer is a forward-only cursor:
// each call to Next yields the following token. Lexers share no state, so
// any number of them may run concurrently over different sources.
type Lexer struct {
	source string
	pos    int
	line   int
	column int

	start       Position
	startOffset int
	lineStart   bool // only whitespace seen since the last newline
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	return &Lexer{
		source:    source,
		line:      1,
		column:    1,
		lineStart: true,
	}
}

// Tokens returns a lazy, restartable token sequence. Every iteration
// starts a fresh lexer and ends after yielding TokenEOF.
func Tokens(source string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		l := NewLexer(source)
		for {
			tok := l.Next()
			if !yield(tok) || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Tokenize returns all remaining tokens, including the final EOF.
func (l *Lexer) Tokenize() []Token {
	// Estimate ~1 token per 5 characters of source.
	est := len(l.source) / 5
	if est < 16 {
		est = 16
	}
	tokens := make([]Token, 0, est)
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

// Next returns the next token. After the end of input it keeps
// returning TokenEOF.
func (l *Lexer) Next() Token {
	l.skipWhitespaceAndComments()
	l.mark()
	if l.isAtEnd() {
		return l.token(TokenEOF)
	}
	if l.peek() == '/' && l.peekNext() == '*' {
		// skipWhitespaceAndComments stops here only for an unterminated comment.
		for !l.isAtEnd() {
			if l.advance() == '\n' {
				l.line++
				l.column = 1
			}
		}
		return l.token(TokenError)
	}
	return l.scanToken()
}

func (l *Lexer) mark() {
	l.startOffset = l.pos
	l.start = Position{Line: l.line, Column: l.column, Offset: l.pos}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.isAtEnd() {
		switch r := l.peek(); {
		case r == '\n':
			l.advance()
			l.line++
			l.column = 1
			l.lineStart = true
		case r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v':
			l.advance()
		case r == '/' && l.peekNext() == '/':
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		case r == '/' && l.peekNext() == '*':
			if !l.blockComment() {
				return
			}
		default:
			return
		}
	}
}

// blockComment consumes a /* */ comment. GLSL comments do not nest.
// It reports false and leaves the cursor untouched when the comment is
// never closed.
func (l *Lexer) blockComment() bool {
	rel := strings.Index(l.source[l.pos+2:], "*/")
	if rel < 0 {
		return false
	}
	end := l.pos + 2 + rel
	for l.pos < end+2 {
		if l.peek() == '\n' {
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		l.advance()
	}
	return true
}

func (l *Lexer) scanToken() Token {
	atLineStart := l.lineStart
	l.lineStart = false
	r := l.advance()

	switch r {
	case '#':
		if !atLineStart {
			return l.token(TokenError)
		}
		return l.directive()
	case '(':
		return l.token(TokenLeftParen)
	case ')':
		return l.token(TokenRightParen)
	case '{':
		return l.token(TokenLeftBrace)
	case '}':
		return l.token(TokenRightBrace)
	case '[':
		return l.token(TokenLeftBracket)
	case ']':
		return l.token(TokenRightBracket)
	case ',':
		return l.token(TokenComma)
	case ':':
		return l.token(TokenColon)
	case ';':
		return l.token(TokenSemicolon)
	case '?':
		return l.token(TokenQuestion)
	case '~':
		return l.token(TokenTilde)
	case '.':
		if isDigit(l.peek()) {
			return l.number()
		}
		return l.token(TokenDot)
	case '%':
		return l.either('=', TokenPercentEqual, TokenPercent)
	case '*':
		return l.either('=', TokenStarEqual, TokenStar)
	case '/':
		return l.either('=', TokenSlashEqual, TokenSlash)
	case '=':
		return l.either('=', TokenEqualEqual, TokenEqual)
	case '!':
		return l.either('=', TokenBangEqual, TokenBang)
	case '+':
		if l.match('+') {
			return l.token(TokenPlusPlus)
		}
		return l.either('=', TokenPlusEqual, TokenPlus)
	case '-':
		if l.match('-') {
			return l.token(TokenMinusMinus)
		}
		return l.either('=', TokenMinusEqual, TokenMinus)
	case '^':
		if l.match('^') {
			return l.token(TokenCaretCaret)
		}
		return l.either('=', TokenCaretEqual, TokenCaret)
	case '&':
		if l.match('&') {
			return l.token(TokenAmpAmp)
		}
		return l.either('=', TokenAmpEqual, TokenAmpersand)
	case '|':
		if l.match('|') {
			return l.token(TokenPipePipe)
		}
		return l.either('=', TokenPipeEqual, TokenPipe)
	case '<':
		if l.match('<') {
			return l.either('=', TokenLessLessEqual, TokenLessLess)
		}
		return l.either('=', TokenLessEqual, TokenLess)
	case '>':
		if l.match('>') {
			return l.either('=', TokenGreaterGreaterEqual, TokenGreaterGreater)
		}
		return l.either('=', TokenGreaterEqual, TokenGreater)
	}

	switch {
	case isDigit(r):
		return l.number()
	case isAlpha(r) || r == '_':
		return l.identifier()
	default:
		return l.token(TokenError)
	}
}

func (l *Lexer) either(next rune, yes, no TokenKind) Token {
	if l.match(next) {
		return l.token(yes)
	}
	return l.token(no)
}

// directive consumes a preprocessor line. A backslash before the
// newline (LF or CRLF) continues the directive on the next line.
func (l *Lexer) directive() Token {
	for !l.isAtEnd() {
		r := l.peek()
		if r == '\\' && (l.peekNext() == '\n' || (l.peekNext() == '\r' && l.peekAt(2) == '\n')) {
			l.advance()
			if l.peek() == '\r' {
				l.advance()
			}
			l.advance()
			l.line++
			l.column = 1
			continue
		}
		if r == '\n' {
			break
		}
		l.advance()
	}
	return l.token(TokenDirective)
}

func (l *Lexer) number() Token {
	first := l.source[l.startOffset]

	if first == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		return l.token(TokenIntLiteral)
	}

	isFloat := first == '.'
	for isDigit(l.peek()) {
		l.advance()
	}

	if !isFloat && l.peek() == '.' {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekNext()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	if isFloat && (l.peek() == 'f' || l.peek() == 'F') {
		l.advance()
	}

	if isFloat {
		return l.token(TokenFloatLiteral)
	}
	return l.token(TokenIntLiteral)
}

func (l *Lexer) identifier() Token {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	return l.token(LookupKeyword(l.source[l.startOffset:l.pos]))
}

func (l *Lexer) token(kind TokenKind) Token {
	return Token{
		Kind: kind,
		Text: l.source[l.startOffset:l.pos],
		Span: Span{
			Start: l.start,
			End:   Position{Line: l.line, Column: l.column, Offset: l.pos},
		},
	}
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekNext() rune {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(n int) rune {
	pos := l.pos
	for ; n > 0; n-- {
		if pos >= len(l.source) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(l.source[pos:])
		pos += size
	}
	if pos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[pos:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// isAlpha accepts ASCII letters only; other characters lex as errors.
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
