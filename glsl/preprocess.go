// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
)

// preprocess tokenizes the source, applies object-like #define
// substitution and records the directives the front-end keeps. Lexical
// errors are reported here and dropped from the stream.
func (p *parser) preprocess(source string) {
	lx := NewLexer(source)
	for {
		tok := lx.Next()
		switch tok.Kind {
		case TokenEOF:
			p.tokens = append(p.tokens, tok)
			return
		case TokenError:
			p.lexError(tok)
		case TokenDirective:
			p.directive(tok)
		case TokenIdent:
			if _, ok := p.defines[tok.Text]; ok {
				p.tokens = p.expand(tok, map[string]bool{}, p.tokens)
				continue
			}
			p.tokens = append(p.tokens, tok)
		default:
			p.tokens = append(p.tokens, tok)
		}
	}
}

func (p *parser) lexError(tok Token) {
	if strings.HasPrefix(tok.Text, "/*") {
		p.errorf(tok.Span, "unterminated block comment")
		return
	}
	p.errorf(tok.Span, "unexpected character '%s'", tok.Text)
}

// directive handles one preprocessor line.
func (p *parser) directive(tok Token) {
	text := strings.ReplaceAll(tok.Text, "\\\r\n", " ")
	text = strings.ReplaceAll(text, "\\\n", " ")
	text = strings.TrimLeft(strings.TrimPrefix(text, "#"), " \t")

	name := text[:identLen(text)]
	rest := strings.TrimSpace(text[len(name):])

	switch name {
	case "":
		if rest != "" {
			p.warnf(tok.Span, "malformed preprocessor directive")
		}
	case "version", "extension", "pragma":
		p.unit.Directives = append(p.unit.Directives, Directive{Name: name, Text: rest, Span: tok.Span})
	case "define":
		p.define(tok, text[len(name):])
	case "undef":
		macro := rest[:identLen(rest)]
		if macro == "" {
			p.warnf(tok.Span, "#undef requires a macro name")
			return
		}
		delete(p.defines, macro)
	default:
		p.warnf(tok.Span, "unsupported preprocessor directive #%s", name)
	}
}

// define registers an object-like macro. body is everything after the
// word "define", with its leading whitespace.
func (p *parser) define(tok Token, body string) {
	body = strings.TrimLeft(body, " \t")
	n := identLen(body)
	if n == 0 {
		p.warnf(tok.Span, "#define requires a macro name")
		return
	}
	macro := body[:n]
	if n < len(body) && body[n] == '(' {
		p.warnf(tok.Span, "unsupported preprocessor directive: function-like macro %s", macro)
		return
	}

	var replacement []Token
	for t := range Tokens(body[n:]) {
		switch t.Kind {
		case TokenEOF:
		case TokenError:
			p.errorf(tok.Span, "invalid token '%s' in definition of %s", t.Text, macro)
		default:
			replacement = append(replacement, t)
		}
	}
	p.defines[macro] = replacement
}

// expand appends the replacement of a macro use to out. Every produced
// token carries the span of the use site; a macro is not re-expanded
// inside its own replacement.
func (p *parser) expand(use Token, active map[string]bool, out []Token) []Token {
	active[use.Text] = true
	for _, t := range p.defines[use.Text] {
		t.Span = use.Span
		if t.Kind == TokenIdent && !active[t.Text] {
			if _, ok := p.defines[t.Text]; ok {
				out = p.expand(t, active, out)
				continue
			}
		}
		out = append(out, t)
	}
	delete(active, use.Text)
	return out
}

// identLen returns the length of the identifier prefix of s.
func identLen(s string) int {
	for i, r := range s {
		if (i == 0 && isDigit(r)) || (!isAlphaNumeric(r) && r != '_') {
			return i
		}
	}
	return len(s)
}
