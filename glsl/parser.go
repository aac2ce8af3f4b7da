// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultMaxErrors is the number of errors after which the parser stops
// reporting, unless ParseOptions says otherwise.
const DefaultMaxErrors = 100

// ParseOptions tunes the parser.
type ParseOptions struct {
	// MaxErrors caps the number of reported errors. Parsing continues past
	// the cap; only the reports are dropped. Zero means DefaultMaxErrors.
	MaxErrors int
}

// Parse parses a GLSL ES translation unit for the given stage. It always
// returns a tree: failed constructs become Bad* nodes, and every node at
// or above a recovery point is marked incomplete.
func Parse(source string, stage Stage) (*TranslationUnit, Diagnostics) {
	return ParseWithOptions(source, stage, ParseOptions{})
}

// ParseWithOptions is Parse with explicit options.
func ParseWithOptions(source string, stage Stage, opts ParseOptions) (*TranslationUnit, Diagnostics) {
	maxErrors := opts.MaxErrors
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	p := &parser{
		stage:     stage,
		unit:      &TranslationUnit{Stage: stage},
		defines:   make(map[string][]Token),
		structs:   make(map[string]bool),
		maxErrors: maxErrors,
	}
	p.preprocess(source)
	p.translationUnit()
	PropagateIncomplete(p.unit)
	return p.unit, p.diags
}

// parser is a recursive-descent parser over the preprocessed token
// stream. The stream always ends with TokenEOF.
type parser struct {
	tokens  []Token
	current int

	stage   Stage
	unit    *TranslationUnit
	defines map[string][]Token
	// structs holds the struct names declared so far, used to tell
	// constructor calls and declarations apart from expressions.
	structs map[string]bool

	diags     Diagnostics
	maxErrors int
	errCount  int
}

// syntaxError is a failed grammar rule. It travels up to the nearest
// statement or declaration, which reports it and resynchronizes.
type syntaxError struct {
	Message string
	Span    Span
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

func (p *parser) fail(tok Token, format string, args ...interface{}) *syntaxError {
	return &syntaxError{Message: fmt.Sprintf(format, args...), Span: tok.Span}
}

func (p *parser) report(err *syntaxError) {
	p.errorf(err.Span, "%s", err.Message)
}

func (p *parser) errorf(span Span, format string, args ...interface{}) {
	p.errCount++
	switch {
	case p.errCount <= p.maxErrors:
		p.diags.Errorf(span, format, args...)
	case p.errCount == p.maxErrors+1:
		p.diags.Add(Diagnostic{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("too many errors (%d), further errors are not reported", p.maxErrors),
		})
	}
}

func (p *parser) warnf(span Span, format string, args ...interface{}) {
	p.diags.Warnf(span, format, args...)
}

// translationUnit parses declarations until EOF.
func (p *parser) translationUnit() {
	for !p.isAtEnd() {
		if p.match(TokenSemicolon) {
			continue
		}
		from := p.current
		start := p.peek()
		decls, err := p.declaration(true)
		if err != nil {
			p.report(err)
			p.syncDeclaration(from)
			bad := &BadDecl{}
			bad.Span = p.spanFrom(start.Span.Start)
			bad.MarkIncomplete()
			p.unit.Decls = append(p.unit.Decls, bad)
			continue
		}
		p.unit.Decls = append(p.unit.Decls, decls...)
	}
	p.unit.Span = Span{Start: Position{Line: 1, Column: 1}, End: p.peek().Span.End}
}

// declaration parses one declaration. A declaration with several
// declarators, or with an inline struct, yields several nodes.
func (p *parser) declaration(global bool) ([]Decl, *syntaxError) {
	start := p.peek()

	switch {
	case p.check(TokenPrecision):
		d, err := p.precisionDecl()
		if err != nil {
			return nil, err
		}
		return []Decl{d}, nil
	case p.check(TokenInvariant) && p.peekAt(1).Kind == TokenIdent:
		if !global {
			return nil, p.fail(start, "invariant declarations are only allowed at global scope")
		}
		d, err := p.invariantDecl()
		if err != nil {
			return nil, err
		}
		return []Decl{d}, nil
	}

	qual, qualTok, invariant := p.qualifiers()
	spec, structDecl, err := p.typeSpec(true)
	if err != nil {
		return nil, err
	}

	var decls []Decl
	if structDecl != nil {
		decls = append(decls, structDecl)
	}

	if p.check(TokenSemicolon) {
		semi := p.advance()
		if structDecl == nil {
			p.warnf(semi.Span, "declaration does not declare anything")
		}
		return decls, nil
	}

	name, err := p.expectIdent("in declaration")
	if err != nil {
		return nil, err
	}

	if p.check(TokenLeftParen) {
		if !global {
			return nil, p.fail(name, "function '%s' must be declared at global scope", name.Text)
		}
		fn, err := p.function(start, spec, name)
		if err != nil {
			return nil, err
		}
		if qual != StorageNone || invariant {
			p.errorf(qualTok.Span, "qualifier '%s' is not allowed on a function", qualTok.Text)
			fn.MarkIncomplete()
		}
		return append(decls, fn), nil
	}

	from := start.Span.Start
	var last *VarDecl
	for {
		v, err := p.declarator(from, qual, qualTok, invariant, spec, name, global)
		if err != nil {
			return nil, err
		}
		decls = append(decls, v)
		last = v
		if !p.match(TokenComma) {
			break
		}
		if name, err = p.expectIdent("after ','"); err != nil {
			return nil, err
		}
		from = name.Span.Start
		spec = spec.Clone()
	}
	p.expectSemicolon(last, "declaration")
	return decls, nil
}

// qualifiers parses the optional invariant and storage qualifiers.
func (p *parser) qualifiers() (StorageQualifier, Token, bool) {
	var invariant bool
	var tok Token
	if p.check(TokenInvariant) {
		tok = p.advance()
		invariant = true
	}
	var q StorageQualifier
	switch p.peek().Kind {
	case TokenConst:
		q = StorageConst
	case TokenAttribute:
		q = StorageAttribute
	case TokenUniform:
		q = StorageUniform
	case TokenVarying:
		q = StorageVarying
	default:
		return StorageNone, tok, invariant
	}
	return q, p.advance(), invariant
}

// declarator parses `name [size] [= init]` and applies the storage
// qualifier rules of the stage.
func (p *parser) declarator(from Position, qual StorageQualifier, qualTok Token, invariant bool,
	spec *TypeSpec, name Token, global bool) (*VarDecl, *syntaxError) {
	v := &VarDecl{
		Qualifier: qual,
		Invariant: invariant,
		Type:      spec,
		Name:      name.Text,
		NameSpan:  name.Span,
	}
	p.checkName(v, name)

	if p.match(TokenLeftBracket) {
		size, err := p.arraySize()
		if err != nil {
			return nil, err
		}
		v.ArraySize = size
	}
	if p.match(TokenEqual) {
		init, err := p.assignment()
		if err != nil {
			return nil, err
		}
		v.Init = init
	}
	v.Span = p.spanFrom(from)

	switch qual {
	case StorageAttribute:
		switch {
		case p.stage != StageVertex:
			p.errorf(qualTok.Span, "attribute variables are only allowed in the vertex stage")
			v.MarkIncomplete()
		case !global:
			p.errorf(qualTok.Span, "attribute variables must be declared at global scope")
			v.MarkIncomplete()
		}
	case StorageVarying, StorageUniform:
		if !global {
			p.errorf(qualTok.Span, "%s variables must be declared at global scope", qual)
			v.MarkIncomplete()
		}
	}
	if v.Init != nil && (qual == StorageAttribute || qual == StorageVarying || qual == StorageUniform) {
		p.errorf(v.Init.Pos(), "%s variable '%s' cannot have an initializer", qual, v.Name)
		v.MarkIncomplete()
	}
	if invariant && qual != StorageVarying {
		p.errorf(v.NameSpan, "invariant qualifier is only allowed on varying variables")
		v.MarkIncomplete()
	}
	return v, nil
}

// checkName reports identifiers in the reserved namespaces.
func (p *parser) checkName(n Node, name Token) {
	switch {
	case name.Kind == TokenReserved:
		n.MarkIncomplete()
	case strings.HasPrefix(name.Text, "gl_"):
		p.errorf(name.Span, "identifier '%s' uses the reserved prefix gl_", name.Text)
		n.MarkIncomplete()
	case strings.Contains(name.Text, "__"):
		p.errorf(name.Span, "identifier '%s' contains a reserved double underscore", name.Text)
		n.MarkIncomplete()
	}
}

// arraySize parses the size expression after '['.
func (p *parser) arraySize() (Expr, *syntaxError) {
	if p.check(TokenRightBracket) {
		return nil, p.fail(p.peek(), "array size must be specified")
	}
	size, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectErr(TokenRightBracket, "after array size"); err != nil {
		return nil, err
	}
	return size, nil
}

// typeSpec parses `[precision] type`. When the type is an inline struct
// definition its TypeDecl is returned as well.
func (p *parser) typeSpec(allowStruct bool) (*TypeSpec, *TypeDecl, *syntaxError) {
	start := p.peek()
	spec := &TypeSpec{}
	if start.Kind.IsPrecision() {
		spec.Precision = precisionOf(p.advance().Kind)
	}

	var decl *TypeDecl
	tok := p.peek()
	switch {
	case tok.Kind == TokenStruct:
		if !allowStruct {
			return nil, nil, p.fail(tok, "embedded struct definitions are not allowed")
		}
		d, err := p.structSpecifier()
		if err != nil {
			return nil, nil, err
		}
		decl = d
		spec.Name = d.Name
		spec.Struct = d
	case tok.Kind.IsTypeKeyword(), tok.Kind == TokenIdent:
		p.advance()
		spec.Name = tok.Text
	case tok.Kind == TokenReserved:
		p.advance()
		p.errorf(tok.Span, "'%s' is a reserved word", tok.Text)
		spec.Name = tok.Text
		spec.MarkIncomplete()
	default:
		return nil, nil, p.fail(tok, "expected type, got %s", describe(tok))
	}
	spec.Span = p.spanFrom(start.Span.Start)
	return spec, decl, nil
}

// structSpecifier parses `struct [name] { members }`.
func (p *parser) structSpecifier() (*TypeDecl, *syntaxError) {
	kw := p.advance()
	decl := &TypeDecl{Token: kw}
	if p.check(TokenIdent) || p.check(TokenReserved) {
		name := p.advance()
		decl.Name = name.Text
		decl.NameSpan = name.Span
		decl.Token = name
		if name.Kind == TokenReserved {
			p.errorf(name.Span, "'%s' is a reserved word", name.Text)
		}
		p.checkName(decl, name)
	}
	if _, err := p.expectErr(TokenLeftBrace, "in struct definition"); err != nil {
		return nil, err
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		fields, err := p.structMembers()
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, fields...)
	}
	if _, err := p.expectErr(TokenRightBrace, "to close struct definition"); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(kw.Span.Start)
	if len(decl.Fields) == 0 {
		p.errorf(decl.Span, "struct must have at least one member")
		decl.MarkIncomplete()
	}
	if decl.Name != "" {
		p.structs[decl.Name] = true
	}
	return decl, nil
}

// structMembers parses one member line, which may declare several fields.
func (p *parser) structMembers() ([]*FieldDecl, *syntaxError) {
	spec, _, err := p.typeSpec(false)
	if err != nil {
		return nil, err
	}
	var fields []*FieldDecl
	from := spec.Span.Start
	for {
		name, err := p.expectIdent("in struct member")
		if err != nil {
			return nil, err
		}
		f := &FieldDecl{Type: spec, Name: name.Text, NameSpan: name.Span}
		p.checkName(f, name)
		if p.match(TokenLeftBracket) {
			size, err := p.arraySize()
			if err != nil {
				return nil, err
			}
			f.ArraySize = size
		}
		f.Span = p.spanFrom(from)
		fields = append(fields, f)
		if !p.match(TokenComma) {
			break
		}
		spec = spec.Clone()
		from = p.peek().Span.Start
	}
	p.expectSemicolon(fields[len(fields)-1], "struct member")
	return fields, nil
}

// precisionDecl parses `precision qualifier type ;`.
func (p *parser) precisionDecl() (*PrecisionDecl, *syntaxError) {
	kw := p.advance()
	if !p.peek().Kind.IsPrecision() {
		return nil, p.fail(p.peek(), "expected precision qualifier after 'precision', got %s", describe(p.peek()))
	}
	d := &PrecisionDecl{Precision: precisionOf(p.advance().Kind)}
	tok := p.peek()
	if !tok.Kind.IsTypeKeyword() {
		return nil, p.fail(tok, "expected type in precision declaration, got %s", describe(tok))
	}
	p.advance()
	d.Type = &TypeSpec{Name: tok.Text}
	d.Type.Span = tok.Span
	switch tok.Kind {
	case TokenFloat, TokenInt, TokenSampler2D, TokenSamplerCube:
	default:
		p.errorf(tok.Span, "default precision can only be set for float, int and sampler types")
		d.MarkIncomplete()
	}
	d.Span = p.spanFrom(kw.Span.Start)
	p.expectSemicolon(d, "precision declaration")
	return d, nil
}

// invariantDecl parses `invariant name, ... ;`.
func (p *parser) invariantDecl() (*InvariantDecl, *syntaxError) {
	kw := p.advance()
	d := &InvariantDecl{}
	for {
		name, err := p.expectIdent("in invariant declaration")
		if err != nil {
			return nil, err
		}
		id := &Ident{Name: name.Text}
		id.Span = name.Span
		d.Names = append(d.Names, id)
		if !p.match(TokenComma) {
			break
		}
	}
	d.Span = p.spanFrom(kw.Span.Start)
	p.expectSemicolon(d, "invariant declaration")
	return d, nil
}

// function parses the parameter list and, if present, the body of a
// function whose return type and name are already consumed.
func (p *parser) function(start Token, ret *TypeSpec, name Token) (Decl, *syntaxError) {
	proto := &FunctionProto{Return: ret, Name: name.Text, NameSpan: name.Span}
	p.checkName(proto, name)
	p.advance() // (

	if p.check(TokenVoid) && p.peekAt(1).Kind == TokenRightParen {
		p.advance()
	} else if !p.check(TokenRightParen) {
		for {
			param, err := p.parameter()
			if err != nil {
				return nil, err
			}
			proto.Params = append(proto.Params, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.expectErr(TokenRightParen, "after parameters"); err != nil {
		return nil, err
	}
	proto.Span = p.spanFrom(start.Span.Start)

	params := make([]string, len(proto.Params))
	for i, param := range proto.Params {
		params[i] = paramTypeName(param)
	}
	proto.Signature = Signature(proto.Name, params...)

	if !p.check(TokenLeftBrace) {
		p.expectSemicolon(proto, "function prototype")
		return proto, nil
	}
	def := &FunctionDef{Proto: proto, Body: p.block()}
	def.Span = p.spanFrom(start.Span.Start)
	return def, nil
}

// parameter parses `[const] [in|out|inout] type [name [size]]`.
func (p *parser) parameter() (*ParamDecl, *syntaxError) {
	start := p.peek()
	param := &ParamDecl{}
	if p.match(TokenConst) {
		param.Const = true
	}
	switch p.peek().Kind {
	case TokenIn:
		p.advance()
	case TokenOut:
		p.advance()
		param.Qualifier = ParamOut
	case TokenInout:
		p.advance()
		param.Qualifier = ParamInout
	}
	if param.Const && param.Qualifier != ParamIn {
		p.errorf(start.Span, "const parameters cannot be %s", param.Qualifier)
		param.MarkIncomplete()
	}

	spec, _, err := p.typeSpec(false)
	if err != nil {
		return nil, err
	}
	param.Type = spec
	if p.check(TokenIdent) || p.check(TokenReserved) {
		name := p.advance()
		param.Name = name.Text
		param.NameSpan = name.Span
		if name.Kind == TokenReserved {
			p.errorf(name.Span, "'%s' is a reserved word", name.Text)
		}
		p.checkName(param, name)
	}
	if p.match(TokenLeftBracket) {
		size, err := p.arraySize()
		if err != nil {
			return nil, err
		}
		param.ArraySize = size
	}
	param.Span = p.spanFrom(start.Span.Start)
	return param, nil
}

// paramTypeName is the parameter's contribution to a signature.
func paramTypeName(param *ParamDecl) string {
	name := param.Type.Name
	if name == "" {
		name = "struct"
	}
	if param.ArraySize != nil {
		name += "[" + exprText(param.ArraySize) + "]"
	}
	return name
}

// exprText renders the simple expressions allowed as array sizes.
func exprText(e Expr) string {
	switch e := e.(type) {
	case *Literal:
		return e.Value
	case *Ident:
		return e.Name
	}
	return ""
}

// Statements

// block parses a compound statement; the current token is '{'.
func (p *parser) block() *Block {
	open := p.advance()
	b := &Block{}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		b.Stmts = append(b.Stmts, p.statement())
	}
	if !p.match(TokenRightBrace) {
		p.errorf(p.peek().Span, "expected '}' to close block opened at %s", open.Span.Start)
		b.MarkIncomplete()
	}
	b.Span = p.spanFrom(open.Span.Start)
	return b
}

// statement parses a statement, replacing it with a BadStmt when it
// cannot be parsed.
func (p *parser) statement() Stmt {
	from := p.current
	start := p.peek()
	s, err := p.statementInner()
	if err == nil {
		return s
	}
	p.report(err)
	p.syncStatement(from)
	bad := &BadStmt{}
	bad.Span = p.spanFrom(start.Span.Start)
	bad.MarkIncomplete()
	return bad
}

func (p *parser) statementInner() (Stmt, *syntaxError) {
	tok := p.peek()
	switch tok.Kind {
	case TokenLeftBrace:
		return p.block(), nil
	case TokenSemicolon:
		p.advance()
		s := &EmptyStmt{}
		s.Span = tok.Span
		return s, nil
	case TokenIf:
		return p.ifStmt()
	case TokenFor:
		return p.forStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenDo:
		return p.doWhileStmt()
	case TokenReturn:
		return p.returnStmt()
	case TokenBreak:
		p.advance()
		s := &BreakStmt{}
		s.Span = tok.Span
		p.expectSemicolon(s, "'break'")
		return s, nil
	case TokenContinue:
		p.advance()
		s := &ContinueStmt{}
		s.Span = tok.Span
		p.expectSemicolon(s, "'continue'")
		return s, nil
	case TokenDiscard:
		p.advance()
		s := &DiscardStmt{}
		s.Span = tok.Span
		p.expectSemicolon(s, "'discard'")
		return s, nil
	}
	if p.atLocalDeclaration() {
		return p.declStmt()
	}
	return p.exprStmt()
}

// atLocalDeclaration reports whether the statement at the cursor is a
// declaration rather than an expression.
func (p *parser) atLocalDeclaration() bool {
	tok := p.peek()
	switch {
	case tok.Kind == TokenConst, tok.Kind == TokenStruct, tok.Kind == TokenPrecision,
		tok.Kind == TokenInvariant, tok.Kind == TokenAttribute, tok.Kind == TokenUniform,
		tok.Kind == TokenVarying, tok.Kind.IsPrecision():
		return true
	case tok.Kind.IsTypeKeyword():
		return p.peekAt(1).Kind != TokenLeftParen
	case tok.Kind == TokenIdent:
		next := p.peekAt(1).Kind
		return next == TokenIdent || next == TokenReserved
	}
	return false
}

func (p *parser) declStmt() (*DeclStmt, *syntaxError) {
	start := p.peek()
	decls, err := p.declaration(false)
	if err != nil {
		return nil, err
	}
	s := &DeclStmt{Decls: decls}
	s.Span = p.spanFrom(start.Span.Start)
	return s, nil
}

func (p *parser) exprStmt() (*ExprStmt, *syntaxError) {
	x, err := p.expression()
	if err != nil {
		return nil, err
	}
	s := &ExprStmt{X: x}
	p.expectSemicolon(s, "expression")
	s.Span = p.spanFrom(x.Pos().Start)
	return s, nil
}

func (p *parser) ifStmt() (*IfStmt, *syntaxError) {
	kw := p.advance()
	cond, err := p.parenCondition("'if'")
	if err != nil {
		return nil, err
	}
	s := &IfStmt{Cond: cond, Then: p.statement()}
	if p.match(TokenElse) {
		s.Else = p.statement()
	}
	s.Span = p.spanFrom(kw.Span.Start)
	return s, nil
}

func (p *parser) whileStmt() (*WhileStmt, *syntaxError) {
	kw := p.advance()
	cond, err := p.parenCondition("'while'")
	if err != nil {
		return nil, err
	}
	s := &WhileStmt{Cond: cond, Body: p.statement()}
	s.Span = p.spanFrom(kw.Span.Start)
	return s, nil
}

func (p *parser) doWhileStmt() (*DoWhileStmt, *syntaxError) {
	kw := p.advance()
	s := &DoWhileStmt{Body: p.statement()}
	if _, err := p.expectErr(TokenWhile, "after do body"); err != nil {
		return nil, err
	}
	cond, err := p.parenCondition("'while'")
	if err != nil {
		return nil, err
	}
	s.Cond = cond
	s.Span = p.spanFrom(kw.Span.Start)
	p.expectSemicolon(s, "do-while statement")
	return s, nil
}

// parenCondition parses `( expression )`.
func (p *parser) parenCondition(after string) (Expr, *syntaxError) {
	if _, err := p.expectErr(TokenLeftParen, "after "+after); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectErr(TokenRightParen, "after condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *parser) forStmt() (*ForStmt, *syntaxError) {
	kw := p.advance()
	if _, err := p.expectErr(TokenLeftParen, "after 'for'"); err != nil {
		return nil, err
	}
	s := &ForStmt{}

	switch {
	case p.match(TokenSemicolon):
	case p.atLocalDeclaration():
		init, err := p.declStmt()
		if err != nil {
			return nil, err
		}
		s.Init = init
	default:
		init, err := p.exprStmt()
		if err != nil {
			return nil, err
		}
		s.Init = init
	}

	if !p.check(TokenSemicolon) {
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Cond = cond
	}
	if _, err := p.expectErr(TokenSemicolon, "after loop condition"); err != nil {
		return nil, err
	}
	if !p.check(TokenRightParen) {
		post, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Post = post
	}
	if _, err := p.expectErr(TokenRightParen, "after for clauses"); err != nil {
		return nil, err
	}
	s.Body = p.statement()
	s.Span = p.spanFrom(kw.Span.Start)
	return s, nil
}

func (p *parser) returnStmt() (*ReturnStmt, *syntaxError) {
	kw := p.advance()
	s := &ReturnStmt{}
	if !p.check(TokenSemicolon) && !p.check(TokenRightBrace) && !p.isAtEnd() {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		s.Value = value
	}
	s.Span = p.spanFrom(kw.Span.Start)
	p.expectSemicolon(s, "return statement")
	return s, nil
}

// Expressions

// expression parses a comma-separated sequence.
func (p *parser) expression() (Expr, *syntaxError) {
	first, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenComma) {
		return first, nil
	}
	seq := &SequenceExpr{List: []Expr{first}}
	for p.match(TokenComma) {
		next, err := p.assignment()
		if err != nil {
			return nil, err
		}
		seq.List = append(seq.List, next)
	}
	seq.Span = first.Pos().Join(seq.List[len(seq.List)-1].Pos())
	return seq, nil
}

// assignment parses right-associative assignments.
func (p *parser) assignment() (Expr, *syntaxError) {
	left, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if !p.peek().Kind.IsAssignOp() {
		return left, nil
	}
	op := p.advance()
	right, err := p.assignment()
	if err != nil {
		return nil, err
	}
	a := &AssignExpr{Op: op.Kind, Left: left, Right: right}
	a.Span = left.Pos().Join(right.Pos())
	p.checkReservedOp(op, a)
	return a, nil
}

// conditional parses `cond ? expression : assignment`.
func (p *parser) conditional() (Expr, *syntaxError) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenQuestion) {
		return cond, nil
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectErr(TokenColon, "in conditional expression"); err != nil {
		return nil, err
	}
	els, err := p.assignment()
	if err != nil {
		return nil, err
	}
	c := &CondExpr{Cond: cond, Then: then, Else: els}
	c.Span = cond.Pos().Join(els.Pos())
	return c, nil
}

func (p *parser) logicalOr() (Expr, *syntaxError) {
	return p.binary(p.logicalXor, TokenPipePipe)
}

func (p *parser) logicalXor() (Expr, *syntaxError) {
	return p.binary(p.logicalAnd, TokenCaretCaret)
}

func (p *parser) logicalAnd() (Expr, *syntaxError) {
	return p.binary(p.bitwiseOr, TokenAmpAmp)
}

// The bitwise and shift levels exist only to report their operators as
// reserved with the precedence a reader expects.

func (p *parser) bitwiseOr() (Expr, *syntaxError) {
	return p.binary(p.bitwiseXor, TokenPipe)
}

func (p *parser) bitwiseXor() (Expr, *syntaxError) {
	return p.binary(p.bitwiseAnd, TokenCaret)
}

func (p *parser) bitwiseAnd() (Expr, *syntaxError) {
	return p.binary(p.equality, TokenAmpersand)
}

func (p *parser) equality() (Expr, *syntaxError) {
	return p.binary(p.relational, TokenEqualEqual, TokenBangEqual)
}

func (p *parser) relational() (Expr, *syntaxError) {
	return p.binary(p.shift, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual)
}

func (p *parser) shift() (Expr, *syntaxError) {
	return p.binary(p.additive, TokenLessLess, TokenGreaterGreater)
}

func (p *parser) additive() (Expr, *syntaxError) {
	return p.binary(p.multiplicative, TokenPlus, TokenMinus)
}

func (p *parser) multiplicative() (Expr, *syntaxError) {
	return p.binary(p.unary, TokenStar, TokenSlash, TokenPercent)
}

// binary parses a left-associative level made of the given operators.
func (p *parser) binary(next func() (Expr, *syntaxError), ops ...TokenKind) (Expr, *syntaxError) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for slices.Contains(ops, p.peek().Kind) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		b := &BinaryExpr{Op: op.Kind, OpSpan: op.Span, Left: left, Right: right}
		b.Span = left.Pos().Join(right.Pos())
		p.checkReservedOp(op, b)
		left = b
	}
	return left, nil
}

func (p *parser) unary() (Expr, *syntaxError) {
	switch p.peek().Kind {
	case TokenPlus, TokenMinus, TokenBang, TokenTilde, TokenPlusPlus, TokenMinusMinus:
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		u := &UnaryExpr{Op: op.Kind, Operand: operand}
		u.Span = op.Span.Join(operand.Pos())
		p.checkReservedOp(op, u)
		return u, nil
	}
	return p.postfix()
}

// postfix parses indexing, member access and postfix increments.
func (p *parser) postfix() (Expr, *syntaxError) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TokenLeftBracket:
			p.advance()
			index, err := p.expression()
			if err != nil {
				return nil, err
			}
			closing, err := p.expectErr(TokenRightBracket, "after index")
			if err != nil {
				return nil, err
			}
			ix := &IndexExpr{X: x, Index: index}
			ix.Span = x.Pos().Join(closing.Span)
			x = ix
		case TokenDot:
			dot := p.advance()
			m := &MemberExpr{X: x}
			if p.check(TokenIdent) {
				name := p.advance()
				m.Member = name.Text
				m.MemberSpan = name.Span
			} else {
				// Keep the node so that completion can see `base.`.
				p.errorf(p.peek().Span, "expected field or swizzle name after '.', got %s", describe(p.peek()))
				m.MemberSpan = Span{Start: dot.Span.End, End: dot.Span.End}
				m.MarkIncomplete()
			}
			m.Span = x.Pos().Join(p.previous().Span)
			x = m
		case TokenPlusPlus, TokenMinusMinus:
			op := p.advance()
			u := &UnaryExpr{Op: op.Kind, Postfix: true, Operand: x}
			u.Span = x.Pos().Join(op.Span)
			x = u
		default:
			return x, nil
		}
	}
}

func (p *parser) primary() (Expr, *syntaxError) {
	tok := p.peek()

	switch {
	case tok.Kind == TokenIntLiteral, tok.Kind == TokenFloatLiteral, tok.Kind == TokenBoolLiteral:
		p.advance()
		lit := &Literal{Kind: tok.Kind, Value: tok.Text}
		lit.Span = tok.Span
		return lit, nil

	case tok.Kind == TokenIdent:
		p.advance()
		if p.check(TokenLeftParen) {
			return p.call(tok, p.structs[tok.Text])
		}
		id := &Ident{Name: tok.Text}
		id.Span = tok.Span
		return id, nil

	case tok.Kind == TokenReserved:
		p.advance()
		p.errorf(tok.Span, "'%s' is a reserved word", tok.Text)
		id := &Ident{Name: tok.Text}
		id.Span = tok.Span
		id.MarkIncomplete()
		return id, nil

	case tok.Kind.IsTypeKeyword():
		p.advance()
		if !p.check(TokenLeftParen) {
			return nil, p.fail(p.peek(), "expected '(' after type name '%s' in constructor", tok.Text)
		}
		return p.call(tok, true)

	case tok.Kind == TokenLeftParen:
		p.advance()
		x, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectErr(TokenRightParen, "after expression"); err != nil {
			return nil, err
		}
		return x, nil
	}

	return nil, p.fail(tok, "expected expression, got %s", describe(tok))
}

// call parses an argument list; the callee token is already consumed and
// the current token is '('.
func (p *parser) call(callee Token, constructor bool) (Expr, *syntaxError) {
	p.advance()
	c := &CallExpr{Callee: callee.Text, CalleeSpan: callee.Span, Constructor: constructor}
	if p.check(TokenVoid) && p.peekAt(1).Kind == TokenRightParen {
		p.advance()
	} else if !p.check(TokenRightParen) {
		for {
			arg, err := p.assignment()
			if err != nil {
				return nil, err
			}
			c.Args = append(c.Args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.expectErr(TokenRightParen, "to close argument list"); err != nil {
		return nil, err
	}
	c.Span = p.spanFrom(callee.Span.Start)
	return c, nil
}

func (p *parser) checkReservedOp(op Token, n Node) {
	if op.Kind.IsReservedOp() {
		p.errorf(op.Span, "operator '%s' is reserved", op.Text)
		n.MarkIncomplete()
	}
}

// Recovery

// syncStatement skips the rest of a broken statement: through the next
// ';' or balanced '}' at depth 0, or up to a '}' closing the enclosing
// block or a statement keyword.
func (p *parser) syncStatement(from int) {
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case TokenIf, TokenFor, TokenWhile, TokenDo, TokenReturn, TokenBreak, TokenContinue, TokenDiscard:
			if depth == 0 && p.current > from {
				return
			}
		}
		p.advance()
	}
}

// syncDeclaration skips the rest of a broken global declaration: through
// the next ';' at depth 0 or a balanced '}', or up to the start of the
// next declaration.
func (p *parser) syncDeclaration(from int) {
	depth := 0
	for !p.isAtEnd() {
		if depth == 0 && p.current > from && p.startsDeclaration() {
			return
		}
		switch p.peek().Kind {
		case TokenLeftBrace:
			depth++
		case TokenRightBrace:
			if depth > 0 {
				depth--
			}
			p.advance()
			if depth == 0 {
				return
			}
			continue
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// startsDeclaration reports whether the cursor looks like the first token
// of a global declaration.
func (p *parser) startsDeclaration() bool {
	tok := p.peek()
	switch tok.Kind {
	case TokenPrecision, TokenStruct, TokenAttribute, TokenUniform, TokenVarying,
		TokenConst, TokenInvariant, TokenHighp, TokenMediump, TokenLowp:
		return true
	case TokenIdent:
		return p.structs[tok.Text] && p.peekAt(1).Kind == TokenIdent
	}
	return tok.Kind.IsTypeKeyword() && p.peekAt(1).Kind == TokenIdent
}

// expectSemicolon consumes a ';'. A missing one is reported right after
// the previous token and n is marked incomplete; nothing is skipped.
func (p *parser) expectSemicolon(n Node, after string) {
	if p.match(TokenSemicolon) {
		return
	}
	end := p.previous().Span.End
	p.errorf(Span{Start: end, End: end}, "expected ';' after %s, got %s", after, describe(p.peek()))
	n.MarkIncomplete()
}

// Helper methods

func (p *parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) peekAt(n int) Token {
	i := p.current + n
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

func (p *parser) previous() Token {
	if p.current == 0 {
		return Token{}
	}
	return p.tokens[p.current-1]
}

func (p *parser) isAtEnd() bool {
	return p.peek().Kind == TokenEOF
}

func (p *parser) check(kind TokenKind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectErr(kind TokenKind, context string) (Token, *syntaxError) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return Token{}, p.fail(p.peek(), "expected %s %s, got %s", expectedName(kind), context, describe(p.peek()))
}

// expectIdent consumes an identifier. A reserved word is accepted after
// reporting it, so the caller can keep building its node.
func (p *parser) expectIdent(context string) (Token, *syntaxError) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		return p.advance(), nil
	case TokenReserved:
		p.errorf(tok.Span, "'%s' is a reserved word", tok.Text)
		return p.advance(), nil
	}
	return Token{}, p.fail(tok, "expected identifier %s, got %s", context, describe(tok))
}

// spanFrom returns the span from start to the end of the last consumed
// token.
func (p *parser) spanFrom(start Position) Span {
	end := start
	if p.current > 0 {
		if prev := p.previous().Span.End; prev.Offset >= start.Offset {
			end = prev
		}
	}
	return Span{Start: start, End: end}
}

func precisionOf(kind TokenKind) Precision {
	switch kind {
	case TokenLowp:
		return PrecisionLow
	case TokenMediump:
		return PrecisionMedium
	case TokenHighp:
		return PrecisionHigh
	}
	return PrecisionNone
}

func expectedName(kind TokenKind) string {
	if kind == TokenIdent {
		return "identifier"
	}
	return "'" + kind.String() + "'"
}

func describe(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return "'" + tok.Text + "'"
}
