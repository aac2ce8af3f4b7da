// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package check type-checks a parsed GLSL ES translation unit.
//
// The checker fills the Type of every expression and the Resolved type of
// every declaration, builds the scope tree, and reports semantic errors.
// It never stops early: a construct that fails to type gets a nil Type and
// expressions built on it are not reported again.
package check

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gogpu/glsles/builtins"
	"github.com/gogpu/glsles/glsl"
)

// Info is the result of checking a translation unit.
type Info struct {
	Stage       glsl.Stage
	Diagnostics glsl.Diagnostics
	// Builtins is the root scope with the builtin variables of the stage.
	// Its only child is Globals.
	Builtins *Scope
	Globals  *Scope
	// Uses maps every resolved identifier to its symbol.
	Uses map[*glsl.Ident]*Symbol

	catalogue *builtins.Catalogue
}

// Catalogue returns the builtin catalogue the unit was checked against.
func (info *Info) Catalogue() *builtins.Catalogue {
	return info.catalogue
}

// Check type-checks unit against the default builtin catalogue.
func Check(unit *glsl.TranslationUnit) *Info {
	return CheckWith(unit, builtins.Default())
}

// CheckWith type-checks unit against cat.
func CheckWith(unit *glsl.TranslationUnit, cat *builtins.Catalogue) *Info {
	info := &Info{
		Stage:     unit.Stage,
		Uses:      make(map[*glsl.Ident]*Symbol),
		catalogue: cat,
	}
	info.Builtins = builtinScope(cat, unit.Stage)
	info.Globals = newScope(info.Builtins, unit.Span)

	c := &checker{
		cat:   cat,
		stage: unit.Stage,
		info:  info,
		scope: info.Globals,
	}
	for _, d := range unit.Decls {
		c.decl(d)
	}
	glsl.PropagateIncomplete(unit)
	info.Diagnostics.Sort()
	return info
}

type checker struct {
	cat   *builtins.Catalogue
	stage glsl.Stage
	info  *Info
	scope *Scope

	// fn is the function whose body is being checked.
	fn        *glsl.FunctionProto
	fnReturn  *glsl.Type
	loopDepth int
}

// errorf reports an error at the span of n and marks n incomplete.
func (c *checker) errorf(n glsl.Node, format string, args ...interface{}) {
	c.errorAt(n, n.Pos(), format, args...)
}

func (c *checker) errorAt(n glsl.Node, span glsl.Span, format string, args ...interface{}) {
	c.info.Diagnostics.Errorf(span, format, args...)
	if n != nil {
		n.MarkIncomplete()
	}
}

func (c *checker) push(span glsl.Span) {
	c.scope = newScope(c.scope, span)
}

func (c *checker) pop() {
	c.scope = c.scope.Parent
}

// declare adds sym to the current scope, reporting a redeclaration.
func (c *checker) declare(n glsl.Node, sym *Symbol) {
	if prev := c.scope.LookupLocal(sym.Name); prev != nil {
		c.errorAt(n, sym.Span, "redeclaration of '%s' (previously declared at %s)", sym.Name, prev.Span.Start)
		return
	}
	c.scope.insert(sym)
}

// Declarations

func (c *checker) decl(d glsl.Decl) {
	switch d := d.(type) {
	case *glsl.TypeDecl:
		c.typeDecl(d)
	case *glsl.VarDecl:
		c.varDecl(d)
	case *glsl.FunctionProto:
		c.function(d, false)
	case *glsl.FunctionDef:
		c.functionDef(d)
	case *glsl.InvariantDecl:
		c.invariantDecl(d)
	case *glsl.PrecisionDecl, *glsl.BadDecl:
	}
}

func (c *checker) typeDecl(d *glsl.TypeDecl) {
	fields := make([]glsl.Field, 0, len(d.Fields))
	seen := make(map[string]bool, len(d.Fields))
	complete := true
	for _, f := range d.Fields {
		t := c.resolveSpec(f.Type)
		if t != nil && f.ArraySize != nil {
			t = c.arrayOf(f, t, f.ArraySize)
		}
		if t == nil {
			complete = false
			continue
		}
		if t.Kind == glsl.TypeVoid {
			c.errorAt(f, f.NameSpan, "field '%s' cannot have type void", f.Name)
			complete = false
			continue
		}
		if seen[f.Name] {
			c.errorAt(f, f.NameSpan, "duplicate field '%s' in struct", f.Name)
			continue
		}
		seen[f.Name] = true
		fields = append(fields, glsl.Field{Name: f.Name, Type: t})
	}
	if !complete {
		d.MarkIncomplete()
	}

	name := d.Name
	if name == "" {
		name = "struct"
	}
	d.Type = glsl.StructOf(name, fields)
	if d.Name != "" {
		c.declare(d, &Symbol{Name: d.Name, Kind: SymbolType, Type: d.Type, Span: d.NameSpan, Decl: d})
	}
}

// resolveSpec resolves a type reference and records it on the spec.
func (c *checker) resolveSpec(spec *glsl.TypeSpec) *glsl.Type {
	if spec == nil {
		return nil
	}
	var t *glsl.Type
	switch {
	case spec.Struct != nil:
		t = spec.Struct.Type
	case spec.Name == "":
	default:
		if bt, ok := glsl.LookupBuiltinType(spec.Name); ok {
			t = bt
			break
		}
		sym := c.scope.Lookup(spec.Name)
		if sym == nil || sym.Kind != SymbolType {
			c.errorf(spec, "unknown type '%s'", spec.Name)
			return nil
		}
		t = sym.Type
	}
	spec.Resolved = t
	return t
}

// arrayOf builds the array type of a declarator with the given size
// expression. It returns nil when the size is not a positive constant.
func (c *checker) arrayOf(n glsl.Node, elem *glsl.Type, size glsl.Expr) *glsl.Type {
	st := c.expr(size)
	if st == nil {
		n.MarkIncomplete()
		return nil
	}
	v, ok := c.constInt(size)
	if !st.Equal(glsl.Int) || !ok {
		c.errorf(size, "array size must be a constant integer expression")
		n.MarkIncomplete()
		return nil
	}
	if v <= 0 {
		c.errorf(size, "array size must be greater than zero, got %d", v)
		n.MarkIncomplete()
		return nil
	}
	return glsl.ArrayOf(elem, v)
}

//nolint:gocyclo,cyclop // one rule per qualifier
func (c *checker) varDecl(d *glsl.VarDecl) {
	t := c.resolveSpec(d.Type)
	if t != nil && d.ArraySize != nil {
		t = c.arrayOf(d, t, d.ArraySize)
	}
	d.Resolved = t

	if t != nil {
		switch {
		case t.Kind == glsl.TypeVoid:
			c.errorAt(d, d.NameSpan, "variable '%s' cannot have type void", d.Name)
		case t.ContainsSampler() && d.Qualifier != glsl.StorageUniform:
			c.errorAt(d, d.NameSpan, "sampler variable '%s' must be declared uniform", d.Name)
		case d.Qualifier == glsl.StorageAttribute && !floatingInterfaceType(t, false):
			c.errorAt(d, d.NameSpan, "attribute '%s' cannot have type %s", d.Name, t)
		case d.Qualifier == glsl.StorageVarying && !floatingInterfaceType(t, true):
			c.errorAt(d, d.NameSpan, "varying '%s' cannot have type %s", d.Name, t)
		}
	}

	var value *int
	if d.Init != nil {
		it := c.expr(d.Init)
		if it != nil && t != nil && !it.Equal(t) {
			c.errorf(d.Init, "cannot initialize '%s' of type %s with a value of type %s", d.Name, t, it)
		}
		if d.Qualifier == glsl.StorageConst && t.Equal(glsl.Int) {
			if v, ok := c.constInt(d.Init); ok {
				value = &v
			}
		}
	} else if d.Qualifier == glsl.StorageConst {
		c.errorAt(d, d.NameSpan, "const variable '%s' must be initialized", d.Name)
	}

	c.declare(d, &Symbol{
		Name:      d.Name,
		Kind:      SymbolVariable,
		Type:      t,
		Span:      d.NameSpan,
		Decl:      d,
		Qualifier: d.Qualifier,
		Value:     value,
	})
}

// floatingInterfaceType reports whether t may cross a stage boundary:
// float, float vectors and matrices, and for varyings arrays of those.
func floatingInterfaceType(t *glsl.Type, arrays bool) bool {
	if arrays && t.Kind == glsl.TypeArray {
		t = t.Elem
	}
	switch t.Kind {
	case glsl.TypeScalar, glsl.TypeVector, glsl.TypeMatrix:
		return t.Scalar == glsl.ScalarFloat
	}
	return false
}

func (c *checker) invariantDecl(d *glsl.InvariantDecl) {
	for _, id := range d.Names {
		t := c.expr(id)
		if t == nil {
			continue
		}
		sym := c.info.Uses[id]
		if sym.Qualifier != glsl.StorageVarying && !sym.Builtin {
			c.errorf(id, "'%s' is not a varying and cannot be made invariant", id.Name)
		}
	}
}

// Functions

// function registers a prototype or the header of a definition and
// returns its overload.
func (c *checker) function(proto *glsl.FunctionProto, defined bool) *Overload {
	ret := c.resolveSpec(proto.Return)
	params := make([]*glsl.Type, len(proto.Params))
	for i, p := range proto.Params {
		t := c.resolveSpec(p.Type)
		if t != nil && p.ArraySize != nil {
			t = c.arrayOf(p, t, p.ArraySize)
		}
		if t != nil && t.Kind == glsl.TypeVoid {
			c.errorAt(p, p.Type.Span, "parameter cannot have type void")
			t = nil
		}
		p.Resolved = t
		params[i] = t
	}
	// Array sizes written as constants ("float[N]") key the overload by
	// their folded size so calls and prototypes agree.
	if !slices.Contains(params, nil) {
		proto.Signature = glsl.Signature(proto.Name, typeNames(params)...)
	}

	if len(c.cat.Overloads(proto.Name)) > 0 {
		c.errorAt(proto, proto.NameSpan, "cannot redefine or overload builtin function '%s'", proto.Name)
	}
	if proto.Name == "main" && (proto.Signature != "main()" || !ret.Equal(glsl.Void)) {
		c.errorAt(proto, proto.NameSpan, "main must be declared as 'void main()'")
	}

	sym := c.scope.LookupLocal(proto.Name)
	switch {
	case sym == nil:
		sym = &Symbol{Name: proto.Name, Kind: SymbolFunction, Span: proto.NameSpan}
		c.scope.insert(sym)
	case sym.Kind != SymbolFunction:
		c.errorAt(proto, proto.NameSpan, "'%s' redeclared as a function (previously declared at %s)", proto.Name, sym.Span.Start)
		return &Overload{Signature: proto.Signature, Return: ret, Params: params, Proto: proto}
	}

	o := sym.Overload(proto.Signature)
	if o == nil {
		o = &Overload{Signature: proto.Signature, Return: ret, Params: params, Proto: proto}
		sym.Overloads = append(sym.Overloads, o)
	} else {
		if ret != nil && o.Return != nil && !ret.Equal(o.Return) {
			c.errorAt(proto, proto.NameSpan, "function '%s' returns %s but was declared returning %s at %s",
				proto.Signature, ret, o.Return, o.Proto.NameSpan.Start)
		}
		if defined && o.Defined {
			c.errorAt(proto, proto.NameSpan, "redefinition of function '%s'", proto.Signature)
		}
	}
	if defined {
		o.Defined = true
	}
	return o
}

func (c *checker) functionDef(d *glsl.FunctionDef) {
	c.function(d.Proto, true)

	// Parameters and the outermost block of the body share one scope.
	c.push(d.Span)
	defer c.pop()
	for _, p := range d.Proto.Params {
		if p.Name == "" {
			continue
		}
		qual := glsl.StorageNone
		if p.Const {
			qual = glsl.StorageConst
		}
		c.declare(p, &Symbol{Name: p.Name, Kind: SymbolVariable, Type: p.Resolved, Span: p.NameSpan, Decl: p, Qualifier: qual})
	}

	c.fn, c.fnReturn = d.Proto, d.Proto.Return.Resolved
	defer func() { c.fn, c.fnReturn = nil, nil }()
	if d.Body != nil {
		for _, s := range d.Body.Stmts {
			c.stmt(s)
		}
	}
}

// Statements

//nolint:gocyclo,cyclop // one case per statement kind
func (c *checker) stmt(s glsl.Stmt) {
	switch s := s.(type) {
	case *glsl.Block:
		c.push(s.Span)
		for _, st := range s.Stmts {
			c.stmt(st)
		}
		c.pop()
	case *glsl.DeclStmt:
		for _, d := range s.Decls {
			c.decl(d)
		}
	case *glsl.ExprStmt:
		c.expr(s.X)
	case *glsl.IfStmt:
		c.condition(s.Cond, "if")
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}
	case *glsl.ForStmt:
		c.push(s.Span)
		if s.Init != nil {
			c.stmt(s.Init)
		}
		if s.Cond != nil {
			c.condition(s.Cond, "for")
		}
		if s.Post != nil {
			c.expr(s.Post)
		}
		c.loop(s.Body)
		c.pop()
	case *glsl.WhileStmt:
		c.condition(s.Cond, "while")
		c.loop(s.Body)
	case *glsl.DoWhileStmt:
		c.loop(s.Body)
		c.condition(s.Cond, "do-while")
	case *glsl.ReturnStmt:
		c.returnStmt(s)
	case *glsl.BreakStmt:
		if c.loopDepth == 0 {
			c.errorf(s, "'break' statement not in a loop")
		}
	case *glsl.ContinueStmt:
		if c.loopDepth == 0 {
			c.errorf(s, "'continue' statement not in a loop")
		}
	case *glsl.DiscardStmt:
		if c.stage != glsl.StageFragment {
			c.errorf(s, "'discard' is only allowed in the fragment stage")
		}
	case *glsl.EmptyStmt, *glsl.BadStmt:
	}
}

func (c *checker) loop(body glsl.Stmt) {
	c.loopDepth++
	c.stmt(body)
	c.loopDepth--
}

func (c *checker) condition(e glsl.Expr, construct string) {
	t := c.expr(e)
	if t != nil && !t.Equal(glsl.Bool) {
		c.errorf(e, "%s condition must be bool, got %s", construct, t)
	}
}

func (c *checker) returnStmt(s *glsl.ReturnStmt) {
	if c.fn == nil {
		return
	}
	ret := c.fnReturn
	if s.Value == nil {
		if ret != nil && ret.Kind != glsl.TypeVoid {
			c.errorf(s, "function '%s' must return a value of type %s", c.fn.Name, ret)
		}
		return
	}
	t := c.expr(s.Value)
	switch {
	case t == nil || ret == nil:
	case ret.Kind == glsl.TypeVoid:
		c.errorf(s.Value, "void function '%s' cannot return a value", c.fn.Name)
	case !t.Equal(ret):
		c.errorf(s.Value, "cannot return %s from function '%s' returning %s", t, c.fn.Name, ret)
	}
}

// describeArgs renders argument types for diagnostics.
func describeArgs(types []*glsl.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func candidateList(sigs []string) string {
	if len(sigs) == 0 {
		return ""
	}
	return fmt.Sprintf("; candidates are %s", strings.Join(sigs, ", "))
}
