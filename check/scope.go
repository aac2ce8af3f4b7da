// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package check

import (
	"github.com/gogpu/glsles/builtins"
	"github.com/gogpu/glsles/glsl"
)

// SymbolKind classifies a Symbol.
type SymbolKind uint8

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolType
)

// String returns the kind name.
func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolType:
		return "type"
	default:
		return "variable"
	}
}

// Symbol is a named entity in a scope.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Type is the variable type or the struct type. Functions keep their
	// types on Overloads.
	Type *glsl.Type
	// Span is the declaring name. Builtins carry a builtin span.
	Span glsl.Span
	// Decl is the declaring node: *glsl.VarDecl, *glsl.ParamDecl or
	// *glsl.TypeDecl. It is nil for builtins and functions.
	Decl glsl.Node

	Qualifier glsl.StorageQualifier
	Builtin   bool
	ReadOnly  bool
	// Value is the folded value of an int constant.
	Value *int

	Overloads []*Overload
}

// Overload is one signature of a user function.
type Overload struct {
	Signature string
	Return    *glsl.Type
	Params    []*glsl.Type
	Proto     *glsl.FunctionProto
	Defined   bool
}

// Overload returns the overload with the exact signature.
func (s *Symbol) Overload(signature string) *Overload {
	for _, o := range s.Overloads {
		if o.Signature == signature {
			return o
		}
	}
	return nil
}

// Scope is a lexical scope. Symbols keep declaration order.
type Scope struct {
	Parent   *Scope
	Children []*Scope
	Span     glsl.Span
	Symbols  []*Symbol

	index map[string]*Symbol
}

func newScope(parent *Scope, span glsl.Span) *Scope {
	s := &Scope{Parent: parent, Span: span, index: make(map[string]*Symbol)}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// LookupLocal finds a symbol declared directly in s.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.index[name]
}

// Lookup finds a symbol in s or the nearest enclosing scope.
func (s *Scope) Lookup(name string) *Symbol {
	for ; s != nil; s = s.Parent {
		if sym := s.index[name]; sym != nil {
			return sym
		}
	}
	return nil
}

// Innermost returns the deepest scope below s whose span contains offset,
// or s itself.
func (s *Scope) Innermost(offset int) *Scope {
	for {
		var next *Scope
		for _, c := range s.Children {
			if c.Span.Contains(offset) {
				next = c
			}
		}
		if next == nil {
			return s
		}
		s = next
	}
}

func (s *Scope) insert(sym *Symbol) {
	s.Symbols = append(s.Symbols, sym)
	s.index[sym.Name] = sym
}

// builtinScope holds the builtin variables legal in stage.
func builtinScope(cat *builtins.Catalogue, stage glsl.Stage) *Scope {
	s := newScope(nil, glsl.BuiltinSpan(0))
	for _, v := range cat.Variables {
		if !v.Stages.Has(stage) {
			continue
		}
		sym := &Symbol{
			Name:     v.Name,
			Kind:     SymbolVariable,
			Type:     v.Type,
			Span:     v.Token.Span,
			Builtin:  true,
			ReadOnly: v.ReadOnly,
		}
		if v.Const {
			sym.Qualifier = glsl.StorageConst
			value := v.Value
			sym.Value = &value
		}
		s.insert(sym)
	}
	return s
}
