// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"encoding/json"
	"fmt"
)

// TreeOptions controls AST serialization.
type TreeOptions struct {
	// OmitSpans drops every "span" member, which makes trees parsed from
	// differently laid out sources comparable.
	OmitSpans bool
	// OmitTypes drops the checker annotations.
	OmitTypes bool
}

// Tree converts a node into a generic JSON-ready value. Every object has
// "kind" and "incomplete", plus "span" unless omitted, plus per-kind
// members. Nil children are left out.
//
//nolint:gocyclo,cyclop,funlen // one case per node kind
func Tree(n Node, opts TreeOptions) map[string]any {
	if n == nil || isNilNode(n) {
		return nil
	}
	out := map[string]any{"incomplete": n.IsIncomplete()}
	if !opts.OmitSpans {
		out["span"] = spanTree(n.Pos())
	}
	if e, ok := n.(Expr); ok && !opts.OmitTypes && e.ResolvedType() != nil {
		out["type"] = e.ResolvedType().String()
	}

	list := func(nodes []Node) []any {
		items := make([]any, 0, len(nodes))
		for _, c := range nodes {
			items = append(items, Tree(c, opts))
		}
		return items
	}
	child := func(key string, c Node) {
		if c != nil && !isNilNode(c) {
			out[key] = Tree(c, opts)
		}
	}
	resolved := func(t *Type) {
		if t != nil && !opts.OmitTypes {
			out["resolved"] = t.String()
		}
	}

	switch n := n.(type) {
	case *TranslationUnit:
		out["kind"] = "TranslationUnit"
		out["stage"] = n.Stage.String()
		dirs := make([]any, 0, len(n.Directives))
		for _, d := range n.Directives {
			dirs = append(dirs, map[string]any{"name": d.Name, "text": d.Text})
		}
		out["directives"] = dirs
		out["decls"] = list(Children(n))
	case *TypeSpec:
		out["kind"] = "TypeSpec"
		out["name"] = n.Name
		if n.Precision != PrecisionNone {
			out["precision"] = n.Precision.String()
		}
		resolved(n.Resolved)
	case *TypeDecl:
		out["kind"] = "TypeDecl"
		out["name"] = n.Name
		out["fields"] = list(Children(n))
	case *FieldDecl:
		out["kind"] = "FieldDecl"
		out["name"] = n.Name
		child("type", n.Type)
		child("arraySize", n.ArraySize)
	case *FunctionProto:
		out["kind"] = "FunctionProto"
		out["name"] = n.Name
		out["signature"] = n.Signature
		child("return", n.Return)
		params := make([]Node, len(n.Params))
		for i, param := range n.Params {
			params[i] = param
		}
		out["params"] = list(params)
	case *FunctionDef:
		out["kind"] = "FunctionDef"
		child("proto", n.Proto)
		child("body", n.Body)
	case *ParamDecl:
		out["kind"] = "ParamDecl"
		out["name"] = n.Name
		out["qualifier"] = n.Qualifier.String()
		if n.Const {
			out["const"] = true
		}
		child("type", n.Type)
		child("arraySize", n.ArraySize)
		resolved(n.Resolved)
	case *VarDecl:
		out["kind"] = "VarDecl"
		out["name"] = n.Name
		if n.Qualifier != StorageNone {
			out["qualifier"] = n.Qualifier.String()
		}
		if n.Invariant {
			out["invariant"] = true
		}
		child("type", n.Type)
		child("arraySize", n.ArraySize)
		child("init", n.Init)
		resolved(n.Resolved)
	case *InvariantDecl:
		out["kind"] = "InvariantDecl"
		out["names"] = list(Children(n))
	case *PrecisionDecl:
		out["kind"] = "PrecisionDecl"
		out["precision"] = n.Precision.String()
		child("type", n.Type)
	case *BadDecl:
		out["kind"] = "BadDecl"

	case *Block:
		out["kind"] = "Block"
		out["stmts"] = list(Children(n))
	case *DeclStmt:
		out["kind"] = "DeclStmt"
		out["decls"] = list(Children(n))
	case *ExprStmt:
		out["kind"] = "ExprStmt"
		child("expr", n.X)
	case *IfStmt:
		out["kind"] = "IfStmt"
		child("cond", n.Cond)
		child("then", n.Then)
		child("else", n.Else)
	case *ForStmt:
		out["kind"] = "ForStmt"
		child("init", n.Init)
		child("cond", n.Cond)
		child("post", n.Post)
		child("body", n.Body)
	case *WhileStmt:
		out["kind"] = "WhileStmt"
		child("cond", n.Cond)
		child("body", n.Body)
	case *DoWhileStmt:
		out["kind"] = "DoWhileStmt"
		child("body", n.Body)
		child("cond", n.Cond)
	case *ReturnStmt:
		out["kind"] = "ReturnStmt"
		child("value", n.Value)
	case *BreakStmt:
		out["kind"] = "BreakStmt"
	case *ContinueStmt:
		out["kind"] = "ContinueStmt"
	case *DiscardStmt:
		out["kind"] = "DiscardStmt"
	case *EmptyStmt:
		out["kind"] = "EmptyStmt"
	case *BadStmt:
		out["kind"] = "BadStmt"

	case *Literal:
		out["kind"] = "Literal"
		out["literal"] = n.Kind.String()
		out["value"] = n.Value
	case *Ident:
		out["kind"] = "Ident"
		out["name"] = n.Name
	case *CallExpr:
		out["kind"] = "CallExpr"
		out["callee"] = n.Callee
		if n.Constructor {
			out["constructor"] = true
		}
		if n.Signature != "" && !opts.OmitTypes {
			out["signature"] = n.Signature
		}
		out["args"] = list(Children(n))
	case *BinaryExpr:
		out["kind"] = "BinaryExpr"
		out["op"] = n.Op.String()
		child("left", n.Left)
		child("right", n.Right)
	case *UnaryExpr:
		out["kind"] = "UnaryExpr"
		out["op"] = n.Op.String()
		if n.Postfix {
			out["postfix"] = true
		}
		child("operand", n.Operand)
	case *IndexExpr:
		out["kind"] = "IndexExpr"
		child("x", n.X)
		child("index", n.Index)
	case *MemberExpr:
		out["kind"] = "MemberExpr"
		out["member"] = n.Member
		if n.Swizzle && !opts.OmitTypes {
			out["swizzle"] = true
		}
		child("x", n.X)
	case *AssignExpr:
		out["kind"] = "AssignExpr"
		out["op"] = n.Op.String()
		child("left", n.Left)
		child("right", n.Right)
	case *CondExpr:
		out["kind"] = "CondExpr"
		child("cond", n.Cond)
		child("then", n.Then)
		child("else", n.Else)
	case *SequenceExpr:
		out["kind"] = "SequenceExpr"
		out["list"] = list(Children(n))
	case *BadExpr:
		out["kind"] = "BadExpr"
	default:
		out["kind"] = fmt.Sprintf("%T", n)
	}
	return out
}

func spanTree(s Span) map[string]any {
	pos := func(p Position) map[string]any {
		return map[string]any{"line": p.Line, "column": p.Column, "offset": p.Offset}
	}
	return map[string]any{"start": pos(s.Start), "end": pos(s.End)}
}

// Marshal serializes a node as indented JSON. Object members are written
// in sorted key order, so equal trees produce identical bytes.
func Marshal(n Node, opts TreeOptions) ([]byte, error) {
	data, err := json.MarshalIndent(Tree(n, opts), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", n, err)
	}
	return append(data, '\n'), nil
}
