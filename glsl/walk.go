// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

// Children returns the direct children of n in source order.
//
//nolint:gocyclo,cyclop // one case per node kind
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *TranslationUnit:
		for _, d := range n.Decls {
			add(d)
		}
	case *TypeDecl:
		for _, f := range n.Fields {
			add(f)
		}
	case *FieldDecl:
		add(n.Type)
		add(n.ArraySize)
	case *FunctionProto:
		add(n.Return)
		for _, p := range n.Params {
			add(p)
		}
	case *FunctionDef:
		add(n.Proto)
		add(n.Body)
	case *ParamDecl:
		add(n.Type)
		add(n.ArraySize)
	case *VarDecl:
		add(n.Type)
		add(n.ArraySize)
		add(n.Init)
	case *InvariantDecl:
		for _, id := range n.Names {
			add(id)
		}
	case *PrecisionDecl:
		add(n.Type)
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *DeclStmt:
		for _, d := range n.Decls {
			add(d)
		}
	case *ExprStmt:
		add(n.X)
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *ForStmt:
		add(n.Init)
		add(n.Cond)
		add(n.Post)
		add(n.Body)
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *DoWhileStmt:
		add(n.Body)
		add(n.Cond)
	case *ReturnStmt:
		add(n.Value)
	case *CallExpr:
		for _, a := range n.Args {
			add(a)
		}
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.Operand)
	case *IndexExpr:
		add(n.X)
		add(n.Index)
	case *MemberExpr:
		add(n.X)
	case *AssignExpr:
		add(n.Left)
		add(n.Right)
	case *CondExpr:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *SequenceExpr:
		for _, e := range n.List {
			add(e)
		}
	}
	return out
}

// isNilNode catches typed nil pointers stored in a Node interface.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *TypeSpec:
		return n == nil
	case *ParamDecl:
		return n == nil
	case *FieldDecl:
		return n == nil
	case *TypeDecl:
		return n == nil
	case *FunctionProto:
		return n == nil
	case *Block:
		return n == nil
	case *Ident:
		return n == nil
	}
	return false
}

// Inspect traverses the tree depth-first. If f returns false the
// children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || isNilNode(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// PropagateIncomplete marks every node that has an incomplete descendant
// and reports whether n itself ended up incomplete.
func PropagateIncomplete(n Node) bool {
	incomplete := n.IsIncomplete()
	for _, c := range Children(n) {
		if PropagateIncomplete(c) {
			incomplete = true
		}
	}
	if incomplete {
		n.MarkIncomplete()
	}
	return incomplete
}

// Path returns the chain of nodes from n down to the innermost node whose
// span contains offset. It is empty when n itself does not contain it.
func Path(n Node, offset int) []Node {
	var path []Node
	for n != nil {
		if !n.Pos().Contains(offset) {
			break
		}
		path = append(path, n)
		var next Node
		for _, c := range Children(n) {
			if c.Pos().Contains(offset) {
				next = c
			}
		}
		n = next
	}
	return path
}
