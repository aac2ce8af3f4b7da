// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package check

import (
	"errors"
	"strconv"

	"github.com/gogpu/glsles/builtins"
	"github.com/gogpu/glsles/glsl"
)

// expr checks e, records its type and returns it. A nil result means the
// expression could not be typed; the error has already been reported.
func (c *checker) expr(e glsl.Expr) *glsl.Type {
	if e == nil {
		return nil
	}
	t := c.exprInner(e)
	e.SetType(t)
	return t
}

//nolint:gocyclo,cyclop // one case per expression kind
func (c *checker) exprInner(e glsl.Expr) *glsl.Type {
	switch e := e.(type) {
	case *glsl.Literal:
		switch e.Kind {
		case glsl.TokenIntLiteral:
			if _, err := strconv.ParseInt(e.Value, 0, 32); errors.Is(err, strconv.ErrRange) {
				c.errorf(e, "integer literal %s is out of range", e.Value)
			} else if err != nil {
				c.errorf(e, "invalid integer literal %s", e.Value)
			}
			return glsl.Int
		case glsl.TokenFloatLiteral:
			return glsl.Float
		case glsl.TokenBoolLiteral:
			return glsl.Bool
		}
	case *glsl.Ident:
		return c.ident(e)
	case *glsl.CallExpr:
		return c.call(e)
	case *glsl.BinaryExpr:
		return c.binary(e)
	case *glsl.UnaryExpr:
		return c.unary(e)
	case *glsl.IndexExpr:
		return c.index(e)
	case *glsl.MemberExpr:
		return c.member(e)
	case *glsl.AssignExpr:
		return c.assign(e)
	case *glsl.CondExpr:
		c.condition(e.Cond, "'?:'")
		then, els := c.expr(e.Then), c.expr(e.Else)
		if then == nil || els == nil {
			return nil
		}
		if !then.Equal(els) {
			c.errorf(e, "branches of '?:' have different types %s and %s", then, els)
			return nil
		}
		return then
	case *glsl.SequenceExpr:
		var t *glsl.Type
		for _, x := range e.List {
			t = c.expr(x)
		}
		return t
	case *glsl.BadExpr:
	}
	return nil
}

func (c *checker) ident(e *glsl.Ident) *glsl.Type {
	if e.Name == "" {
		return nil
	}
	sym := c.scope.Lookup(e.Name)
	if sym == nil {
		c.errorf(e, "undeclared identifier '%s'", e.Name)
		return nil
	}
	if sym.Kind != SymbolVariable {
		c.errorf(e, "'%s' is a %s, not a variable", e.Name, sym.Kind)
		return nil
	}
	c.info.Uses[e] = sym
	return sym.Type
}

func (c *checker) binary(e *glsl.BinaryExpr) *glsl.Type {
	l, r := c.expr(e.Left), c.expr(e.Right)
	if l == nil || r == nil || e.Op.IsReservedOp() {
		return nil
	}
	return c.operator(e, e.Op, l, r)
}

// operator resolves a binary operator over operand types l and r.
func (c *checker) operator(n glsl.Node, op glsl.TokenKind, l, r *glsl.Type) *glsl.Type {
	if op == glsl.TokenEqualEqual || op == glsl.TokenBangEqual {
		if l.Kind == glsl.TypeStruct || l.Kind == glsl.TypeArray {
			switch {
			case !l.Equal(r):
			case l.Kind == glsl.TypeArray:
				c.errorf(n, "arrays cannot be compared with '%s'", op)
				return nil
			case l.ContainsSampler():
				c.errorf(n, "structs containing samplers cannot be compared with '%s'", op)
				return nil
			default:
				return glsl.Bool
			}
		}
	}
	f, ok := c.cat.Operator(builtins.OperatorSignature(op, l, r))
	if !ok {
		c.errorf(n, "no operator '%s' for operands of type %s and %s", op, l, r)
		return nil
	}
	return f.Return
}

func (c *checker) unary(e *glsl.UnaryExpr) *glsl.Type {
	t := c.expr(e.Operand)
	if t == nil || e.Op.IsReservedOp() {
		return nil
	}
	if e.Op == glsl.TokenPlusPlus || e.Op == glsl.TokenMinusMinus {
		c.lvalue(e.Operand)
	}
	f, ok := c.cat.Operator(builtins.OperatorSignature(e.Op, t))
	if !ok {
		c.errorf(e, "no operator '%s' for operand of type %s", e.Op, t)
		return nil
	}
	return f.Return
}

func (c *checker) assign(e *glsl.AssignExpr) *glsl.Type {
	l, r := c.expr(e.Left), c.expr(e.Right)
	if l != nil {
		c.lvalue(e.Left)
	}
	if l == nil || r == nil {
		return l
	}
	if e.Op == glsl.TokenEqual {
		if !l.Equal(r) {
			c.errorf(e, "cannot assign a value of type %s to %s", r, l)
		}
		return l
	}
	op, ok := e.Op.BinaryOpOf()
	if !ok || op.IsReservedOp() {
		return l
	}
	// a op= b is valid when a op b resolves to the type of a.
	f, ok := c.cat.Operator(builtins.OperatorSignature(op, l, r))
	if !ok || !f.Return.Equal(l) {
		c.errorf(e, "no operator '%s' for operands of type %s and %s", e.Op, l, r)
	}
	return l
}

func (c *checker) index(e *glsl.IndexExpr) *glsl.Type {
	x, idx := c.expr(e.X), c.expr(e.Index)
	if idx != nil && !idx.Equal(glsl.Int) {
		c.errorf(e.Index, "index must be int, got %s", idx)
		return nil
	}
	if x == nil {
		return nil
	}

	var elem *glsl.Type
	switch x.Kind {
	case glsl.TypeVector:
		elem = glsl.ScalarOf(x.Scalar)
	case glsl.TypeMatrix:
		elem = glsl.VectorOf(glsl.ScalarFloat, x.Length)
	case glsl.TypeArray:
		elem = x.Elem
	default:
		c.errorf(e, "cannot index a value of type %s", x)
		return nil
	}
	if v, ok := c.constInt(e.Index); ok && (v < 0 || v >= x.Length) {
		c.errorf(e.Index, "index %d out of range for %s", v, x)
	}
	return elem
}

func (c *checker) member(e *glsl.MemberExpr) *glsl.Type {
	x := c.expr(e.X)
	if x == nil || e.Member == "" {
		return nil
	}
	switch x.Kind {
	case glsl.TypeStruct:
		f, ok := x.Field(e.Member)
		if !ok {
			c.errorAt(e, e.MemberSpan, "no field '%s' in struct %s", e.Member, x)
			return nil
		}
		return f.Type
	case glsl.TypeVector:
		e.Swizzle = true
		return c.swizzle(e, x)
	}
	c.errorAt(e, e.MemberSpan, "cannot select '%s' from a value of type %s", e.Member, x)
	return nil
}

// Calls

func (c *checker) call(e *glsl.CallExpr) *glsl.Type {
	args := make([]*glsl.Type, len(e.Args))
	typed := true
	for i, a := range e.Args {
		args[i] = c.expr(a)
		if args[i] == nil {
			typed = false
		}
	}

	if t, ok := glsl.LookupBuiltinType(e.Callee); ok {
		if !typed {
			return nil
		}
		return c.construct(e, t, args)
	}
	sym := c.scope.Lookup(e.Callee)
	if sym != nil && sym.Kind == SymbolType {
		if !typed {
			return nil
		}
		return c.construct(e, sym.Type, args)
	}
	if sym != nil && sym.Kind == SymbolVariable {
		c.errorAt(e, e.CalleeSpan, "'%s' is a variable, not a function", e.Callee)
		return nil
	}
	if !typed {
		return nil
	}

	sig := glsl.Signature(e.Callee, typeNames(args)...)
	if sym != nil {
		if o := sym.Overload(sig); o != nil {
			e.Signature = sig
			c.outArgs(e, o.Proto)
			return o.Return
		}
		var sigs []string
		for _, o := range sym.Overloads {
			sigs = append(sigs, o.Signature)
		}
		c.errorAt(e, e.CalleeSpan, "no matching overload for call to %s%s%s", e.Callee, describeArgs(args), candidateList(sigs))
		return nil
	}

	overloads := c.cat.Overloads(e.Callee)
	if len(overloads) == 0 {
		c.errorAt(e, e.CalleeSpan, "call to undeclared function '%s'", e.Callee)
		return nil
	}
	f, ok := c.cat.Function(sig)
	if !ok {
		var sigs []string
		for _, o := range overloads {
			if o.Stages.Has(c.stage) {
				sigs = append(sigs, o.Signature)
			}
		}
		c.errorAt(e, e.CalleeSpan, "no matching overload for call to %s%s%s", e.Callee, describeArgs(args), candidateList(sigs))
		return nil
	}
	if !f.Stages.Has(c.stage) {
		c.errorAt(e, e.CalleeSpan, "'%s' is not available in the %s stage", f.Signature, c.stage)
		return nil
	}
	e.Signature = sig
	return f.Return
}

// outArgs checks that arguments bound to out and inout parameters are
// assignable.
func (c *checker) outArgs(e *glsl.CallExpr, proto *glsl.FunctionProto) {
	for i, p := range proto.Params {
		if i < len(e.Args) && p.Qualifier != glsl.ParamIn {
			c.lvalue(e.Args[i])
		}
	}
}

func typeNames(types []*glsl.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// L-values

// lvalue reports an error unless e denotes assignable storage.
func (c *checker) lvalue(e glsl.Expr) {
	switch e := e.(type) {
	case *glsl.Ident:
		sym := c.info.Uses[e]
		if sym == nil {
			return
		}
		switch {
		case sym.Builtin && (sym.ReadOnly || sym.Qualifier == glsl.StorageConst):
			c.errorf(e, "cannot assign to read-only builtin '%s'", e.Name)
		case sym.Qualifier == glsl.StorageConst:
			if _, ok := sym.Decl.(*glsl.ParamDecl); ok {
				c.errorf(e, "cannot assign to const parameter '%s'", e.Name)
			} else {
				c.errorf(e, "cannot assign to const variable '%s'", e.Name)
			}
		case sym.Qualifier == glsl.StorageUniform, sym.Qualifier == glsl.StorageAttribute:
			c.errorf(e, "cannot assign to %s '%s'", sym.Qualifier, e.Name)
		case sym.Qualifier == glsl.StorageVarying && c.stage == glsl.StageFragment:
			c.errorf(e, "cannot assign to varying '%s' in the fragment stage", e.Name)
		}
	case *glsl.IndexExpr:
		c.lvalue(e.X)
	case *glsl.MemberExpr:
		if e.Swizzle && hasRepeats(e.Member) {
			c.errorAt(e, e.MemberSpan, "swizzle '%s' has repeated components and cannot be assigned", e.Member)
		}
		c.lvalue(e.X)
	case *glsl.BadExpr:
	default:
		if e.ResolvedType() != nil {
			c.errorf(e, "expression is not assignable")
		}
	}
}

// Constants

// constInt folds an integer constant expression: literals, int consts with
// folded initializers, and + - * / over them.
func (c *checker) constInt(e glsl.Expr) (int, bool) {
	switch e := e.(type) {
	case *glsl.Literal:
		if e.Kind != glsl.TokenIntLiteral {
			return 0, false
		}
		v, err := strconv.ParseInt(e.Value, 0, 32)
		return int(v), err == nil
	case *glsl.Ident:
		if sym := c.scope.Lookup(e.Name); sym != nil && sym.Value != nil {
			return *sym.Value, true
		}
	case *glsl.UnaryExpr:
		v, ok := c.constInt(e.Operand)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case glsl.TokenMinus:
			return -v, true
		case glsl.TokenPlus:
			return v, true
		}
	case *glsl.BinaryExpr:
		l, lok := c.constInt(e.Left)
		r, rok := c.constInt(e.Right)
		if !lok || !rok {
			return 0, false
		}
		switch e.Op {
		case glsl.TokenPlus:
			return l + r, true
		case glsl.TokenMinus:
			return l - r, true
		case glsl.TokenStar:
			return l * r, true
		case glsl.TokenSlash:
			if r != 0 {
				return l / r, true
			}
		}
	}
	return 0, false
}
