// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "strings"

// Stage is the shader pipeline stage a translation unit is compiled for.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// ParseStage converts "vertex"/"fragment" (or the short forms "vert"/"frag")
// into a Stage.
func ParseStage(name string) (Stage, bool) {
	switch name {
	case "vertex", "vert", "vs":
		return StageVertex, true
	case "fragment", "frag", "fs":
		return StageFragment, true
	}
	return StageVertex, false
}

// Precision is a precision qualifier.
type Precision uint8

const (
	PrecisionNone Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

// String returns the qualifier spelling.
func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	default:
		return ""
	}
}

// StorageQualifier is the storage qualifier of a variable declaration.
type StorageQualifier uint8

const (
	StorageNone StorageQualifier = iota
	StorageConst
	StorageAttribute
	StorageUniform
	StorageVarying
)

// String returns the qualifier spelling.
func (q StorageQualifier) String() string {
	switch q {
	case StorageConst:
		return "const"
	case StorageAttribute:
		return "attribute"
	case StorageUniform:
		return "uniform"
	case StorageVarying:
		return "varying"
	default:
		return ""
	}
}

// ParamQualifier is the direction of a function parameter.
type ParamQualifier uint8

const (
	ParamIn ParamQualifier = iota
	ParamOut
	ParamInout
)

// String returns the qualifier spelling.
func (q ParamQualifier) String() string {
	switch q {
	case ParamOut:
		return "out"
	case ParamInout:
		return "inout"
	default:
		return "in"
	}
}

// NodeInfo is embedded in every node.
type NodeInfo struct {
	Span Span
	// Incomplete is set when parse or semantic recovery happened at or
	// below this node.
	Incomplete bool
}

// Pos returns the source span of the node.
func (n *NodeInfo) Pos() Span { return n.Span }

// IsIncomplete reports whether recovery happened at or below the node.
func (n *NodeInfo) IsIncomplete() bool { return n.Incomplete }

// MarkIncomplete flags the node.
func (n *NodeInfo) MarkIncomplete() { n.Incomplete = true }

// Node is the base interface for all AST nodes.
type Node interface {
	Pos() Span
	IsIncomplete() bool
	MarkIncomplete()
}

// Decl is the interface for declarations.
type Decl interface {
	Node
	declNode()
}

// Stmt is the interface for statements.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the interface for expressions.
type Expr interface {
	Node
	exprNode()
	// ResolvedType returns the type the checker assigned, or nil.
	ResolvedType() *Type
	SetType(t *Type)
}

// ExprInfo is embedded in every expression node.
type ExprInfo struct {
	NodeInfo
	// Type is filled by the type checker; nil until then or when the
	// expression could not be typed.
	Type *Type
}

// ResolvedType returns the checked type of the expression.
func (e *ExprInfo) ResolvedType() *Type { return e.Type }

// SetType records the checked type of the expression.
func (e *ExprInfo) SetType(t *Type) { e.Type = t }

// Directive is a preprocessor line kept on the translation unit.
type Directive struct {
	Name string // "version", "extension", "pragma", "define", ...
	Text string // everything after the name
	Span Span
}

// TranslationUnit is the root of a parsed shader.
type TranslationUnit struct {
	NodeInfo
	Stage      Stage
	Directives []Directive
	Decls      []Decl
}

// TypeSpec is a type reference with an optional precision. Array sizes
// live on the declarator, not on the TypeSpec.
type TypeSpec struct {
	NodeInfo
	Precision Precision
	Name      string
	// Struct points at the TypeDecl of an inline `struct { ... } x;`
	// definition. The TypeDecl is owned by the enclosing declaration list,
	// so it is not a child of the TypeSpec.
	Struct   *TypeDecl
	Resolved *Type
}

// Clone returns a copy of the type reference for another declarator.
func (s *TypeSpec) Clone() *TypeSpec {
	c := *s
	return &c
}

// TypeDecl declares a struct type. Builtin types are also represented as
// completed TypeDecls by the builtin catalogue.
type TypeDecl struct {
	NodeInfo
	Name     string
	NameSpan Span
	Fields   []*FieldDecl
	Builtin  bool
	Token    Token // the declaring token (synthetic for builtins)
	Type     *Type
}

// FieldDecl is one member of a struct.
type FieldDecl struct {
	NodeInfo
	Type      *TypeSpec
	Name      string
	NameSpan  Span
	ArraySize Expr
}

// FunctionProto is a function header. On its own it is a prototype
// declaration; inside a FunctionDef it heads the definition.
type FunctionProto struct {
	NodeInfo
	Return   *TypeSpec
	Name     string
	NameSpan Span
	Params   []*ParamDecl
	// Signature is the overload key, e.g. "shade(vec3,float)".
	Signature string
}

// FunctionDef is a function with a body.
type FunctionDef struct {
	NodeInfo
	Proto *FunctionProto
	Body  *Block
}

// ParamDecl is a function parameter. Name may be empty in prototypes.
type ParamDecl struct {
	NodeInfo
	Qualifier ParamQualifier
	Const     bool
	Type      *TypeSpec
	Name      string
	NameSpan  Span
	ArraySize Expr
	Resolved  *Type
}

// VarDecl declares a single variable. A declaration with several
// declarators produces one VarDecl per name.
type VarDecl struct {
	NodeInfo
	Qualifier StorageQualifier
	Invariant bool
	Type      *TypeSpec
	Name      string
	NameSpan  Span
	ArraySize Expr
	Init      Expr
	Resolved  *Type
}

// InvariantDecl re-declares existing varyings as invariant:
// `invariant gl_Position, vColor;`.
type InvariantDecl struct {
	NodeInfo
	Names []*Ident
}

// PrecisionDecl sets the default precision for a type.
type PrecisionDecl struct {
	NodeInfo
	Precision Precision
	Type      *TypeSpec
}

// BadDecl stands in for a declaration that failed to parse.
type BadDecl struct {
	NodeInfo
}

// Signature builds an overload key from a function name and its ordered
// parameter type names: Signature("mix", "vec3", "vec3", "float") is
// "mix(vec3,vec3,float)".
func Signature(name string, params ...string) string {
	return name + "(" + strings.Join(params, ",") + ")"
}

func (*TypeDecl) declNode()      {}
func (*FunctionProto) declNode() {}
func (*FunctionDef) declNode()   {}
func (*VarDecl) declNode()       {}
func (*InvariantDecl) declNode() {}
func (*PrecisionDecl) declNode() {}
func (*BadDecl) declNode()       {}

// Statements

// Block is a compound statement.
type Block struct {
	NodeInfo
	Stmts []Stmt
}

// DeclStmt is a declaration inside a function body. Decls holds
// *VarDecl and, for local structs, *TypeDecl nodes.
type DeclStmt struct {
	NodeInfo
	Decls []Decl
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	NodeInfo
	X Expr
}

// IfStmt is an if statement with an optional else branch.
type IfStmt struct {
	NodeInfo
	Cond Expr
	Then Stmt
	Else Stmt
}

// ForStmt is a for loop. Init is a *DeclStmt or *ExprStmt, or nil.
type ForStmt struct {
	NodeInfo
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

// WhileStmt is a while loop.
type WhileStmt struct {
	NodeInfo
	Cond Expr
	Body Stmt
}

// DoWhileStmt is a do-while loop.
type DoWhileStmt struct {
	NodeInfo
	Body Stmt
	Cond Expr
}

// ReturnStmt is a return with an optional value.
type ReturnStmt struct {
	NodeInfo
	Value Expr
}

// BreakStmt is a break statement.
type BreakStmt struct{ NodeInfo }

// ContinueStmt is a continue statement.
type ContinueStmt struct{ NodeInfo }

// DiscardStmt is a fragment-stage discard.
type DiscardStmt struct{ NodeInfo }

// EmptyStmt is a lone semicolon.
type EmptyStmt struct{ NodeInfo }

// BadStmt stands in for a statement that failed to parse.
type BadStmt struct{ NodeInfo }

func (*Block) stmtNode()        {}
func (*DeclStmt) stmtNode()     {}
func (*ExprStmt) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*ForStmt) stmtNode()      {}
func (*WhileStmt) stmtNode()    {}
func (*DoWhileStmt) stmtNode()  {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*DiscardStmt) stmtNode()  {}
func (*EmptyStmt) stmtNode()    {}
func (*BadStmt) stmtNode()      {}

// Expressions

// Literal is an int, float or bool literal.
type Literal struct {
	ExprInfo
	Kind  TokenKind // TokenIntLiteral, TokenFloatLiteral or TokenBoolLiteral
	Value string
}

// Ident is a reference to a named value.
type Ident struct {
	ExprInfo
	Name string
}

// CallExpr is a function call or a constructor.
type CallExpr struct {
	ExprInfo
	Callee      string
	CalleeSpan  Span
	Constructor bool // callee is a type name
	Args        []Expr
	// Signature is the overload the checker resolved the call to.
	Signature string
}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	ExprInfo
	Op     TokenKind
	OpSpan Span
	Left   Expr
	Right  Expr
}

// UnaryExpr is a prefix or postfix unary operation.
type UnaryExpr struct {
	ExprInfo
	Op      TokenKind
	Postfix bool
	Operand Expr
}

// IndexExpr is an array, vector or matrix subscript.
type IndexExpr struct {
	ExprInfo
	X     Expr
	Index Expr
}

// MemberExpr is a struct field access or a vector swizzle. Member is
// empty when the parser saw a '.' without a following name.
type MemberExpr struct {
	ExprInfo
	X          Expr
	Member     string
	MemberSpan Span
	Swizzle    bool // set by the checker
}

// AssignExpr is an assignment or compound assignment.
type AssignExpr struct {
	ExprInfo
	Op    TokenKind
	Left  Expr
	Right Expr
}

// CondExpr is the ternary selection operator.
type CondExpr struct {
	ExprInfo
	Cond Expr
	Then Expr
	Else Expr
}

// SequenceExpr is the comma operator.
type SequenceExpr struct {
	ExprInfo
	List []Expr
}

// BadExpr stands in for an expression that failed to parse.
type BadExpr struct {
	ExprInfo
}

func (*Literal) exprNode()      {}
func (*Ident) exprNode()        {}
func (*CallExpr) exprNode()     {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*IndexExpr) exprNode()    {}
func (*MemberExpr) exprNode()   {}
func (*AssignExpr) exprNode()   {}
func (*CondExpr) exprNode()     {}
func (*SequenceExpr) exprNode() {}
func (*BadExpr) exprNode()      {}
