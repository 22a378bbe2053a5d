package syntax

import "github.com/weft-lang/weft/internal/src"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 3 main classes of nodes: Expressions (including type
// expressions), Statements, and Declarations. All nodes implement the Node
// interface.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() src.Pos // position of first character belonging to the node
	aNode()       // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Node
	aDecl()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos src.Pos
}

func (n *node) Pos() src.Pos { return n.pos }
func (n *node) aNode()       {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ node }

func (*decl) aDecl() {}

// ----------------------------------------------------------------------------
// Programs and Declarations

// Program is the root of a parsed compilation unit.
type Program struct {
	node
	Decls []Decl
}

// Visibility is the access level of a declaration or class member.
type Visibility uint8

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	}
	return "public"
}

// VarDecl represents a variable or field declaration:
//
//	int x = 1;        (Keyword == 0, C form)
//	let x: int = 1;
//	const k = 2;
type VarDecl struct {
	decl
	Name    *Name
	Type    Expr // nil if inferred
	Value   Expr // nil if none
	Keyword Tok  // _Let, _Var, _Const, or 0 for the C form
	Vis     Visibility
}

// IsConst reports whether the variable was declared const.
func (d *VarDecl) IsConst() bool { return d.Keyword == _Const }

// FuncForm tells which surface syntax a function was written in.
type FuncForm uint8

const (
	CForm       FuncForm = iota // int add(int a, int b)
	KeywordForm                 // function add(a: int, b: int): int
)

// FuncDecl represents a function, method, constructor or prototype.
// A nil Body marks a forward declaration.
type FuncDecl struct {
	decl
	Name       *Name
	TypeParams []*Name
	Params     []*Field
	Result     Expr // nil for void (C form) or unannotated (keyword form)
	Body       *BlockStmt
	Form       FuncForm
	Ctor       bool
	Vis        Visibility
}

// Field represents a function parameter.
type Field struct {
	node
	Name *Name // nil for unnamed C prototype parameters
	Type Expr  // nil if unannotated
}

// ClassDecl represents a class declaration or, with Forward set, class Foo;.
type ClassDecl struct {
	decl
	Name       *Name
	TypeParams []*Name
	Base       Expr // nil if none
	Members    []Decl
	Forward    bool
	Vis        Visibility
	Rbrace     src.Pos
}

// InterfaceDecl represents a structural interface. Members are body-less
// FuncDecls and value-less VarDecls.
type InterfaceDecl struct {
	decl
	Name    *Name
	Base    Expr // nil if none
	Members []Decl
	Vis     Visibility
}

// ----------------------------------------------------------------------------
// Expressions

// Name represents an identifier, including predeclared names and this.
type Name struct {
	expr
	Value string
}

// LitKind is the kind of a BasicLit.
type LitKind uint8

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
)

// BasicLit represents a literal value (int, float, string).
type BasicLit struct {
	expr
	Value string // literal text (decoded for strings)
	Kind  LitKind
}

// TemplateLit represents a template string. Parts has one more element than
// Exprs: Parts[0] Exprs[0] Parts[1] ... Parts[n].
type TemplateLit struct {
	expr
	Parts []string // decoded text segments
	Exprs []Expr
}

// Operation represents a unary or binary operation.
// For unary operations, Y is nil. Postfix is set for x++ and x--.
type Operation struct {
	expr
	Op      Tok
	X       Expr
	Y       Expr
	Postfix bool
}

// AssignExpr represents X = Y or a compound assignment such as X += Y.
type AssignExpr struct {
	expr
	Op Tok // _Assign, _AddAssign, ...
	X  Expr
	Y  Expr
}

// CondExpr represents Cond ? X : Y.
type CondExpr struct {
	expr
	Cond Expr
	X    Expr
	Y    Expr
}

// CallExpr represents a call, constructor call or conversion: Fun(Args...)
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// IndexExpr represents X[Index].
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// SelectorExpr represents X.Sel, or X->Sel when Arrow is set.
type SelectorExpr struct {
	expr
	X     Expr
	Sel   *Name
	Arrow bool
}

// ParenExpr represents (X).
type ParenExpr struct {
	expr
	X Expr
}

// NewExpr represents new Type(Args...).
type NewExpr struct {
	expr
	Type Expr
	Args []Expr
}

// ArrayLit represents [Elems...].
type ArrayLit struct {
	expr
	Elems []Expr
}

// BadExpr is a placeholder for an expression that failed to parse.
type BadExpr struct {
	expr
}

// ----------------------------------------------------------------------------
// Type Expressions

// PointerType represents Base*.
type PointerType struct {
	expr
	Base Expr
}

// ArrayType represents Elem[Len], or Elem[] when Len is nil.
type ArrayType struct {
	expr
	Len  Expr
	Elem Expr
}

// InstType represents a template instantiation: Base<Args...>.
type InstType struct {
	expr
	Base *Name
	Args []Expr
}

// ----------------------------------------------------------------------------
// Statements

// EmptyStmt represents an empty statement (just a semicolon).
type EmptyStmt struct {
	stmt
}

// ExprStmt represents an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// BlockStmt represents { Stmts... }.
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace src.Pos
}

// IfStmt represents if (Cond) Then [else Else].
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// WhileStmt represents while (Cond) Body.
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

// DoWhileStmt represents do Body while (Cond);.
type DoWhileStmt struct {
	stmt
	Body Stmt
	Cond Expr
}

// ForStmt represents for (Init; Cond; Post) Body. Any clause may be nil.
type ForStmt struct {
	stmt
	Init Stmt // *DeclStmt or *ExprStmt
	Cond Expr
	Post Expr
	Body Stmt
}

// ReturnStmt represents return [Result];.
type ReturnStmt struct {
	stmt
	Result Expr // nil for bare return
}

// BranchStmt represents a break or continue statement.
type BranchStmt struct {
	stmt
	Tok Tok // _Break or _Continue
}

// DeclStmt holds local variable declarations. int a, b = 2; yields two.
type DeclStmt struct {
	stmt
	Decls []*VarDecl
}

// AsProduct returns the expression statement a * b; that s also reads as
// when s declares a single pointer b to a named type a without an
// initializer. It returns nil for any other declaration.
func (s *DeclStmt) AsProduct() *ExprStmt {
	if len(s.Decls) != 1 {
		return nil
	}
	d := s.Decls[0]
	if d.Keyword != 0 || d.Value != nil {
		return nil
	}
	ptr, ok := d.Type.(*PointerType)
	if !ok {
		return nil
	}
	base, ok := ptr.Base.(*Name)
	if !ok {
		return nil
	}
	x := &Operation{Op: _Mul, X: base, Y: d.Name}
	x.pos = base.Pos()
	es := &ExprStmt{X: x}
	es.pos = s.pos
	return es
}
