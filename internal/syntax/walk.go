package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// Nil children are skipped.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *VarDecl:
		Walk(n.Name, v)
		walkExpr(n.Type, v)
		walkExpr(n.Value, v)

	case *FuncDecl:
		Walk(n.Name, v)
		for _, tp := range n.TypeParams {
			Walk(tp, v)
		}
		for _, f := range n.Params {
			Walk(f, v)
		}
		walkExpr(n.Result, v)
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *Field:
		if n.Name != nil {
			Walk(n.Name, v)
		}
		walkExpr(n.Type, v)

	case *ClassDecl:
		Walk(n.Name, v)
		for _, tp := range n.TypeParams {
			Walk(tp, v)
		}
		walkExpr(n.Base, v)
		for _, m := range n.Members {
			Walk(m, v)
		}

	case *InterfaceDecl:
		Walk(n.Name, v)
		walkExpr(n.Base, v)
		for _, m := range n.Members {
			Walk(m, v)
		}

	// Statements

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *IfStmt:
		walkExpr(n.Cond, v)
		walkStmt(n.Then, v)
		walkStmt(n.Else, v)

	case *WhileStmt:
		walkExpr(n.Cond, v)
		walkStmt(n.Body, v)

	case *DoWhileStmt:
		walkStmt(n.Body, v)
		walkExpr(n.Cond, v)

	case *ForStmt:
		walkStmt(n.Init, v)
		walkExpr(n.Cond, v)
		walkExpr(n.Post, v)
		walkStmt(n.Body, v)

	case *ReturnStmt:
		walkExpr(n.Result, v)

	case *ExprStmt:
		walkExpr(n.X, v)

	case *DeclStmt:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	// Expressions

	case *TemplateLit:
		for _, x := range n.Exprs {
			walkExpr(x, v)
		}

	case *Operation:
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *AssignExpr:
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *CondExpr:
		walkExpr(n.Cond, v)
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *CallExpr:
		walkExpr(n.Fun, v)
		for _, a := range n.Args {
			walkExpr(a, v)
		}

	case *IndexExpr:
		walkExpr(n.X, v)
		walkExpr(n.Index, v)

	case *SelectorExpr:
		walkExpr(n.X, v)
		Walk(n.Sel, v)

	case *ParenExpr:
		walkExpr(n.X, v)

	case *NewExpr:
		walkExpr(n.Type, v)
		for _, a := range n.Args {
			walkExpr(a, v)
		}

	case *ArrayLit:
		for _, e := range n.Elems {
			walkExpr(e, v)
		}

	// Types

	case *PointerType:
		walkExpr(n.Base, v)

	case *ArrayType:
		walkExpr(n.Len, v)
		walkExpr(n.Elem, v)

	case *InstType:
		Walk(n.Base, v)
		for _, a := range n.Args {
			walkExpr(a, v)
		}

	// Leaf nodes: Name, BasicLit, BadExpr, EmptyStmt, BranchStmt
	}
}

func walkExpr(x Expr, v Visitor) {
	if x != nil {
		Walk(x, v)
	}
}

func walkStmt(s Stmt, v Visitor) {
	if s != nil {
		Walk(s, v)
	}
}

// isNil reports whether node is nil or a typed nil pointer to a Name or
// BlockStmt, the optional node fields stored as concrete pointers.
func isNil(node Node) bool {
	switch n := node.(type) {
	case nil:
		return true
	case *Name:
		return n == nil
	case *BlockStmt:
		return n == nil
	}
	return false
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
