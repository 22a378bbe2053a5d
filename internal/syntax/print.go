package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints node under a label, one level deeper.
func (p *printer) child(label string, node Node) {
	if isNil(node) {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	p.print(node)
	p.indent--
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		p.printf("Program %s\n", n.pos)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s %s%s\n", n.Name.Value, declPrefix(n.Vis, n.Keyword), n.pos)
		p.indent++
		if n.Type != nil {
			p.printf("Type: %s\n", TypeString(n.Type))
		}
		if n.Value != nil {
			p.printf("Value: %s\n", ExprString(n.Value))
		}
		p.indent--

	case *FuncDecl:
		kind := "FuncDecl"
		if n.Ctor {
			kind = "Constructor"
		}
		p.printf("%s %s%s %s\n", kind, n.Name.Value, typeParamString(n.TypeParams), n.pos)
		p.indent++
		if n.Vis != Public {
			p.printf("Visibility: %s\n", n.Vis)
		}
		for _, f := range n.Params {
			name := "_"
			if f.Name != nil {
				name = f.Name.Value
			}
			p.printf("Param: %s %s\n", name, TypeString(f.Type))
		}
		if n.Result != nil {
			p.printf("Result: %s\n", TypeString(n.Result))
		}
		if n.Body == nil {
			p.printf("Forward\n")
		} else {
			p.print(n.Body)
		}
		p.indent--

	case *ClassDecl:
		p.printf("ClassDecl %s%s %s\n", n.Name.Value, typeParamString(n.TypeParams), n.pos)
		p.indent++
		if n.Forward {
			p.printf("Forward\n")
		}
		if n.Base != nil {
			p.printf("Base: %s\n", TypeString(n.Base))
		}
		for _, m := range n.Members {
			p.print(m)
		}
		p.indent--

	case *InterfaceDecl:
		p.printf("InterfaceDecl %s %s\n", n.Name.Value, n.pos)
		p.indent++
		if n.Base != nil {
			p.printf("Base: %s\n", TypeString(n.Base))
		}
		for _, m := range n.Members {
			p.print(m)
		}
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.printf("Cond: %s\n", ExprString(n.Cond))
		p.child("Then", n.Then)
		p.child("Else", n.Else)
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.printf("Cond: %s\n", ExprString(n.Cond))
		p.child("Body", n.Body)
		p.indent--

	case *DoWhileStmt:
		p.printf("DoWhileStmt %s\n", n.pos)
		p.indent++
		p.child("Body", n.Body)
		p.printf("Cond: %s\n", ExprString(n.Cond))
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", n.pos)
		p.indent++
		p.child("Init", n.Init)
		if n.Cond != nil {
			p.printf("Cond: %s\n", ExprString(n.Cond))
		}
		if n.Post != nil {
			p.printf("Post: %s\n", ExprString(n.Post))
		}
		p.child("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		if n.Result != nil {
			p.printf("ReturnStmt %s %s\n", ExprString(n.Result), n.pos)
		} else {
			p.printf("ReturnStmt %s\n", n.pos)
		}

	case *BranchStmt:
		p.printf("BranchStmt %s %s\n", n.Tok, n.pos)

	case *ExprStmt:
		p.printf("ExprStmt %s %s\n", ExprString(n.X), n.pos)

	case *DeclStmt:
		p.printf("DeclStmt %s\n", n.pos)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *EmptyStmt:
		p.printf("EmptyStmt %s\n", n.pos)

	case Expr:
		p.printf("%s\n", ExprString(n))

	default:
		p.printf("<%T>\n", node)
	}
}

func declPrefix(vis Visibility, kw Tok) string {
	var s string
	if vis != Public {
		s += vis.String() + " "
	}
	if kw != 0 {
		s += kw.String() + " "
	}
	return s
}

func typeParamString(list []*Name) string {
	if len(list) == 0 {
		return ""
	}
	names := make([]string, len(list))
	for i, n := range list {
		names[i] = n.Value
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// TypeString renders a type expression in source form, such as int*,
// float[4] or Box<int>. A nil type renders as "any".
func TypeString(e Expr) string {
	switch t := e.(type) {
	case nil:
		return "any"
	case *Name:
		return t.Value
	case *PointerType:
		return TypeString(t.Base) + "*"
	case *ArrayType:
		// int m[2][3] is an array of 2 arrays of 3: outer dimension first.
		var dims strings.Builder
		var elem Expr = t
		for a, ok := elem.(*ArrayType); ok; a, ok = elem.(*ArrayType) {
			dims.WriteByte('[')
			if a.Len != nil {
				dims.WriteString(ExprString(a.Len))
			}
			dims.WriteByte(']')
			elem = a.Elem
		}
		return TypeString(elem) + dims.String()
	case *InstType:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = TypeString(a)
		}
		return t.Base.Value + "<" + strings.Join(args, ", ") + ">"
	case *BadExpr:
		return "<bad>"
	}
	return fmt.Sprintf("<%T>", e)
}

// ExprString renders an expression in source form. Nested operations are
// parenthesized so that the tree structure is visible.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e, false)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr, nested bool) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")

	case *Name:
		b.WriteString(x.Value)

	case *BasicLit:
		if x.Kind == StringLit {
			fmt.Fprintf(b, "%q", x.Value)
		} else {
			b.WriteString(x.Value)
		}

	case *TemplateLit:
		b.WriteByte('`')
		for i, part := range x.Parts {
			b.WriteString(part)
			if i < len(x.Exprs) {
				b.WriteString("${")
				writeExpr(b, x.Exprs[i], false)
				b.WriteString("}")
			}
		}
		b.WriteByte('`')

	case *Operation:
		if nested {
			b.WriteByte('(')
		}
		switch {
		case x.Y != nil:
			writeExpr(b, x.X, true)
			b.WriteString(" " + x.Op.String() + " ")
			writeExpr(b, x.Y, true)
		case x.Postfix:
			writeExpr(b, x.X, true)
			b.WriteString(x.Op.String())
		default:
			b.WriteString(x.Op.String())
			writeExpr(b, x.X, true)
		}
		if nested {
			b.WriteByte(')')
		}

	case *AssignExpr:
		if nested {
			b.WriteByte('(')
		}
		writeExpr(b, x.X, true)
		b.WriteString(" " + x.Op.String() + " ")
		writeExpr(b, x.Y, true)
		if nested {
			b.WriteByte(')')
		}

	case *CondExpr:
		if nested {
			b.WriteByte('(')
		}
		writeExpr(b, x.Cond, true)
		b.WriteString(" ? ")
		writeExpr(b, x.X, true)
		b.WriteString(" : ")
		writeExpr(b, x.Y, true)
		if nested {
			b.WriteByte(')')
		}

	case *CallExpr:
		writeExpr(b, x.Fun, true)
		writeList(b, "(", x.Args, ")")

	case *IndexExpr:
		writeExpr(b, x.X, true)
		b.WriteByte('[')
		writeExpr(b, x.Index, false)
		b.WriteByte(']')

	case *SelectorExpr:
		writeExpr(b, x.X, true)
		if x.Arrow {
			b.WriteString("->")
		} else {
			b.WriteByte('.')
		}
		b.WriteString(x.Sel.Value)

	case *ParenExpr:
		b.WriteByte('(')
		writeExpr(b, x.X, false)
		b.WriteByte(')')

	case *NewExpr:
		b.WriteString("new " + TypeString(x.Type))
		writeList(b, "(", x.Args, ")")

	case *ArrayLit:
		writeList(b, "[", x.Elems, "]")

	case *BadExpr:
		b.WriteString("<bad>")

	case *PointerType, *ArrayType, *InstType:
		b.WriteString(TypeString(x))

	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}

func writeList(b *strings.Builder, open string, list []Expr, close string) {
	b.WriteString(open)
	for i, x := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, x, false)
	}
	b.WriteString(close)
}
