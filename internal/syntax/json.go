package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

type object = map[string]interface{}

func toJSON(node Node) interface{} {
	if isNil(node) {
		return nil
	}

	m := object{"pos": node.Pos().String()}
	switch n := node.(type) {
	case *Program:
		m["type"] = "Program"
		m["decls"] = mapSlice(n.Decls, declJSON)

	case *VarDecl:
		m["type"] = "VarDecl"
		m["name"] = n.Name.Value
		if n.Keyword != 0 {
			m["keyword"] = n.Keyword.String()
		}
		m["visibility"] = n.Vis.String()
		setExpr(m, "vartype", n.Type)
		setExpr(m, "value", n.Value)

	case *FuncDecl:
		m["type"] = "FuncDecl"
		m["name"] = n.Name.Value
		m["form"] = map[FuncForm]string{CForm: "c", KeywordForm: "keyword"}[n.Form]
		m["visibility"] = n.Vis.String()
		if n.Ctor {
			m["constructor"] = true
		}
		if len(n.TypeParams) > 0 {
			m["typeParams"] = mapSlice(n.TypeParams, nameJSON)
		}
		m["params"] = mapSlice(n.Params, func(f *Field) interface{} { return toJSON(f) })
		setExpr(m, "result", n.Result)
		if n.Body != nil {
			m["body"] = toJSON(n.Body)
		} else {
			m["forward"] = true
		}

	case *Field:
		m["type"] = "Field"
		if n.Name != nil {
			m["name"] = n.Name.Value
		}
		setExpr(m, "fieldtype", n.Type)

	case *ClassDecl:
		m["type"] = "ClassDecl"
		m["name"] = n.Name.Value
		m["visibility"] = n.Vis.String()
		if n.Forward {
			m["forward"] = true
		}
		if len(n.TypeParams) > 0 {
			m["typeParams"] = mapSlice(n.TypeParams, nameJSON)
		}
		setExpr(m, "base", n.Base)
		m["members"] = mapSlice(n.Members, declJSON)

	case *InterfaceDecl:
		m["type"] = "InterfaceDecl"
		m["name"] = n.Name.Value
		m["visibility"] = n.Vis.String()
		setExpr(m, "base", n.Base)
		m["members"] = mapSlice(n.Members, declJSON)

	// Statements

	case *BlockStmt:
		m["type"] = "BlockStmt"
		m["stmts"] = mapSlice(n.Stmts, stmtJSON)

	case *IfStmt:
		m["type"] = "IfStmt"
		setExpr(m, "cond", n.Cond)
		setStmt(m, "then", n.Then)
		setStmt(m, "else", n.Else)

	case *WhileStmt:
		m["type"] = "WhileStmt"
		setExpr(m, "cond", n.Cond)
		setStmt(m, "body", n.Body)

	case *DoWhileStmt:
		m["type"] = "DoWhileStmt"
		setStmt(m, "body", n.Body)
		setExpr(m, "cond", n.Cond)

	case *ForStmt:
		m["type"] = "ForStmt"
		setStmt(m, "init", n.Init)
		setExpr(m, "cond", n.Cond)
		setExpr(m, "post", n.Post)
		setStmt(m, "body", n.Body)

	case *ReturnStmt:
		m["type"] = "ReturnStmt"
		setExpr(m, "result", n.Result)

	case *BranchStmt:
		m["type"] = "BranchStmt"
		m["tok"] = n.Tok.String()

	case *ExprStmt:
		m["type"] = "ExprStmt"
		setExpr(m, "x", n.X)

	case *DeclStmt:
		m["type"] = "DeclStmt"
		m["decls"] = mapSlice(n.Decls, func(d *VarDecl) interface{} { return toJSON(d) })

	case *EmptyStmt:
		m["type"] = "EmptyStmt"

	// Expressions

	case *Name:
		m["type"] = "Name"
		m["value"] = n.Value

	case *BasicLit:
		m["type"] = "BasicLit"
		m["value"] = n.Value
		m["kind"] = [...]string{IntLit: "int", FloatLit: "float", StringLit: "string"}[n.Kind]

	case *TemplateLit:
		m["type"] = "TemplateLit"
		m["parts"] = n.Parts
		m["exprs"] = mapSlice(n.Exprs, exprJSON)

	case *Operation:
		m["type"] = "Operation"
		m["op"] = n.Op.String()
		setExpr(m, "x", n.X)
		setExpr(m, "y", n.Y)
		if n.Postfix {
			m["postfix"] = true
		}

	case *AssignExpr:
		m["type"] = "AssignExpr"
		m["op"] = n.Op.String()
		setExpr(m, "x", n.X)
		setExpr(m, "y", n.Y)

	case *CondExpr:
		m["type"] = "CondExpr"
		setExpr(m, "cond", n.Cond)
		setExpr(m, "x", n.X)
		setExpr(m, "y", n.Y)

	case *CallExpr:
		m["type"] = "CallExpr"
		setExpr(m, "fun", n.Fun)
		m["args"] = mapSlice(n.Args, exprJSON)

	case *IndexExpr:
		m["type"] = "IndexExpr"
		setExpr(m, "x", n.X)
		setExpr(m, "index", n.Index)

	case *SelectorExpr:
		m["type"] = "SelectorExpr"
		setExpr(m, "x", n.X)
		m["sel"] = n.Sel.Value
		if n.Arrow {
			m["arrow"] = true
		}

	case *ParenExpr:
		m["type"] = "ParenExpr"
		setExpr(m, "x", n.X)

	case *NewExpr:
		m["type"] = "NewExpr"
		setExpr(m, "newtype", n.Type)
		m["args"] = mapSlice(n.Args, exprJSON)

	case *ArrayLit:
		m["type"] = "ArrayLit"
		m["elems"] = mapSlice(n.Elems, exprJSON)

	case *BadExpr:
		m["type"] = "BadExpr"

	// Types

	case *PointerType:
		m["type"] = "PointerType"
		setExpr(m, "base", n.Base)

	case *ArrayType:
		m["type"] = "ArrayType"
		setExpr(m, "len", n.Len)
		setExpr(m, "elem", n.Elem)

	case *InstType:
		m["type"] = "InstType"
		m["base"] = n.Base.Value
		m["args"] = mapSlice(n.Args, exprJSON)

	default:
		m["type"] = "Unknown"
	}
	return m
}

func setExpr(m object, key string, x Expr) {
	if x != nil {
		m[key] = toJSON(x)
	}
}

func setStmt(m object, key string, s Stmt) {
	if s != nil {
		m[key] = toJSON(s)
	}
}

func declJSON(d Decl) interface{} { return toJSON(d) }
func stmtJSON(s Stmt) interface{} { return toJSON(s) }
func exprJSON(x Expr) interface{} { return toJSON(x) }
func nameJSON(n *Name) interface{} { return n.Value }

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
