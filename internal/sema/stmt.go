package sema

import (
	"github.com/weft-lang/weft/internal/symbols"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

func (a *Analyzer) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case nil, *syntax.EmptyStmt:

	case *syntax.ExprStmt:
		var x operand
		a.expr(&x, s.X)
		if x.mode == typexpr || x.mode == builtin {
			a.value(&x)
		}

	case *syntax.BlockStmt:
		a.openScope(symbols.BlockScope)
		a.stmts(s.Stmts)
		a.closeScope()

	case *syntax.DeclStmt:
		if x := a.product(s); x != nil {
			a.stmt(x)
			return
		}
		for _, d := range s.Decls {
			a.localVar(d)
		}

	case *syntax.IfStmt:
		a.cond(s.Cond, "if statement")
		a.body(s.Then)
		if s.Else != nil {
			a.body(s.Else)
		}

	case *syntax.WhileStmt:
		a.cond(s.Cond, "while statement")
		a.loopBody(s.Body)

	case *syntax.DoWhileStmt:
		a.loopBody(s.Body)
		a.cond(s.Cond, "do-while statement")

	case *syntax.ForStmt:
		a.openScope(symbols.BlockScope)
		a.stmt(s.Init)
		if s.Cond != nil {
			a.cond(s.Cond, "for statement")
		}
		if s.Post != nil {
			var x operand
			a.expr(&x, s.Post)
		}
		a.loopBody(s.Body)
		a.closeScope()

	case *syntax.ReturnStmt:
		a.returnStmt(s)

	case *syntax.BranchStmt:
		if a.loopDepth == 0 {
			a.errorf(s.Pos(), "%s is not in a loop", s.Tok)
		}

	default:
		a.errorf(s.Pos(), "unexpected statement")
	}
}

// stmts checks a statement list. A declaration that reads as a product
// is replaced in list by its expression statement.
func (a *Analyzer) stmts(list []syntax.Stmt) {
	for i, s := range list {
		if d, ok := s.(*syntax.DeclStmt); ok {
			if x := a.product(d); x != nil {
				list[i] = x
				s = x
			}
		}
		a.stmt(s)
	}
}

// product returns the expression reading of a * b; when a names a value
// in scope rather than a type.
func (a *Analyzer) product(d *syntax.DeclStmt) *syntax.ExprStmt {
	x := d.AsProduct()
	if x == nil {
		return nil
	}
	if !a.namesValue(x.X.(*syntax.Operation).X.(*syntax.Name).Value) {
		return nil
	}
	return x
}

// namesValue reports whether name resolves to a variable, parameter,
// function or class member in the current scope.
func (a *Analyzer) namesValue(name string) bool {
	if a.lookupTypeParam(name) != nil {
		return false
	}
	sym, scope := a.table.Current().LookupParent(name)
	if a.class != nil && (sym == nil || scope.Kind() == symbols.GlobalScope) {
		if a.class.LookupMember(name) != nil {
			return true
		}
	}
	if sym == nil {
		return false
	}
	switch sym.Kind {
	case symbols.Variable, symbols.Param, symbols.Function:
		return true
	}
	return false
}

// body checks the body of an if or loop. A single statement gets its own
// scope like a block.
func (a *Analyzer) body(s syntax.Stmt) {
	if _, ok := s.(*syntax.BlockStmt); ok {
		a.stmt(s)
		return
	}
	a.openScope(symbols.BlockScope)
	a.stmt(s)
	a.closeScope()
}

func (a *Analyzer) loopBody(s syntax.Stmt) {
	a.loopDepth++
	a.body(s)
	a.loopDepth--
}

func (a *Analyzer) cond(e syntax.Expr, what string) {
	var x operand
	a.expr(&x, e)
	a.value(&x)
	a.condition(&x, what)
}

func (a *Analyzer) returnStmt(s *syntax.ReturnStmt) {
	if a.fn == nil {
		a.errorf(s.Pos(), "return statement outside function")
		return
	}
	res := a.fn.sig.Result()
	if s.Result == nil {
		if !types.IsVoid(res) && !types.IsLoose(res) {
			a.errorf(s.Pos(), "missing return value in function %s returning %s", a.fn.name, res)
		}
		return
	}

	var x operand
	a.expr(&x, s.Result)
	a.fn.returnsValue = true
	if types.IsVoid(res) {
		a.errorf(s.Result.Pos(), "unexpected return value in void function %s", a.fn.name)
		return
	}
	a.value(&x)
	if x.mode != invalid {
		a.check.Assign(x.typ, res, s.Result.Pos(), "return statement")
	}
}

// localVar checks a local variable declaration. The variable is in scope
// after its initializer, so int x = x; refers to an outer x.
func (a *Analyzer) localVar(d *syntax.VarDecl) {
	typ := a.varInit(d, a.varType(d))
	if d.Name.Value == "_" {
		return
	}
	a.declare(&symbols.Symbol{
		Name:  d.Name.Value,
		Kind:  symbols.Variable,
		Type:  typ,
		Pos:   d.Name.Pos(),
		Const: d.IsConst(),
		Node:  d,
	}, d.Name)
}
