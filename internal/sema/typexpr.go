package sema

import (
	"strconv"

	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// typ resolves a type expression. It reports errors and returns nil for
// expressions that do not denote a type.
func (a *Analyzer) typ(e syntax.Expr) types.Type {
	t := a.typInternal(e)
	if t != nil {
		a.info.Types[e] = t
	}
	return t
}

func (a *Analyzer) typInternal(e syntax.Expr) types.Type {
	switch e := e.(type) {
	case *syntax.BadExpr:
		return nil

	case *syntax.Name:
		t := a.typeName(e)
		if c, ok := t.(*types.Class); ok && c.IsTemplate() && !a.within(c) {
			a.typeErrorf(e.Pos(), "template %s used without template arguments", c.Name())
			return nil
		}
		return t

	case *syntax.ParenExpr:
		return a.typ(e.X)

	case *syntax.PointerType:
		base := a.typ(e.Base)
		if base == nil {
			return nil
		}
		return a.reg.Pointer(base)

	case *syntax.ArrayType:
		elem := a.typ(e.Elem)
		if elem == nil {
			return nil
		}
		if types.IsVoid(elem) {
			a.typeErrorf(e.Pos(), "array of void")
			return nil
		}
		return a.reg.Array(elem, a.arrayLen(e.Len))

	case *syntax.InstType:
		return a.instance(e)
	}

	a.typeErrorf(e.Pos(), "%s is not a type", syntax.ExprString(e))
	return nil
}

// typeName resolves a type name: a template parameter in scope, a
// declared class or interface, or a builtin type.
func (a *Analyzer) typeName(e *syntax.Name) types.Type {
	name := e.Value
	if name == "_" {
		return nil
	}
	if tp := a.lookupTypeParam(name); tp != nil {
		return tp
	}
	if sym := a.table.Lookup(name); sym != nil {
		a.info.Uses[e] = sym
		sym.Used = true
		if !sym.IsType() {
			a.typeErrorf(e.Pos(), "%s is not a type", name)
			return nil
		}
		return sym.Type
	}
	if t := a.reg.Lookup(name); t != nil {
		return t
	}
	a.errorf(e.Pos(), "undeclared type %s", name)
	return nil
}

// arrayLen returns the length of an array type, or -1 if it is not given
// by an integer literal.
func (a *Analyzer) arrayLen(e syntax.Expr) int64 {
	if e == nil {
		return -1
	}
	if lit, ok := e.(*syntax.BasicLit); ok && lit.Kind == syntax.IntLit {
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil || n < 0 {
			a.typeErrorf(e.Pos(), "invalid array length %s", lit.Value)
			return -1
		}
		a.info.Types[e] = types.Typ[types.Int]
		return n
	}
	var x operand
	a.expr(&x, e)
	if x.mode != invalid && x.typ != nil && !types.IsInteger(x.typ) && !types.IsLoose(x.typ) {
		a.typeErrorf(e.Pos(), "array length %s must be an integer, not %s", syntax.ExprString(e), x.typ)
	}
	return -1
}

// instance resolves a template instantiation such as Box<int>.
func (a *Analyzer) instance(e *syntax.InstType) types.Type {
	base := a.typeName(e.Base)
	if base == nil {
		return nil
	}
	tmpl, ok := base.(*types.Class)
	if !ok || !tmpl.IsTemplate() {
		a.typeErrorf(e.Base.Pos(), "%s is not a template", e.Base.Value)
		return nil
	}

	args := make([]types.Type, len(e.Args))
	for i, arg := range e.Args {
		t := a.typ(arg)
		if t == nil {
			return nil
		}
		if types.IsVoid(t) {
			a.typeErrorf(arg.Pos(), "void used as template argument")
			return nil
		}
		args[i] = t
	}
	inst, err := a.reg.Instance(tmpl, args)
	if err != nil {
		a.typeErrorf(e.Pos(), "%s", err)
		return nil
	}
	return inst
}
