package sema

import (
	"fmt"

	"github.com/weft-lang/weft/internal/src"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// args checks a list of call arguments.
func (a *Analyzer) args(list []syntax.Expr) []operand {
	if len(list) == 0 {
		return nil
	}
	ops := make([]operand, len(list))
	for i, e := range list {
		a.expr(&ops[i], e)
		a.value(&ops[i])
	}
	return ops
}

// call checks a function call, a constructor call such as vec3(x, y, z),
// or a conversion such as int(x).
func (a *Analyzer) call(x *operand, e *syntax.CallExpr) {
	a.expr(x, e.Fun)
	switch x.mode {
	case invalid:
		a.args(e.Args)
		return
	case typexpr:
		a.conversion(x, e, x.typ, a.args(e.Args))
		return
	case builtin:
		a.builtinCall(x, e, x.fun, a.args(e.Args))
		return
	}
	a.value(x)
	args := a.args(e.Args)
	if x.mode == invalid {
		return
	}

	sig, ok := x.typ.(*types.Func)
	if !ok {
		if types.IsLoose(x.typ) {
			x.setValue(a.reg.Dynamic())
			return
		}
		a.typeErrorf(e.Pos(), "cannot call non-function %s (type %s)", syntax.ExprString(e.Fun), x.typ)
		x.setInvalid()
		return
	}

	name := syntax.ExprString(e.Fun)
	if len(args) != sig.NumParams() {
		a.typeErrorf(e.Pos(), "wrong number of arguments in call to %s: want %d, got %d", name, sig.NumParams(), len(args))
	} else {
		for i := range args {
			if args[i].mode == invalid {
				continue
			}
			a.check.Assign(args[i].typ, sig.Param(i), args[i].pos, fmt.Sprintf("argument %d of %s", i+1, name))
		}
	}

	res := sig.Result()
	if types.IsVoid(res) {
		x.mode = novalue
		x.typ = nil
		return
	}
	x.setValue(res)
}

// conversion checks T(args) where T is a type: a constructor call for
// vectors, matrices and classes and a conversion for everything else.
func (a *Analyzer) conversion(x *operand, e *syntax.CallExpr, t types.Type, args []operand) {
	switch t.(type) {
	case *types.Vector, *types.Matrix, *types.Class:
		a.construct(e.Pos(), t, args)
		x.setValue(t)
		return
	case *types.Interface:
		a.typeErrorf(e.Pos(), "cannot instantiate interface %s", t)
		x.setInvalid()
		return
	}

	if len(args) != 1 {
		a.typeErrorf(e.Pos(), "wrong number of arguments in conversion to %s: want 1, got %d", t, len(args))
		x.setInvalid()
		return
	}
	if args[0].mode != invalid && !a.check.IsConvertible(args[0].typ, t) {
		a.typeErrorf(args[0].pos, "cannot convert %s to %s", args[0].typ, t)
		x.setInvalid()
		return
	}
	x.setValue(t)
}

// construct checks a constructor call of type t. It reports whether the
// call is valid.
func (a *Analyzer) construct(pos src.Pos, t types.Type, args []operand) bool {
	if c, ok := t.(*types.Class); ok {
		if c.IsTemplate() && !a.within(c) {
			a.typeErrorf(pos, "template %s used without template arguments", c.Name())
			return false
		}
		if !a.defined[origin(c)] && !c.Complete() {
			a.typeErrorf(pos, "cannot construct incomplete class %s", c)
			return false
		}
	}
	if err := a.check.CheckConstructor(t, len(args)); err != nil {
		a.typeErrorf(pos, "%s", err)
		return false
	}

	ok := true
	for i := range args {
		if args[i].mode == invalid {
			continue
		}
		var want types.Type
		switch t := t.(type) {
		case *types.Vector:
			want = t.Elem()
		case *types.Matrix:
			want = t.Column(a.reg)
		case *types.Class:
			want = t.Ctor().Param(i)
		}
		ctx := fmt.Sprintf("argument %d of %s constructor", i+1, t)
		if !a.check.Assign(args[i].typ, want, args[i].pos, ctx) {
			ok = false
		}
	}
	return ok
}

// builtinCall checks a call of a builtin function.
func (a *Analyzer) builtinCall(x *operand, e *syntax.CallExpr, b *builtinFunc, args []operand) {
	if b.nargs >= 0 && len(args) != b.nargs {
		a.typeErrorf(e.Pos(), "wrong number of arguments in call to %s: want %d, got %d", b.name, b.nargs, len(args))
		x.setInvalid()
		return
	}
	for i := range args {
		if args[i].mode == invalid {
			x.setInvalid()
			return
		}
	}
	x.expr = e
	x.pos = e.Pos()
	b.check(a, x, args)
}
