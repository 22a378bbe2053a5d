package sema

import (
	"github.com/weft-lang/weft/internal/types"
)

// builtinFunc describes a predeclared function.
type builtinFunc struct {
	name  string
	nargs int // -1 for variadic
	check func(a *Analyzer, x *operand, args []operand)
}

var builtins = map[string]*builtinFunc{
	"print":     {"print", -1, checkPrint},
	"sqrt":      {"sqrt", 1, checkSqrt},
	"length":    {"length", 1, checkLength},
	"normalize": {"normalize", 1, checkNormalize},
	"dot":       {"dot", 2, checkDot},
	"cross":     {"cross", 2, checkCross},
}

func checkPrint(a *Analyzer, x *operand, args []operand) {
	x.mode = novalue
	x.typ = nil
}

func checkSqrt(a *Analyzer, x *operand, args []operand) {
	t := args[0].typ
	switch {
	case types.IsLoose(t):
		x.setValue(a.reg.Dynamic())
	case types.IsNumeric(t):
		x.setValue(types.Wider(t, types.Typ[types.Float]))
	default:
		a.typeErrorf(args[0].pos, "cannot use %s as argument of sqrt (want a number)", t)
		x.setInvalid()
	}
}

// length returns the magnitude of a vector or the length of a string or
// array.
func checkLength(a *Analyzer, x *operand, args []operand) {
	switch t := args[0].typ.(type) {
	case *types.Vector:
		x.setValue(t.Elem())
	case *types.Array:
		x.setValue(types.Typ[types.Int])
	default:
		switch {
		case types.IsString(t):
			x.setValue(types.Typ[types.Int])
		case types.IsLoose(t):
			x.setValue(a.reg.Dynamic())
		default:
			a.typeErrorf(args[0].pos, "cannot use %s as argument of length", t)
			x.setInvalid()
		}
	}
}

func checkNormalize(a *Analyzer, x *operand, args []operand) {
	t := args[0].typ
	switch {
	case types.IsLoose(t):
		x.setValue(a.reg.Dynamic())
	case isVector(t):
		x.setValue(t)
	default:
		a.typeErrorf(args[0].pos, "cannot use %s as argument of normalize (want a vector)", t)
		x.setInvalid()
	}
}

func checkDot(a *Analyzer, x *operand, args []operand) {
	if !a.vectorPair(x, "dot", args) {
		return
	}
	if v, ok := args[0].typ.(*types.Vector); ok {
		x.setValue(v.Elem())
		return
	}
	x.setValue(a.reg.Dynamic())
}

func checkCross(a *Analyzer, x *operand, args []operand) {
	if !a.vectorPair(x, "cross", args) {
		return
	}
	v, ok := args[0].typ.(*types.Vector)
	if !ok {
		x.setValue(a.reg.Dynamic())
		return
	}
	if v.Dim() != 3 {
		a.typeErrorf(args[0].pos, "cross is only defined on 3-component vectors, not %s", v)
		x.setInvalid()
		return
	}
	x.setValue(v)
}

// vectorPair checks that both arguments are vectors of the same type.
func (a *Analyzer) vectorPair(x *operand, name string, args []operand) bool {
	t, u := args[0].typ, args[1].typ
	if types.IsLoose(t) || types.IsLoose(u) {
		if !types.IsLoose(t) && !isVector(t) || !types.IsLoose(u) && !isVector(u) {
			a.typeErrorf(args[0].pos, "invalid arguments %s and %s to %s (want vectors)", t, u, name)
			x.setInvalid()
			return false
		}
		x.setValue(a.reg.Dynamic())
		return true
	}
	if !isVector(t) || t != u {
		a.typeErrorf(args[0].pos, "invalid arguments %s and %s to %s (want vectors of the same type)", t, u, name)
		x.setInvalid()
		return false
	}
	return true
}

func isVector(t types.Type) bool {
	_, ok := t.(*types.Vector)
	return ok
}
