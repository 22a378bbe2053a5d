package types

import (
	"fmt"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/src"
	"github.com/weft-lang/weft/internal/syntax"
)

// Checker applies the compatibility rules over the types of one Registry.
// Errors found by Assign are reported to the sink as type errors; the
// other methods return errors and leave reporting to the caller.
type Checker struct {
	reg  *Registry
	sink *diag.Sink
}

// NewChecker returns a Checker for the types of reg. The sink may be nil.
func NewChecker(reg *Registry, sink *diag.Sink) *Checker {
	return &Checker{reg: reg, sink: sink}
}

// Registry returns the registry the checker works on.
func (c *Checker) Registry() *Registry {
	return c.reg
}

// IsAssignable reports whether a value of type from may be stored in a
// location of type to without an explicit conversion. A nil type stands
// for an operand that already failed to check and is compatible with
// everything.
func (c *Checker) IsAssignable(from, to Type) bool {
	if from == nil || to == nil {
		return true
	}
	// Dynamic values are checked at run time.
	if isLoose(from) || isLoose(to) {
		return true
	}
	if from == to {
		return true
	}
	if IsVoid(from) || IsVoid(to) {
		return false
	}
	if IsNumeric(from) && IsNumeric(to) {
		return rank(from) <= rank(to)
	}
	if IsNull(from) {
		return IsReference(to)
	}

	switch to := to.(type) {
	case *Pointer:
		switch from := from.(type) {
		case *Array:
			// decay
			return from.elem == to.base
		case *Pointer:
			if IsVoid(to.base) {
				return true
			}
			if fc, ok := from.base.(*Class); ok {
				return fc.DerivesFrom(to.base)
			}
		}

	case *Array:
		if from, ok := from.(*Array); ok {
			return (to.len < 0 || to.len == from.len) && c.IsAssignable(from.elem, to.elem)
		}

	case *Class:
		if from, ok := from.(*Class); ok {
			return from.DerivesFrom(to)
		}

	case *Interface:
		if p, ok := from.(*Pointer); ok {
			from = p.base
		}
		return c.Implements(from, to)
	}
	return false
}

// Assign reports whether from is assignable to to. If it is not, it
// reports a type error at pos; context names the construct, such as
// "assignment" or "argument 1 of f".
func (c *Checker) Assign(from, to Type, pos src.Pos, context string) bool {
	if c.IsAssignable(from, to) {
		return true
	}
	var msg string
	switch {
	case IsNumeric(from) && IsNumeric(to):
		msg = fmt.Sprintf("cannot implicitly convert %s to %s in %s (explicit conversion %s(...) required)", from, to, context, to)
	case isInterface(to):
		msg = fmt.Sprintf("cannot use %s as %s in %s: missing member %s", from, to, context, c.Missing(from, to.(*Interface)))
	default:
		msg = fmt.Sprintf("cannot use %s as %s in %s", from, to, context)
	}
	c.errorf(pos, "%s", msg)
	return false
}

func isInterface(t Type) bool {
	_, ok := t.(*Interface)
	return ok
}

// IsConvertible reports whether an explicit conversion T(x) from from to
// to is allowed.
func (c *Checker) IsConvertible(from, to Type) bool {
	if c.IsAssignable(from, to) {
		return true
	}
	switch {
	case IsNumeric(from) && IsNumeric(to):
		return true
	case IsBoolean(to):
		return IsTruthy(from)
	case IsString(to):
		return IsNumeric(from) || IsBoolean(from)
	case IsNumeric(to):
		return IsBoolean(from)
	}
	switch to := to.(type) {
	case *Pointer:
		_, ok := from.(*Pointer)
		return ok
	case *Class:
		// downcast
		if from, ok := from.(*Class); ok {
			return to.DerivesFrom(from)
		}
	}
	return false
}

// Implements reports whether t provides every member of iface. A class
// that names iface in its base chain implements it; otherwise every
// member must be present, public and of identical type.
func (c *Checker) Implements(t Type, iface *Interface) bool {
	return c.Missing(t, iface) == ""
}

// Missing returns the name of the first member of iface that t does not
// provide, or "" if t implements iface.
func (c *Checker) Missing(t Type, iface *Interface) string {
	switch t := t.(type) {
	case *Class:
		if t.DerivesFrom(iface) {
			return ""
		}
	case *Interface:
		if t == iface {
			return ""
		}
	default:
		if isLoose(t) {
			return ""
		}
		if all := iface.AllMembers(); len(all) > 0 {
			return all[0].Name
		}
		return ""
	}
	for _, want := range iface.AllMembers() {
		have := lookupMember(t, want.Name)
		if have == nil || have.Vis != syntax.Public || have.Method != want.Method || have.Type != want.Type {
			return want.Name
		}
	}
	return ""
}

// ConstructorArity returns the number of arguments a constructor call of
// type t takes: the dimension for vectors, 4 columns for mat4, and the
// constructor's parameter count for classes (0 without a constructor).
func (c *Checker) ConstructorArity(t Type) (int, bool) {
	switch t := t.(type) {
	case *Vector:
		return t.dim, true
	case *Matrix:
		return t.dim, true
	case *Class:
		if ctor := t.Ctor(); ctor != nil {
			return len(ctor.params), true
		}
		return 0, true
	}
	return 0, false
}

// CheckConstructorArity checks a constructor call of the named type with n
// arguments. It returns an *ArityError on a count mismatch.
func (c *Checker) CheckConstructorArity(name string, n int) error {
	t := c.reg.Lookup(name)
	if t == nil {
		return fmt.Errorf("undeclared type %s", name)
	}
	return c.CheckConstructor(t, n)
}

// CheckConstructor is like CheckConstructorArity for a resolved type.
func (c *Checker) CheckConstructor(t Type, n int) error {
	want, ok := c.ConstructorArity(t)
	if !ok {
		return fmt.Errorf("type %s has no constructor", t)
	}
	if n != want {
		return &ArityError{Name: t.String(), What: "constructor", Want: want, Got: n}
	}
	return nil
}

// Binary returns the result type of x op y.
func (c *Checker) Binary(op syntax.Tok, x, y Type) (Type, error) {
	if x == nil || y == nil {
		return nil, nil
	}
	switch op {
	case syntax.Eql, syntax.Neq:
		if isLoose(x) || isLoose(y) || c.IsAssignable(x, y) || c.IsAssignable(y, x) {
			if Comparable(x) && Comparable(y) {
				return Typ[Bool], nil
			}
		}
		return nil, c.mismatch(op, x, y)

	case syntax.Lss, syntax.Leq, syntax.Gtr, syntax.Geq:
		if isLoose(x) || isLoose(y) ||
			IsNumeric(x) && IsNumeric(y) ||
			IsString(x) && IsString(y) {
			return Typ[Bool], nil
		}
		return nil, c.mismatch(op, x, y)

	case syntax.AndAnd, syntax.OrOr:
		if IsTruthy(x) && IsTruthy(y) {
			return Typ[Bool], nil
		}
		return nil, c.mismatch(op, x, y)
	}

	if isLoose(x) || isLoose(y) {
		return c.reg.dynamic, nil
	}

	switch op {
	case syntax.Or, syntax.Xor, syntax.And, syntax.Shl, syntax.Shr, syntax.Rem:
		if IsInteger(x) && IsInteger(y) {
			if op == syntax.Shl || op == syntax.Shr {
				return x, nil
			}
			return Wider(x, y), nil
		}
		return nil, c.mismatch(op, x, y)

	case syntax.Add:
		if IsString(x) && (IsString(y) || IsNumeric(y) || IsBoolean(y)) ||
			IsString(y) && (IsNumeric(x) || IsBoolean(x)) {
			return Typ[String], nil
		}
		fallthrough

	case syntax.Sub, syntax.Mul, syntax.Div:
		if IsNumeric(x) && IsNumeric(y) {
			return Wider(x, y), nil
		}
		if t := c.pointerArith(op, x, y); t != nil {
			return t, nil
		}
		if t := c.linearAlgebra(op, x, y); t != nil {
			return t, nil
		}
		return nil, c.mismatch(op, x, y)
	}
	return nil, fmt.Errorf("invalid binary operator %s", op)
}

// pointerArith returns the result of p + n, n + p, p - n or p - q.
func (c *Checker) pointerArith(op syntax.Tok, x, y Type) Type {
	px, xok := x.(*Pointer)
	py, yok := y.(*Pointer)
	switch {
	case xok && IsInteger(y) && (op == syntax.Add || op == syntax.Sub):
		return px
	case yok && IsInteger(x) && op == syntax.Add:
		return py
	case xok && yok && px == py && op == syntax.Sub:
		return Typ[Int]
	}
	return nil
}

// linearAlgebra returns the result of vector and matrix arithmetic:
// component-wise on equal vectors, scaling by a number, and matrix
// products.
func (c *Checker) linearAlgebra(op syntax.Tok, x, y Type) Type {
	vx, xvec := x.(*Vector)
	vy, yvec := y.(*Vector)
	mx, xmat := x.(*Matrix)
	my, ymat := y.(*Matrix)

	switch {
	case xvec && yvec:
		if vx == vy {
			return vx
		}
	case xvec && IsNumeric(y):
		if op == syntax.Mul || op == syntax.Div {
			return vx
		}
	case yvec && IsNumeric(x):
		if op == syntax.Mul {
			return vy
		}
	case xmat && ymat:
		if mx == my && op != syntax.Div {
			return mx
		}
	case xmat && yvec:
		if op == syntax.Mul && vy.dim == mx.dim && vy.elem == Typ[Float] {
			return vy
		}
	case xmat && IsNumeric(y):
		if op == syntax.Mul || op == syntax.Div {
			return mx
		}
	}
	return nil
}

func (c *Checker) mismatch(op syntax.Tok, x, y Type) error {
	if x == y {
		return fmt.Errorf("operator %s not defined on %s", op, x)
	}
	return fmt.Errorf("invalid operation: %s %s %s (mismatched types)", x, op, y)
}

// Unary returns the result type of a prefix operator applied to x. The
// address and dereference operators (& and *) are handled by the caller.
func (c *Checker) Unary(op syntax.Tok, x Type) (Type, error) {
	if x == nil {
		return nil, nil
	}
	if isLoose(x) {
		if op == syntax.Not {
			return Typ[Bool], nil
		}
		return x, nil
	}
	switch op {
	case syntax.Not:
		if IsTruthy(x) {
			return Typ[Bool], nil
		}
	case syntax.Sub, syntax.Add:
		switch x.(type) {
		case *Vector, *Matrix:
			return x, nil
		}
		if IsNumeric(x) {
			return x, nil
		}
	case syntax.Tilde:
		if IsInteger(x) {
			return x, nil
		}
	case syntax.Inc, syntax.Dec:
		if IsNumeric(x) || IsPointer(x) {
			return x, nil
		}
	}
	return nil, fmt.Errorf("operator %s not defined on %s", op, x)
}

// Common returns the type of a conditional expression with branches of
// types x and y, or nil if they are incompatible.
func (c *Checker) Common(x, y Type) Type {
	switch {
	case x == nil || y == nil:
		return nil
	case x == y:
		return x
	case isLoose(x):
		return x
	case isLoose(y):
		return y
	case IsNumeric(x) && IsNumeric(y):
		return Wider(x, y)
	case IsNull(x) && IsReference(y):
		return y
	case IsNull(y) && IsReference(x):
		return x
	case c.IsAssignable(x, y):
		return y
	case c.IsAssignable(y, x):
		return x
	}
	return nil
}

func (c *Checker) errorf(pos src.Pos, format string, args ...interface{}) {
	if c.sink != nil {
		c.sink.Reportf(diag.Error, diag.Type, pos, format, args...)
	}
}
