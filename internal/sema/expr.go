package sema

import (
	"strings"

	"github.com/weft-lang/weft/internal/symbols"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// expr checks e and stores the result in x. The type of every expression
// with a value is recorded in Info.Types.
func (a *Analyzer) expr(x *operand, e syntax.Expr) {
	*x = operand{mode: invalid, pos: e.Pos(), expr: e}
	a.exprInternal(x, e)
	x.expr = e
	switch x.mode {
	case invalid, novalue, builtin:
	default:
		if x.typ != nil {
			a.info.Types[e] = x.typ
		}
	}
}

func (a *Analyzer) exprInternal(x *operand, e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.BadExpr:
		// already reported by the parser

	case *syntax.Name:
		a.ident(x, e)

	case *syntax.BasicLit:
		x.mode = constant_
		switch e.Kind {
		case syntax.IntLit:
			x.typ = types.Typ[types.Int]
		case syntax.FloatLit:
			x.typ = types.Typ[types.Float]
			if strings.HasSuffix(e.Value, "d") || strings.HasSuffix(e.Value, "D") {
				x.typ = types.Typ[types.Double]
			}
		case syntax.StringLit:
			x.typ = types.Typ[types.String]
		default:
			x.setInvalid()
		}

	case *syntax.TemplateLit:
		for _, part := range e.Exprs {
			var y operand
			a.expr(&y, part)
			a.value(&y)
		}
		x.setValue(types.Typ[types.String])

	case *syntax.ParenExpr:
		a.expr(x, e.X)

	case *syntax.Operation:
		if e.Y == nil {
			a.unary(x, e)
		} else {
			a.binary(x, e)
		}

	case *syntax.AssignExpr:
		a.assignment(x, e)

	case *syntax.CondExpr:
		a.conditional(x, e)

	case *syntax.CallExpr:
		a.call(x, e)

	case *syntax.IndexExpr:
		a.index(x, e)

	case *syntax.SelectorExpr:
		a.selector(x, e)

	case *syntax.NewExpr:
		a.newExpr(x, e)

	case *syntax.ArrayLit:
		a.arrayLit(x, e)

	case *syntax.PointerType, *syntax.ArrayType, *syntax.InstType:
		if t := a.typ(e); t != nil {
			x.mode = typexpr
			x.typ = t
		}

	default:
		a.errorf(e.Pos(), "unexpected expression %s", syntax.ExprString(e))
	}
}

// value reports an error if x does not denote a value and makes it invalid.
func (a *Analyzer) value(x *operand) {
	switch x.mode {
	case novalue:
		a.typeErrorf(x.pos, "%s (no value) used as value", syntax.ExprString(x.expr))
	case builtin:
		a.typeErrorf(x.pos, "%s must be called", syntax.ExprString(x.expr))
	case typexpr:
		a.typeErrorf(x.pos, "%s is a type, not a value", syntax.ExprString(x.expr))
	default:
		return
	}
	x.setInvalid()
}

// ident resolves a name in an expression. Lookup order: this, template
// parameters, symbols in scope, inherited members of the enclosing class,
// the predeclared constants, builtin types and builtin functions.
func (a *Analyzer) ident(x *operand, e *syntax.Name) {
	name := e.Value
	switch name {
	case "_":
		return
	case "this":
		if a.class == nil {
			a.errorf(e.Pos(), "this used outside of a class")
			return
		}
		x.setValue(a.reg.Pointer(a.class))
		return
	}

	if tp := a.lookupTypeParam(name); tp != nil {
		x.mode = typexpr
		x.typ = tp
		return
	}

	sym, scope := a.table.Current().LookupParent(name)
	if a.class != nil && (sym == nil || scope.Kind() == symbols.GlobalScope) {
		if m := a.class.LookupMember(name); m != nil {
			a.member(x, e, m)
			return
		}
	}
	if sym != nil {
		sym.Used = true
		a.info.Uses[e] = sym
		a.symbol(x, sym)
		return
	}

	switch name {
	case "true", "false":
		x.mode = constant_
		x.typ = types.Typ[types.Bool]
		return
	case "null":
		x.mode = constant_
		x.typ = types.Typ[types.Null]
		return
	}
	if t := a.reg.Lookup(name); t != nil {
		x.mode = typexpr
		x.typ = t
		return
	}
	if b := builtins[name]; b != nil {
		x.mode = builtin
		x.fun = b
		return
	}
	a.errorf(e.Pos(), "undeclared identifier %s", name)
}

// symbol sets x to denote sym.
func (a *Analyzer) symbol(x *operand, sym *symbols.Symbol) {
	typ := sym.Type
	switch sym.Kind {
	case symbols.Variable, symbols.Param:
		if typ == nil {
			// A global used before its initializer was checked, or a
			// declaration whose type failed to resolve.
			typ = a.reg.Dynamic()
		}
		x.setVar(typ)
		if sym.Const {
			x.readonly = sym.Name
		}
	case symbols.Function:
		if typ == nil {
			return
		}
		x.setValue(typ)
	default:
		if typ == nil {
			return
		}
		x.mode = typexpr
		x.typ = typ
	}
}

// member sets x to denote member m, reporting an error if it is not
// accessible from the current context.
func (a *Analyzer) member(x *operand, sel *syntax.Name, m *types.Member) {
	if !a.accessible(m) {
		a.errorf(sel.Pos(), "cannot access %s member %s of %s", m.Vis, m.Name, m.Owner)
		return
	}
	typ := m.Type
	if typ == nil {
		typ = a.reg.Dynamic()
	}
	if m.Method {
		x.setValue(typ)
		return
	}
	x.setVar(typ)
	if m.Const {
		x.readonly = m.Name
	}
}

// accessible reports whether m may be used from the current class
// context. Private members are visible in their own class; protected
// members also in derived classes.
func (a *Analyzer) accessible(m *types.Member) bool {
	owner, ok := m.Owner.(*types.Class)
	if !ok || m.Vis == syntax.Public {
		return true
	}
	if a.class == nil {
		return false
	}
	if a.within(owner) {
		return true
	}
	return m.Vis == syntax.Protected && a.derives(a.class, owner)
}

// derives reports whether c has base among its bases, comparing template
// instances by their template.
func (a *Analyzer) derives(c, base *types.Class) bool {
	seen := make(map[types.Type]bool)
	for t := c.Base(); t != nil && !seen[t]; {
		seen[t] = true
		bc, ok := t.(*types.Class)
		if !ok {
			return false
		}
		if origin(bc) == origin(base) {
			return true
		}
		t = bc.Base()
	}
	return false
}

func (a *Analyzer) unary(x *operand, e *syntax.Operation) {
	switch e.Op {
	case syntax.And:
		a.expr(x, e.X)
		a.value(x)
		if x.mode == invalid {
			return
		}
		if x.mode != variable {
			a.typeErrorf(e.Pos(), "cannot take the address of %s", syntax.ExprString(e.X))
			x.setInvalid()
			return
		}
		x.setValue(a.reg.Pointer(x.typ))

	case syntax.Mul:
		a.expr(x, e.X)
		a.value(x)
		if x.mode == invalid {
			return
		}
		switch t := x.typ.(type) {
		case *types.Pointer:
			if types.IsVoid(t.Elem()) {
				a.typeErrorf(e.Pos(), "cannot dereference %s", t)
				x.setInvalid()
				return
			}
			x.setVar(t.Elem())
			x.readonly = ""
		default:
			if types.IsLoose(t) {
				x.setVar(a.reg.Dynamic())
				return
			}
			a.typeErrorf(e.Pos(), "invalid indirection of %s (type %s)", syntax.ExprString(e.X), t)
			x.setInvalid()
		}

	case syntax.Inc, syntax.Dec:
		a.expr(x, e.X)
		a.value(x)
		if x.mode == invalid {
			return
		}
		if !a.assignable(x) {
			x.setInvalid()
			return
		}
		a.unaryResult(x, e)

	default:
		a.expr(x, e.X)
		a.value(x)
		if x.mode == invalid {
			return
		}
		a.unaryResult(x, e)
	}
}

func (a *Analyzer) unaryResult(x *operand, e *syntax.Operation) {
	t, err := a.check.Unary(e.Op, x.typ)
	if err != nil {
		a.typeErrorf(e.Pos(), "%s", err)
		x.setInvalid()
		return
	}
	x.setValue(t)
}

func (a *Analyzer) binary(x *operand, e *syntax.Operation) {
	var y operand
	a.expr(x, e.X)
	a.value(x)
	a.expr(&y, e.Y)
	a.value(&y)
	if x.mode == invalid || y.mode == invalid {
		x.setInvalid()
		return
	}
	t, err := a.check.Binary(e.Op, x.typ, y.typ)
	if err != nil {
		a.typeErrorf(e.Pos(), "%s", err)
		x.setInvalid()
		return
	}
	x.setValue(t)
}

// assignable reports whether x denotes a location that may be assigned.
func (a *Analyzer) assignable(x *operand) bool {
	if x.mode != variable {
		a.errorf(x.pos, "cannot assign to %s", syntax.ExprString(x.expr))
		return false
	}
	if x.readonly != "" {
		a.errorf(x.pos, "cannot assign to const %s", x.readonly)
		return false
	}
	return true
}

func (a *Analyzer) assignment(x *operand, e *syntax.AssignExpr) {
	var y operand
	a.expr(x, e.X)
	a.value(x)
	a.expr(&y, e.Y)
	a.value(&y)
	if x.mode == invalid {
		return
	}
	if !a.assignable(x) {
		x.setInvalid()
		return
	}
	if y.mode == invalid {
		x.setValue(x.typ)
		return
	}

	if e.Op == syntax.Assign {
		a.check.Assign(y.typ, x.typ, e.Y.Pos(), "assignment")
	} else {
		t, err := a.check.Binary(e.Op.BinaryOp(), x.typ, y.typ)
		if err != nil {
			a.typeErrorf(e.Pos(), "%s", err)
		} else {
			a.check.Assign(t, x.typ, e.Pos(), "assignment")
		}
	}
	x.setValue(x.typ)
}

// condition reports an error if x cannot be used as the condition of
// the named construct.
func (a *Analyzer) condition(x *operand, what string) {
	if x.mode == invalid {
		return
	}
	if !types.IsTruthy(x.typ) {
		a.typeErrorf(x.pos, "cannot use %s as condition in %s", x.typ, what)
	}
}

func (a *Analyzer) conditional(x *operand, e *syntax.CondExpr) {
	var cond, y operand
	a.expr(&cond, e.Cond)
	a.value(&cond)
	a.condition(&cond, "conditional expression")

	a.expr(x, e.X)
	a.value(x)
	a.expr(&y, e.Y)
	a.value(&y)
	if x.mode == invalid || y.mode == invalid {
		x.setInvalid()
		return
	}
	t := a.check.Common(x.typ, y.typ)
	if t == nil {
		a.typeErrorf(e.Pos(), "mismatched types %s and %s in conditional expression", x.typ, y.typ)
		x.setInvalid()
		return
	}
	x.setValue(t)
}

func (a *Analyzer) selector(x *operand, e *syntax.SelectorExpr) {
	a.expr(x, e.X)
	a.value(x)
	if x.mode == invalid {
		return
	}

	t := x.typ
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
		// Members reached through a pointer are locations.
		x.mode = variable
		x.readonly = ""
	} else if e.Arrow && !types.IsLoose(t) {
		a.typeErrorf(e.Pos(), "invalid operator -> on %s (not a pointer)", t)
		x.setInvalid()
		return
	}

	name := e.Sel.Value
	switch bt := t.(type) {
	case *types.Class:
		m := bt.LookupMember(name)
		if m == nil {
			a.typeErrorf(e.Sel.Pos(), "%s has no member %s", bt, name)
			x.setInvalid()
			return
		}
		mode := x.mode
		x.setInvalid()
		a.member(x, e.Sel, m)
		if x.mode == variable && mode != variable {
			x.mode = value
		}

	case *types.Interface:
		m := bt.LookupMember(name)
		if m == nil {
			a.typeErrorf(e.Sel.Pos(), "%s has no member %s", bt, name)
			x.setInvalid()
			return
		}
		x.setInvalid()
		a.member(x, e.Sel, m)

	case *types.Vector:
		a.swizzle(x, bt, e.Sel)

	default:
		if types.IsLoose(t) {
			x.setVar(a.reg.Dynamic())
			x.readonly = ""
			return
		}
		a.typeErrorf(e.Sel.Pos(), "%s has no member %s", t, name)
		x.setInvalid()
	}
}

// swizzleSets are the component names of vectors.
var swizzleSets = [...]string{"xyzw", "rgba"}

// swizzle checks a vector component selection such as v.x or v.zyx. A
// single component of a variable is assignable.
func (a *Analyzer) swizzle(x *operand, v *types.Vector, sel *syntax.Name) {
	s := sel.Value
	if !validSwizzle(s, v.Dim()) {
		a.typeErrorf(sel.Pos(), "invalid swizzle .%s on %s", s, v)
		x.setInvalid()
		return
	}
	if len(s) == 1 {
		if x.mode == variable {
			x.setVar(v.Elem())
		} else {
			x.setValue(v.Elem())
		}
		return
	}
	x.setValue(a.reg.Vector(v.Elem(), len(s)))
}

func validSwizzle(s string, dim int) bool {
	if len(s) < 1 || len(s) > 4 {
		return false
	}
outer:
	for _, set := range swizzleSets {
		for _, r := range s {
			i := strings.IndexRune(set, r)
			if i < 0 || i >= dim {
				continue outer
			}
		}
		return true
	}
	return false
}

func (a *Analyzer) index(x *operand, e *syntax.IndexExpr) {
	var i operand
	a.expr(x, e.X)
	a.value(x)
	a.expr(&i, e.Index)
	a.value(&i)
	if i.mode != invalid && !types.IsInteger(i.typ) && !types.IsLoose(i.typ) {
		a.typeErrorf(i.pos, "index %s must be an integer, not %s", syntax.ExprString(e.Index), i.typ)
	}
	if x.mode == invalid {
		return
	}

	switch t := x.typ.(type) {
	case *types.Array:
		x.setVar(t.Elem())
	case *types.Pointer:
		x.setVar(t.Elem())
		x.readonly = ""
	case *types.Vector:
		x.setVar(t.Elem())
	case *types.Matrix:
		x.setVar(t.Column(a.reg))
	default:
		switch {
		case types.IsString(t):
			x.setValue(types.Typ[types.Char])
		case types.IsLoose(t):
			x.setVar(a.reg.Dynamic())
		default:
			a.typeErrorf(e.Pos(), "cannot index %s", t)
			x.setInvalid()
		}
	}
}

func (a *Analyzer) arrayLit(x *operand, e *syntax.ArrayLit) {
	if len(e.Elems) == 0 {
		x.setValue(a.reg.Array(a.reg.Dynamic(), 0))
		return
	}
	var elem types.Type
	for _, el := range e.Elems {
		var y operand
		a.expr(&y, el)
		a.value(&y)
		if y.mode == invalid {
			continue
		}
		if elem == nil {
			elem = y.typ
			continue
		}
		t := a.check.Common(elem, y.typ)
		if t == nil {
			a.typeErrorf(el.Pos(), "mismatched types %s and %s in array literal", elem, y.typ)
			continue
		}
		elem = t
	}
	if elem == nil {
		return
	}
	if types.IsNull(elem) {
		elem = a.reg.Dynamic()
	}
	x.setValue(a.reg.Array(elem, int64(len(e.Elems))))
}

func (a *Analyzer) newExpr(x *operand, e *syntax.NewExpr) {
	t := a.typ(e.Type)
	args := a.args(e.Args)
	if t == nil {
		return
	}
	if _, ok := t.(*types.Interface); ok {
		a.typeErrorf(e.Type.Pos(), "cannot instantiate interface %s", t)
		return
	}
	a.construct(e.Pos(), t, args)
	x.setValue(a.reg.Pointer(t))
}
