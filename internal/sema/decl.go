package sema

import (
	"github.com/weft-lang/weft/internal/symbols"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// checkDecls checks global initializers, then class and interface bodies,
// then function bodies.
func (a *Analyzer) checkDecls(decls []syntax.Decl) {
	for _, d := range decls {
		if d, ok := d.(*syntax.VarDecl); ok {
			a.globalDecl(d)
		}
	}
	for _, d := range decls {
		switch d := d.(type) {
		case *syntax.ClassDecl:
			if c := a.classes[d]; c != nil {
				a.classDecl(d, c)
			}
		case *syntax.InterfaceDecl:
			if iface := a.ifaces[d]; iface != nil {
				a.interfaceDecl(d, iface)
			}
		}
	}
	for _, d := range decls {
		if d, ok := d.(*syntax.FuncDecl); ok && d.Body != nil {
			a.funcBody(d, d.Name.Value)
		}
	}
}

func (a *Analyzer) globalDecl(d *syntax.VarDecl) {
	sym := a.globals[d]
	typ := a.varInit(d, a.declaredType(d, sym))
	if sym != nil && sym.Type == nil {
		sym.Type = typ
	}
}

// declaredType returns the annotated type recorded for a declaration in
// the first pass without resolving it again.
func (a *Analyzer) declaredType(d *syntax.VarDecl, sym *symbols.Symbol) types.Type {
	if sym != nil {
		return sym.Type
	}
	if d.Type != nil {
		return a.info.Types[d.Type]
	}
	return nil
}

// varInit checks the initializer of a variable, field or constant against
// its declared type typ. If typ is nil, the type is inferred from the
// initializer. It returns the variable's type.
func (a *Analyzer) varInit(d *syntax.VarDecl, typ types.Type) types.Type {
	name := d.Name.Value
	if d.Value == nil {
		if d.IsConst() {
			a.errorf(d.Name.Pos(), "missing initializer for const %s", name)
		}
		if typ == nil {
			if d.Keyword == 0 {
				// C form declarations always carry a type; a nil type here
				// means the annotation failed to resolve.
				return nil
			}
			return a.reg.Dynamic()
		}
		return typ
	}

	var x operand
	a.expr(&x, d.Value)
	a.value(&x)

	if typ == nil {
		switch {
		case x.mode == invalid:
			return a.reg.Dynamic()
		case types.IsNull(x.typ):
			a.typeErrorf(d.Value.Pos(), "cannot infer the type of %s from null", name)
			return a.reg.Dynamic()
		}
		return x.typ
	}
	if x.mode != invalid {
		a.check.Assign(x.typ, typ, d.Value.Pos(), "initialization of "+name)
	}
	return typ
}

// classDecl checks the body of a class: member uniqueness, field
// initializers, method and constructor bodies, and conformance to an
// implemented interface.
func (a *Analyzer) classDecl(d *syntax.ClassDecl, c *types.Class) {
	outer := a.enterClass(d, c)
	a.openScope(symbols.ClassScope)
	a.declareTypeParams(d.TypeParams, a.tparams[d])
	defer func() {
		a.closeScope()
		a.leaveClass()
		a.class = outer
		c.SetComplete()
	}()

	// Declare members so that duplicates are reported once, in order.
	for _, m := range d.Members {
		switch m := m.(type) {
		case *syntax.VarDecl:
			mem := a.fields[m]
			var typ types.Type
			if mem != nil {
				typ = mem.Type
			}
			a.declare(&symbols.Symbol{
				Name:  m.Name.Value,
				Kind:  symbols.Variable,
				Vis:   m.Vis,
				Type:  typ,
				Pos:   m.Name.Pos(),
				Const: m.IsConst(),
				Used:  true,
				Node:  m,
			}, m.Name)
		case *syntax.FuncDecl:
			if m.Ctor {
				continue
			}
			a.declare(&symbols.Symbol{
				Name: m.Name.Value,
				Kind: symbols.Function,
				Vis:  m.Vis,
				Type: a.funcs[m],
				Pos:  m.Name.Pos(),
				Used: true,
				Node: m,
			}, m.Name)
		}
	}

	for _, m := range d.Members {
		if m, ok := m.(*syntax.VarDecl); ok {
			a.fieldInit(m)
		}
	}

	for _, m := range d.Members {
		m, ok := m.(*syntax.FuncDecl)
		if !ok {
			continue
		}
		if m.Body == nil {
			if !m.Ctor {
				a.errorf(m.Name.Pos(), "missing body for method %s.%s", c.Name(), m.Name.Value)
			}
			continue
		}
		name := c.Name() + "." + m.Name.Value
		if m.Ctor {
			name = c.Name() + ".constructor"
		}
		a.funcBody(m, name)
	}

	if iface, ok := c.Base().(*types.Interface); ok {
		a.conformance(d, c, iface)
	}
}

// fieldInit checks a field initializer. A field without a type
// annotation takes the type of its initializer.
func (a *Analyzer) fieldInit(d *syntax.VarDecl) {
	mem := a.fields[d]
	if mem == nil {
		a.varInit(d, a.info.Types[d.Type])
		return
	}
	typ := a.varInit(d, mem.Type)
	if mem.Type == nil {
		mem.Type = typ
		if sym := a.table.LookupLocal(d.Name.Value); sym != nil && sym.Node == d {
			sym.Type = typ
		}
	}
}

// conformance reports the members of iface that c does not provide with
// the right visibility and type.
func (a *Analyzer) conformance(d *syntax.ClassDecl, c *types.Class, iface *types.Interface) {
	for _, want := range iface.AllMembers() {
		have := c.Member(want.Name)
		switch {
		case have == nil:
			a.typeErrorf(d.Name.Pos(), "%s does not implement %s: missing member %s", c, iface, want.Name)
		case have.Vis != syntax.Public:
			a.typeErrorf(have.Pos, "%s does not implement %s: member %s is not public", c, iface, want.Name)
		case have.Type != nil && want.Type != nil && have.Type != want.Type:
			a.typeErrorf(have.Pos, "%s does not implement %s: member %s has type %s, want %s", c, iface, want.Name, have.Type, want.Type)
		}
	}
}

// interfaceDecl checks an interface body for duplicate members. Bodies and
// initializers in interfaces are rejected by the parser.
func (a *Analyzer) interfaceDecl(d *syntax.InterfaceDecl, iface *types.Interface) {
	a.openScope(symbols.ClassScope)
	defer a.closeScope()
	for _, m := range d.Members {
		switch m := m.(type) {
		case *syntax.FuncDecl:
			a.declare(&symbols.Symbol{
				Name:    m.Name.Value,
				Kind:    symbols.Function,
				Type:    a.funcs[m],
				Pos:     m.Name.Pos(),
				Forward: true,
				Used:    true,
				Node:    m,
			}, m.Name)
		case *syntax.VarDecl:
			var typ types.Type
			if mem := iface.Member(m.Name.Value); mem != nil {
				typ = mem.Type
			}
			a.declare(&symbols.Symbol{
				Name:  m.Name.Value,
				Kind:  symbols.Variable,
				Type:  typ,
				Pos:   m.Name.Pos(),
				Const: m.IsConst(),
				Used:  true,
				Node:  m,
			}, m.Name)
		}
	}
}

// funcBody checks the body of a function, method or constructor.
func (a *Analyzer) funcBody(d *syntax.FuncDecl, name string) {
	sig := a.funcs[d]
	if sig == nil {
		return
	}

	outerFn, outerLoop := a.fn, a.loopDepth
	a.fn = &funcContext{name: name, sig: sig}
	a.loopDepth = 0
	a.pushTypeParams(a.tparams[d])
	a.openScope(symbols.FunctionScope)
	defer func() {
		a.closeScope()
		a.popTypeParams()
		a.fn, a.loopDepth = outerFn, outerLoop
	}()

	a.declareTypeParams(d.TypeParams, a.tparams[d])
	for i, f := range d.Params {
		if f.Name == nil || f.Name.Value == "_" {
			continue
		}
		a.declare(&symbols.Symbol{
			Name: f.Name.Value,
			Kind: symbols.Param,
			Type: sig.Param(i),
			Pos:  f.Name.Pos(),
			Used: true,
			Node: f,
		}, f.Name)
	}

	// The body shares the function scope with the parameters, so a local
	// may not redeclare a parameter.
	a.stmts(d.Body.Stmts)

	res := sig.Result()
	if !d.Ctor && !types.IsVoid(res) && !types.IsLoose(res) && !a.fn.returnsValue {
		a.warnf(d.Body.Rbrace, "missing return statement in function %s returning %s", name, res)
	}
}
