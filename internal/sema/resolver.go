package sema

import (
	"github.com/weft-lang/weft/internal/symbols"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// collectDecls declares all top-level declarations in the current scope
// and resolves everything a later body may depend on: class and interface
// shells, template parameters, base types, member signatures, function
// signatures and annotated global types.
func (a *Analyzer) collectDecls(decls []syntax.Decl) {
	var classes []*syntax.ClassDecl
	var ifaces []*syntax.InterfaceDecl

	// Phase 1: type names, so that every signature may refer to any class.
	for _, d := range decls {
		switch d := d.(type) {
		case *syntax.ClassDecl:
			if a.collectClass(d) {
				classes = append(classes, d)
			}
		case *syntax.InterfaceDecl:
			if a.collectInterface(d) {
				ifaces = append(ifaces, d)
			}
		}
	}

	// Phase 2: template parameters, then bases. Instances such as
	// Box<int> in a base list need the template's parameters.
	for _, d := range classes {
		a.collectTypeParams(d)
	}
	for _, d := range classes {
		a.resolveClassBase(d)
	}
	for _, d := range ifaces {
		a.resolveInterfaceBase(d)
	}

	// Phase 3: member signatures.
	for _, d := range ifaces {
		a.collectInterfaceMembers(d)
	}
	for _, d := range classes {
		a.collectClassMembers(d)
	}

	// Phase 4: functions and globals.
	for _, d := range decls {
		if d, ok := d.(*syntax.FuncDecl); ok {
			a.collectFunc(d)
		}
	}
	for _, d := range decls {
		if d, ok := d.(*syntax.VarDecl); ok {
			a.collectGlobal(d)
		}
	}
}

// collectClass declares a class or forward class declaration. It reports
// whether d is a definition whose body must be checked.
func (a *Analyzer) collectClass(d *syntax.ClassDecl) bool {
	name := d.Name.Value
	if name == "_" {
		return false
	}
	if types.IsBuiltin(name) {
		a.errorf(d.Name.Pos(), "cannot declare class %s: %s is a predeclared type", name, name)
		return false
	}
	c := a.reg.Class(name)
	sym := &symbols.Symbol{
		Name:    name,
		Kind:    symbols.Class,
		Vis:     d.Vis,
		Pos:     d.Name.Pos(),
		Forward: d.Forward,
		Node:    d,
	}
	if c != nil {
		sym.Type = c
	}
	if a.declare(sym, d.Name) == nil || c == nil || d.Forward {
		return false
	}
	a.classes[d] = c
	a.defined[c] = true
	return true
}

// collectInterface declares an interface.
func (a *Analyzer) collectInterface(d *syntax.InterfaceDecl) bool {
	name := d.Name.Value
	if name == "_" {
		return false
	}
	if types.IsBuiltin(name) {
		a.errorf(d.Name.Pos(), "cannot declare interface %s: %s is a predeclared type", name, name)
		return false
	}
	iface := a.reg.Interface(name)
	sym := &symbols.Symbol{
		Name: name,
		Kind: symbols.Interface,
		Vis:  d.Vis,
		Pos:  d.Name.Pos(),
		Node: d,
	}
	if iface != nil {
		sym.Type = iface
	}
	if a.declare(sym, d.Name) == nil || iface == nil {
		return false
	}
	a.ifaces[d] = iface
	return true
}

// makeTypeParams creates the template parameters of owner.
func (a *Analyzer) makeTypeParams(owner string, names []*syntax.Name) []*types.TypeParam {
	if len(names) == 0 {
		return nil
	}
	list := make([]*types.TypeParam, len(names))
	for i, n := range names {
		list[i] = a.reg.TypeParam(owner, n.Value, i)
	}
	return list
}

func (a *Analyzer) collectTypeParams(d *syntax.ClassDecl) {
	c := a.classes[d]
	list := a.makeTypeParams(c.Name(), d.TypeParams)
	c.SetTypeParams(list)
	a.tparams[d] = list
}

// resolveClassBase resolves the base list of a class. A class may extend
// one class or implement one interface.
func (a *Analyzer) resolveClassBase(d *syntax.ClassDecl) {
	if d.Base == nil {
		return
	}
	c := a.classes[d]
	a.enterClass(d, c)
	base := a.typ(d.Base)
	a.leaveClass()
	if base == nil {
		return
	}

	switch base.(type) {
	case *types.Class, *types.Interface:
	default:
		a.typeErrorf(d.Base.Pos(), "invalid base type %s for class %s", base, c.Name())
		return
	}
	if err := a.reg.SetBase(c, base); err != nil {
		a.errorf(d.Base.Pos(), "%s", err)
	}
}

func (a *Analyzer) resolveInterfaceBase(d *syntax.InterfaceDecl) {
	if d.Base == nil {
		return
	}
	iface := a.ifaces[d]
	base := a.typ(d.Base)
	if base == nil {
		return
	}
	if _, ok := base.(*types.Interface); !ok {
		a.typeErrorf(d.Base.Pos(), "interface %s can only extend an interface, not %s", iface.Name(), base)
		return
	}
	if err := a.reg.SetBase(iface, base); err != nil {
		a.errorf(d.Base.Pos(), "%s", err)
	}
}

// enterClass sets up the context for resolving the parts of class d:
// its template parameters are in scope and its own name may be used
// without template arguments.
func (a *Analyzer) enterClass(d *syntax.ClassDecl, c *types.Class) (outer *types.Class) {
	outer = a.class
	a.class = c
	a.pushTypeParams(a.tparams[d])
	return outer
}

func (a *Analyzer) leaveClass() {
	a.popTypeParams()
	a.class = nil
}

// collectInterfaceMembers records the member signatures of an interface.
// Duplicates are reported when the interface body is checked.
func (a *Analyzer) collectInterfaceMembers(d *syntax.InterfaceDecl) {
	iface := a.ifaces[d]
	for _, m := range d.Members {
		switch m := m.(type) {
		case *syntax.FuncDecl:
			sig := a.signature(m, iface.Name()+"."+m.Name.Value)
			iface.AddMember(&types.Member{
				Name:   m.Name.Value,
				Type:   sig,
				Vis:    syntax.Public,
				Pos:    m.Name.Pos(),
				Method: true,
			})
		case *syntax.VarDecl:
			typ := a.varType(m)
			if typ == nil {
				typ = a.reg.Dynamic()
			}
			iface.AddMember(&types.Member{
				Name:  m.Name.Value,
				Type:  typ,
				Vis:   syntax.Public,
				Pos:   m.Name.Pos(),
				Const: m.IsConst(),
			})
		}
	}
}

// collectClassMembers records the fields, method signatures and
// constructor of a class. Field types given only by an initializer are
// filled in when the class body is checked.
func (a *Analyzer) collectClassMembers(d *syntax.ClassDecl) {
	c := a.classes[d]
	outer := a.enterClass(d, c)
	defer func() {
		a.leaveClass()
		a.class = outer
	}()

	for _, m := range d.Members {
		switch m := m.(type) {
		case *syntax.VarDecl:
			mem := &types.Member{
				Name:  m.Name.Value,
				Type:  a.varType(m),
				Vis:   m.Vis,
				Pos:   m.Name.Pos(),
				Const: m.IsConst(),
			}
			if c.AddMember(mem) == nil {
				a.fields[m] = mem
			}

		case *syntax.FuncDecl:
			if m.Ctor {
				a.collectCtor(c, m)
				continue
			}
			sig := a.signature(m, c.Name()+"."+m.Name.Value)
			c.AddMember(&types.Member{
				Name:   m.Name.Value,
				Type:   sig,
				Vis:    m.Vis,
				Pos:    m.Name.Pos(),
				Method: true,
			})

		case *syntax.ClassDecl, *syntax.InterfaceDecl:
			a.errorf(m.Pos(), "nested type declarations are not supported")
		}
	}
}

func (a *Analyzer) collectCtor(c *types.Class, d *syntax.FuncDecl) {
	sig := a.signature(d, c.Name()+".constructor")
	if prev := a.ctorDecl[c]; prev != nil {
		a.errorf(d.Pos(), "constructor of %s already declared at %d:%d", c.Name(), prev.Pos().Line(), prev.Pos().Col())
		return
	}
	a.ctorDecl[c] = d
	c.SetCtor(sig)
}

// signature resolves the signature of a function, method or constructor
// and records it for the body check. owner names the template parameters
// of a function template.
func (a *Analyzer) signature(d *syntax.FuncDecl, owner string) *types.Func {
	if sig := a.funcs[d]; sig != nil {
		return sig
	}
	tparams := a.makeTypeParams(owner, d.TypeParams)
	a.tparams[d] = tparams
	a.pushTypeParams(tparams)
	defer a.popTypeParams()

	params := make([]types.Type, len(d.Params))
	for i, f := range d.Params {
		var t types.Type
		if f.Type != nil {
			t = a.typ(f.Type)
		} else {
			// Unannotated script parameters are dynamic.
			t = a.reg.Dynamic()
		}
		if types.IsVoid(t) {
			a.typeErrorf(f.Pos(), "parameter %s declared void", fieldName(f))
			t = nil
		}
		if t == nil {
			t = a.reg.Dynamic()
		}
		params[i] = t
	}

	var result types.Type
	switch {
	case d.Ctor:
		result = types.Typ[types.Void]
	case d.Result != nil:
		result = a.typ(d.Result)
		if result == nil {
			result = a.reg.Dynamic()
		}
	case d.Form == syntax.KeywordForm:
		result = a.reg.Dynamic()
	default:
		result = types.Typ[types.Void]
	}

	sig := a.reg.Func(params, result)
	a.funcs[d] = sig
	return sig
}

func fieldName(f *syntax.Field) string {
	if f.Name == nil {
		return "(unnamed)"
	}
	return f.Name.Value
}

// collectFunc declares a top-level function. A prototype followed by a
// definition with the same signature declares one symbol.
func (a *Analyzer) collectFunc(d *syntax.FuncDecl) {
	name := d.Name.Value
	sig := a.signature(d, name)
	if name == "_" {
		return
	}
	a.declare(&symbols.Symbol{
		Name:    name,
		Kind:    symbols.Function,
		Vis:     d.Vis,
		Type:    sig,
		Pos:     d.Name.Pos(),
		Forward: d.Body == nil,
		Used:    true,
		Node:    d,
	}, d.Name)
}

// collectGlobal declares a global variable. Its type is completed from the
// initializer during the second pass if it is not annotated.
func (a *Analyzer) collectGlobal(d *syntax.VarDecl) {
	typ := a.varType(d)
	if d.Name.Value == "_" {
		return
	}
	sym := a.declare(&symbols.Symbol{
		Name:  d.Name.Value,
		Kind:  symbols.Variable,
		Vis:   d.Vis,
		Type:  typ,
		Pos:   d.Name.Pos(),
		Const: d.IsConst(),
		Used:  true,
		Node:  d,
	}, d.Name)
	if sym != nil {
		a.globals[d] = sym
	}
}

// varType resolves the annotated type of a variable, or returns nil.
func (a *Analyzer) varType(d *syntax.VarDecl) types.Type {
	if d.Type == nil {
		return nil
	}
	t := a.typ(d.Type)
	if types.IsVoid(t) {
		a.typeErrorf(d.Name.Pos(), "variable %s declared void", d.Name.Value)
		return nil
	}
	return t
}
