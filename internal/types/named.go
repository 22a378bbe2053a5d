package types

import (
	"strings"

	"github.com/weft-lang/weft/internal/src"
	"github.com/weft-lang/weft/internal/syntax"
)

// Member is a field or method of a class or interface.
type Member struct {
	Name   string
	Type   Type // *Func for methods
	Vis    syntax.Visibility
	Pos    src.Pos
	Method bool
	Const  bool
	Owner  Type // declaring *Class or *Interface
}

// memberSet is an ordered set of members keyed by name.
type memberSet struct {
	list  []*Member
	index map[string]*Member
}

// add inserts m unless a member with the same name exists, in which case
// it returns the existing member.
func (s *memberSet) add(m *Member) *Member {
	if prev := s.index[m.Name]; prev != nil {
		return prev
	}
	if s.index == nil {
		s.index = make(map[string]*Member)
	}
	s.index[m.Name] = m
	s.list = append(s.list, m)
	return nil
}

func (s *memberSet) lookup(name string) *Member {
	return s.index[name]
}

// Class represents a class type. Classes are nominal: the Registry interns
// them by name. A template instance such as Box<int> is a Class whose
// Origin is the template.
type Class struct {
	typ
	reg      *Registry
	name     string
	base     Type // *Class, *Interface or nil
	tparams  []*TypeParam
	members  memberSet
	ctor     *Func
	complete bool

	// template instances
	origin   *Class
	targs    []Type
	expanded bool
}

// Name returns the class name without template arguments.
func (c *Class) Name() string {
	return c.name
}

// Base returns the base class or interface, or nil.
func (c *Class) Base() Type {
	c.expand()
	return c.base
}

// TypeParams returns the template parameters of a class template.
func (c *Class) TypeParams() []*TypeParam {
	return c.tparams
}

// SetTypeParams makes c a class template.
func (c *Class) SetTypeParams(list []*TypeParam) {
	c.tparams = list
}

// IsTemplate reports whether c is a class template (not an instance).
func (c *Class) IsTemplate() bool {
	return len(c.tparams) > 0
}

// Origin returns the template a class instance was created from, or nil.
func (c *Class) Origin() *Class {
	return c.origin
}

// TypeArgs returns the template arguments of a class instance.
func (c *Class) TypeArgs() []Type {
	return c.targs
}

// Complete reports whether the class has been defined, as opposed to only
// forward declared.
func (c *Class) Complete() bool {
	if c.origin != nil {
		return c.origin.complete
	}
	return c.complete
}

// SetComplete marks the class as defined.
func (c *Class) SetComplete() {
	c.complete = true
}

// AddMember adds a member to the class. If a member with the same name is
// already declared, it is returned and m is not added.
func (c *Class) AddMember(m *Member) *Member {
	m.Owner = c
	return c.members.add(m)
}

// Members returns the members declared by the class itself.
func (c *Class) Members() []*Member {
	c.expand()
	return c.members.list
}

// Member returns the member declared by the class itself with the given
// name, or nil.
func (c *Class) Member(name string) *Member {
	c.expand()
	return c.members.lookup(name)
}

// LookupMember finds a member in c or its base chain.
func (c *Class) LookupMember(name string) *Member {
	return lookupMember(c, name)
}

// Ctor returns the constructor signature, or nil if the class has none.
func (c *Class) Ctor() *Func {
	c.expand()
	return c.ctor
}

// SetCtor sets the constructor signature.
func (c *Class) SetCtor(sig *Func) {
	c.ctor = sig
}

// DerivesFrom reports whether base appears in the base chain of c.
// A class does not derive from itself.
func (c *Class) DerivesFrom(base Type) bool {
	seen := make(map[Type]bool)
	for t := c.Base(); t != nil && !seen[t]; t = baseOf(t) {
		if t == base {
			return true
		}
		seen[t] = true
	}
	return false
}

// Underlying implements Type.
func (c *Class) Underlying() Type {
	return c
}

// String implements Type.
func (c *Class) String() string {
	if c.origin == nil {
		return c.name
	}
	args := make([]string, len(c.targs))
	for i, a := range c.targs {
		args[i] = a.String()
	}
	return c.name + "<" + strings.Join(args, ", ") + ">"
}

// expand fills in the base, members and constructor of a template
// instance by substituting its arguments into the template. The result is
// kept once the template has been completed.
func (c *Class) expand() {
	if c.origin == nil || c.expanded {
		return
	}
	smap := make(map[*TypeParam]Type, len(c.targs))
	for i, tp := range c.origin.tparams {
		if i < len(c.targs) {
			smap[tp] = c.targs[i]
		}
	}
	c.members = memberSet{}
	for _, m := range c.origin.members.list {
		inst := *m
		inst.Type = c.reg.subst(m.Type, smap)
		inst.Owner = c
		c.members.add(&inst)
	}
	if c.origin.base != nil {
		c.base = c.reg.subst(c.origin.base, smap)
	}
	if c.origin.ctor != nil {
		c.ctor = c.reg.subst(c.origin.ctor, smap).(*Func)
	}
	c.expanded = c.origin.complete
}

// Interface represents a structural interface type. Interfaces are
// interned by name.
type Interface struct {
	typ
	name    string
	base    Type // *Interface or nil
	members memberSet
}

// Name returns the interface name.
func (i *Interface) Name() string {
	return i.name
}

// Base returns the base interface, or nil.
func (i *Interface) Base() Type {
	return i.base
}

// AddMember adds a member signature. If a member with the same name is
// already declared, it is returned and m is not added.
func (i *Interface) AddMember(m *Member) *Member {
	m.Owner = i
	return i.members.add(m)
}

// Members returns the members declared by the interface itself.
func (i *Interface) Members() []*Member {
	return i.members.list
}

// Member returns the member declared by the interface itself, or nil.
func (i *Interface) Member(name string) *Member {
	return i.members.lookup(name)
}

// LookupMember finds a member in i or its base chain.
func (i *Interface) LookupMember(name string) *Member {
	return lookupMember(i, name)
}

// AllMembers returns the members of i and its base interfaces, nearest
// declaration first for each name.
func (i *Interface) AllMembers() []*Member {
	var list []*Member
	seen := make(map[string]bool)
	visited := make(map[Type]bool)
	for t := Type(i); t != nil && !visited[t]; t = baseOf(t) {
		visited[t] = true
		iface, ok := t.(*Interface)
		if !ok {
			break
		}
		for _, m := range iface.members.list {
			if !seen[m.Name] {
				seen[m.Name] = true
				list = append(list, m)
			}
		}
	}
	return list
}

// Underlying implements Type.
func (i *Interface) Underlying() Type {
	return i
}

// String implements Type.
func (i *Interface) String() string {
	return i.name
}

// baseOf returns the base of a class or interface, or nil.
func baseOf(t Type) Type {
	switch t := t.(type) {
	case *Class:
		return t.Base()
	case *Interface:
		return t.base
	}
	return nil
}

// lookupMember walks the base chain starting at t. The walk stops at a
// repeated type so that an unchecked cycle cannot loop forever.
func lookupMember(t Type, name string) *Member {
	seen := make(map[Type]bool)
	for ; t != nil && !seen[t]; t = baseOf(t) {
		seen[t] = true
		var m *Member
		switch t := t.(type) {
		case *Class:
			m = t.Member(name)
		case *Interface:
			m = t.members.lookup(name)
		}
		if m != nil {
			return m
		}
	}
	return nil
}
