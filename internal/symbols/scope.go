// Package symbols implements the scoped symbol table of the Weft front end.
package symbols

import (
	"fmt"
	"sort"
	"strings"
)

// ScopeKind identifies the construct a scope belongs to.
type ScopeKind int

const (
	GlobalScope ScopeKind = iota
	FunctionScope
	BlockScope
	ClassScope
)

func (k ScopeKind) String() string {
	switch k {
	case GlobalScope:
		return "global"
	case FunctionScope:
		return "function"
	case BlockScope:
		return "block"
	case ClassScope:
		return "class"
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// Scope represents a lexical scope. Scopes form a tree rooted at the
// global scope; a child refers to its parent but never owns it.
type Scope struct {
	id       int
	kind     ScopeKind
	parent   *Scope
	children []*Scope
	elems    map[string]*Symbol
	order    []*Symbol // declaration order
}

func newScope(id int, kind ScopeKind, parent *Scope) *Scope {
	s := &Scope{
		id:     id,
		kind:   kind,
		parent: parent,
		elems:  make(map[string]*Symbol),
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// ID returns the scope's identifier, unique within its Table.
func (s *Scope) ID() int {
	return s.id
}

// Kind returns the kind of scope.
func (s *Scope) Kind() ScopeKind {
	return s.kind
}

// Parent returns the enclosing scope, or nil for the global scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns the nested scopes in the order they were opened.
func (s *Scope) Children() []*Scope {
	return s.children
}

// Lookup returns the symbol with the given name declared in this scope.
// It does not search enclosing scopes.
func (s *Scope) Lookup(name string) *Symbol {
	return s.elems[name]
}

// LookupParent returns the symbol with the given name by searching from
// this scope outward, together with the scope it was found in.
// It returns (nil, nil) if the name is not declared.
func (s *Scope) LookupParent(name string) (*Symbol, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if sym := scope.elems[name]; sym != nil {
			return sym, scope
		}
	}
	return nil, nil
}

// insert adds sym unless the name is taken, in which case it returns the
// existing symbol.
func (s *Scope) insert(sym *Symbol) *Symbol {
	if existing := s.elems[sym.Name]; existing != nil {
		return existing
	}
	sym.ScopeID = s.id
	s.elems[sym.Name] = sym
	s.order = append(s.order, sym)
	return nil
}

// Symbols returns the symbols of this scope in declaration order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}

// Names returns the names declared in this scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of symbols declared in this scope.
func (s *Scope) Len() int {
	return len(s.elems)
}

// String returns the scope tree for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	s.writeTo(&buf, 0)
	return buf.String()
}

func (s *Scope) writeTo(buf *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(buf, "%s%s scope %d {\n", prefix, s.kind, s.id)
	for _, name := range s.Names() {
		fmt.Fprintf(buf, "%s  %s\n", prefix, s.elems[name])
	}
	for _, child := range s.children {
		child.writeTo(buf, indent+1)
	}
	fmt.Fprintf(buf, "%s}\n", prefix)
}
