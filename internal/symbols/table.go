package symbols

import (
	"fmt"

	"github.com/weft-lang/weft/internal/src"
	"github.com/weft-lang/weft/internal/types"
)

// DuplicateError reports a name declared twice in one scope.
type DuplicateError struct {
	Name string
	Prev src.Pos // position of the earlier declaration
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already declared at %s", e.Name, shortPos(e.Prev))
}

// ConflictError reports a definition that does not match the forward
// declaration it completes.
type ConflictError struct {
	Name string
	Prev src.Pos
	Want types.Type // type of the forward declaration
	Got  types.Type
	Kind Kind // kind of the forward declaration
}

func (e *ConflictError) Error() string {
	if e.Want != nil && e.Got != nil && e.Want != e.Got {
		return fmt.Sprintf("conflicting declaration of %s: %s does not match forward declaration %s at %s",
			e.Name, e.Got, e.Want, shortPos(e.Prev))
	}
	return fmt.Sprintf("conflicting declaration of %s: forward declared as %s at %s",
		e.Name, e.Kind, shortPos(e.Prev))
}

func shortPos(p src.Pos) string {
	return fmt.Sprintf("%d:%d", p.Line(), p.Col())
}

// Table is a scoped symbol table. It starts with a single global scope.
// A Table belongs to one compilation; it is not safe for concurrent use.
type Table struct {
	global  *Scope
	current *Scope
	nextID  int
	count   int // symbols declared since the last Clear
}

// NewTable returns a Table holding an empty global scope.
func NewTable() *Table {
	t := &Table{}
	t.Clear()
	return t
}

// Clear discards all scopes and symbols and reinitializes a single empty
// global scope.
func (t *Table) Clear() {
	t.nextID = 0
	t.count = 0
	t.global = t.newScope(GlobalScope, nil)
	t.current = t.global
}

func (t *Table) newScope(kind ScopeKind, parent *Scope) *Scope {
	s := newScope(t.nextID, kind, parent)
	t.nextID++
	return s
}

// Global returns the global scope.
func (t *Table) Global() *Scope {
	return t.global
}

// Current returns the innermost open scope.
func (t *Table) Current() *Scope {
	return t.current
}

// Count returns the number of symbols declared since the table was
// created or last cleared, in all scopes.
func (t *Table) Count() int {
	return t.count
}

// PushScope opens a new scope nested in the current one.
func (t *Table) PushScope(kind ScopeKind) *Scope {
	t.current = t.newScope(kind, t.current)
	return t.current
}

// PopScope closes the current scope and returns it.
// Popping the global scope is a programming error and panics.
func (t *Table) PopScope() *Scope {
	s := t.current
	if s.parent == nil {
		panic("symbols: PopScope called on the global scope")
	}
	t.current = s.parent
	return s
}

// Declare declares sym in the current scope and returns the symbol that
// now holds the name.
//
// If the name is new in the scope, sym itself is returned. If the existing
// symbol is a forward declaration and sym is a definition of the same kind
// and type, the forward symbol is completed in place with sym's details
// and returned. Otherwise Declare returns the existing symbol and a
// *DuplicateError, or a *ConflictError for an incompatible definition.
func (t *Table) Declare(sym *Symbol) (*Symbol, error) {
	existing := t.current.insert(sym)
	if existing == nil {
		t.count++
		return sym, nil
	}
	if !existing.Forward || sym.Forward {
		return existing, &DuplicateError{Name: sym.Name, Prev: existing.Pos}
	}
	if existing.Kind != sym.Kind || !compatible(existing.Type, sym.Type) {
		return existing, &ConflictError{
			Name: sym.Name,
			Prev: existing.Pos,
			Want: existing.Type,
			Got:  sym.Type,
			Kind: existing.Kind,
		}
	}

	// Complete the forward declaration in place so that earlier lookups
	// see the definition.
	used := existing.Used
	scope := existing.ScopeID
	*existing = *sym
	existing.ScopeID = scope
	existing.Used = used || sym.Used
	existing.Forward = false
	return existing, nil
}

// compatible reports whether a definition of type def may complete a
// forward declaration of type fwd. Unresolved types are compatible.
func compatible(fwd, def types.Type) bool {
	return fwd == nil || def == nil || fwd == def
}

// Lookup finds name in the current scope or the nearest enclosing scope
// that declares it.
func (t *Table) Lookup(name string) *Symbol {
	sym, _ := t.current.LookupParent(name)
	return sym
}

// LookupLocal finds name in the current scope only.
func (t *Table) LookupLocal(name string) *Symbol {
	return t.current.Lookup(name)
}
