package symbols

import (
	"fmt"

	"github.com/weft-lang/weft/internal/src"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// Kind describes what a symbol names.
type Kind int

const (
	Variable Kind = iota
	Function
	Class
	Interface
	Param
	TypeParam
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Function:
		return "function"
	case Class:
		return "class"
	case Interface:
		return "interface"
	case Param:
		return "parameter"
	case TypeParam:
		return "type parameter"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Symbol is a declared name.
type Symbol struct {
	Name    string
	Kind    Kind
	Vis     syntax.Visibility
	ScopeID int        // set by Table.Declare
	Type    types.Type // nil until resolved
	Pos     src.Pos

	Forward bool // declared without a body; completed by a later definition
	Const   bool
	Used    bool

	// Node is the declaring node, if any.
	Node syntax.Node
}

// IsType reports whether the symbol names a type.
func (s *Symbol) IsType() bool {
	switch s.Kind {
	case Class, Interface, TypeParam:
		return true
	}
	return false
}

// String returns a description such as "variable x int".
func (s *Symbol) String() string {
	str := s.Kind.String() + " " + s.Name
	if s.Type != nil {
		str += " " + s.Type.String()
	}
	if s.Forward {
		str += " (forward)"
	}
	return str
}
