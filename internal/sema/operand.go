package sema

import (
	"github.com/weft-lang/weft/internal/src"
	"github.com/weft-lang/weft/internal/syntax"
	"github.com/weft-lang/weft/internal/types"
)

// operandMode describes the mode of an operand.
type operandMode int

const (
	invalid   operandMode = iota // operand is invalid
	novalue                      // operand has no value (void function call)
	builtin                      // operand is a builtin function
	typexpr                      // operand is a type expression
	constant_                    // operand is a literal or predeclared constant
	variable                     // operand is an assignable location
	value                        // operand is a computed value (not assignable)
)

var modeNames = [...]string{
	invalid:   "invalid operand",
	novalue:   "no value",
	builtin:   "builtin",
	typexpr:   "type",
	constant_: "constant",
	variable:  "variable",
	value:     "value",
}

func (m operandMode) String() string {
	return modeNames[m]
}

// operand represents the result of checking an expression.
type operand struct {
	mode operandMode
	pos  src.Pos
	typ  types.Type // nil after an error that was already reported
	expr syntax.Expr

	// readonly names the const variable or member the operand refers to.
	readonly string

	fun *builtinFunc // for mode builtin
}

// String returns a string representation of the operand for debugging.
func (x *operand) String() string {
	if x.mode == invalid || x.typ == nil {
		return x.mode.String()
	}
	return x.mode.String() + " of type " + x.typ.String()
}

func (x *operand) setInvalid() {
	x.mode = invalid
	x.typ = nil
}

func (x *operand) setValue(typ types.Type) {
	x.mode = value
	x.typ = typ
	x.readonly = ""
}

func (x *operand) setVar(typ types.Type) {
	x.mode = variable
	x.typ = typ
}
