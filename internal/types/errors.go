package types

import (
	"fmt"
	"strings"
)

// ArityError reports a constructor or template used with the wrong number
// of arguments.
type ArityError struct {
	Name string // type name, e.g. "vec3"
	What string // "constructor" or "template"
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	noun := "arguments"
	if e.Want == 1 {
		noun = "argument"
	}
	return fmt.Sprintf("%s %s expects %d %s, got %d", e.Name, e.What, e.Want, noun, e.Got)
}

// CycleError reports an inheritance cycle.
type CycleError struct {
	Path []string // type names along the cycle, first == last
}

func (e *CycleError) Error() string {
	return "inheritance cycle: " + strings.Join(e.Path, " -> ")
}
