// Package types implements the type model of the Weft language: interned
// primitive, pointer, array, vector, matrix, class, interface, function and
// dynamic types, and the compatibility rules between them.
package types

// Type is the interface implemented by all types.
//
// Types are created through a Registry, which interns them: two requests
// for structurally identical types return the same value, so identity can
// be tested with ==.
type Type interface {
	// Underlying returns the underlying type.
	// For template instances, returns the instance itself; every other type
	// is its own underlying type.
	Underlying() Type

	// String returns the type as it would be written in Weft source.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
