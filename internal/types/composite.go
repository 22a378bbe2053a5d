package types

import (
	"fmt"
	"strings"
)

// Pointer represents a pointer type T*.
type Pointer struct {
	typ
	base Type
}

// Elem returns the type the pointer points to.
func (p *Pointer) Elem() Type {
	return p.base
}

// Underlying implements Type.
func (p *Pointer) Underlying() Type {
	return p
}

// String implements Type.
func (p *Pointer) String() string {
	return p.base.String() + "*"
}

// Array represents an array type T[N]. The length is -1 when it is not
// known, as in a parameter int xs[].
type Array struct {
	typ
	len  int64
	elem Type
}

// Len returns the array length, or -1 if it is unknown.
func (a *Array) Len() int64 {
	return a.len
}

// Elem returns the array element type.
func (a *Array) Elem() Type {
	return a.elem
}

// Underlying implements Type.
func (a *Array) Underlying() Type {
	return a
}

// String implements Type.
// Dimensions are written outermost first: int[2][3] is an array of two
// int[3].
func (a *Array) String() string {
	var dims strings.Builder
	var t Type = a
	for arr, ok := t.(*Array); ok; arr, ok = t.(*Array) {
		if arr.len < 0 {
			dims.WriteString("[]")
		} else {
			fmt.Fprintf(&dims, "[%d]", arr.len)
		}
		t = arr.elem
	}
	return t.String() + dims.String()
}

// Vector represents a fixed-size vector of 2, 3 or 4 components.
// The builtin vec2, vec3 and vec4 are float vectors.
type Vector struct {
	typ
	elem Type
	dim  int
}

// Elem returns the component type.
func (v *Vector) Elem() Type {
	return v.elem
}

// Dim returns the number of components.
func (v *Vector) Dim() int {
	return v.dim
}

// Underlying implements Type.
func (v *Vector) Underlying() Type {
	return v
}

// String implements Type.
func (v *Vector) String() string {
	if v.elem == Typ[Float] {
		return fmt.Sprintf("vec%d", v.dim)
	}
	return fmt.Sprintf("vec%d<%s>", v.dim, v.elem)
}

// Matrix represents a square float matrix. Only 4x4 matrices exist.
type Matrix struct {
	typ
	dim int
}

// Dim returns the number of rows and columns.
func (m *Matrix) Dim() int {
	return m.dim
}

// Column returns the vector type of one matrix column.
func (m *Matrix) Column(r *Registry) *Vector {
	return r.Vector(Typ[Float], m.dim)
}

// Underlying implements Type.
func (m *Matrix) Underlying() Type {
	return m
}

// String implements Type.
func (m *Matrix) String() string {
	return fmt.Sprintf("mat%d", m.dim)
}

// Func represents a function signature.
type Func struct {
	typ
	params []Type
	result Type // Typ[Void] for functions without a result
}

// Params returns the parameter types.
func (f *Func) Params() []Type {
	return f.params
}

// NumParams returns the number of parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the parameter type at index i.
func (f *Func) Param(i int) Type {
	return f.params[i]
}

// Result returns the result type. It is never nil.
func (f *Func) Result() Type {
	return f.result
}

// Underlying implements Type.
func (f *Func) Underlying() Type {
	return f
}

// String implements Type.
func (f *Func) String() string {
	var buf strings.Builder
	buf.WriteString("function(")
	for i, p := range f.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.String())
	}
	buf.WriteString("): ")
	buf.WriteString(f.result.String())
	return buf.String()
}

// Dynamic is the type of untyped script values (written any). It is
// compatible with every other type.
type Dynamic struct {
	typ
}

// Underlying implements Type.
func (d *Dynamic) Underlying() Type {
	return d
}

// String implements Type.
func (d *Dynamic) String() string {
	return "any"
}

// TypeParam is a template type parameter such as T in
// template <typename T> class Box.
type TypeParam struct {
	typ
	name  string
	index int
	owner string // name of the declaring class or function
}

// Name returns the parameter name.
func (t *TypeParam) Name() string {
	return t.name
}

// Index returns the position of the parameter in its template list.
func (t *TypeParam) Index() int {
	return t.index
}

// Owner returns the name of the template that declares the parameter.
func (t *TypeParam) Owner() string {
	return t.owner
}

// Underlying implements Type.
func (t *TypeParam) Underlying() Type {
	return t
}

// String implements Type.
func (t *TypeParam) String() string {
	return t.name
}
