package types

import "fmt"

// Registry creates and interns types. Structurally identical requests
// return the same Type value, so types can be compared with ==. Classes
// and interfaces are interned by name.
//
// A Registry belongs to one compilation; it is not safe for concurrent use.
type Registry struct {
	pointers  map[Type]*Pointer
	arrays    map[arrayKey]*Array
	vectors   map[vectorKey]*Vector
	matrices  map[int]*Matrix
	funcs     map[int][]*Func // keyed by parameter count
	instances map[*Class][]*Class
	tparams   map[tparamKey]*TypeParam
	named     map[string]Type
	dynamic   *Dynamic
}

type arrayKey struct {
	elem Type
	len  int64
}

type vectorKey struct {
	elem Type
	dim  int
}

type tparamKey struct {
	owner string
	index int
}

// NewRegistry returns a Registry holding the builtin types.
func NewRegistry() *Registry {
	r := &Registry{}
	r.init()
	return r
}

func (r *Registry) init() {
	r.pointers = make(map[Type]*Pointer)
	r.arrays = make(map[arrayKey]*Array)
	r.vectors = make(map[vectorKey]*Vector)
	r.matrices = make(map[int]*Matrix)
	r.funcs = make(map[int][]*Func)
	r.instances = make(map[*Class][]*Class)
	r.tparams = make(map[tparamKey]*TypeParam)
	r.named = make(map[string]Type)
	r.dynamic = &Dynamic{}

	for _, kind := range []BasicKind{Void, Bool, Char, Int, Float, Double, String} {
		r.named[Typ[kind].name] = Typ[kind]
	}
	for dim := 2; dim <= 4; dim++ {
		v := r.Vector(Typ[Float], dim)
		r.named[v.String()] = v
	}
	r.named["mat4"] = r.Matrix(4)
	r.named["any"] = r.dynamic
}

// Clear discards every type created since NewRegistry, leaving only the
// builtin types.
func (r *Registry) Clear() {
	r.init()
}

// IsBuiltin reports whether name is a predeclared type name.
func IsBuiltin(name string) bool {
	switch name {
	case "void", "bool", "char", "int", "float", "double", "string",
		"vec2", "vec3", "vec4", "mat4", "any":
		return true
	}
	return false
}

// Basic returns the basic type of the given kind.
func (r *Registry) Basic(kind BasicKind) *Basic {
	return Typ[kind]
}

// Lookup returns the builtin type, class or interface with the given name,
// or nil.
func (r *Registry) Lookup(name string) Type {
	return r.named[name]
}

// Dynamic returns the dynamic type.
func (r *Registry) Dynamic() *Dynamic {
	return r.dynamic
}

// Pointer returns the pointer type base*.
func (r *Registry) Pointer(base Type) *Pointer {
	if p := r.pointers[base]; p != nil {
		return p
	}
	p := &Pointer{base: base}
	r.pointers[base] = p
	return p
}

// Array returns the array type elem[n]. A negative n means the length is
// unknown.
func (r *Registry) Array(elem Type, n int64) *Array {
	if n < 0 {
		n = -1
	}
	key := arrayKey{elem, n}
	if a := r.arrays[key]; a != nil {
		return a
	}
	a := &Array{len: n, elem: elem}
	r.arrays[key] = a
	return a
}

// Vector returns the vector type with dim components of type elem.
// It panics if dim is not 2, 3 or 4.
func (r *Registry) Vector(elem Type, dim int) *Vector {
	if dim < 2 || dim > 4 {
		panic(fmt.Sprintf("types: invalid vector dimension %d", dim))
	}
	key := vectorKey{elem, dim}
	if v := r.vectors[key]; v != nil {
		return v
	}
	v := &Vector{elem: elem, dim: dim}
	r.vectors[key] = v
	return v
}

// Matrix returns the square matrix type of the given dimension.
// It panics if dim is not 4.
func (r *Registry) Matrix(dim int) *Matrix {
	if dim != 4 {
		panic(fmt.Sprintf("types: invalid matrix dimension %d", dim))
	}
	if m := r.matrices[dim]; m != nil {
		return m
	}
	m := &Matrix{dim: dim}
	r.matrices[dim] = m
	return m
}

// Func returns the function type with the given parameters and result.
// A nil result means void.
func (r *Registry) Func(params []Type, result Type) *Func {
	if result == nil {
		result = Typ[Void]
	}
	n := len(params)
outer:
	for _, f := range r.funcs[n] {
		if f.result != result {
			continue
		}
		for i, p := range params {
			if f.params[i] != p {
				continue outer
			}
		}
		return f
	}
	f := &Func{params: append([]Type(nil), params...), result: result}
	r.funcs[n] = append(r.funcs[n], f)
	return f
}

// Class returns the class with the given name, creating it if needed.
// It returns nil if the name already denotes a type that is not a class.
func (r *Registry) Class(name string) *Class {
	switch t := r.named[name].(type) {
	case nil:
		c := &Class{reg: r, name: name}
		r.named[name] = c
		return c
	case *Class:
		return t
	}
	return nil
}

// Interface returns the interface with the given name, creating it if
// needed. It returns nil if the name already denotes a type that is not an
// interface.
func (r *Registry) Interface(name string) *Interface {
	switch t := r.named[name].(type) {
	case nil:
		i := &Interface{name: name}
		r.named[name] = i
		return i
	case *Interface:
		return t
	}
	return nil
}

// TypeParam returns the index'th template parameter of owner.
func (r *Registry) TypeParam(owner, name string, index int) *TypeParam {
	key := tparamKey{owner, index}
	if tp := r.tparams[key]; tp != nil && tp.name == name {
		return tp
	}
	tp := &TypeParam{name: name, index: index, owner: owner}
	r.tparams[key] = tp
	return tp
}

// Instance returns the instance of the class template tmpl for the given
// arguments, such as Box<int>. It returns an *ArityError if the number of
// arguments does not match the template's parameters.
func (r *Registry) Instance(tmpl *Class, args []Type) (*Class, error) {
	if tmpl.origin != nil {
		tmpl = tmpl.origin
	}
	if len(args) != len(tmpl.tparams) {
		return nil, &ArityError{Name: tmpl.name, What: "template", Want: len(tmpl.tparams), Got: len(args)}
	}
outer:
	for _, inst := range r.instances[tmpl] {
		for i, a := range args {
			if inst.targs[i] != a {
				continue outer
			}
		}
		return inst, nil
	}
	inst := &Class{
		reg:    r,
		name:   tmpl.name,
		origin: tmpl,
		targs:  append([]Type(nil), args...),
	}
	r.instances[tmpl] = append(r.instances[tmpl], inst)
	return inst, nil
}

// SetBase sets the base of a class or interface. It returns a *CycleError,
// leaving the base unset, if base already derives from t.
func (r *Registry) SetBase(t, base Type) error {
	if base != nil {
		path := []string{t.String(), base.String()}
		seen := make(map[Type]bool)
		for b := base; b != nil && !seen[b]; b = baseOf(b) {
			if b == t {
				return &CycleError{Path: path}
			}
			seen[b] = true
			if next := baseOf(b); next != nil {
				path = append(path, next.String())
			}
		}
	}
	switch t := t.(type) {
	case *Class:
		t.base = base
	case *Interface:
		t.base = base
	default:
		return fmt.Errorf("%s cannot have a base type", t)
	}
	return nil
}

// subst replaces template parameters in t according to smap.
func (r *Registry) subst(t Type, smap map[*TypeParam]Type) Type {
	switch t := t.(type) {
	case *TypeParam:
		if s, ok := smap[t]; ok {
			return s
		}
	case *Pointer:
		return r.Pointer(r.subst(t.base, smap))
	case *Array:
		return r.Array(r.subst(t.elem, smap), t.len)
	case *Vector:
		return r.Vector(r.subst(t.elem, smap), t.dim)
	case *Func:
		params := make([]Type, len(t.params))
		for i, p := range t.params {
			params[i] = r.subst(p, smap)
		}
		return r.Func(params, r.subst(t.result, smap))
	case *Class:
		if t.origin != nil {
			args := make([]Type, len(t.targs))
			for i, a := range t.targs {
				args[i] = r.subst(a, smap)
			}
			if inst, err := r.Instance(t.origin, args); err == nil {
				return inst
			}
		}
	}
	return t
}

// Subst replaces template parameters in t according to smap.
func (r *Registry) Subst(t Type, smap map[*TypeParam]Type) Type {
	if len(smap) == 0 {
		return t
	}
	return r.subst(t, smap)
}
