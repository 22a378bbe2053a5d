package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // invalid type

	Void
	Bool
	Char
	Int
	Float
	Double
	String
	Null // type of the null literal
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	InfoBoolean BasicInfo = 1 << iota
	InfoInteger
	InfoFloat
	InfoString
	InfoNumeric = InfoInteger | InfoFloat
)

// Basic represents a primitive type.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	rank int // numeric widening order; 0 for non-numeric types
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

// Underlying implements Type.
func (b *Basic) Underlying() Type {
	return b
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the basic types, indexed by BasicKind.
// Typ[Invalid] is nil, representing an invalid type.
//
// Basic types are immutable and shared by every Registry.
var Typ = []*Basic{
	Invalid: nil,
	Void:    {kind: Void, name: "void"},
	Bool:    {kind: Bool, info: InfoBoolean, name: "bool"},
	Char:    {kind: Char, info: InfoInteger, rank: 1, name: "char"},
	Int:     {kind: Int, info: InfoInteger, rank: 2, name: "int"},
	Float:   {kind: Float, info: InfoFloat, rank: 3, name: "float"},
	Double:  {kind: Double, info: InfoFloat, rank: 4, name: "double"},
	String:  {kind: String, info: InfoString, name: "string"},
	Null:    {kind: Null, name: "null"},
}
