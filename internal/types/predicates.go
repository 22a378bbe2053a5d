package types

// Identical reports whether x and y are identical types.
// Types from one Registry are interned, so this is pointer identity.
func Identical(x, y Type) bool {
	return x != nil && x == y
}

// IsDynamic reports whether T is the dynamic type.
func IsDynamic(T Type) bool {
	_, ok := T.(*Dynamic)
	return ok
}

// isLoose reports whether T is checked dynamically: the dynamic type, or a
// template parameter whose actual type is only known per instance.
func isLoose(T Type) bool {
	switch T.(type) {
	case *Dynamic, *TypeParam:
		return true
	}
	return false
}

// IsLoose reports whether values of type T are checked at run time or per
// template instance rather than statically.
func IsLoose(T Type) bool {
	return isLoose(T)
}

func basic(T Type) *Basic {
	b, _ := T.(*Basic)
	return b
}

// IsBasic reports whether T is the basic type of the given kind.
func IsBasic(T Type, kind BasicKind) bool {
	b := basic(T)
	return b != nil && b.kind == kind
}

// IsVoid reports whether T is void.
func IsVoid(T Type) bool {
	return IsBasic(T, Void)
}

// IsNull reports whether T is the type of the null literal.
func IsNull(T Type) bool {
	return IsBasic(T, Null)
}

// IsBoolean reports whether T is bool.
func IsBoolean(T Type) bool {
	b := basic(T)
	return b != nil && b.info&InfoBoolean != 0
}

// IsInteger reports whether T is char or int.
func IsInteger(T Type) bool {
	b := basic(T)
	return b != nil && b.info&InfoInteger != 0
}

// IsFloat reports whether T is float or double.
func IsFloat(T Type) bool {
	b := basic(T)
	return b != nil && b.info&InfoFloat != 0
}

// IsNumeric reports whether T is char, int, float or double.
func IsNumeric(T Type) bool {
	b := basic(T)
	return b != nil && b.info&InfoNumeric != 0
}

// IsString reports whether T is string.
func IsString(T Type) bool {
	b := basic(T)
	return b != nil && b.info&InfoString != 0
}

// IsPointer reports whether T is a pointer type.
func IsPointer(T Type) bool {
	_, ok := T.(*Pointer)
	return ok
}

// IsReference reports whether null is assignable to T.
func IsReference(T Type) bool {
	switch T.(type) {
	case *Pointer, *Class, *Interface, *Func:
		return true
	}
	return IsString(T)
}

// IsTruthy reports whether T can be used as a condition.
func IsTruthy(T Type) bool {
	return isLoose(T) || IsBoolean(T) || IsNumeric(T) || IsPointer(T) || IsNull(T)
}

// rank returns the numeric widening order of T: char < int < float < double.
// It is 0 for non-numeric types.
func rank(T Type) int {
	if b := basic(T); b != nil {
		return b.rank
	}
	return 0
}

// Wider returns the wider of two numeric types.
func Wider(x, y Type) Type {
	if rank(y) > rank(x) {
		return y
	}
	return x
}

// Widens reports whether numeric type from converts implicitly to to.
func Widens(from, to Type) bool {
	return IsNumeric(from) && IsNumeric(to) && rank(from) <= rank(to)
}

// Comparable reports whether values of type T can be compared with == or !=.
func Comparable(T Type) bool {
	switch t := T.(type) {
	case *Basic:
		return t.kind != Void
	case *Pointer, *Class, *Interface, *Vector, *Matrix, *Dynamic, *TypeParam:
		return true
	}
	return false
}

// Ordered reports whether values of type T can be ordered with <, <=, >, >=.
func Ordered(T Type) bool {
	return isLoose(T) || IsNumeric(T) || IsString(T)
}
