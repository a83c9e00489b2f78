package greenlox

import "strconv"

// Value is a runtime value. The set of implementations is closed: Bool,
// String, Number and Nil. All of them are comparable, so two values are
// structurally equal exactly when they are == as interfaces.
type Value interface {
	String() string
	TypeName() string
	value()
}

type Bool bool

type String string

type Number float64

type Nil struct{}

func (b Bool) String() string {
	if b {
		return "true"
	}

	return "false"
}

func (s String) String() string {
	return string(s)
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (Nil) String() string {
	return "nil"
}

func (Bool) TypeName() string   { return "bool" }
func (String) TypeName() string { return "string" }
func (Number) TypeName() string { return "number" }
func (Nil) TypeName() string    { return "nil" }

func (Bool) value()   {}
func (String) value() {}
func (Number) value() {}
func (Nil) value()    {}

// Equal compares across all variants. Values of different variants are never
// equal.
func Equal(a, b Value) bool {
	return a == b
}

// Truthy reports whether v counts as true in a logical context: only nil and
// false are falsy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(t)
	default:
		return true
	}
}

// isTrue is the stricter rule used by statement conditions: the value must be
// the boolean true itself.
func isTrue(v Value) bool {
	b, ok := v.(Bool)
	return ok && bool(b)
}
