package object

import (
	"math"
	"strconv"
)

// Number is a numeric value. All schooljs numbers are double precision
// floats, matching the source language.
type Number struct {
	value float64
}

// NewNumber returns a Number with the given value.
func NewNumber(value float64) *Number {
	return &Number{value: value}
}

func (n *Number) Type() Type { return NUMBER }

func (n *Number) Value() float64 { return n.value }

func (n *Number) Inspect() string {
	if math.IsInf(n.value, 1) {
		return "Infinity"
	}
	if math.IsInf(n.value, -1) {
		return "-Infinity"
	}
	if math.IsNaN(n.value) {
		return "NaN"
	}
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

func (n *Number) Interface() interface{} { return n.value }

func (n *Number) Equals(other Object) bool {
	o, ok := other.(*Number)
	return ok && o.value == n.value
}

// IsInteger returns whether the number holds an integral value.
func (n *Number) IsInteger() bool {
	return n.value == math.Trunc(n.value) && !math.IsInf(n.value, 0)
}

// String is a string value.
type String struct {
	value string
}

// NewString returns a String with the given value.
func NewString(value string) *String {
	return &String{value: value}
}

func (s *String) Type() Type { return STRING }

func (s *String) Value() string { return s.value }

func (s *String) Inspect() string { return strconv.Quote(s.value) }

func (s *String) Interface() interface{} { return s.value }

func (s *String) Equals(other Object) bool {
	o, ok := other.(*String)
	return ok && o.value == s.value
}

// Bool is a boolean value. The two possible values are the singletons
// True and False.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type { return BOOL }

func (b *Bool) Value() bool { return b.value }

func (b *Bool) Inspect() string { return strconv.FormatBool(b.value) }

func (b *Bool) Interface() interface{} { return b.value }

func (b *Bool) Equals(other Object) bool {
	return other == Object(b)
}

// NullType is the null value. The one possible value is the Null singleton.
type NullType struct{}

func (n *NullType) Type() Type { return NULL }

func (n *NullType) Inspect() string { return "null" }

func (n *NullType) Interface() interface{} { return nil }

func (n *NullType) Equals(other Object) bool {
	_, ok := other.(*NullType)
	return ok
}

// UndefinedType is the undefined value. The one possible value is the
// Undefined singleton.
type UndefinedType struct{}

func (u *UndefinedType) Type() Type { return UNDEFINED }

func (u *UndefinedType) Inspect() string { return "undefined" }

func (u *UndefinedType) Interface() interface{} { return nil }

func (u *UndefinedType) Equals(other Object) bool {
	_, ok := other.(*UndefinedType)
	return ok
}

var (
	True      = &Bool{value: true}
	False     = &Bool{value: false}
	Null      = &NullType{}
	Undefined = &UndefinedType{}
)

// NewBool returns the Bool singleton matching the given value.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}
