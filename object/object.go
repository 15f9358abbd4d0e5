// Package object provides the runtime value types for schooljs programs.
//
// Values are usually handled through the Object interface and type asserted
// to a specific type when needed:
//
//	switch obj := obj.(type) {
//	case *object.Number:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
package object

import "context"

// Type of an object as a string.
type Type string

// Type constants. These double as the operand class names used in error
// messages, so their spelling is user visible.
const (
	ARRAY     Type = "array"
	BOOL      Type = "boolean"
	BUILTIN   Type = "builtin"
	FUNCTION  Type = "function"
	MAP       Type = "object"
	NULL      Type = "null"
	NUMBER    Type = "number"
	STRING    Type = "string"
	UNDEFINED Type = "undefined"
)

// Object is the interface that all schooljs value types implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Equals returns true if the given object is strictly equal to this
	// object. Primitives compare by value, everything else by identity.
	Equals(other Object) bool
}

// BuiltinFunc is the type signature of functions implemented in Go that are
// callable from schooljs code.
type BuiltinFunc func(ctx context.Context, args ...Object) (Object, error)

// Truthy returns whether the object is a true boolean. Unlike JavaScript,
// schooljs does not coerce other types in boolean position.
func Truthy(obj Object) (bool, bool) {
	if b, ok := obj.(*Bool); ok {
		return b.Value(), true
	}
	return false, false
}
