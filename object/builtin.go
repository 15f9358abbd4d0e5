package object

import "context"

// Builtin is a function implemented in Go that is callable from schooljs
// code, such as the safety runtime entry points.
type Builtin struct {
	name string
	fn   BuiltinFunc
}

// NewBuiltin returns a Builtin with the given name and implementation.
func NewBuiltin(name string, fn BuiltinFunc) *Builtin {
	return &Builtin{name: name, fn: fn}
}

func (b *Builtin) Type() Type { return BUILTIN }

func (b *Builtin) Inspect() string { return "function " + b.name + "() { [builtin] }" }

func (b *Builtin) Interface() interface{} { return b.fn }

// Equals compares builtins by identity.
func (b *Builtin) Equals(other Object) bool {
	return Object(b) == other
}

// Name returns the name of the builtin.
func (b *Builtin) Name() string { return b.name }

// Call invokes the builtin.
func (b *Builtin) Call(ctx context.Context, args ...Object) (Object, error) {
	return b.fn(ctx, args...)
}
