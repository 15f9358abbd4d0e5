package interp

import (
	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/object"
)

// Closure is a function value paired with the scope it was created in.
type Closure struct {
	fn  *ast.Func
	env *Env
}

func (c *Closure) Type() object.Type { return object.FUNCTION }

func (c *Closure) Inspect() string {
	name := ""
	if c.fn.Name != nil {
		name = c.fn.Name.Name
	}
	return "function " + name + "() { ... }"
}

func (c *Closure) Interface() interface{} { return nil }

func (c *Closure) Equals(other object.Object) bool {
	return c == other
}

// Name returns the function's declared name, or "anonymous" for function
// expressions and arrow functions without one.
func (c *Closure) Name() string {
	if c.fn.Name != nil && c.fn.Name.Name != "" {
		return c.fn.Name.Name
	}
	return "anonymous"
}
