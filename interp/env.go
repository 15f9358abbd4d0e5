package interp

import "github.com/deepnoodle-ai/schooljs/object"

type binding struct {
	value   object.Object
	mutable bool
}

// Env is a lexical scope. Name resolution walks the parent chain;
// declaration always binds in the innermost scope.
type Env struct {
	parent   *Env
	bindings map[string]*binding
}

// NewEnv returns a scope nested inside parent. A nil parent makes a root
// scope.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, bindings: map[string]*binding{}}
}

// Declare binds a new name in this scope.
func (e *Env) Declare(name string, value object.Object, mutable bool) error {
	if _, ok := e.bindings[name]; ok {
		return errorf("variable '%s' is already declared", name)
	}
	e.bindings[name] = &binding{value: value, mutable: mutable}
	return nil
}

// Get resolves a name through the scope chain.
func (e *Env) Get(name string) (object.Object, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if b, ok := scope.bindings[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Set assigns to an existing binding. An unresolved name is bound fresh
// in this scope: definite-assignment analysis is a separate concern, and
// generated temporaries rely on assignment introducing their binding.
func (e *Env) Set(name string, value object.Object) error {
	for scope := e; scope != nil; scope = scope.parent {
		if b, ok := scope.bindings[name]; ok {
			if !b.mutable {
				return errorf("cannot assign to the const variable '%s'", name)
			}
			b.value = value
			return nil
		}
	}
	e.bindings[name] = &binding{value: value, mutable: true}
	return nil
}
