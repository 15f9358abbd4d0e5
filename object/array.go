package object

import "strings"

// Array is an array value. Elements that have never been assigned hold a
// nil slot, distinguishing "never written" from any legitimate value.
//
// Arrays may be wrapped before they cross into code managed by an external
// cooperative scheduler; the wrapped flag records that this has happened so
// higher-order operations on the array can be intercepted for suspension.
type Array struct {
	items   []Object
	wrapped bool
}

// NewArray returns an Array holding the given items.
func NewArray(items []Object) *Array {
	return &Array{items: items}
}

func (a *Array) Type() Type { return ARRAY }

func (a *Array) Inspect() string {
	var out strings.Builder
	out.WriteString("[")
	for i, item := range a.items {
		if i > 0 {
			out.WriteString(", ")
		}
		if item == nil {
			out.WriteString("<empty>")
		} else {
			out.WriteString(item.Inspect())
		}
	}
	out.WriteString("]")
	return out.String()
}

func (a *Array) Interface() interface{} {
	items := make([]interface{}, 0, len(a.items))
	for _, item := range a.items {
		if item == nil {
			items = append(items, nil)
			continue
		}
		items = append(items, item.Interface())
	}
	return items
}

// Equals compares arrays by identity, matching strict equality on arrays
// in the source language.
func (a *Array) Equals(other Object) bool {
	return Object(a) == other
}

// Len returns the number of element slots in the array.
func (a *Array) Len() int { return len(a.items) }

// Get returns the element at the given index. The second return value is
// false if the slot has never been assigned.
func (a *Array) Get(index int) (Object, bool) {
	item := a.items[index]
	if item == nil {
		return nil, false
	}
	return item, true
}

// Set writes the element at the given index.
func (a *Array) Set(index int, value Object) {
	a.items[index] = value
}

// Append adds a value at the end of the array.
func (a *Array) Append(value Object) {
	a.items = append(a.items, value)
}

// Pop removes and returns the last element. The second return value is
// false if the array is empty.
func (a *Array) Pop() (Object, bool) {
	if len(a.items) == 0 {
		return nil, false
	}
	last := a.items[len(a.items)-1]
	a.items = a.items[:len(a.items)-1]
	if last == nil {
		return Undefined, true
	}
	return last, true
}

// Items returns the backing slice. Unassigned slots are nil.
func (a *Array) Items() []Object { return a.items }

// Wrapped reports whether the array has been wrapped for use under an
// external cooperative scheduler.
func (a *Array) Wrapped() bool { return a.wrapped }

// SetWrapped marks the array as wrapped.
func (a *Array) SetWrapped() { a.wrapped = true }
