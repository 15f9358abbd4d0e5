package object

import "strings"

// Map is an object value holding named properties. Property insertion
// order is preserved, matching the source language.
type Map struct {
	items map[string]Object
	keys  []string
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{items: map[string]Object{}}
}

func (m *Map) Type() Type { return MAP }

func (m *Map) Inspect() string {
	var out strings.Builder
	out.WriteString("{")
	for i, key := range m.keys {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(key)
		out.WriteString(": ")
		out.WriteString(m.items[key].Inspect())
	}
	out.WriteString("}")
	return out.String()
}

func (m *Map) Interface() interface{} {
	result := make(map[string]interface{}, len(m.items))
	for key, value := range m.items {
		result[key] = value.Interface()
	}
	return result
}

// Equals compares maps by identity, matching strict equality on objects
// in the source language.
func (m *Map) Equals(other Object) bool {
	return Object(m) == other
}

// Get returns the property with the given name, if present.
func (m *Map) Get(key string) (Object, bool) {
	value, ok := m.items[key]
	return value, ok
}

// Has returns whether the property with the given name is present.
func (m *Map) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Set writes the property with the given name.
func (m *Map) Set(key string, value Object) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = value
}

// Keys returns the property names in insertion order.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of properties.
func (m *Map) Len() int { return len(m.items) }
