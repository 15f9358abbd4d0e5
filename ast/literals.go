package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/schooljs/token"
)

// Number is an expression node that represents a numeric literal. All
// schooljs numbers are double precision floats.
type Number struct {
	ValuePos token.Position // position of the literal
	Literal  string         // literal text as it appeared in the source
	Value    float64        // literal value
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string {
	if x.Literal != "" {
		return x.Literal
	}
	return strconv.FormatFloat(x.Value, 'f', -1, 64)
}

// String is an expression node that represents a string literal.
type String struct {
	ValuePos token.Position // position of the opening quote
	Value    string         // literal value with escapes resolved
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Value) + 2) }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Bool is an expression node that represents "true" or "false".
type Bool struct {
	ValuePos token.Position // position of the literal
	Value    bool           // literal value
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position {
	if x.Value {
		return x.ValuePos.Advance(4)
	}
	return x.ValuePos.Advance(5)
}

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

// Null is an expression node that represents the "null" literal.
type Null struct {
	ValuePos token.Position // position of the literal
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.ValuePos }
func (x *Null) End() token.Position { return x.ValuePos.Advance(4) }
func (x *Null) String() string      { return "null" }

// ArrayLit is an expression node that represents an array literal such
// as "[1, 2, 3]".
type ArrayLit struct {
	Lbracket token.Position // position of "["
	Items    []Expr         // array elements
	Rbracket token.Position // position of "]"
}

func (x *ArrayLit) exprNode() {}

func (x *ArrayLit) Pos() token.Position { return x.Lbracket }
func (x *ArrayLit) End() token.Position { return x.Rbracket.Advance(1) }

func (x *ArrayLit) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Property is a single key-value entry in an object literal.
type Property struct {
	Key   *Ident // property name
	Value Expr   // property value
}

// ObjectLit is an expression node that represents an object literal such
// as "{ x: 1, y: 2 }".
type ObjectLit struct {
	Lbrace     token.Position // position of "{"
	Properties []*Property    // object properties
	Rbrace     token.Position // position of "}"
}

func (x *ObjectLit) exprNode() {}

func (x *ObjectLit) Pos() token.Position { return x.Lbrace }
func (x *ObjectLit) End() token.Position { return x.Rbrace.Advance(1) }

func (x *ObjectLit) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, p := range x.Properties {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(p.Key.String())
		out.WriteString(": ")
		out.WriteString(p.Value.String())
	}
	out.WriteString("}")
	return out.String()
}

// Func is an expression node that represents a function literal, whether
// written as "function (x) { ... }" or as an arrow function "(x) => { ... }".
type Func struct {
	FuncPos token.Position // position of "function" keyword or first parameter
	Name    *Ident         // function name; nil for anonymous functions
	Params  []*Ident       // function parameters
	Body    *Block         // function body
}

func (x *Func) exprNode() {}

func (x *Func) Pos() token.Position { return x.FuncPos }
func (x *Func) End() token.Position { return x.Body.End() }

func (x *Func) String() string {
	var out bytes.Buffer
	out.WriteString("function")
	if x.Name != nil {
		out.WriteString(" " + x.Name.String())
	}
	params := make([]string, 0, len(x.Params))
	for _, p := range x.Params {
		params = append(params, p.String())
	}
	out.WriteString("(" + strings.Join(params, ", ") + ") ")
	out.WriteString(x.Body.String())
	return out.String()
}
