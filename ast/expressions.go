package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/schooljs/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "!ready" and "-x".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!", "-", "+", "~", "typeof", "delete"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	if x.Op == "typeof" || x.Op == "delete" {
		return "(" + x.Op + " " + x.X.String() + ")"
	}
	return "(" + x.Op + x.X.String() + ")"
}

// Infix is an operator expression where the operator is between the operands.
// Examples include "x + y" and "5 - 1".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "===", "&&", etc.
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Update is an increment or decrement expression such as "++x" or "x--".
type Update struct {
	OpPos  token.Position // position of operator for prefix form, operand for postfix
	Op     string         // operator: "++" or "--"
	Prefix bool           // true for "++x", false for "x++"
	X      Expr           // operand
}

func (x *Update) exprNode() {}

func (x *Update) Pos() token.Position { return x.OpPos }
func (x *Update) End() token.Position {
	if x.Prefix {
		return x.X.End()
	}
	return x.X.End().Advance(2)
}

func (x *Update) String() string {
	if x.Prefix {
		return "(" + x.Op + x.X.String() + ")"
	}
	return "(" + x.X.String() + x.Op + ")"
}

// Assign is an assignment expression such as "x = 5" or "x += 1". The
// target is an identifier, a member expression, or an index expression.
type Assign struct {
	Target Expr           // assignment target
	OpPos  token.Position // position of operator
	Op     string         // operator: "=", "+=", "-=", "*=", "/=", "%="
	Value  Expr           // value being assigned
}

func (x *Assign) exprNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// Cond is a ternary conditional expression: "cond ? a : b".
type Cond struct {
	CondExpr    Expr // condition
	Consequence Expr // value when condition is true
	Alternative Expr // value when condition is false
}

func (x *Cond) exprNode() {}

func (x *Cond) Pos() token.Position { return x.CondExpr.Pos() }
func (x *Cond) End() token.Position { return x.Alternative.End() }

func (x *Cond) String() string {
	return "(" + x.CondExpr.String() + " ? " + x.Consequence.String() +
		" : " + x.Alternative.String() + ")"
}

// Call is a function call expression such as "f(x, y)".
type Call struct {
	Fun    Expr           // function being called
	Lparen token.Position // position of "("
	Args   []Expr         // call arguments
	Rparen token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, arg := range x.Args {
		args = append(args, arg.String())
	}
	return x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}

// New is a constructor call expression such as "new Array(3, 0)".
type New struct {
	NewPos token.Position // position of "new" keyword
	Fun    Expr           // constructor being invoked
	Args   []Expr         // constructor arguments
	Rparen token.Position // position of ")"
}

func (x *New) exprNode() {}

func (x *New) Pos() token.Position { return x.NewPos }
func (x *New) End() token.Position { return x.Rparen.Advance(1) }

func (x *New) String() string {
	args := make([]string, 0, len(x.Args))
	for _, arg := range x.Args {
		args = append(args, arg.String())
	}
	return "new " + x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}

// GetAttr is a static member access expression such as "obj.name".
type GetAttr struct {
	X    Expr   // object whose member is accessed
	Attr *Ident // member name
}

func (x *GetAttr) exprNode() {}

func (x *GetAttr) Pos() token.Position { return x.X.Pos() }
func (x *GetAttr) End() token.Position { return x.Attr.End() }

func (x *GetAttr) String() string { return x.X.String() + "." + x.Attr.String() }

// Index is a computed member access expression such as "arr[i]".
type Index struct {
	X        Expr           // value being indexed
	Lbracket token.Position // position of "["
	Index    Expr           // index expression
	Rbracket token.Position // position of "]"
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbracket.Advance(1) }

func (x *Index) String() string { return x.X.String() + "[" + x.Index.String() + "]" }

// Seq is a sequence expression. The sub-expressions are evaluated left to
// right and the value of the last one is the value of the sequence. Seq
// nodes are generated when compound forms are desugared; there is no source
// syntax for them.
type Seq struct {
	Exprs []Expr // sequenced expressions; never empty
}

func (x *Seq) exprNode() {}

func (x *Seq) Pos() token.Position { return x.Exprs[0].Pos() }
func (x *Seq) End() token.Position { return x.Exprs[len(x.Exprs)-1].End() }

func (x *Seq) String() string {
	exprs := make([]string, 0, len(x.Exprs))
	for _, e := range x.Exprs {
		exprs = append(exprs, e.String())
	}
	return "(" + strings.Join(exprs, ", ") + ")"
}
