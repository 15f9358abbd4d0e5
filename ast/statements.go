package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/schooljs/token"
)

// Program is the root node of every parsed program.
type Program struct {
	Stmts []Stmt // top-level statements
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.Position{}
}

func (p *Program) End() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[len(p.Stmts)-1].End()
	}
	return token.Position{}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Stmts {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Block is a brace-delimited list of statements.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt         // statements in the block
	Rbrace token.Position // position of "}"
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() token.Position { return s.Lbrace }
func (s *Block) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, stmt := range s.Stmts {
		out.WriteString(stmt.String())
		out.WriteString("; ")
	}
	out.WriteString("}")
	return out.String()
}

// Declarator is a single binding within a variable declaration. The name
// is usually an *Ident; destructuring patterns parse as literal expressions
// in the binding position and are rejected later.
type Declarator struct {
	Name  Expr // binding target
	Value Expr // initializer; nil if absent
}

func (d *Declarator) String() string {
	if d.Value == nil {
		return d.Name.String()
	}
	return d.Name.String() + " = " + d.Value.String()
}

// Decl is a variable declaration statement such as "let x = 1, y = 2".
type Decl struct {
	DeclPos     token.Position // position of the declaration keyword
	Kind        string         // "let", "const", or "var"
	Declarators []*Declarator  // one or more bindings
}

func (s *Decl) stmtNode() {}

func (s *Decl) Pos() token.Position { return s.DeclPos }
func (s *Decl) End() token.Position {
	last := s.Declarators[len(s.Declarators)-1]
	if last.Value != nil {
		return last.Value.End()
	}
	return last.Name.End()
}

func (s *Decl) String() string {
	decls := make([]string, 0, len(s.Declarators))
	for _, d := range s.Declarators {
		decls = append(decls, d.String())
	}
	return s.Kind + " " + strings.Join(decls, ", ")
}

// ExprStmt is a statement consisting of a single expression.
type ExprStmt struct {
	X Expr // the expression
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.X.End() }
func (s *ExprStmt) String() string      { return s.X.String() }

// If is an if/else statement.
type If struct {
	IfPos       token.Position // position of "if" keyword
	Cond        Expr           // condition
	Consequence Stmt           // then branch
	Alternative Stmt           // else branch; nil if no else
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }
func (s *If) End() token.Position {
	if s.Alternative != nil {
		return s.Alternative.End()
	}
	return s.Consequence.End()
}

func (s *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(s.Cond.String())
	out.WriteString(") ")
	out.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// While is a while loop statement.
type While struct {
	WhilePos token.Position // position of "while" keyword
	Cond     Expr           // loop condition
	Body     Stmt           // loop body
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while (" + s.Cond.String() + ") " + s.Body.String()
}

// DoWhile is a do-while loop statement.
type DoWhile struct {
	DoPos token.Position // position of "do" keyword
	Body  Stmt           // loop body
	Cond  Expr           // loop condition
}

func (s *DoWhile) stmtNode() {}

func (s *DoWhile) Pos() token.Position { return s.DoPos }
func (s *DoWhile) End() token.Position { return s.Cond.End() }

func (s *DoWhile) String() string {
	return "do " + s.Body.String() + " while (" + s.Cond.String() + ")"
}

// For is a classic three-clause for loop statement.
type For struct {
	ForPos token.Position // position of "for" keyword
	Init   Node           // init clause: *Decl, Expr, or nil
	Cond   Expr           // condition; nil if absent
	Post   Expr           // post clause; nil if absent
	Body   Stmt           // loop body
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }
func (s *For) End() token.Position { return s.Body.End() }

func (s *For) String() string {
	var out bytes.Buffer
	out.WriteString("for (")
	if s.Init != nil {
		out.WriteString(s.Init.String())
	}
	out.WriteString("; ")
	if s.Cond != nil {
		out.WriteString(s.Cond.String())
	}
	out.WriteString("; ")
	if s.Post != nil {
		out.WriteString(s.Post.String())
	}
	out.WriteString(") ")
	out.WriteString(s.Body.String())
	return out.String()
}

// ForIn is a for-in or for-of loop statement.
type ForIn struct {
	ForPos token.Position // position of "for" keyword
	Left   Node           // loop variable: *Decl or Expr
	Of     bool           // true for for-of, false for for-in
	Right  Expr           // value being iterated
	Body   Stmt           // loop body
}

func (s *ForIn) stmtNode() {}

func (s *ForIn) Pos() token.Position { return s.ForPos }
func (s *ForIn) End() token.Position { return s.Body.End() }

func (s *ForIn) String() string {
	kw := "in"
	if s.Of {
		kw = "of"
	}
	return "for (" + s.Left.String() + " " + kw + " " + s.Right.String() + ") " +
		s.Body.String()
}

// Return is a return statement.
type Return struct {
	ReturnPos token.Position // position of "return" keyword
	Value     Expr           // return value; nil if absent
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }
func (s *Return) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.ReturnPos.Advance(6)
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// Break is a break statement.
type Break struct {
	BreakPos token.Position // position of "break" keyword
}

func (s *Break) stmtNode() {}

func (s *Break) Pos() token.Position { return s.BreakPos }
func (s *Break) End() token.Position { return s.BreakPos.Advance(5) }
func (s *Break) String() string      { return "break" }

// Continue is a continue statement.
type Continue struct {
	ContinuePos token.Position // position of "continue" keyword
}

func (s *Continue) stmtNode() {}

func (s *Continue) Pos() token.Position { return s.ContinuePos }
func (s *Continue) End() token.Position { return s.ContinuePos.Advance(8) }
func (s *Continue) String() string      { return "continue" }

// Throw is a throw statement.
type Throw struct {
	ThrowPos token.Position // position of "throw" keyword
	Value    Expr           // thrown value
}

func (s *Throw) stmtNode() {}

func (s *Throw) Pos() token.Position { return s.ThrowPos }
func (s *Throw) End() token.Position { return s.Value.End() }
func (s *Throw) String() string      { return "throw " + s.Value.String() }

// Case is a single case clause within a switch statement. A nil Value
// marks the default clause.
type Case struct {
	CasePos token.Position // position of "case" or "default" keyword
	Value   Expr           // case value; nil for default
	Body    []Stmt         // clause body
}

func (s *Case) stmtNode() {}

func (s *Case) Pos() token.Position { return s.CasePos }
func (s *Case) End() token.Position {
	if len(s.Body) > 0 {
		return s.Body[len(s.Body)-1].End()
	}
	return s.CasePos
}

func (s *Case) String() string {
	var out bytes.Buffer
	if s.Value == nil {
		out.WriteString("default:")
	} else {
		out.WriteString("case " + s.Value.String() + ":")
	}
	for _, stmt := range s.Body {
		out.WriteString(" " + stmt.String() + ";")
	}
	return out.String()
}

// Switch is a switch statement.
type Switch struct {
	SwitchPos token.Position // position of "switch" keyword
	Value     Expr           // value being switched on
	Cases     []*Case        // case clauses
	Rbrace    token.Position // position of "}"
}

func (s *Switch) stmtNode() {}

func (s *Switch) Pos() token.Position { return s.SwitchPos }
func (s *Switch) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Switch) String() string {
	var out bytes.Buffer
	out.WriteString("switch (" + s.Value.String() + ") {")
	for _, c := range s.Cases {
		out.WriteString(" " + c.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Labeled is a labeled statement such as "outer: while (...) { ... }".
type Labeled struct {
	Label *Ident // the label
	Stmt  Stmt   // the labeled statement
}

func (s *Labeled) stmtNode() {}

func (s *Labeled) Pos() token.Position { return s.Label.Pos() }
func (s *Labeled) End() token.Position { return s.Stmt.End() }
func (s *Labeled) String() string      { return s.Label.String() + ": " + s.Stmt.String() }

// With is a with statement. It is never accepted, but the parser produces
// the node so that a diagnostic can point at it.
type With struct {
	WithPos token.Position // position of "with" keyword
	Object  Expr           // scope object
	Body    Stmt           // statement body
}

func (s *With) stmtNode() {}

func (s *With) Pos() token.Position { return s.WithPos }
func (s *With) End() token.Position { return s.Body.End() }

func (s *With) String() string {
	return "with (" + s.Object.String() + ") " + s.Body.String()
}

// FuncDecl is a function declaration statement.
type FuncDecl struct {
	Fun *Func // the declared function; Name is always non-nil
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) Pos() token.Position { return s.Fun.Pos() }
func (s *FuncDecl) End() token.Position { return s.Fun.End() }
func (s *FuncDecl) String() string      { return s.Fun.String() }
