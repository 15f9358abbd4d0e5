package ast

import "fmt"

// Action tells Transform how to proceed after Enter is called for a node.
type Action int

const (
	// ActionContinue visits the node's children and then calls Exit.
	ActionContinue Action = iota

	// ActionSkip leaves the node as-is: children are not visited and Exit
	// is not called. Used when a node has been rejected or is already in
	// its final form.
	ActionSkip
)

// Transformer is the interface for rewriting an AST. Transform calls Enter
// before a node's children are visited and Exit after.
//
// Enter may return a different node to replace the current one; the
// replacement is itself entered again, so constructs desugared on entry are
// fully re-visited. Exit may also return a replacement, but exit-time
// replacements are final: they are handed to the parent without being
// visited again. This split is what makes a transform pass stable: checks
// and desugaring happen on the way in, lowering to final form on the way
// out.
type Transformer interface {
	Enter(node Node, parent Node) (Node, Action)
	Exit(node Node, parent Node) Node
}

// Transform rewrites the tree rooted at node using the given Transformer
// and returns the resulting root. Nodes are rewritten in place where
// possible; the returned root differs from node only if the Transformer
// replaced it.
func Transform(node Node, t Transformer) Node {
	return transform(node, nil, t)
}

func transform(node Node, parent Node, t Transformer) Node {
	if node == nil {
		return nil
	}
	for {
		replacement, action := t.Enter(node, parent)
		if replacement == nil {
			panic(fmt.Sprintf("ast: Enter returned nil for %T", node))
		}
		if action == ActionSkip {
			return replacement
		}
		if replacement != node {
			// Desugared form: enter the replacement from scratch
			node = replacement
			continue
		}
		break
	}
	transformChildren(node, t)
	result := t.Exit(node, parent)
	if result == nil {
		panic(fmt.Sprintf("ast: Exit returned nil for %T", node))
	}
	return result
}

func transformExpr(x Expr, parent Node, t Transformer) Expr {
	if x == nil {
		return nil
	}
	result := transform(x, parent, t)
	expr, ok := result.(Expr)
	if !ok {
		panic(fmt.Sprintf("ast: expression replaced by %T", result))
	}
	return expr
}

func transformStmt(s Stmt, parent Node, t Transformer) Stmt {
	if s == nil {
		return nil
	}
	result := transform(s, parent, t)
	stmt, ok := result.(Stmt)
	if !ok {
		panic(fmt.Sprintf("ast: statement replaced by %T", result))
	}
	return stmt
}

// transformChildren rewrites the children of node in place.
func transformChildren(node Node, t Transformer) {
	switch n := node.(type) {
	case *Program:
		for i, stmt := range n.Stmts {
			n.Stmts[i] = transformStmt(stmt, n, t)
		}
	case *Block:
		for i, stmt := range n.Stmts {
			n.Stmts[i] = transformStmt(stmt, n, t)
		}
	case *Decl:
		// Binding targets are names, not expressions; only the
		// initializers are visited.
		for _, d := range n.Declarators {
			d.Value = transformExpr(d.Value, n, t)
		}
	case *ExprStmt:
		n.X = transformExpr(n.X, n, t)
	case *If:
		n.Cond = transformExpr(n.Cond, n, t)
		n.Consequence = transformStmt(n.Consequence, n, t)
		n.Alternative = transformStmt(n.Alternative, n, t)
	case *While:
		n.Cond = transformExpr(n.Cond, n, t)
		n.Body = transformStmt(n.Body, n, t)
	case *DoWhile:
		n.Body = transformStmt(n.Body, n, t)
		n.Cond = transformExpr(n.Cond, n, t)
	case *For:
		if n.Init != nil {
			n.Init = transform(n.Init, n, t)
		}
		n.Cond = transformExpr(n.Cond, n, t)
		n.Post = transformExpr(n.Post, n, t)
		n.Body = transformStmt(n.Body, n, t)
	case *ForIn:
		if n.Left != nil {
			n.Left = transform(n.Left, n, t)
		}
		n.Right = transformExpr(n.Right, n, t)
		n.Body = transformStmt(n.Body, n, t)
	case *Return:
		n.Value = transformExpr(n.Value, n, t)
	case *Throw:
		n.Value = transformExpr(n.Value, n, t)
	case *Case:
		n.Value = transformExpr(n.Value, n, t)
		for i, stmt := range n.Body {
			n.Body[i] = transformStmt(stmt, n, t)
		}
	case *Switch:
		n.Value = transformExpr(n.Value, n, t)
		for i, c := range n.Cases {
			n.Cases[i] = transformStmt(c, n, t).(*Case)
		}
	case *Labeled:
		n.Stmt = transformStmt(n.Stmt, n, t)
	case *With:
		n.Object = transformExpr(n.Object, n, t)
		n.Body = transformStmt(n.Body, n, t)
	case *FuncDecl:
		n.Fun = transformExpr(n.Fun, n, t).(*Func)
	case *Func:
		n.Body = transformStmt(n.Body, n, t).(*Block)
	case *ArrayLit:
		for i, item := range n.Items {
			n.Items[i] = transformExpr(item, n, t)
		}
	case *ObjectLit:
		for _, p := range n.Properties {
			p.Value = transformExpr(p.Value, n, t)
		}
	case *Prefix:
		n.X = transformExpr(n.X, n, t)
	case *Infix:
		n.X = transformExpr(n.X, n, t)
		n.Y = transformExpr(n.Y, n, t)
	case *Update:
		n.X = transformExpr(n.X, n, t)
	case *Assign:
		n.Target = transformExpr(n.Target, n, t)
		n.Value = transformExpr(n.Value, n, t)
	case *Cond:
		n.CondExpr = transformExpr(n.CondExpr, n, t)
		n.Consequence = transformExpr(n.Consequence, n, t)
		n.Alternative = transformExpr(n.Alternative, n, t)
	case *Call:
		n.Fun = transformExpr(n.Fun, n, t)
		for i, arg := range n.Args {
			n.Args[i] = transformExpr(arg, n, t)
		}
	case *New:
		n.Fun = transformExpr(n.Fun, n, t)
		for i, arg := range n.Args {
			n.Args[i] = transformExpr(arg, n, t)
		}
	case *GetAttr:
		// Attr is a member name, not a variable reference
		n.X = transformExpr(n.X, n, t)
	case *Index:
		n.X = transformExpr(n.X, n, t)
		n.Index = transformExpr(n.Index, n, t)
	case *Seq:
		for i, e := range n.Exprs {
			n.Exprs[i] = transformExpr(e, n, t)
		}
	case *Ident, *Number, *String, *Bool, *Null, *Break, *Continue,
		*BadExpr, *BadStmt:
		// No children
	default:
		panic(fmt.Sprintf("ast: unhandled node type %T", node))
	}
}
