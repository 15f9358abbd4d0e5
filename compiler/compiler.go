package compiler

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/token"
)

// Compile rewrites the given program into its instrumented form. On
// failure the returned error is an *Errors carrying every diagnostic the
// traversal found. The input tree is rewritten in place; callers that
// need the original should not reuse it after a call.
func Compile(program *ast.Program, opts ...Option) (*ast.Program, error) {
	options := Options{Mode: ModePreloaded}
	for _, opt := range opts {
		opt(&options)
	}
	v := &visitor{mode: options.Mode}
	result, ok := ast.Transform(program, v).(*ast.Program)
	if !ok {
		panic("compiler: program root replaced by a non-program node")
	}
	if len(v.diags) > 0 {
		return nil, &Errors{Diagnostics: v.diags}
	}
	return result, nil
}

var allowedBinaryOps = map[string]bool{
	"===": true, "!==": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&": true, "|": true, "^": true,
	"<<": true, ">>": true, ">>>": true,
	"&&": true, "||": true,
}

var allowedAssignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// visitor carries the state of one compilation: the loader mode, the
// accumulated diagnostics, and a counter for generated temporaries. One
// visitor serves exactly one Compile call.
type visitor struct {
	mode  Mode
	diags []Diagnostic
	temps int
}

func (v *visitor) errorf(node ast.Node, format string, args ...interface{}) {
	v.diags = append(v.diags, Diagnostic{
		Line:    node.Pos().LineNumber(),
		Message: fmt.Sprintf(format, args...),
	})
}

// Enter rejects constructs outside the subset and desugars compound
// assignments into simple ones. It never instruments: nodes produced here
// are revisited in full, so anything emitted at enter time must be plain
// source-shaped code.
func (v *visitor) Enter(node ast.Node, parent ast.Node) (ast.Node, ast.Action) {
	switch n := node.(type) {
	case *ast.Program:
		v.temps = 0
	case *ast.Call:
		if isRuntimeCall(n) {
			// Already instrumented: a second pass over a compiled
			// tree leaves it untouched.
			return n, ast.ActionSkip
		}
		if id, ok := n.Fun.(*ast.Ident); ok && id.Name == "Array" {
			v.errorf(n, "use 'new Array(length, init)' to create an array")
		}
	case *ast.Seq:
		if len(n.Exprs) > 0 {
			if call, ok := n.Exprs[0].(*ast.Call); ok && isRuntimeCall(call) {
				return n, ast.ActionSkip
			}
		}
	case *ast.New:
		if id, ok := n.Fun.(*ast.Ident); ok && id.Name == "Array" && len(n.Args) != 2 {
			v.errorf(n, "use 'new Array(length, init)' to create an array")
			return n, ast.ActionSkip
		}
	case *ast.Infix:
		// Loose equality always means strict equality here.
		switch n.Op {
		case "==":
			n.Op = "==="
		case "!=":
			n.Op = "!=="
		}
		if !allowedBinaryOps[n.Op] {
			v.errorf(n, "do not use the '%s' operator", n.Op)
			return n, ast.ActionSkip
		}
	case *ast.Prefix:
		if n.Op == "typeof" || n.Op == "delete" {
			v.errorf(n, "do not use the '%s' operator", n.Op)
			return n, ast.ActionSkip
		}
	case *ast.Update:
		if !n.Prefix {
			v.errorf(n, "do not use post-increment or post-decrement operators")
			return n, ast.ActionSkip
		}
		switch n.X.(type) {
		case *ast.Ident, *ast.GetAttr, *ast.Index:
		default:
			v.errorf(n, "operand of '%s' must be a variable or object member", n.Op)
			return n, ast.ActionSkip
		}
	case *ast.Assign:
		return v.enterAssign(n)
	case *ast.Decl:
		if n.Kind == "var" {
			v.errorf(n, "do not use the 'var' keyword; use 'let' or 'const'")
		}
		for _, d := range n.Declarators {
			name, ok := d.Name.(*ast.Ident)
			if !ok {
				v.errorf(n, "declaration target must be a single variable name")
				continue
			}
			if d.Value == nil {
				v.errorf(n, "you must initialize the variable '%s'", name.Name)
			}
		}
	case *ast.While:
		v.checkLoopBody(n, n.Body)
	case *ast.DoWhile:
		v.checkLoopBody(n, n.Body)
	case *ast.For:
		v.checkLoopBody(n, n.Body)
	case *ast.ForIn:
		if n.Of {
			v.errorf(n, "do not use for-of loops")
		} else {
			v.errorf(n, "do not use for-in loops")
		}
		return n, ast.ActionSkip
	case *ast.Throw:
		v.errorf(n, "do not use the 'throw' statement")
		return n, ast.ActionSkip
	case *ast.With:
		v.errorf(n, "do not use the 'with' statement")
		return n, ast.ActionSkip
	case *ast.Switch:
		v.errorf(n, "do not use the 'switch' statement")
		return n, ast.ActionSkip
	case *ast.Labeled:
		v.errorf(n, "do not use labeled statements")
		return n, ast.ActionSkip
	}
	return node, ast.ActionContinue
}

func (v *visitor) checkLoopBody(loop ast.Node, body ast.Stmt) {
	if _, ok := body.(*ast.Block); !ok {
		v.errorf(loop, "loop body must be enclosed in braces")
	}
}

// enterAssign validates an assignment and desugars the compound forms so
// the rest of the pass only ever sees the simple "=" operator.
func (v *visitor) enterAssign(n *ast.Assign) (ast.Node, ast.Action) {
	if !allowedAssignOps[n.Op] {
		v.errorf(n, "do not use the '%s' operator", n.Op)
		return n, ast.ActionSkip
	}
	if n.Op == "=" {
		switch n.Target.(type) {
		case *ast.Ident, *ast.GetAttr, *ast.Index:
			return n, ast.ActionContinue
		default:
			v.errorf(n, "assignment target must be a variable or object member")
			return n, ast.ActionSkip
		}
	}
	op := strings.TrimSuffix(n.Op, "=")
	switch target := n.Target.(type) {
	case *ast.Ident:
		// x op= rhs  =>  x = x op rhs
		return &ast.Assign{
			Target: target,
			OpPos:  n.OpPos,
			Op:     "=",
			Value: &ast.Infix{
				X:     &ast.Ident{NamePos: target.NamePos, Name: target.Name},
				OpPos: n.OpPos,
				Op:    op,
				Y:     n.Value,
			},
		}, ast.ActionContinue
	case *ast.GetAttr:
		// o.x op= rhs  =>  ($t = o, $t.x = $t.x op rhs)
		// The temporary keeps the object expression evaluated once.
		tmp := v.newTemp(target.Pos())
		return &ast.Seq{Exprs: []ast.Expr{
			&ast.Assign{Target: tmp, OpPos: n.OpPos, Op: "=", Value: target.X},
			&ast.Assign{
				Target: &ast.GetAttr{X: identCopy(tmp), Attr: target.Attr},
				OpPos:  n.OpPos,
				Op:     "=",
				Value: &ast.Infix{
					X: &ast.GetAttr{
						X:    identCopy(tmp),
						Attr: &ast.Ident{NamePos: target.Attr.NamePos, Name: target.Attr.Name},
					},
					OpPos: n.OpPos,
					Op:    op,
					Y:     n.Value,
				},
			},
		}}, ast.ActionContinue
	case *ast.Index:
		// a[i] op= rhs  =>  ($t0 = a, $t1 = i, $t0[$t1] = $t0[$t1] op rhs)
		tmpObj := v.newTemp(target.Pos())
		tmpIdx := v.newTemp(target.Pos())
		return &ast.Seq{Exprs: []ast.Expr{
			&ast.Assign{Target: tmpObj, OpPos: n.OpPos, Op: "=", Value: target.X},
			&ast.Assign{Target: tmpIdx, OpPos: n.OpPos, Op: "=", Value: target.Index},
			&ast.Assign{
				Target: &ast.Index{
					X:        identCopy(tmpObj),
					Lbracket: target.Lbracket,
					Index:    identCopy(tmpIdx),
					Rbracket: target.Rbracket,
				},
				OpPos: n.OpPos,
				Op:    "=",
				Value: &ast.Infix{
					X: &ast.Index{
						X:        identCopy(tmpObj),
						Lbracket: target.Lbracket,
						Index:    identCopy(tmpIdx),
						Rbracket: target.Rbracket,
					},
					OpPos: n.OpPos,
					Op:    op,
					Y:     n.Value,
				},
			},
		}}, ast.ActionContinue
	default:
		v.errorf(n, "assignment target must be a variable or object member")
		return n, ast.ActionSkip
	}
}

// Exit replaces validated nodes with their instrumented form. Exit
// replacements are final: the transform engine hands them to the parent
// without revisiting, which keeps the pass from instrumenting its own
// output.
func (v *visitor) Exit(node ast.Node, parent ast.Node) ast.Node {
	switch n := node.(type) {
	case *ast.Program:
		return v.exitProgram(n)
	case *ast.GetAttr:
		if memberDeferred(parent, n) {
			return n
		}
		return v.rtCall(n.Pos(), "dot", n.X, strLit(n.Attr.NamePos, n.Attr.Name))
	case *ast.Index:
		if memberDeferred(parent, n) {
			return n
		}
		return v.rtCall(n.Pos(), "arrayBoundsCheck", n.X, n.Index)
	case *ast.Infix:
		return v.exitInfix(n)
	case *ast.Assign:
		return v.exitAssign(n)
	case *ast.Update:
		return v.exitUpdate(n)
	case *ast.New:
		if id, ok := n.Fun.(*ast.Ident); ok && id.Name == "Array" {
			return v.arrayCreateCall(n)
		}
		return n
	}
	return node
}

func (v *visitor) exitProgram(n *ast.Program) ast.Node {
	if len(n.Stmts) == 0 || hasLoaderBinding(n) {
		return n
	}
	var loader ast.Expr
	switch v.mode {
	case ModePreloaded:
		loader = &ast.Ident{Name: PreloadedGlobal}
	case ModeStandalone:
		loader = &ast.Call{
			Fun:  &ast.Ident{Name: "require"},
			Args: []ast.Expr{&ast.String{Value: StandalonePath}},
		}
	default:
		panic(fmt.Sprintf("compiler: unknown loader mode %d", v.mode))
	}
	binding := &ast.Decl{
		Kind: "const",
		Declarators: []*ast.Declarator{{
			Name:  &ast.Ident{Name: LoaderIdent},
			Value: loader,
		}},
	}
	n.Stmts = append([]ast.Stmt{binding}, n.Stmts...)
	return n
}

func (v *visitor) exitInfix(n *ast.Infix) ast.Node {
	pos := n.Pos()
	switch n.Op {
	case "===", "!==":
		return n
	case "+":
		return v.rtCall(pos, "applyNumOrStringOp", strLit(pos, n.Op), n.X, n.Y)
	case "&&", "||":
		return v.rtCall(pos, "applyBinaryBooleanOp", strLit(pos, n.Op), n.X, n.Y)
	case "-", "*", "/", "%", "<", "<=", ">", ">=",
		"&", "|", "^", "<<", ">>", ">>>":
		return v.rtCall(pos, "applyNumOp", strLit(pos, n.Op), n.X, n.Y)
	default:
		panic(fmt.Sprintf("compiler: operator '%s' survived the allowlist", n.Op))
	}
}

func (v *visitor) exitAssign(n *ast.Assign) ast.Node {
	if n.Op != "=" {
		panic(fmt.Sprintf("compiler: compound assignment '%s' survived desugaring", n.Op))
	}
	switch target := n.Target.(type) {
	case *ast.Ident:
		return n
	case *ast.GetAttr:
		return v.rtCall(n.Pos(), "checkMember",
			target.X, strLit(target.Attr.NamePos, target.Attr.Name), n.Value)
	case *ast.Index:
		return v.rtCall(n.Pos(), "checkArray", target.X, target.Index, n.Value)
	default:
		panic(fmt.Sprintf("compiler: assignment target %T survived validation", n.Target))
	}
}

func (v *visitor) exitUpdate(n *ast.Update) ast.Node {
	pos := n.Pos()
	switch x := n.X.(type) {
	case *ast.Ident:
		// Validate the current value is a number, then let the native
		// update run on the trusted operand.
		check := v.rtCall(pos, "updateOnlyNumbers",
			strLit(pos, n.Op), identCopy(x))
		return &ast.Seq{Exprs: []ast.Expr{check, n}}
	case *ast.GetAttr:
		return v.rtCall(pos, "checkUpdateOperand",
			strLit(pos, n.Op), x.X, strLit(x.Attr.NamePos, x.Attr.Name))
	case *ast.Index:
		return v.rtCall(pos, "checkUpdateOperand",
			strLit(pos, n.Op), x.X, x.Index)
	default:
		panic(fmt.Sprintf("compiler: update operand %T survived validation", n.X))
	}
}

// arrayCreateCall rewrites "new Array(n, v)" into a call to the safe
// factory. Arity was validated on entry.
func (v *visitor) arrayCreateCall(n *ast.New) ast.Node {
	pos := n.Pos()
	return &ast.Call{
		Fun: &ast.GetAttr{
			X: &ast.GetAttr{
				X:    &ast.Ident{NamePos: pos, Name: LoaderIdent},
				Attr: &ast.Ident{NamePos: pos, Name: "Array"},
			},
			Attr: &ast.Ident{NamePos: pos, Name: "create"},
		},
		Lparen: pos,
		Args:   n.Args,
		Rparen: n.Rparen,
	}
}

// rtCall builds a call to a runtime namespace function.
func (v *visitor) rtCall(pos token.Position, name string, args ...ast.Expr) *ast.Call {
	return &ast.Call{
		Fun: &ast.GetAttr{
			X:    &ast.Ident{NamePos: pos, Name: LoaderIdent},
			Attr: &ast.Ident{NamePos: pos, Name: name},
		},
		Lparen: pos,
		Args:   args,
		Rparen: pos,
	}
}

func (v *visitor) newTemp(pos token.Position) *ast.Ident {
	name := fmt.Sprintf("$t%d", v.temps)
	v.temps++
	return &ast.Ident{NamePos: pos, Name: name}
}

func identCopy(id *ast.Ident) *ast.Ident {
	return &ast.Ident{NamePos: id.NamePos, Name: id.Name}
}

func strLit(pos token.Position, value string) *ast.String {
	return &ast.String{ValuePos: pos, Value: value}
}

// memberDeferred reports whether a member expression's rewrite belongs to
// its parent: assignment targets become checked writes, update operands
// become checked updates, and call or construct callees stay native so
// the receiver binding survives.
func memberDeferred(parent ast.Node, node ast.Expr) bool {
	switch p := parent.(type) {
	case *ast.Assign:
		return p.Target == node
	case *ast.Update:
		return p.X == node
	case *ast.Call:
		return p.Fun == node
	case *ast.New:
		return p.Fun == node
	}
	return false
}

// isRuntimeCall reports whether a call reaches through the loader
// identifier, meaning the pass itself generated it.
func isRuntimeCall(call *ast.Call) bool {
	fun := call.Fun
	for {
		attr, ok := fun.(*ast.GetAttr)
		if !ok {
			break
		}
		fun = attr.X
	}
	id, ok := fun.(*ast.Ident)
	return ok && id.Name == LoaderIdent
}

func hasLoaderBinding(n *ast.Program) bool {
	if len(n.Stmts) == 0 {
		return false
	}
	decl, ok := n.Stmts[0].(*ast.Decl)
	if !ok || decl.Kind != "const" || len(decl.Declarators) != 1 {
		return false
	}
	name, ok := decl.Declarators[0].Name.(*ast.Ident)
	return ok && name.Name == LoaderIdent
}
