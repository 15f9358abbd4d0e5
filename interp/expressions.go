package interp

import (
	"context"
	"math"

	"fortio.org/safecast"

	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/object"
)

func (i *Interpreter) evalExpr(ctx context.Context, env *Env, expr ast.Expr) (object.Object, error) {
	switch x := expr.(type) {
	case *ast.Number:
		return object.NewNumber(x.Value), nil
	case *ast.String:
		return object.NewString(x.Value), nil
	case *ast.Bool:
		return object.NewBool(x.Value), nil
	case *ast.Null:
		return object.Null, nil
	case *ast.Ident:
		value, ok := env.Get(x.Name)
		if !ok {
			return nil, errorf("variable '%s' is not defined", x.Name)
		}
		return value, nil
	case *ast.ArrayLit:
		return i.evalArrayLit(ctx, env, x)
	case *ast.ObjectLit:
		return i.evalObjectLit(ctx, env, x)
	case *ast.Func:
		return &Closure{fn: x, env: env}, nil
	case *ast.Prefix:
		return i.evalPrefix(ctx, env, x)
	case *ast.Infix:
		return i.evalInfix(ctx, env, x)
	case *ast.Update:
		return i.evalUpdate(ctx, env, x)
	case *ast.Assign:
		return i.evalAssign(ctx, env, x)
	case *ast.Cond:
		cond, err := i.evalCond(ctx, env, x.CondExpr)
		if err != nil {
			return nil, err
		}
		if cond {
			return i.evalExpr(ctx, env, x.Consequence)
		}
		return i.evalExpr(ctx, env, x.Alternative)
	case *ast.Call:
		return i.evalCall(ctx, env, x)
	case *ast.New:
		return i.evalNew(ctx, env, x)
	case *ast.GetAttr:
		base, err := i.evalExpr(ctx, env, x.X)
		if err != nil {
			return nil, err
		}
		return i.runtime.Dot(base, x.Attr.Name)
	case *ast.Index:
		base, err := i.evalExpr(ctx, env, x.X)
		if err != nil {
			return nil, err
		}
		index, err := i.evalExpr(ctx, env, x.Index)
		if err != nil {
			return nil, err
		}
		return i.runtime.ArrayBoundsCheck(base, index)
	case *ast.Seq:
		var result object.Object = object.Undefined
		for _, e := range x.Exprs {
			value, err := i.evalExpr(ctx, env, e)
			if err != nil {
				return nil, err
			}
			result = value
		}
		return result, nil
	default:
		return nil, internalf("expression %T survived compilation", expr)
	}
}

func (i *Interpreter) evalArrayLit(ctx context.Context, env *Env, x *ast.ArrayLit) (object.Object, error) {
	items := make([]object.Object, 0, len(x.Items))
	for _, item := range x.Items {
		value, err := i.evalExpr(ctx, env, item)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
	return i.runtime.StopifyArray(object.NewArray(items)), nil
}

func (i *Interpreter) evalObjectLit(ctx context.Context, env *Env, x *ast.ObjectLit) (object.Object, error) {
	m := object.NewMap()
	for _, p := range x.Properties {
		value, err := i.evalExpr(ctx, env, p.Value)
		if err != nil {
			return nil, err
		}
		m.Set(p.Key.Name, value)
	}
	return m, nil
}

func (i *Interpreter) evalPrefix(ctx context.Context, env *Env, x *ast.Prefix) (object.Object, error) {
	operand, err := i.evalExpr(ctx, env, x.X)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "!":
		b, ok := operand.(*object.Bool)
		if !ok {
			return nil, errorf("operand of '!' must be a boolean")
		}
		return object.NewBool(!b.Value()), nil
	case "-":
		n, ok := operand.(*object.Number)
		if !ok {
			return nil, errorf("operand of unary '-' must be a number")
		}
		return object.NewNumber(-n.Value()), nil
	case "+":
		n, ok := operand.(*object.Number)
		if !ok {
			return nil, errorf("operand of unary '+' must be a number")
		}
		return n, nil
	case "~":
		n, ok := operand.(*object.Number)
		if !ok || n.Value() != math.Trunc(n.Value()) {
			return nil, errorf("operand of '~' must be an integer")
		}
		v, err := safecast.Convert[int32](n.Value())
		if err != nil {
			return nil, errorf("operand of '~' is out of range")
		}
		return object.NewNumber(float64(^v)), nil
	default:
		return nil, internalf("operator '%s' survived compilation", x.Op)
	}
}

// evalInfix only handles strict equality. Every other binary operator is
// lowered to a runtime call before evaluation.
func (i *Interpreter) evalInfix(ctx context.Context, env *Env, x *ast.Infix) (object.Object, error) {
	left, err := i.evalExpr(ctx, env, x.X)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpr(ctx, env, x.Y)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "===":
		return object.NewBool(left.Equals(right)), nil
	case "!==":
		return object.NewBool(!left.Equals(right)), nil
	default:
		return nil, internalf("operator '%s' survived compilation", x.Op)
	}
}

// evalUpdate handles the identifier form only. Member and array updates
// are lowered to checkUpdateOperand calls, and the identifier form is
// always preceded by a generated numeric-type check.
func (i *Interpreter) evalUpdate(ctx context.Context, env *Env, x *ast.Update) (object.Object, error) {
	id, ok := x.X.(*ast.Ident)
	if !ok || !x.Prefix {
		return nil, internalf("update of %T survived compilation", x.X)
	}
	current, found := env.Get(id.Name)
	if !found {
		return nil, errorf("variable '%s' is not defined", id.Name)
	}
	n, ok := current.(*object.Number)
	if !ok {
		return nil, errorf("argument of operator '%s' must be a number", x.Op)
	}
	var updated *object.Number
	switch x.Op {
	case "++":
		updated = object.NewNumber(n.Value() + 1)
	case "--":
		updated = object.NewNumber(n.Value() - 1)
	default:
		return nil, internalf("operator '%s' survived compilation", x.Op)
	}
	if err := env.Set(id.Name, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (i *Interpreter) evalAssign(ctx context.Context, env *Env, x *ast.Assign) (object.Object, error) {
	if x.Op != "=" {
		return nil, internalf("compound assignment '%s' survived compilation", x.Op)
	}
	value, err := i.evalExpr(ctx, env, x.Value)
	if err != nil {
		return nil, err
	}
	switch target := x.Target.(type) {
	case *ast.Ident:
		if err := env.Set(target.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.GetAttr:
		base, err := i.evalExpr(ctx, env, target.X)
		if err != nil {
			return nil, err
		}
		return i.runtime.CheckMember(base, target.Attr.Name, value)
	case *ast.Index:
		base, err := i.evalExpr(ctx, env, target.X)
		if err != nil {
			return nil, err
		}
		index, err := i.evalExpr(ctx, env, target.Index)
		if err != nil {
			return nil, err
		}
		return i.runtime.CheckArray(base, index, value)
	default:
		return nil, internalf("assignment target %T survived compilation", x.Target)
	}
}

func (i *Interpreter) evalCall(ctx context.Context, env *Env, x *ast.Call) (object.Object, error) {
	var callee object.Object
	switch fun := x.Fun.(type) {
	case *ast.GetAttr:
		base, err := i.evalExpr(ctx, env, fun.X)
		if err != nil {
			return nil, err
		}
		callee, err = i.runtime.Dot(base, fun.Attr.Name)
		if err != nil {
			return nil, err
		}
	case *ast.Index:
		base, err := i.evalExpr(ctx, env, fun.X)
		if err != nil {
			return nil, err
		}
		index, err := i.evalExpr(ctx, env, fun.Index)
		if err != nil {
			return nil, err
		}
		callee, err = i.runtime.ArrayBoundsCheck(base, index)
		if err != nil {
			return nil, err
		}
	default:
		value, err := i.evalExpr(ctx, env, fun)
		if err != nil {
			return nil, err
		}
		callee = value
	}
	args := make([]object.Object, 0, len(x.Args))
	for _, arg := range x.Args {
		value, err := i.evalExpr(ctx, env, arg)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return i.CallFunction(ctx, callee, args...)
}

// evalNew only sees construct expressions the pass left alone, which is
// anything other than the Array factory. None of those are supported.
func (i *Interpreter) evalNew(ctx context.Context, env *Env, x *ast.New) (object.Object, error) {
	if id, ok := x.Fun.(*ast.Ident); ok && id.Name == "Array" {
		args := make([]object.Object, 0, len(x.Args))
		for _, arg := range x.Args {
			value, err := i.evalExpr(ctx, env, arg)
			if err != nil {
				return nil, err
			}
			args = append(args, value)
		}
		return i.runtime.NewArray(args...)
	}
	return nil, errorf("'new' may only be used with Array")
}
