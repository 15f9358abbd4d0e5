package runtime

import (
	"context"
	"time"

	"github.com/deepnoodle-ai/schooljs/object"
)

// Namespace builds the object that compiled programs reach through the
// runtime binding. Every member name matches what the instrumentation
// pass emits, so the same namespace serves both execution modes.
func Namespace(r *Runtime) *object.Map {
	ns := object.NewMap()
	ns.Set("version", object.NewString(Version))

	ns.Set("dot", object.NewBuiltin("dot", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("dot", 2, len(args)); err != nil {
			return nil, err
		}
		name, ok := args[1].(*object.String)
		if !ok {
			return nil, internalErrorf("member name must be a string")
		}
		return r.Dot(args[0], name.Value())
	}))

	ns.Set("arrayBoundsCheck", object.NewBuiltin("arrayBoundsCheck", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("arrayBoundsCheck", 2, len(args)); err != nil {
			return nil, err
		}
		return r.ArrayBoundsCheck(args[0], args[1])
	}))

	ns.Set("checkMember", object.NewBuiltin("checkMember", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("checkMember", 3, len(args)); err != nil {
			return nil, err
		}
		name, ok := args[1].(*object.String)
		if !ok {
			return nil, internalErrorf("member name must be a string")
		}
		return r.CheckMember(args[0], name.Value(), args[2])
	}))

	ns.Set("checkArray", object.NewBuiltin("checkArray", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("checkArray", 3, len(args)); err != nil {
			return nil, err
		}
		return r.CheckArray(args[0], args[1], args[2])
	}))

	ns.Set("checkUpdateOperand", object.NewBuiltin("checkUpdateOperand", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("checkUpdateOperand", 3, len(args)); err != nil {
			return nil, err
		}
		op, ok := args[0].(*object.String)
		if !ok {
			return nil, internalErrorf("operator must be a string")
		}
		return r.CheckUpdateOperand(op.Value(), args[1], args[2])
	}))

	ns.Set("updateOnlyNumbers", object.NewBuiltin("updateOnlyNumbers", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("updateOnlyNumbers", 2, len(args)); err != nil {
			return nil, err
		}
		op, ok := args[0].(*object.String)
		if !ok {
			return nil, internalErrorf("operator must be a string")
		}
		return r.UpdateOnlyNumbers(op.Value(), args[1])
	}))

	ns.Set("applyNumOrStringOp", object.NewBuiltin("applyNumOrStringOp", binaryOp(r.ApplyNumOrStringOp)))
	ns.Set("applyNumOp", object.NewBuiltin("applyNumOp", binaryOp(r.ApplyNumOp)))
	ns.Set("applyBinaryBooleanOp", object.NewBuiltin("applyBinaryBooleanOp", binaryOp(r.ApplyBinaryBooleanOp)))

	ns.Set("arityCheck", object.NewBuiltin("arityCheck", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("arityCheck", 3, len(args)); err != nil {
			return nil, err
		}
		name, ok := args[0].(*object.String)
		if !ok {
			return nil, internalErrorf("function name must be a string")
		}
		expected, ok := args[1].(*object.Number)
		if !ok || !expected.IsInteger() {
			return nil, internalErrorf("expected arity must be an integer")
		}
		got, ok := args[2].(*object.Number)
		if !ok || !got.IsInteger() {
			return nil, internalErrorf("received arity must be an integer")
		}
		if err := r.ArityCheck(name.Value(), int(expected.Value()), int(got.Value())); err != nil {
			return nil, err
		}
		return object.Undefined, nil
	}))

	arrayNS := object.NewMap()
	arrayNS.Set("create", object.NewBuiltin("create", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return r.NewArray(args...)
	}))
	ns.Set("Array", arrayNS)

	ns.Set("stopifyArray", object.NewBuiltin("stopifyArray", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("stopifyArray", 1, len(args)); err != nil {
			return nil, err
		}
		arr, ok := args[0].(*object.Array)
		if !ok {
			return nil, safetyErrorf("argument of stopifyArray must be an array")
		}
		return r.StopifyArray(arr), nil
	}))

	ns.Set("stopifyObjectArrays", object.NewBuiltin("stopifyObjectArrays", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("stopifyObjectArrays", 1, len(args)); err != nil {
			return nil, err
		}
		return r.StopifyObjectArrays(args[0]), nil
	}))

	ns.Set("enableTests", object.NewBuiltin("enableTests", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, safetyErrorf("function enableTests expected 1 or 2 arguments but received %d", len(args))
		}
		enabled, ok := args[0].(*object.Bool)
		if !ok {
			return nil, safetyErrorf("argument of enableTests must be a boolean")
		}
		var timeout time.Duration
		if len(args) == 2 {
			millis, ok := args[1].(*object.Number)
			if !ok || !millis.IsInteger() || millis.Value() <= 0 {
				return nil, safetyErrorf("test timeout must be a positive integer")
			}
			timeout = time.Duration(millis.Value()) * time.Millisecond
		}
		r.Session().EnableTests(enabled.Value(), timeout)
		return object.Undefined, nil
	}))

	ns.Set("test", object.NewBuiltin("test", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("test", 2, len(args)); err != nil {
			return nil, err
		}
		description, ok := args[0].(*object.String)
		if !ok {
			return nil, safetyErrorf("first argument of test must be a string")
		}
		if err := r.Test(ctx, description.Value(), args[1]); err != nil {
			return nil, err
		}
		return object.Undefined, nil
	}))

	ns.Set("assert", object.NewBuiltin("assert", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := r.ArityCheck("assert", 1, len(args)); err != nil {
			return nil, err
		}
		return r.Assert(args[0])
	}))

	ns.Set("summary", object.NewBuiltin("summary", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		styled := false
		switch len(args) {
		case 0:
		case 1:
			b, ok := args[0].(*object.Bool)
			if !ok {
				return nil, safetyErrorf("argument of summary must be a boolean")
			}
			styled = b.Value()
		default:
			return nil, safetyErrorf("summary takes at most 1 argument but received %d", len(args))
		}
		result, err := r.Summary(styled)
		if err != nil {
			return nil, err
		}
		return object.NewString(result.Output), nil
	}))

	return ns
}

func binaryOp(apply func(op string, x, y object.Object) (object.Object, error)) object.BuiltinFunc {
	return func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if len(args) != 3 {
			return nil, internalErrorf("binary operator call expected 3 arguments but received %d", len(args))
		}
		op, ok := args[0].(*object.String)
		if !ok {
			return nil, internalErrorf("operator must be a string")
		}
		return apply(op.Value(), args[1], args[2])
	}
}
