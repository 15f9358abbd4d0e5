package runtime

import (
	"context"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/deepnoodle-ai/schooljs/object"
)

// arrayMember resolves the named member of an array value.
func (r *Runtime) arrayMember(arr *object.Array, name string) (object.Object, error) {
	switch name {
	case "length":
		return object.NewNumber(float64(arr.Len())), nil
	case "push":
		return object.NewBuiltin("push", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			if err := r.ArityCheck("push", 1, len(args)); err != nil {
				return nil, err
			}
			arr.Append(args[0])
			return object.NewNumber(float64(arr.Len())), nil
		}), nil
	case "pop":
		return object.NewBuiltin("pop", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			if err := r.ArityCheck("pop", 0, len(args)); err != nil {
				return nil, err
			}
			value, ok := arr.Pop()
			if !ok {
				return nil, safetyErrorf("cannot pop from an empty array")
			}
			return value, nil
		}), nil
	case "join":
		return object.NewBuiltin("join", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			if err := r.ArityCheck("join", 1, len(args)); err != nil {
				return nil, err
			}
			sep, ok := args[0].(*object.String)
			if !ok {
				return nil, safetyErrorf("argument of join must be a string")
			}
			parts := make([]string, 0, arr.Len())
			for i := 0; i < arr.Len(); i++ {
				item, ok := arr.Get(i)
				if !ok {
					return nil, safetyErrorf("index %d is out of array bounds", i)
				}
				if s, ok := item.(*object.String); ok {
					parts = append(parts, s.Value())
				} else {
					parts = append(parts, item.Inspect())
				}
			}
			return object.NewString(strings.Join(parts, sep.Value())), nil
		}), nil
	default:
		return nil, safetyErrorf("object does not have member '%s'", name)
	}
}

// stringMember resolves the named member of a string value. The split
// method returns a wrapped builtin whose resulting array is passed through
// the scheduler adapter, keeping it safe to use from scheduled code.
func (r *Runtime) stringMember(s *object.String, name string) (object.Object, error) {
	switch name {
	case "length":
		return object.NewNumber(float64(len(s.Value()))), nil
	case "split":
		return object.NewBuiltin("split", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			if err := r.ArityCheck("split", 1, len(args)); err != nil {
				return nil, err
			}
			sep, ok := args[0].(*object.String)
			if !ok {
				return nil, safetyErrorf("argument of split must be a string")
			}
			parts := strings.Split(s.Value(), sep.Value())
			items := make([]object.Object, 0, len(parts))
			for _, part := range parts {
				items = append(items, object.NewString(part))
			}
			return r.StopifyArray(object.NewArray(items)), nil
		}), nil
	case "charAt":
		return object.NewBuiltin("charAt", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			if err := r.ArityCheck("charAt", 1, len(args)); err != nil {
				return nil, err
			}
			num, ok := args[0].(*object.Number)
			if !ok || !num.IsInteger() || num.Value() < 0 {
				return nil, safetyErrorf("argument of charAt must be a non-negative integer")
			}
			i, err := safecast.Convert[int](num.Value())
			if err != nil || i >= len(s.Value()) {
				return object.NewString(""), nil
			}
			return object.NewString(string(s.Value()[i])), nil
		}), nil
	default:
		return nil, safetyErrorf("object does not have member '%s'", name)
	}
}

// numberMember resolves the named member of a number value.
func numberMember(n *object.Number, name string) (object.Object, error) {
	switch name {
	case "toFixed":
		return object.NewBuiltin("toFixed", func(ctx context.Context, args ...object.Object) (object.Object, error) {
			digits := 0
			if len(args) > 1 {
				return nil, safetyErrorf("function toFixed expected at most 1 argument but received %d", len(args))
			}
			if len(args) == 1 {
				num, ok := args[0].(*object.Number)
				if !ok || !num.IsInteger() || num.Value() < 0 {
					return nil, safetyErrorf("argument of toFixed must be a non-negative integer")
				}
				d, err := safecast.Convert[int](num.Value())
				if err != nil {
					return nil, safetyErrorf("argument of toFixed is out of range")
				}
				digits = d
			}
			return object.NewString(strconv.FormatFloat(n.Value(), 'f', digits, 64)), nil
		}), nil
	default:
		return nil, safetyErrorf("object does not have member '%s'", name)
	}
}
