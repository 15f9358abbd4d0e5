package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/schooljs/object"
)

func num(v float64) *object.Number { return object.NewNumber(v) }
func str(v string) *object.String  { return object.NewString(v) }

func newTestMap(pairs map[string]object.Object) *object.Map {
	m := object.NewMap()
	for k, v := range pairs {
		m.Set(k, v)
	}
	return m
}

func TestDotOnObject(t *testing.T) {
	rt := New()
	obj := newTestMap(map[string]object.Object{"x": num(1)})

	value, err := rt.Dot(obj, "x")
	require.NoError(t, err)
	require.Equal(t, num(1), value)

	_, err = rt.Dot(obj, "y")
	require.Error(t, err)
	require.Equal(t, "error: object does not have member 'y'", err.Error())
	require.True(t, IsSafetyError(err))
}

func TestDotOnArray(t *testing.T) {
	rt := New()
	ctx := context.Background()
	arr := object.NewArray([]object.Object{num(1), num(2)})

	length, err := rt.Dot(arr, "length")
	require.NoError(t, err)
	require.Equal(t, num(2), length)

	push, err := rt.Dot(arr, "push")
	require.NoError(t, err)
	result, err := push.(*object.Builtin).Call(ctx, num(3))
	require.NoError(t, err)
	require.Equal(t, num(3), result)
	require.Equal(t, 3, arr.Len())

	pop, err := rt.Dot(arr, "pop")
	require.NoError(t, err)
	value, err := pop.(*object.Builtin).Call(ctx)
	require.NoError(t, err)
	require.Equal(t, num(3), value)

	join, err := rt.Dot(arr, "join")
	require.NoError(t, err)
	joined, err := join.(*object.Builtin).Call(ctx, str("-"))
	require.NoError(t, err)
	require.Equal(t, str("1-2"), joined)

	_, err = rt.Dot(arr, "missing")
	require.Error(t, err)
	require.Equal(t, "error: object does not have member 'missing'", err.Error())
}

func TestDotOnString(t *testing.T) {
	rt := New()
	ctx := context.Background()
	s := str("a,b,c")

	length, err := rt.Dot(s, "length")
	require.NoError(t, err)
	require.Equal(t, num(5), length)

	split, err := rt.Dot(s, "split")
	require.NoError(t, err)
	parts, err := split.(*object.Builtin).Call(ctx, str(","))
	require.NoError(t, err)
	arr, ok := parts.(*object.Array)
	require.True(t, ok)
	require.Equal(t, 3, arr.Len())
	first, ok := arr.Get(0)
	require.True(t, ok)
	require.Equal(t, str("a"), first)

	charAt, err := rt.Dot(s, "charAt")
	require.NoError(t, err)
	ch, err := charAt.(*object.Builtin).Call(ctx, num(2))
	require.NoError(t, err)
	require.Equal(t, str("b"), ch)
}

func TestDotOnNumber(t *testing.T) {
	rt := New()
	ctx := context.Background()

	toFixed, err := rt.Dot(num(3.14159), "toFixed")
	require.NoError(t, err)
	fixed, err := toFixed.(*object.Builtin).Call(ctx, num(2))
	require.NoError(t, err)
	require.Equal(t, str("3.14"), fixed)
}

func TestDotOnInvalidBases(t *testing.T) {
	rt := New()

	_, err := rt.Dot(object.True, "x")
	require.Error(t, err)
	require.Equal(t, "error: object does not have member 'x'", err.Error())

	_, err = rt.Dot(object.Undefined, "x")
	require.Error(t, err)
	require.Equal(t, "error: cannot access member of non-object value types", err.Error())
}

func TestArrayBoundsCheck(t *testing.T) {
	rt := New()
	arr := object.NewArray([]object.Object{num(1), num(2)})

	value, err := rt.ArrayBoundsCheck(arr, num(1))
	require.NoError(t, err)
	require.Equal(t, num(2), value)

	_, err = rt.ArrayBoundsCheck(arr, num(5))
	require.Error(t, err)
	require.Equal(t, "error: index 5 is out of array bounds", err.Error())

	_, err = rt.ArrayBoundsCheck(arr, num(-1))
	require.Error(t, err)
	require.Equal(t, "error: array index '-1' is not valid", err.Error())

	_, err = rt.ArrayBoundsCheck(arr, num(0.5))
	require.Error(t, err)
	require.Equal(t, "error: array index '0.5' is not valid", err.Error())

	_, err = rt.ArrayBoundsCheck(arr, str("0"))
	require.Error(t, err)
	require.Equal(t, "error: array index 'non-number' is not valid", err.Error())

	_, err = rt.ArrayBoundsCheck(num(1), num(0))
	require.Error(t, err)
	require.Equal(t, "error: array indexing called on a non-array value type", err.Error())
}

func TestArrayBoundsCheckHole(t *testing.T) {
	// A slot the program never assigned reads the same as one past the
	// end of the array.
	rt := New()
	arr := object.NewArray([]object.Object{num(1), nil, num(3)})

	_, err := rt.ArrayBoundsCheck(arr, num(1))
	require.Error(t, err)
	require.Equal(t, "error: index 1 is out of array bounds", err.Error())
}

func TestCheckMember(t *testing.T) {
	rt := New()
	obj := newTestMap(map[string]object.Object{"x": num(1)})

	value, err := rt.CheckMember(obj, "x", num(2))
	require.NoError(t, err)
	require.Equal(t, num(2), value)
	updated, _ := obj.Get("x")
	require.Equal(t, num(2), updated)

	// Objects are sealed after construction
	_, err = rt.CheckMember(obj, "y", num(1))
	require.Error(t, err)
	require.Equal(t, "error: object does not have member 'y'", err.Error())

	arr := object.NewArray(nil)
	_, err = rt.CheckMember(arr, "x", num(1))
	require.Error(t, err)
	require.Equal(t, "error: cannot set member 'x' of an array", err.Error())
}

func TestCheckArray(t *testing.T) {
	rt := New()
	arr := object.NewArray([]object.Object{num(1), num(2)})

	value, err := rt.CheckArray(arr, num(0), num(9))
	require.NoError(t, err)
	require.Equal(t, num(9), value)
	written, ok := arr.Get(0)
	require.True(t, ok)
	require.Equal(t, num(9), written)

	_, err = rt.CheckArray(arr, num(2), num(1))
	require.Error(t, err)
	require.Equal(t, "error: index 2 is out of array bounds", err.Error())
}

func TestCheckArrayFillsHole(t *testing.T) {
	rt := New()
	arr := object.NewArray([]object.Object{num(1), nil})

	_, err := rt.CheckArray(arr, num(1), num(2))
	require.NoError(t, err)
	value, err := rt.ArrayBoundsCheck(arr, num(1))
	require.NoError(t, err)
	require.Equal(t, num(2), value)
}

func TestUpdateOnlyNumbers(t *testing.T) {
	rt := New()

	value, err := rt.UpdateOnlyNumbers("++", num(1))
	require.NoError(t, err)
	require.Equal(t, num(1), value)

	_, err = rt.UpdateOnlyNumbers("++", str("a"))
	require.Error(t, err)
	require.Equal(t, "error: argument of operator '++' must be a number", err.Error())
}

func TestCheckUpdateOperand(t *testing.T) {
	rt := New()

	arr := object.NewArray([]object.Object{num(5)})
	value, err := rt.CheckUpdateOperand("++", arr, num(0))
	require.NoError(t, err)
	require.Equal(t, num(6), value)
	stored, _ := arr.Get(0)
	require.Equal(t, num(6), stored)

	obj := newTestMap(map[string]object.Object{"n": num(10)})
	value, err = rt.CheckUpdateOperand("--", obj, str("n"))
	require.NoError(t, err)
	require.Equal(t, num(9), value)

	_, err = rt.CheckUpdateOperand("++", obj, str("missing"))
	require.Error(t, err)
	require.Equal(t, "error: object does not have member 'missing'", err.Error())

	obj.Set("s", str("a"))
	_, err = rt.CheckUpdateOperand("++", obj, str("s"))
	require.Error(t, err)
	require.Equal(t, "error: argument of operator '++' must be a number", err.Error())
}

func TestApplyNumOrStringOp(t *testing.T) {
	rt := New()

	sum, err := rt.ApplyNumOrStringOp("+", num(1), num(2))
	require.NoError(t, err)
	require.Equal(t, num(3), sum)

	concat, err := rt.ApplyNumOrStringOp("+", str("a"), str("b"))
	require.NoError(t, err)
	require.Equal(t, str("ab"), concat)

	_, err = rt.ApplyNumOrStringOp("+", num(1), str("a"))
	require.Error(t, err)
	require.Equal(t, "error: arguments of operator '+' must both be numbers or strings", err.Error())
	require.True(t, IsSafetyError(err))

	_, err = rt.ApplyNumOrStringOp("+", object.Undefined, num(1))
	require.Error(t, err)
	require.True(t, IsSafetyError(err))
}

func TestApplyNumOp(t *testing.T) {
	rt := New()
	tests := []struct {
		op       string
		x, y     float64
		expected object.Object
	}{
		{"-", 5, 3, num(2)},
		{"*", 4, 3, num(12)},
		{"/", 7, 2, num(3.5)},
		{"%", 7, 4, num(3)},
		{"<", 1, 2, object.True},
		{"<=", 2, 2, object.True},
		{">", 1, 2, object.False},
		{">=", 3, 2, object.True},
		{"&", 6, 3, num(2)},
		{"|", 6, 3, num(7)},
		{"^", 6, 3, num(5)},
		{"<<", 1, 3, num(8)},
		{">>", 8, 2, num(2)},
		{">>>", -1, 28, num(15)},
	}
	for _, tt := range tests {
		result, err := rt.ApplyNumOp(tt.op, num(tt.x), num(tt.y))
		require.NoError(t, err, "op %q", tt.op)
		require.True(t, tt.expected.Equals(result), "op %q: got %s", tt.op, result.Inspect())
	}

	_, err := rt.ApplyNumOp("-", str("a"), num(1))
	require.Error(t, err)
	require.Equal(t, "error: arguments of operator '-' must both be numbers", err.Error())

	_, err = rt.ApplyNumOp("&", num(1.5), num(1))
	require.Error(t, err)
	require.Equal(t, "error: arguments of operator '&' must be integers", err.Error())
}

func TestApplyBinaryBooleanOp(t *testing.T) {
	rt := New()

	result, err := rt.ApplyBinaryBooleanOp("&&", object.True, object.False)
	require.NoError(t, err)
	require.Equal(t, object.False, result)

	result, err = rt.ApplyBinaryBooleanOp("||", object.False, object.True)
	require.NoError(t, err)
	require.Equal(t, object.True, result)

	_, err = rt.ApplyBinaryBooleanOp("&&", num(1), object.True)
	require.Error(t, err)
	require.Equal(t, "error: arguments of operator '&&' must both be booleans", err.Error())
}

func TestArityCheck(t *testing.T) {
	rt := New()

	require.NoError(t, rt.ArityCheck("f", 2, 2))

	err := rt.ArityCheck("f", 2, 3)
	require.Error(t, err)
	require.Equal(t, "error: function f expected 2 arguments but received 3", err.Error())

	err = rt.ArityCheck("g", 1, 0)
	require.Error(t, err)
	require.Equal(t, "error: function g expected 1 argument but received 0", err.Error())
}

func TestNewArrayFactory(t *testing.T) {
	rt := New()

	arr, err := rt.NewArray(num(3), num(0))
	require.NoError(t, err)
	created, ok := arr.(*object.Array)
	require.True(t, ok)
	require.Equal(t, 3, created.Len())
	for i := 0; i < 3; i++ {
		value, ok := created.Get(i)
		require.True(t, ok)
		require.Equal(t, num(0), value)
	}

	_, err = rt.NewArray(num(3))
	require.Error(t, err)
	require.Equal(t, "error: function Array expected 2 arguments but received 1", err.Error())

	for _, length := range []object.Object{num(0), num(-1), num(1.5), str("3")} {
		_, err = rt.NewArray(length, num(0))
		require.Error(t, err)
		require.Equal(t, "error: array length must be a positive integer", err.Error())
	}
}

func TestErrorKinds(t *testing.T) {
	safety := NewError(ErrSafety, "boom")
	internal := NewError(ErrInternal, "bug")
	assertion := NewError(ErrAssertion, "assertion failed")

	require.True(t, IsSafetyError(safety))
	require.False(t, IsSafetyError(internal))
	require.True(t, IsInternalError(internal))
	require.True(t, IsAssertionError(assertion))
	require.Equal(t, "internal error: bug", internal.Error())
	require.Equal(t, "assertion error: assertion failed", assertion.Error())
}

type fakeRunner struct {
	ran     int
	wrapped int
}

func (r *fakeRunner) RunTest(ctx context.Context, body func(ctx context.Context) error) error {
	r.ran++
	return body(ctx)
}

func (r *fakeRunner) WrapArray(arr *object.Array) *object.Array {
	r.wrapped++
	arr.SetWrapped()
	return arr
}

func TestStopifyArray(t *testing.T) {
	rt := New()
	arr := object.NewArray([]object.Object{num(1)})

	// Without a runner the array passes through untouched
	require.Same(t, arr, rt.StopifyArray(arr))
	require.False(t, arr.Wrapped())

	runner := &fakeRunner{}
	rt.SetRunner(runner)
	require.True(t, rt.StopifyArray(arr).Wrapped())
	require.Equal(t, 1, runner.wrapped)
}

func TestStopifyObjectArrays(t *testing.T) {
	rt := New()
	runner := &fakeRunner{}
	rt.SetRunner(runner)

	inner := object.NewArray([]object.Object{num(1)})
	obj := newTestMap(map[string]object.Object{"items": inner})
	outer := object.NewArray([]object.Object{obj, object.NewArray(nil)})

	rt.StopifyObjectArrays(outer)
	require.True(t, outer.Wrapped())
	require.True(t, inner.Wrapped())
	require.Equal(t, 3, runner.wrapped)
}
