package runtime

import (
	"context"
	"math"

	"fortio.org/safecast"
	"github.com/deepnoodle-ai/schooljs/object"
)

// Version is the runtime library version exposed to schooljs programs.
const Version = "0.4.0"

// CallFunc invokes a schooljs function value on behalf of the runtime.
// The execution engine installs one so the test harness can run closures.
type CallFunc func(ctx context.Context, fn object.Object, args ...object.Object) (object.Object, error)

// Runtime is the safety check layer that compiled programs call into. A
// Runtime optionally cooperates with an external scheduler (the Runner)
// and owns one test harness Session.
type Runtime struct {
	runner  Runner
	caller  CallFunc
	session *Session
}

// Option is a configuration function for a Runtime.
type Option func(*Runtime)

// WithSession configures the Runtime to use an existing test session,
// allowing several Runtimes to share one.
func WithSession(session *Session) Option {
	return func(r *Runtime) {
		r.session = session
	}
}

// WithRunner installs the cooperative scheduler to use for test execution
// and array wrapping.
func WithRunner(runner Runner) Option {
	return func(r *Runtime) {
		r.runner = runner
	}
}

// New returns a Runtime with a fresh test session unless one is supplied.
func New(opts ...Option) *Runtime {
	r := &Runtime{}
	for _, opt := range opts {
		opt(r)
	}
	if r.session == nil {
		r.session = NewSession()
	}
	return r
}

// SetRunner installs the cooperative scheduler. Passing nil uninstalls it,
// returning the Runtime to synchronous execution.
func (r *Runtime) SetRunner(runner Runner) {
	r.runner = runner
}

// Runner returns the installed cooperative scheduler, or nil if none is
// installed.
func (r *Runtime) Runner() Runner {
	return r.runner
}

// SetCaller installs the function-invocation capability used by the test
// harness to run test bodies written in schooljs.
func (r *Runtime) SetCaller(caller CallFunc) {
	r.caller = caller
}

// Session returns the test harness session owned by this Runtime.
func (r *Runtime) Session() *Session {
	return r.session
}

// Dot reads the named member from a value. The base value must be an
// object, array, string, boolean, or number, and the member must exist.
func (r *Runtime) Dot(base object.Object, name string) (object.Object, error) {
	switch base := base.(type) {
	case *object.Map:
		value, ok := base.Get(name)
		if !ok {
			return nil, safetyErrorf("object does not have member '%s'", name)
		}
		return value, nil
	case *object.Array:
		return r.arrayMember(base, name)
	case *object.String:
		return r.stringMember(base, name)
	case *object.Number:
		return numberMember(base, name)
	case *object.Bool:
		return nil, safetyErrorf("object does not have member '%s'", name)
	default:
		return nil, safetyErrorf("cannot access member of non-object value types")
	}
}

// ArrayBoundsCheck reads the element at the given index. The base must be
// an array, the index a non-negative integer, and the slot must hold a
// value: an index at or past the end of the array and an index whose slot
// was never assigned are both out of bounds.
func (r *Runtime) ArrayBoundsCheck(base object.Object, index object.Object) (object.Object, error) {
	arr, i, err := validateIndex(base, index)
	if err != nil {
		return nil, err
	}
	value, ok := arr.Get(i)
	if !ok {
		return nil, safetyErrorf("index %d is out of array bounds", i)
	}
	return value, nil
}

// CheckMember writes the named member of a value and returns the written
// value. Named properties may not be written onto arrays, and the member
// must already exist: objects are sealed after construction.
func (r *Runtime) CheckMember(base object.Object, name string, value object.Object) (object.Object, error) {
	switch base := base.(type) {
	case *object.Array:
		return nil, safetyErrorf("cannot set member '%s' of an array", name)
	case *object.Map:
		if !base.Has(name) {
			return nil, safetyErrorf("object does not have member '%s'", name)
		}
		base.Set(name, value)
		return value, nil
	default:
		return nil, safetyErrorf("cannot access member of non-object value types")
	}
}

// CheckArray writes the element at the given index and returns the written
// value, after applying the same validation as an indexed read.
func (r *Runtime) CheckArray(base object.Object, index object.Object, value object.Object) (object.Object, error) {
	arr, i, err := validateIndex(base, index)
	if err != nil {
		return nil, err
	}
	if i >= arr.Len() {
		return nil, safetyErrorf("index %d is out of array bounds", i)
	}
	arr.Set(i, value)
	return value, nil
}

// UpdateOnlyNumbers validates that the operand of a ++ or -- operator is a
// number. The update itself is performed by the caller, which is safe once
// the current value is known to be numeric.
func (r *Runtime) UpdateOnlyNumbers(op string, value object.Object) (object.Object, error) {
	if _, ok := value.(*object.Number); !ok {
		return nil, safetyErrorf("argument of operator '%s' must be a number", op)
	}
	return value, nil
}

// CheckUpdateOperand applies a ++ or -- operator to a member of an object
// or an array element. It validates that the member exists and holds a
// number, performs the update itself, and returns the new value.
func (r *Runtime) CheckUpdateOperand(op string, base object.Object, member object.Object) (object.Object, error) {
	switch b := base.(type) {
	case *object.Array:
		arr, i, err := validateIndex(base, member)
		if err != nil {
			return nil, err
		}
		current, ok := arr.Get(i)
		if !ok {
			return nil, safetyErrorf("index %d is out of array bounds", i)
		}
		updated, err := applyUpdate(op, current)
		if err != nil {
			return nil, err
		}
		arr.Set(i, updated)
		return updated, nil
	case *object.Map:
		name, ok := member.(*object.String)
		if !ok {
			return nil, safetyErrorf("object member names must be strings")
		}
		current, found := b.Get(name.Value())
		if !found {
			return nil, safetyErrorf("object does not have member '%s'", name.Value())
		}
		updated, err := applyUpdate(op, current)
		if err != nil {
			return nil, err
		}
		b.Set(name.Value(), updated)
		return updated, nil
	default:
		return nil, safetyErrorf("cannot access member of non-object value types")
	}
}

func applyUpdate(op string, current object.Object) (object.Object, error) {
	num, ok := current.(*object.Number)
	if !ok {
		return nil, safetyErrorf("argument of operator '%s' must be a number", op)
	}
	switch op {
	case "++":
		return object.NewNumber(num.Value() + 1), nil
	case "--":
		return object.NewNumber(num.Value() - 1), nil
	default:
		return nil, internalErrorf("unexpected update operator '%s'", op)
	}
}

// ApplyNumOrStringOp computes the add-or-concatenate operator family. Both
// operands must belong to the same class: both numbers or both strings.
func (r *Runtime) ApplyNumOrStringOp(op string, x, y object.Object) (object.Object, error) {
	if op != "+" {
		return nil, internalErrorf("unexpected operator '%s'", op)
	}
	switch x := x.(type) {
	case *object.Number:
		if y, ok := y.(*object.Number); ok {
			return object.NewNumber(x.Value() + y.Value()), nil
		}
	case *object.String:
		if y, ok := y.(*object.String); ok {
			return object.NewString(x.Value() + y.Value()), nil
		}
	}
	return nil, safetyErrorf("arguments of operator '+' must both be numbers or strings")
}

// ApplyNumOp computes the numeric-only operator family: arithmetic other
// than +, comparisons, bitwise operations, and shifts. Both operands must
// be numbers.
func (r *Runtime) ApplyNumOp(op string, x, y object.Object) (object.Object, error) {
	xNum, ok := x.(*object.Number)
	if !ok {
		return nil, safetyErrorf("arguments of operator '%s' must both be numbers", op)
	}
	yNum, ok := y.(*object.Number)
	if !ok {
		return nil, safetyErrorf("arguments of operator '%s' must both be numbers", op)
	}
	a, b := xNum.Value(), yNum.Value()
	switch op {
	case "-":
		return object.NewNumber(a - b), nil
	case "*":
		return object.NewNumber(a * b), nil
	case "/":
		return object.NewNumber(a / b), nil
	case "%":
		return object.NewNumber(math.Mod(a, b)), nil
	case "<":
		return object.NewBool(a < b), nil
	case "<=":
		return object.NewBool(a <= b), nil
	case ">":
		return object.NewBool(a > b), nil
	case ">=":
		return object.NewBool(a >= b), nil
	case "&", "|", "^", "<<", ">>", ">>>":
		return applyBitwiseOp(op, a, b)
	default:
		return nil, internalErrorf("unexpected operator '%s'", op)
	}
}

func applyBitwiseOp(op string, a, b float64) (object.Object, error) {
	x, err := toInt32(a, op)
	if err != nil {
		return nil, err
	}
	y, err := toInt32(b, op)
	if err != nil {
		return nil, err
	}
	switch op {
	case "&":
		return object.NewNumber(float64(x & y)), nil
	case "|":
		return object.NewNumber(float64(x | y)), nil
	case "^":
		return object.NewNumber(float64(x ^ y)), nil
	case "<<":
		return object.NewNumber(float64(x << (uint32(y) & 31))), nil
	case ">>":
		return object.NewNumber(float64(x >> (uint32(y) & 31))), nil
	case ">>>":
		return object.NewNumber(float64(uint32(x) >> (uint32(y) & 31))), nil
	default:
		return nil, internalErrorf("unexpected operator '%s'", op)
	}
}

func toInt32(v float64, op string) (int32, error) {
	if v != math.Trunc(v) {
		return 0, safetyErrorf("arguments of operator '%s' must be integers", op)
	}
	result, err := safecast.Convert[int32](v)
	if err != nil {
		return 0, safetyErrorf("argument of operator '%s' is out of range", op)
	}
	return result, nil
}

// ApplyBinaryBooleanOp computes the && and || operators. Both operands
// must be booleans.
func (r *Runtime) ApplyBinaryBooleanOp(op string, x, y object.Object) (object.Object, error) {
	xBool, ok := x.(*object.Bool)
	if !ok {
		return nil, safetyErrorf("arguments of operator '%s' must both be booleans", op)
	}
	yBool, ok := y.(*object.Bool)
	if !ok {
		return nil, safetyErrorf("arguments of operator '%s' must both be booleans", op)
	}
	switch op {
	case "&&":
		return object.NewBool(xBool.Value() && yBool.Value()), nil
	case "||":
		return object.NewBool(xBool.Value() || yBool.Value()), nil
	default:
		return nil, internalErrorf("unexpected operator '%s'", op)
	}
}

// ArityCheck validates that a function received exactly the expected
// number of arguments.
func (r *Runtime) ArityCheck(name string, expected, got int) error {
	if expected == got {
		return nil
	}
	noun := "arguments"
	if expected == 1 {
		noun = "argument"
	}
	return safetyErrorf("function %s expected %d %s but received %d",
		name, expected, noun, got)
}

// NewArray is the array factory: the sole sanctioned way for a schooljs
// program to obtain an array other than a literal. It validates that the
// length is a positive integer, then builds an array of that length with
// every slot holding the fill value.
func (r *Runtime) NewArray(args ...object.Object) (object.Object, error) {
	if err := r.ArityCheck("Array", 2, len(args)); err != nil {
		return nil, err
	}
	length, ok := args[0].(*object.Number)
	if !ok || !length.IsInteger() || length.Value() <= 0 {
		return nil, safetyErrorf("array length must be a positive integer")
	}
	n, err := safecast.Convert[int](length.Value())
	if err != nil {
		return nil, safetyErrorf("array length is out of range")
	}
	items := make([]object.Object, n)
	for i := range items {
		items[i] = args[1]
	}
	return r.StopifyArray(object.NewArray(items)), nil
}

// StopifyArray wraps an array before it crosses into code managed by the
// cooperative scheduler so that higher-order operations on it can be
// intercepted for suspension. Without a scheduler installed the array is
// returned unchanged.
func (r *Runtime) StopifyArray(arr *object.Array) *object.Array {
	if r.runner == nil {
		return arr
	}
	return r.runner.WrapArray(arr)
}

// StopifyObjectArrays recursively wraps every array reachable from the
// given value.
func (r *Runtime) StopifyObjectArrays(obj object.Object) object.Object {
	switch obj := obj.(type) {
	case *object.Array:
		for i, item := range obj.Items() {
			if item == nil {
				continue
			}
			obj.Set(i, r.StopifyObjectArrays(item))
		}
		return r.StopifyArray(obj)
	case *object.Map:
		for _, key := range obj.Keys() {
			value, _ := obj.Get(key)
			obj.Set(key, r.StopifyObjectArrays(value))
		}
		return obj
	default:
		return obj
	}
}

func validateIndex(base object.Object, index object.Object) (*object.Array, int, error) {
	arr, ok := base.(*object.Array)
	if !ok {
		return nil, 0, safetyErrorf("array indexing called on a non-array value type")
	}
	num, ok := index.(*object.Number)
	if !ok || !num.IsInteger() || num.Value() < 0 {
		text := "non-number"
		if ok {
			text = num.Inspect()
		}
		return nil, 0, safetyErrorf("array index '%s' is not valid", text)
	}
	i, err := safecast.Convert[int](num.Value())
	if err != nil {
		return nil, 0, safetyErrorf("array index '%s' is not valid", num.Inspect())
	}
	if i >= arr.Len() {
		return nil, 0, safetyErrorf("index %d is out of array bounds", i)
	}
	return arr, i, nil
}
