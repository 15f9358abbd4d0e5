package schooljs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/schooljs/compiler"
	"github.com/deepnoodle-ai/schooljs/object"
	"github.com/deepnoodle-ai/schooljs/runtime"
)

func TestCompoundAssignment(t *testing.T) {
	value, err := Eval(context.Background(), "let x = 1; x += 2; x;")
	require.NoError(t, err)
	require.True(t, object.NewNumber(3).Equals(value))
}

func TestPostIncrementRejected(t *testing.T) {
	_, err := Compile(context.Background(), "x++;")
	require.Error(t, err)
	var errs *compiler.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Diagnostics, 1)
	require.Contains(t, errs.Diagnostics[0].Message, "post-increment")
}

func TestOutOfBoundsReadFailsAtRunTime(t *testing.T) {
	source := "let a = [1, 2]; a[5];"
	_, err := Compile(context.Background(), source)
	require.NoError(t, err)

	_, err = Eval(context.Background(), source)
	require.Error(t, err)
	require.Equal(t, "error: index 5 is out of array bounds", err.Error())
	require.True(t, runtime.IsSafetyError(err))
}

func TestArrayConstruction(t *testing.T) {
	_, err := Compile(context.Background(), "new Array(3);")
	require.Error(t, err)

	value, err := Eval(context.Background(), "new Array(3, 0);")
	require.NoError(t, err)
	arr, ok := value.(*object.Array)
	require.True(t, ok)
	require.Equal(t, 3, arr.Len())
	for i := 0; i < 3; i++ {
		item, ok := arr.Get(i)
		require.True(t, ok)
		require.True(t, object.NewNumber(0).Equals(item))
	}
}

func TestSwitchRejected(t *testing.T) {
	_, err := Compile(context.Background(), "switch (1) { case 1: break; }")
	require.Error(t, err)
	var errs *compiler.Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs.Diagnostics, 1)
	require.Equal(t, "do not use the 'switch' statement", errs.Diagnostics[0].Message)
}

func TestMixedAddFailsAtRunTime(t *testing.T) {
	source := `1 + "a";`
	_, err := Compile(context.Background(), source)
	require.NoError(t, err)

	_, err = Eval(context.Background(), source)
	require.Error(t, err)
	require.Equal(t, "error: arguments of operator '+' must both be numbers or strings", err.Error())
}

func TestCompoundMemberAssignEvaluatesBaseOnce(t *testing.T) {
	source := `
let count = 0;
let o = { x: 1 };
function get() {
  count += 1;
  return o;
}
get().x += 5;
[count, o.x];
`
	value, err := Eval(context.Background(), source)
	require.NoError(t, err)
	arr, ok := value.(*object.Array)
	require.True(t, ok)
	count, _ := arr.Get(0)
	require.True(t, object.NewNumber(1).Equals(count), "base evaluated %s times", count.Inspect())
	x, _ := arr.Get(1)
	require.True(t, object.NewNumber(6).Equals(x))
}

func TestParseErrorsSurface(t *testing.T) {
	_, err := Compile(context.Background(), "let = 1;", WithFilename("lesson.js"))
	require.Error(t, err)
}

func TestEvalWithGlobals(t *testing.T) {
	value, err := Eval(context.Background(), "limit - 1;",
		WithGlobals(map[string]object.Object{"limit": object.NewNumber(10)}))
	require.NoError(t, err)
	require.True(t, object.NewNumber(9).Equals(value))
}

func TestTestHarnessEndToEnd(t *testing.T) {
	source := `
schooljs.enableTests(true);
function double(n) { return n * 2; }
schooljs.test("doubles numbers", () => {
  schooljs.assert(double(2) === 4);
});
schooljs.test("miscounts", () => {
  schooljs.assert(double(2) === 5);
});
`
	session := runtime.NewSession()
	_, err := Eval(context.Background(), source, WithSession(session))
	require.NoError(t, err)

	result, err := session.Summary(false)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.False(t, result.Records[0].Failed)
	require.True(t, result.Records[1].Failed)
	require.Equal(t, "Tests: 1 passed / 2 total", result.Lines[len(result.Lines)-1])
}

func TestTestHarnessTimeout(t *testing.T) {
	source := `
schooljs.enableTests(true, 20);
schooljs.test("spins forever", () => {
  while (true) { }
});
`
	session := runtime.NewSession()
	_, err := Eval(context.Background(), source, WithSession(session))
	require.NoError(t, err)

	result, err := session.Summary(false)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.True(t, result.Records[0].Failed)
	require.Contains(t, result.Records[0].Error, "time limit exceeded")
}

func TestStandaloneMode(t *testing.T) {
	value, err := Eval(context.Background(), "let x = 2; x * x;",
		WithMode(compiler.ModeStandalone))
	require.NoError(t, err)
	require.True(t, object.NewNumber(4).Equals(value))
}
