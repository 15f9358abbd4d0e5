package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/schooljs/object"
)

// installBuiltinCaller lets harness tests use builtins as test bodies.
func installBuiltinCaller(rt *Runtime) {
	rt.SetCaller(func(ctx context.Context, fn object.Object, args ...object.Object) (object.Object, error) {
		return fn.(*object.Builtin).Call(ctx, args...)
	})
}

func passingBody() *object.Builtin {
	return object.NewBuiltin("body", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return object.Undefined, nil
	})
}

func failingBody(message string) *object.Builtin {
	return object.NewBuiltin("body", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		return nil, NewError(ErrAssertion, "%s", message)
	})
}

func TestDisabledSessionIgnoresTests(t *testing.T) {
	rt := New()
	// No caller installed: a disabled session must not need one.
	require.NoError(t, rt.Test(context.Background(), "ignored", passingBody()))
	require.Empty(t, rt.Session().Records())
}

func TestSessionRecordsOutcomes(t *testing.T) {
	rt := New()
	installBuiltinCaller(rt)
	ctx := context.Background()

	rt.Session().EnableTests(true, 0)
	require.NoError(t, rt.Test(ctx, "adds numbers", passingBody()))
	require.NoError(t, rt.Test(ctx, "breaks", failingBody("assertion failed")))

	records := rt.Session().Records()
	require.Len(t, records, 2)
	require.Equal(t, "adds numbers", records[0].Description)
	require.False(t, records[0].Failed)
	require.Equal(t, "breaks", records[1].Description)
	require.True(t, records[1].Failed)
	require.Equal(t, "assertion error: assertion failed", records[1].Error)
}

func TestEnableTestsClearsRecords(t *testing.T) {
	rt := New()
	installBuiltinCaller(rt)
	ctx := context.Background()

	rt.Session().EnableTests(true, 0)
	require.NoError(t, rt.Test(ctx, "first run", passingBody()))
	require.Len(t, rt.Session().Records(), 1)

	rt.Session().EnableTests(true, 0)
	require.Empty(t, rt.Session().Records())
}

func TestTimeoutIsADistinctFailure(t *testing.T) {
	rt := New()
	installBuiltinCaller(rt)
	slow := object.NewBuiltin("body", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		select {
		case <-time.After(time.Second):
			return object.Undefined, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	rt.Session().EnableTests(true, 10*time.Millisecond)
	require.NoError(t, rt.Test(context.Background(), "spins", slow))

	records := rt.Session().Records()
	require.Len(t, records, 1)
	require.True(t, records[0].Failed)
	require.Contains(t, records[0].Error, "time limit exceeded")
}

func TestRunnerExecutesTestBodies(t *testing.T) {
	runner := &fakeRunner{}
	rt := New(WithRunner(runner))
	installBuiltinCaller(rt)

	rt.Session().EnableTests(true, 0)
	require.NoError(t, rt.Test(context.Background(), "through the runner", passingBody()))
	require.Equal(t, 1, runner.ran)
	require.False(t, rt.Session().Records()[0].Failed)
}

func TestAssert(t *testing.T) {
	rt := New()

	value, err := rt.Assert(object.True)
	require.NoError(t, err)
	require.Equal(t, object.True, value)

	_, err = rt.Assert(object.False)
	require.Error(t, err)
	require.True(t, IsAssertionError(err))
	require.Equal(t, "assertion error: assertion failed", err.Error())

	// Truthy non-booleans do not pass
	_, err = rt.Assert(object.NewNumber(1))
	require.Error(t, err)
	require.True(t, IsAssertionError(err))
}

func TestSummary(t *testing.T) {
	rt := New()
	installBuiltinCaller(rt)
	ctx := context.Background()

	rt.Session().EnableTests(true, 0)
	require.NoError(t, rt.Test(ctx, "works", passingBody()))
	require.NoError(t, rt.Test(ctx, "fails", failingBody("nope")))

	result, err := rt.Summary(true)
	require.NoError(t, err)
	require.Len(t, result.Lines, 3)
	require.Contains(t, result.Lines[0], "works")
	require.Equal(t, "green", result.Styles[0])
	require.Contains(t, result.Lines[1], "fails")
	require.Equal(t, "red", result.Styles[1])
	require.Equal(t, "Tests: 1 passed / 2 total", result.Lines[2])
	require.Equal(t, "red", result.Styles[2])
	require.Len(t, result.Records, 2)

	// A summary consumes the session
	require.False(t, rt.Session().Enabled())
	_, err = rt.Summary(true)
	require.Error(t, err)
	require.Equal(t, "error: summary called before tests were enabled", err.Error())
}

func TestSummaryAllPassing(t *testing.T) {
	rt := New()
	installBuiltinCaller(rt)

	rt.Session().EnableTests(true, 0)
	require.NoError(t, rt.Test(context.Background(), "only test", passingBody()))

	result, err := rt.Summary(true)
	require.NoError(t, err)
	require.Equal(t, "Tests: 1 passed / 1 total", result.Lines[len(result.Lines)-1])
	require.Equal(t, "green", result.Styles[len(result.Styles)-1])
}

func TestSummaryPlainRendering(t *testing.T) {
	rt := New()
	installBuiltinCaller(rt)

	rt.Session().EnableTests(true, 0)
	require.NoError(t, rt.Test(context.Background(), "only test", passingBody()))

	result, err := rt.Summary(false)
	require.NoError(t, err)
	require.Empty(t, result.Styles)
	require.Equal(t, " OK     only test\nTests: 1 passed / 1 total\n", result.Output)
}

func TestSharedSession(t *testing.T) {
	session := NewSession()
	first := New(WithSession(session))
	second := New(WithSession(session))
	installBuiltinCaller(first)
	installBuiltinCaller(second)
	ctx := context.Background()

	session.EnableTests(true, 0)
	require.NoError(t, first.Test(ctx, "from the first runtime", passingBody()))
	require.NoError(t, second.Test(ctx, "from the second runtime", passingBody()))
	require.Len(t, session.Records(), 2)
}
