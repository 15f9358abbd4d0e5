package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/parser"
)

func compile(t *testing.T, source string, opts ...Option) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	compiled, err := Compile(program, opts...)
	require.NoError(t, err)
	return compiled
}

func compileErr(t *testing.T, source string) *Errors {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.NoError(t, err)
	_, err = Compile(program)
	require.Error(t, err)
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	return errs
}

// stmtString returns the rendered form of the nth statement after the
// loader binding.
func stmtString(t *testing.T, program *ast.Program, n int) string {
	t.Helper()
	require.Greater(t, len(program.Stmts), n+1)
	return program.Stmts[n+1].String()
}

func TestLoaderBinding(t *testing.T) {
	program := compile(t, "let x = 1;")
	require.Len(t, program.Stmts, 2)
	require.Equal(t, "const $rt = schooljs", program.Stmts[0].String())

	program = compile(t, "let x = 1;", WithMode(ModeStandalone))
	require.Equal(t, `const $rt = require("./runtime")`, program.Stmts[0].String())
}

func TestEmptyProgramHasNoLoaderBinding(t *testing.T) {
	program := compile(t, "")
	require.Empty(t, program.Stmts)
}

func TestCompoundAssignOnIdentifier(t *testing.T) {
	program := compile(t, "let x = 1; x += 2; x;")
	require.Equal(t, `x = $rt.applyNumOrStringOp("+", x, 2)`, stmtString(t, program, 1))
}

func TestPostfixUpdateRejected(t *testing.T) {
	errs := compileErr(t, "x++;")
	require.Len(t, errs.Diagnostics, 1)
	require.Equal(t, 1, errs.Diagnostics[0].Line)
	require.Equal(t, "do not use post-increment or post-decrement operators",
		errs.Diagnostics[0].Message)
}

func TestIndexReadInstrumented(t *testing.T) {
	program := compile(t, "let a = [1, 2]; a[5];")
	require.Equal(t, "$rt.arrayBoundsCheck(a, 5)", stmtString(t, program, 1))
}

func TestNewArray(t *testing.T) {
	errs := compileErr(t, "new Array(3);")
	require.Len(t, errs.Diagnostics, 1)
	require.Equal(t, "use 'new Array(length, init)' to create an array",
		errs.Diagnostics[0].Message)

	program := compile(t, "new Array(3, 0);")
	require.Equal(t, "$rt.Array.create(3, 0)", stmtString(t, program, 0))
}

func TestBareArrayCallRejected(t *testing.T) {
	errs := compileErr(t, "Array(3, 0);")
	require.Len(t, errs.Diagnostics, 1)
	require.Equal(t, "use 'new Array(length, init)' to create an array",
		errs.Diagnostics[0].Message)
}

func TestSwitchRejectedWithoutInnerDiagnostics(t *testing.T) {
	errs := compileErr(t, "switch (1) { case 1: break; }")
	require.Len(t, errs.Diagnostics, 1)
	require.Equal(t, "do not use the 'switch' statement", errs.Diagnostics[0].Message)
}

func TestAddCompilesToRuntimeDispatch(t *testing.T) {
	program := compile(t, `1 + "a";`)
	require.Equal(t, `$rt.applyNumOrStringOp("+", 1, "a")`, stmtString(t, program, 0))
}

func TestLooseEqualityNormalized(t *testing.T) {
	program := compile(t, "1 == 2; 1 != 2;")
	require.Equal(t, "(1 === 2)", stmtString(t, program, 0))
	require.Equal(t, "(1 !== 2)", stmtString(t, program, 1))
}

func TestStrictEqualityLeftNative(t *testing.T) {
	program := compile(t, "a === b;")
	require.Equal(t, "(a === b)", stmtString(t, program, 0))
}

func TestBinaryOperatorDispatch(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"a - b;", `$rt.applyNumOp("-", a, b)`},
		{"a * b;", `$rt.applyNumOp("*", a, b)`},
		{"a % b;", `$rt.applyNumOp("%", a, b)`},
		{"a < b;", `$rt.applyNumOp("<", a, b)`},
		{"a >>> b;", `$rt.applyNumOp(">>>", a, b)`},
		{"a && b;", `$rt.applyBinaryBooleanOp("&&", a, b)`},
		{"a || b;", `$rt.applyBinaryBooleanOp("||", a, b)`},
	}
	for _, tt := range tests {
		program := compile(t, tt.source)
		require.Equal(t, tt.expected, stmtString(t, program, 0), "source %q", tt.source)
	}
}

func TestMemberAccessInstrumented(t *testing.T) {
	program := compile(t, "o.x;")
	require.Equal(t, `$rt.dot(o, "x")`, stmtString(t, program, 0))
}

func TestMemberCalleeLeftNative(t *testing.T) {
	// The receiver binding survives only if the callee member access is
	// not rewritten into a dot call.
	program := compile(t, "a.push(1);")
	require.Equal(t, "a.push(1)", stmtString(t, program, 0))
}

func TestMemberWrites(t *testing.T) {
	program := compile(t, "o.x = 5;")
	require.Equal(t, `$rt.checkMember(o, "x", 5)`, stmtString(t, program, 0))

	program = compile(t, "a[0] = 1;")
	require.Equal(t, "$rt.checkArray(a, 0, 1)", stmtString(t, program, 0))
}

func TestPrefixUpdates(t *testing.T) {
	program := compile(t, "++x;")
	require.Equal(t, `($rt.updateOnlyNumbers("++", x), (++x))`, stmtString(t, program, 0))

	program = compile(t, "--o.x;")
	require.Equal(t, `$rt.checkUpdateOperand("--", o, "x")`, stmtString(t, program, 0))

	program = compile(t, "++a[0];")
	require.Equal(t, `$rt.checkUpdateOperand("++", a, 0)`, stmtString(t, program, 0))
}

func TestCompoundMemberAssignEvaluatesObjectOnce(t *testing.T) {
	program := compile(t, "obj.x += f();")
	text := stmtString(t, program, 0)
	require.Equal(t, 1, strings.Count(text, "obj"), "object expression must appear once: %s", text)
	require.Contains(t, text, "$t0 = obj")
	require.Contains(t, text, `$rt.checkMember($t0, "x", $rt.applyNumOrStringOp("+", $rt.dot($t0, "x"), f()))`)
}

func TestCompoundIndexAssignEvaluatesBaseAndIndexOnce(t *testing.T) {
	program := compile(t, "grid[next()] *= 2;")
	text := stmtString(t, program, 0)
	require.Equal(t, 1, strings.Count(text, "grid"), text)
	require.Equal(t, 1, strings.Count(text, "next()"), text)
	require.Contains(t, text, "$t0 = grid")
	require.Contains(t, text, "$t1 = next()")
	require.Contains(t, text, `$rt.checkArray($t0, $t1, $rt.applyNumOp("*", $rt.arrayBoundsCheck($t0, $t1), 2))`)
}

func TestIdempotence(t *testing.T) {
	sources := []string{
		"let x = 1; x += 2; x;",
		"o.x = 5; o.y; a[1]; ++x; --o.n;",
		"new Array(2, 0); a && b; 1 + 2;",
		"obj.x += f(); grid[i] -= 1;",
	}
	for _, source := range sources {
		program := compile(t, source)
		before := program.String()
		again, err := Compile(program)
		require.NoError(t, err, "source %q", source)
		require.Equal(t, before, again.String(), "source %q", source)
	}
}

func TestRejections(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{"var x = 1;", "do not use the 'var' keyword; use 'let' or 'const'"},
		{"let x;", "you must initialize the variable 'x'"},
		{"let [a, b] = p;", "declaration target must be a single variable name"},
		{"typeof x;", "do not use the 'typeof' operator"},
		{"delete o.x;", "do not use the 'delete' operator"},
		{"a in b;", "do not use the 'in' operator"},
		{"a instanceof b;", "do not use the 'instanceof' operator"},
		{"throw e;", "do not use the 'throw' statement"},
		{"with (o) { x; }", "do not use the 'with' statement"},
		{"loop: while (a) { break; }", "do not use labeled statements"},
		{"for (let k in o) { use(k); }", "do not use for-in loops"},
		{"for (let v of a) { use(v); }", "do not use for-of loops"},
		{"while (a) b;", "loop body must be enclosed in braces"},
		{"for (let i = 0; i < 3; ++i) b;", "loop body must be enclosed in braces"},
		{"x--;", "do not use post-increment or post-decrement operators"},
		{"++5;", "operand of '++' must be a variable or object member"},
	}
	for _, tt := range tests {
		errs := compileErr(t, tt.source)
		require.NotEmpty(t, errs.Diagnostics, "source %q", tt.source)
		require.Equal(t, tt.message, errs.Diagnostics[0].Message, "source %q", tt.source)
	}
}

func TestDiagnosticsAccumulate(t *testing.T) {
	errs := compileErr(t, "var x = 1;\ntypeof x;\nthrow x;\n")
	require.Len(t, errs.Diagnostics, 3)
	require.Equal(t, 1, errs.Diagnostics[0].Line)
	require.Equal(t, 2, errs.Diagnostics[1].Line)
	require.Equal(t, 3, errs.Diagnostics[2].Line)
}

func TestErrorsKindAndMessage(t *testing.T) {
	errs := compileErr(t, "var x = 1;\ntypeof x;\n")
	require.Equal(t, "error", errs.Kind())
	require.Contains(t, errs.Error(), "line 1: do not use the 'var' keyword")
	require.Contains(t, errs.Error(), "line 2: do not use the 'typeof' operator")
}

func TestGeneratedTemporariesAreFresh(t *testing.T) {
	program := compile(t, "o.a += 1; o.b += 2;")
	text := program.String()
	require.Contains(t, text, "$t0")
	require.Contains(t, text, "$t1")
}
