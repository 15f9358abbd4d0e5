package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/schooljs/ast"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.NoError(t, err)
	return program
}

func parseExpr(t *testing.T, input string) ast.Expr {
	t.Helper()
	program := parse(t, input)
	require.Len(t, program.Stmts, 1)
	stmt, ok := program.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok, "expected expression statement, got %T", program.Stmts[0])
	return stmt.X
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3;", "(1 + (2 * 3))"},
		{"(1 + 2) * 3;", "((1 + 2) * 3)"},
		{"a + b + c;", "((a + b) + c)"},
		{"a === b && c !== d;", "((a === b) && (c !== d))"},
		{"a < b === c < d;", "((a < b) === (c < d))"},
		{"-a * b;", "((-a) * b)"},
		{"!x || y;", "((!x) || y)"},
		{"a & b | c ^ d;", "((a & b) | (c ^ d))"},
		{"a | b & c;", "(a | (b & c))"},
		{"a << 2 + 1;", "(a << (2 + 1))"},
		{"a ? b : c ? d : e;", "(a ? b : (c ? d : e))"},
		{"x = y = 1;", "x = y = 1"},
	}
	for _, tt := range tests {
		expr := parseExpr(t, tt.input)
		require.Equal(t, tt.expected, expr.String(), "input %q", tt.input)
	}
}

func TestDeclarations(t *testing.T) {
	program := parse(t, "let x = 1, y = 2; const z = 3;")
	require.Len(t, program.Stmts, 2)

	letDecl, ok := program.Stmts[0].(*ast.Decl)
	require.True(t, ok)
	require.Equal(t, "let", letDecl.Kind)
	require.Len(t, letDecl.Declarators, 2)
	require.Equal(t, "x", letDecl.Declarators[0].Name.String())
	require.Equal(t, "1", letDecl.Declarators[0].Value.String())

	constDecl, ok := program.Stmts[1].(*ast.Decl)
	require.True(t, ok)
	require.Equal(t, "const", constDecl.Kind)
}

func TestDeclarationWithoutInitializer(t *testing.T) {
	// Parses cleanly; the restriction pass is the one that rejects it.
	program := parse(t, "let x;")
	decl, ok := program.Stmts[0].(*ast.Decl)
	require.True(t, ok)
	require.Nil(t, decl.Declarators[0].Value)
}

func TestDestructuringBindingPosition(t *testing.T) {
	program := parse(t, "let [a, b] = pair;")
	decl, ok := program.Stmts[0].(*ast.Decl)
	require.True(t, ok)
	_, ok = decl.Declarators[0].Name.(*ast.ArrayLit)
	require.True(t, ok, "binding pattern should parse as an array literal")
}

func TestMemberAccess(t *testing.T) {
	expr := parseExpr(t, "a.b.c;")
	outer, ok := expr.(*ast.GetAttr)
	require.True(t, ok)
	require.Equal(t, "c", outer.Attr.Name)
	inner, ok := outer.X.(*ast.GetAttr)
	require.True(t, ok)
	require.Equal(t, "b", inner.Attr.Name)
	require.Equal(t, "a", inner.X.String())
}

func TestIndexAndCall(t *testing.T) {
	expr := parseExpr(t, "table[i](1, 2);")
	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	index, ok := call.Fun.(*ast.Index)
	require.True(t, ok)
	require.Equal(t, "table", index.X.String())
	require.Equal(t, "i", index.Index.String())
}

func TestNewExpression(t *testing.T) {
	expr := parseExpr(t, "new Array(3, 0);")
	n, ok := expr.(*ast.New)
	require.True(t, ok)
	require.Equal(t, "Array", n.Fun.String())
	require.Len(t, n.Args, 2)
}

func TestUpdateExpressions(t *testing.T) {
	prefix := parseExpr(t, "++x;")
	pre, ok := prefix.(*ast.Update)
	require.True(t, ok)
	require.True(t, pre.Prefix)
	require.Equal(t, "++", pre.Op)

	postfix := parseExpr(t, "x--;")
	post, ok := postfix.(*ast.Update)
	require.True(t, ok)
	require.False(t, post.Prefix)
	require.Equal(t, "--", post.Op)
}

func TestFunctions(t *testing.T) {
	program := parse(t, "function add(a, b) { return a + b; }")
	decl, ok := program.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "add", decl.Fun.Name.Name)
	require.Len(t, decl.Fun.Params, 2)
	require.Len(t, decl.Fun.Body.Stmts, 1)
}

func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		input  string
		params int
	}{
		{"() => 1;", 0},
		{"x => x + 1;", 1},
		{"(a, b) => { return a; };", 2},
	}
	for _, tt := range tests {
		expr := parseExpr(t, tt.input)
		fn, ok := expr.(*ast.Func)
		require.True(t, ok, "input %q parsed as %T", tt.input, expr)
		require.Len(t, fn.Params, tt.params, "input %q", tt.input)
		require.NotNil(t, fn.Body)
	}
}

func TestArrowBodyExpressionBecomesReturn(t *testing.T) {
	expr := parseExpr(t, "x => x * 2;")
	fn := expr.(*ast.Func)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok := fn.Body.Stmts[0].(*ast.Return)
	require.True(t, ok)
}

func TestObjectLiterals(t *testing.T) {
	expr := parseExpr(t, "({ x: 1, y, 'z': 3 });")
	obj, ok := expr.(*ast.ObjectLit)
	require.True(t, ok)
	require.Len(t, obj.Properties, 3)
	require.Equal(t, "x", obj.Properties[0].Key.Name)
	// Shorthand property: value is the identifier itself
	require.Equal(t, "y", obj.Properties[1].Key.Name)
	require.Equal(t, "y", obj.Properties[1].Value.String())
	require.Equal(t, "z", obj.Properties[2].Key.Name)
}

func TestControlFlow(t *testing.T) {
	program := parse(t, `
if (a) { b; } else { c; }
while (x) { y; }
do { y; } while (x);
for (let i = 0; i < 10; ++i) { use(i); }
`)
	require.Len(t, program.Stmts, 4)
	_, ok := program.Stmts[0].(*ast.If)
	require.True(t, ok)
	_, ok = program.Stmts[1].(*ast.While)
	require.True(t, ok)
	_, ok = program.Stmts[2].(*ast.DoWhile)
	require.True(t, ok)
	forStmt, ok := program.Stmts[3].(*ast.For)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)
}

func TestForInAndForOf(t *testing.T) {
	program := parse(t, "for (let k in obj) { use(k); }")
	forIn, ok := program.Stmts[0].(*ast.ForIn)
	require.True(t, ok)
	require.False(t, forIn.Of)

	program = parse(t, "for (let v of items) { use(v); }")
	forOf, ok := program.Stmts[0].(*ast.ForIn)
	require.True(t, ok)
	require.True(t, forOf.Of)
}

func TestRejectedStatementsStillParse(t *testing.T) {
	// These constructs parse so the restriction pass can report them with
	// a line number instead of a raw syntax error.
	tests := []struct {
		input    string
		nodeType interface{}
	}{
		{"throw x;", &ast.Throw{}},
		{"switch (1) { case 1: break; }", &ast.Switch{}},
		{"with (o) { x; }", &ast.With{}},
		{"loop: while (a) { break; }", &ast.Labeled{}},
		{"var x = 1;", &ast.Decl{}},
	}
	for _, tt := range tests {
		program := parse(t, tt.input)
		require.Len(t, program.Stmts, 1, "input %q", tt.input)
		require.IsType(t, tt.nodeType, program.Stmts[0], "input %q", tt.input)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		"let = 1;",
		"if (a { b; }",
		"1 +;",
		"function (",
	}
	for _, input := range tests {
		_, err := Parse(context.Background(), input)
		require.Error(t, err, "input %q", input)
		var errs *Errors
		require.ErrorAs(t, err, &errs, "input %q", input)
		require.NotEmpty(t, errs.Errors)
	}
}

func TestErrorRecovery(t *testing.T) {
	// Two independent errors on separate statements are both reported.
	_, err := Parse(context.Background(), "let = 1;\nconst = 2;\n")
	require.Error(t, err)
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	require.GreaterOrEqual(t, len(errs.Errors), 2)
}

func TestFriendlyErrorMessage(t *testing.T) {
	_, err := Parse(context.Background(), "let = 1;", WithFilename("lesson.js"))
	require.Error(t, err)
	var errs *Errors
	require.ErrorAs(t, err, &errs)
	first := errs.Errors[0]
	require.Equal(t, "lesson.js", first.File)
	require.Contains(t, first.FriendlyErrorMessage(), "lesson.js")
}
