// Package interp executes instrumented programs with a tree-walking
// evaluator. It supplies the runtime namespace to the program in either
// loader mode and honors context cancellation between statements, so a
// harness timeout can interrupt a runaway loop.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/compiler"
	"github.com/deepnoodle-ai/schooljs/object"
	"github.com/deepnoodle-ai/schooljs/runtime"
)

func errorf(format string, args ...interface{}) error {
	return runtime.NewError(runtime.ErrSafety, format, args...)
}

func internalf(format string, args ...interface{}) error {
	return runtime.NewError(runtime.ErrInternal, format, args...)
}

var (
	errBreak    = errors.New("break outside of a loop")
	errContinue = errors.New("continue outside of a loop")
)

// returnValue unwinds a function body when a return statement runs.
type returnValue struct {
	value object.Object
}

func (r *returnValue) Error() string { return "return outside of a function" }

// Interpreter evaluates programs against one Runtime.
type Interpreter struct {
	runtime *runtime.Runtime
	mode    compiler.Mode
	globals map[string]object.Object
	output  io.Writer
	logger  zerolog.Logger
}

// Option is a configuration function for an Interpreter.
type Option func(*Interpreter)

// WithMode selects how the program's loader binding is resolved. It must
// match the mode the program was compiled with.
func WithMode(mode compiler.Mode) Option {
	return func(i *Interpreter) {
		i.mode = mode
	}
}

// WithGlobals injects additional global bindings.
func WithGlobals(globals map[string]object.Object) Option {
	return func(i *Interpreter) {
		for k, v := range globals {
			i.globals[k] = v
		}
	}
}

// WithOutput sets the writer console.log prints to.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		i.output = w
	}
}

// WithLogger sets the trace logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// New returns an Interpreter bound to the given Runtime. The Runtime's
// caller is installed so the test harness can invoke program functions.
func New(rt *runtime.Runtime, opts ...Option) *Interpreter {
	i := &Interpreter{
		runtime: rt,
		globals: map[string]object.Object{},
		output:  os.Stdout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	rt.SetCaller(i.CallFunction)
	return i
}

// Run evaluates a program and returns the value of its last expression
// statement, or undefined if there is none.
func (i *Interpreter) Run(ctx context.Context, program *ast.Program) (object.Object, error) {
	i.logger.Debug().Int("statements", len(program.Stmts)).Msg("running program")
	env := i.rootEnv()
	var result object.Object = object.Undefined
	for _, stmt := range program.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := i.evalStmt(ctx, env, stmt)
		if err != nil {
			var ret *returnValue
			if errors.As(err, &ret) || errors.Is(err, errBreak) || errors.Is(err, errContinue) {
				return nil, errorf("%s", err.Error())
			}
			return nil, err
		}
		if _, ok := stmt.(*ast.ExprStmt); ok {
			result = value
		}
	}
	return result, nil
}

func (i *Interpreter) rootEnv() *Env {
	env := NewEnv(nil)
	env.Declare("undefined", object.Undefined, false)
	env.Declare("null", object.Null, false)
	env.Declare("console", i.consoleObject(), false)
	switch i.mode {
	case compiler.ModePreloaded:
		env.Declare(compiler.PreloadedGlobal, runtime.Namespace(i.runtime), false)
	case compiler.ModeStandalone:
		env.Declare("require", i.requireBuiltin(), false)
	}
	for name, value := range i.globals {
		env.Declare(name, value, false)
	}
	return env
}

func (i *Interpreter) consoleObject() *object.Map {
	console := object.NewMap()
	console.Set("log", object.NewBuiltin("log", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			if s, ok := arg.(*object.String); ok {
				parts = append(parts, s.Value())
			} else {
				parts = append(parts, arg.Inspect())
			}
		}
		fmt.Fprintln(i.output, strings.Join(parts, " "))
		return object.Undefined, nil
	}))
	return console
}

func (i *Interpreter) requireBuiltin() *object.Builtin {
	return object.NewBuiltin("require", func(ctx context.Context, args ...object.Object) (object.Object, error) {
		if err := i.runtime.ArityCheck("require", 1, len(args)); err != nil {
			return nil, err
		}
		path, ok := args[0].(*object.String)
		if !ok {
			return nil, errorf("argument of require must be a string")
		}
		if path.Value() != compiler.StandalonePath {
			return nil, errorf("module '%s' not found", path.Value())
		}
		return runtime.Namespace(i.runtime), nil
	})
}

func (i *Interpreter) evalStmt(ctx context.Context, env *Env, stmt ast.Stmt) (object.Object, error) {
	switch s := stmt.(type) {
	case *ast.Decl:
		return object.Undefined, i.evalDecl(ctx, env, s)
	case *ast.ExprStmt:
		return i.evalExpr(ctx, env, s.X)
	case *ast.Block:
		return object.Undefined, i.evalBlock(ctx, NewEnv(env), s)
	case *ast.If:
		return object.Undefined, i.evalIf(ctx, env, s)
	case *ast.While:
		return object.Undefined, i.evalWhile(ctx, env, s)
	case *ast.DoWhile:
		return object.Undefined, i.evalDoWhile(ctx, env, s)
	case *ast.For:
		return object.Undefined, i.evalFor(ctx, env, s)
	case *ast.FuncDecl:
		closure := &Closure{fn: s.Fun, env: env}
		return object.Undefined, env.Declare(s.Fun.Name.Name, closure, true)
	case *ast.Return:
		var value object.Object = object.Undefined
		if s.Value != nil {
			v, err := i.evalExpr(ctx, env, s.Value)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return nil, &returnValue{value: value}
	case *ast.Break:
		return nil, errBreak
	case *ast.Continue:
		return nil, errContinue
	default:
		return nil, internalf("statement %T survived compilation", stmt)
	}
}

func (i *Interpreter) evalDecl(ctx context.Context, env *Env, s *ast.Decl) error {
	for _, d := range s.Declarators {
		name, ok := d.Name.(*ast.Ident)
		if !ok {
			return internalf("declaration target %T survived compilation", d.Name)
		}
		var value object.Object = object.Undefined
		if d.Value != nil {
			v, err := i.evalExpr(ctx, env, d.Value)
			if err != nil {
				return err
			}
			value = v
		}
		if err := env.Declare(name.Name, value, s.Kind != "const"); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evalBlock(ctx context.Context, env *Env, block *ast.Block) error {
	for _, stmt := range block.Stmts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := i.evalStmt(ctx, env, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evalCond(ctx context.Context, env *Env, cond ast.Expr) (bool, error) {
	value, err := i.evalExpr(ctx, env, cond)
	if err != nil {
		return false, err
	}
	b, ok := value.(*object.Bool)
	if !ok {
		return false, errorf("condition must be a boolean")
	}
	return b.Value(), nil
}

func (i *Interpreter) evalIf(ctx context.Context, env *Env, s *ast.If) error {
	cond, err := i.evalCond(ctx, env, s.Cond)
	if err != nil {
		return err
	}
	if cond {
		_, err = i.evalStmt(ctx, env, s.Consequence)
		return err
	}
	if s.Alternative != nil {
		_, err = i.evalStmt(ctx, env, s.Alternative)
		return err
	}
	return nil
}

// runBody evaluates one loop-body iteration, absorbing continue.
func (i *Interpreter) runBody(ctx context.Context, env *Env, body ast.Stmt) error {
	_, err := i.evalStmt(ctx, env, body)
	if errors.Is(err, errContinue) {
		return nil
	}
	return err
}

func (i *Interpreter) evalWhile(ctx context.Context, env *Env, s *ast.While) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cond, err := i.evalCond(ctx, env, s.Cond)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		if err := i.runBody(ctx, env, s.Body); err != nil {
			if errors.Is(err, errBreak) {
				return nil
			}
			return err
		}
	}
}

func (i *Interpreter) evalDoWhile(ctx context.Context, env *Env, s *ast.DoWhile) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.runBody(ctx, env, s.Body); err != nil {
			if errors.Is(err, errBreak) {
				return nil
			}
			return err
		}
		cond, err := i.evalCond(ctx, env, s.Cond)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
	}
}

func (i *Interpreter) evalFor(ctx context.Context, env *Env, s *ast.For) error {
	loopEnv := NewEnv(env)
	switch init := s.Init.(type) {
	case nil:
	case *ast.Decl:
		if err := i.evalDecl(ctx, loopEnv, init); err != nil {
			return err
		}
	case ast.Expr:
		if _, err := i.evalExpr(ctx, loopEnv, init); err != nil {
			return err
		}
	default:
		return internalf("for-loop init %T survived compilation", s.Init)
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Cond != nil {
			cond, err := i.evalCond(ctx, loopEnv, s.Cond)
			if err != nil {
				return err
			}
			if !cond {
				return nil
			}
		}
		if err := i.runBody(ctx, loopEnv, s.Body); err != nil {
			if errors.Is(err, errBreak) {
				return nil
			}
			return err
		}
		if s.Post != nil {
			if _, err := i.evalExpr(ctx, loopEnv, s.Post); err != nil {
				return err
			}
		}
	}
}

// CallFunction invokes a program function value. It backs both call
// expressions and the test harness, which receives it as the Runtime's
// caller.
func (i *Interpreter) CallFunction(ctx context.Context, fn object.Object, args ...object.Object) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch fn := fn.(type) {
	case *object.Builtin:
		return fn.Call(ctx, args...)
	case *Closure:
		if err := i.runtime.ArityCheck(fn.Name(), len(fn.fn.Params), len(args)); err != nil {
			return nil, err
		}
		env := NewEnv(fn.env)
		for idx, param := range fn.fn.Params {
			if err := env.Declare(param.Name, args[idx], true); err != nil {
				return nil, err
			}
		}
		err := i.evalBlock(ctx, env, fn.fn.Body)
		if err != nil {
			var ret *returnValue
			if errors.As(err, &ret) {
				return ret.value, nil
			}
			return nil, err
		}
		return object.Undefined, nil
	default:
		return nil, errorf("value of type %s is not a function", fn.Type())
	}
}
