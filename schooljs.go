// Package schooljs compiles and runs programs written in a checked
// teaching subset of JavaScript. Compilation restricts the language to
// the subset and instruments the accepted code with safety checks;
// evaluation runs the instrumented program against the safety runtime,
// turning silent misbehavior into descriptive errors.
package schooljs

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/schooljs/ast"
	"github.com/deepnoodle-ai/schooljs/compiler"
	"github.com/deepnoodle-ai/schooljs/interp"
	"github.com/deepnoodle-ai/schooljs/object"
	"github.com/deepnoodle-ai/schooljs/parser"
	"github.com/deepnoodle-ai/schooljs/runtime"
)

type config struct {
	filename string
	mode     compiler.Mode
	session  *runtime.Session
	runner   runtime.Runner
	globals  map[string]object.Object
	output   io.Writer
	logger   zerolog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		mode:    compiler.ModePreloaded,
		globals: map[string]object.Object{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option is a configuration function for Compile and Eval.
type Option func(*config)

// WithFilename sets the filename reported in parse errors.
func WithFilename(filename string) Option {
	return func(c *config) {
		c.filename = filename
	}
}

// WithMode selects how the compiled program obtains its runtime
// namespace.
func WithMode(mode compiler.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithSession supplies the test harness session, letting several Eval
// calls accumulate into one report.
func WithSession(session *runtime.Session) Option {
	return func(c *config) {
		c.session = session
	}
}

// WithRunner installs a cooperative scheduler for test execution.
func WithRunner(runner runtime.Runner) Option {
	return func(c *config) {
		c.runner = runner
	}
}

// WithGlobals injects additional global bindings for evaluation.
func WithGlobals(globals map[string]object.Object) Option {
	return func(c *config) {
		for k, v := range globals {
			c.globals[k] = v
		}
	}
}

// WithOutput sets the writer program output is printed to.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithLogger sets the trace logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Parse parses source without compiling it.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	cfg := newConfig(opts)
	return parser.Parse(ctx, source, parser.WithFilename(cfg.filename))
}

// Compile parses and instruments source. On failure the error is either
// a *parser.Errors or a *compiler.Errors.
func Compile(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	cfg := newConfig(opts)
	program, err := parser.Parse(ctx, source, parser.WithFilename(cfg.filename))
	if err != nil {
		return nil, err
	}
	return compiler.Compile(program, compiler.WithMode(cfg.mode))
}

// Eval compiles and runs source, returning the value of the program's
// last expression statement.
func Eval(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	cfg := newConfig(opts)
	program, err := Compile(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	var rtOpts []runtime.Option
	if cfg.session != nil {
		rtOpts = append(rtOpts, runtime.WithSession(cfg.session))
	}
	if cfg.runner != nil {
		rtOpts = append(rtOpts, runtime.WithRunner(cfg.runner))
	}
	rt := runtime.New(rtOpts...)
	interpOpts := []interp.Option{
		interp.WithMode(cfg.mode),
		interp.WithGlobals(cfg.globals),
		interp.WithLogger(cfg.logger),
	}
	if cfg.output != nil {
		interpOpts = append(interpOpts, interp.WithOutput(cfg.output))
	}
	return interp.New(rt, interpOpts...).Run(ctx, program)
}
