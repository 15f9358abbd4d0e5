package compiler

// LoaderIdent is the identifier instrumented programs reach the runtime
// through. The pass binds it at the top of every non-empty program.
const LoaderIdent = "$rt"

// PreloadedGlobal is the global the loader binding reads in hosted mode.
const PreloadedGlobal = "schooljs"

// StandalonePath is the module path the loader binding requires in
// standalone mode.
const StandalonePath = "./runtime"

// Mode selects how a compiled program obtains its runtime namespace.
type Mode int

const (
	// ModePreloaded binds the loader to a global the host has already
	// installed.
	ModePreloaded Mode = iota

	// ModeStandalone binds the loader by requiring the runtime module
	// from a fixed relative path.
	ModeStandalone
)

// Options configures a compilation.
type Options struct {
	Mode Mode
}

// Option is a configuration function for Compile.
type Option func(*Options)

// WithMode sets the loader mode.
func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}
