package runtime

import (
	"context"

	"github.com/deepnoodle-ai/schooljs/object"
)

// Runner is the cooperative scheduler a host embeds around program
// execution. The runtime hands it test bodies to run and arrays to wrap
// so that long-running user code can be suspended and resumed.
type Runner interface {

	// RunTest executes a test body under the scheduler. The body is run
	// to completion or until the context is done, whichever comes first.
	RunTest(ctx context.Context, body func(ctx context.Context) error) error

	// WrapArray adapts an array so that higher-order operations on it go
	// through the scheduler.
	WrapArray(arr *object.Array) *object.Array
}
