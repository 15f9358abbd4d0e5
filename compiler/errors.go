// Package compiler implements the restriction and desugaring pass that
// turns a parsed program into an instrumented one. Constructs outside the
// accepted subset are reported as diagnostics; accepted constructs that
// can misbehave at run time are rewritten into calls to the safety
// runtime.
package compiler

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Diagnostic is a single compile-time rule violation.
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// Errors is the failure result of a compilation: every rule violation
// found in one traversal of the program, in traversal order.
type Errors struct {
	Diagnostics []Diagnostic
}

// Kind identifies this error category to hosts that report errors
// generically.
func (e *Errors) Kind() string { return "error" }

// Error implements the error interface by flattening the diagnostics
// into one aggregated message.
func (e *Errors) Error() string {
	var agg *multierror.Error
	for _, d := range e.Diagnostics {
		agg = multierror.Append(agg, fmt.Errorf("line %d: %s", d.Line, d.Message))
	}
	return agg.Error()
}
