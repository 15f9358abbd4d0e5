// Package runtime implements the safety checks that compiled schooljs
// programs call into, along with the embedded test harness.
//
// Every check function validates its operands and then performs the real
// operation. A validation failure produces a descriptive error rather than
// a silent undefined or NaN result.
package runtime

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a runtime error.
type ErrorKind int

const (
	// ErrSafety indicates a safety check rejected the operation. These
	// errors are user facing and describe what the program did wrong.
	ErrSafety ErrorKind = iota

	// ErrInternal indicates a state the compile pass should have made
	// unreachable, such as an unknown operator reaching dispatch.
	ErrInternal

	// ErrAssertion indicates a failed assertion inside the embedded
	// test harness.
	ErrAssertion
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSafety:
		return "error"
	case ErrInternal:
		return "internal error"
	case ErrAssertion:
		return "assertion error"
	default:
		return "error"
	}
}

// Error is a runtime failure raised by a safety check, the test harness,
// or an internal consistency check.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
}

// NewError returns an Error with the given kind and message.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func safetyErrorf(format string, args ...interface{}) *Error {
	return NewError(ErrSafety, format, args...)
}

func internalErrorf(format string, args ...interface{}) *Error {
	return NewError(ErrInternal, format, args...)
}

// IsSafetyError returns whether err is a safety violation.
func IsSafetyError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == ErrSafety
}

// IsInternalError returns whether err is an internal consistency failure.
func IsInternalError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == ErrInternal
}

// IsAssertionError returns whether err is a failed test assertion.
func IsAssertionError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == ErrAssertion
}
