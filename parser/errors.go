package parser

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/schooljs/token"
)

// SyntaxError describes one error encountered while parsing, with enough
// position information to point at the offending source text.
type SyntaxError struct {
	Message       string
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
	Cause         error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.File != "" {
		return fmt.Sprintf("parse error: %s (%s:%d:%d)",
			msg, e.File, e.StartPosition.LineNumber(), e.StartPosition.ColumnNumber())
	}
	return fmt.Sprintf("parse error: %s (%d:%d)",
		msg, e.StartPosition.LineNumber(), e.StartPosition.ColumnNumber())
}

// Unwrap returns the underlying cause of the error, if any.
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns the error message along with the offending
// line of source code and a caret marking the error position.
func (e *SyntaxError) FriendlyErrorMessage() string {
	var out strings.Builder
	out.WriteString(e.Error())
	if e.SourceCode != "" {
		out.WriteString("\n | ")
		out.WriteString(e.SourceCode)
		out.WriteString("\n | ")
		out.WriteString(strings.Repeat(" ", e.StartPosition.Column))
		out.WriteString("^")
	}
	return out.String()
}

// Errors holds all of the syntax errors found while parsing one input.
type Errors struct {
	Errors []*SyntaxError
}

// NewErrors returns an Errors value wrapping the given list.
func NewErrors(errs []*SyntaxError) *Errors {
	return &Errors{Errors: errs}
}

// Error implements the error interface.
func (e *Errors) Error() string {
	if len(e.Errors) == 0 {
		return ""
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)",
		e.Errors[0].Error(), len(e.Errors)-1)
}

// FriendlyErrorMessage returns the friendly messages of all errors.
func (e *Errors) FriendlyErrorMessage() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.FriendlyErrorMessage())
	}
	return strings.Join(msgs, "\n\n")
}
