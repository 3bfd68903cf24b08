package report

import (
	"errors"
	"fmt"
)

// ErrorKind tags the stage a report run failed in
type ErrorKind string

const (
	KindUnknownFieldType ErrorKind = "unknown_field_type"
	KindLookup           ErrorKind = "lookup"
	KindScript           ErrorKind = "script"
	KindTimeout          ErrorKind = "timeout"
	KindRender           ErrorKind = "render"
)

// RunError is the single failure type a report run produces. Exactly one is
// surfaced per run; later stages never execute after one is raised.
type RunError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the report viewer. Timeouts read like a
// script failure to the user; the kind still separates them in diagnostics.
func (e *RunError) UserMessage() string {
	switch e.Kind {
	case KindScript, KindTimeout:
		return "Error in the report template script: " + e.Message
	default:
		return e.Message
	}
}

func newRunError(kind ErrorKind, message string) *RunError {
	return &RunError{Kind: kind, Message: message}
}

func wrapRunError(kind ErrorKind, message string, err error) *RunError {
	return &RunError{Kind: kind, Message: message, Err: err}
}

// AsRunError unwraps err into a RunError when the failure came from a run
func AsRunError(err error) (*RunError, bool) {
	var re *RunError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
