package domain

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by the annotation method matches exactly one
// of these with errors.Is.
var (
	ErrValidation = errors.New("invalid parameters")
	ErrFetch      = errors.New("object fetch failed")
	ErrSave       = errors.New("object save failed")
	ErrTool       = errors.New("annotation tool failed")
	ErrLock       = errors.New("output lock failed")
)

// OperationError carries the failure kind, a user-facing message and the underlying cause.
type OperationError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *OperationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MissingParam reports a required parameter that was not supplied.
func MissingParam(name string) error {
	return &OperationError{
		Kind: ErrValidation,
		Msg:  fmt.Sprintf("Parameter %s is not set in input arguments", name),
	}
}

// FetchError wraps a failure to load an input object.
func FetchError(object string, cause error) error {
	return &OperationError{
		Kind: ErrFetch,
		Msg:  fmt.Sprintf("error loading input %s object from workspace", object),
		Err:  cause,
	}
}

// SaveError wraps a failure to save an output object.
func SaveError(object string, cause error) error {
	return &OperationError{
		Kind: ErrSave,
		Msg:  fmt.Sprintf("error saving %s object to workspace", object),
		Err:  cause,
	}
}

// ToolError wraps a failure of the external annotation tool.
func ToolError(cause error) error {
	return &OperationError{
		Kind: ErrTool,
		Msg:  "error running annotation tool",
		Err:  cause,
	}
}

// LockError wraps a failure to take the lock on an output object.
func LockError(key string, cause error) error {
	return &OperationError{
		Kind: ErrLock,
		Msg:  fmt.Sprintf("failed to lock output %s", key),
		Err:  cause,
	}
}

// InvalidGenome reports an input genome whose features cannot be projected.
func InvalidGenome(cause error) error {
	return &OperationError{
		Kind: ErrValidation,
		Msg:  "input Genome object is not valid",
		Err:  cause,
	}
}
