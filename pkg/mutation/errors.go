package mutation

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is returned when a selector or template placeholder
	// cannot be resolved against a node.
	ErrNotSupported = errors.New("not supported")

	// ErrConflict is returned by Process and Test when records overlap and
	// the strategy includes ThrowError.
	ErrConflict = errors.New("mutation actions are conflicted")
)

// NotSupportedError describes a selector that could not be resolved.
type NotSupportedError struct {
	// Selector is the selector or template that failed. May be empty.
	Selector string

	// Message explains the failure.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *NotSupportedError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Selector == "" {
		return fmt.Sprintf("%s: %s", ErrNotSupported, msg)
	}
	return fmt.Sprintf("%s: %q: %s", ErrNotSupported, e.Selector, msg)
}

func (e *NotSupportedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotSupported}
	}
	return []error{ErrNotSupported, e.Err}
}

// ConflictError carries the records found to overlap.
type ConflictError struct {
	Actions []*Action
}

func (e *ConflictError) Error() string {
	return ErrConflict.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ValidationError describes a record whose range does not fit the source.
type ValidationError struct {
	Action  *Action
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid action [%d:%d]: %s", e.Action.Start, e.Action.End, e.Message)
}

// validateActions checks that every leaf fits within a source of length n.
func validateActions(actions []*Action, n int) error {
	for _, a := range actions {
		if a.Start < 0 {
			return &ValidationError{Action: a, Message: "start offset is negative"}
		}
		if a.End < a.Start {
			return &ValidationError{Action: a, Message: "end offset is before start offset"}
		}
		if a.End > n {
			return &ValidationError{
				Action:  a,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", a.End, n),
			}
		}
	}
	return nil
}
