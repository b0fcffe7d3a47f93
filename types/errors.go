package types

import (
	"errors"
	"fmt"
)

// The four recoverable error kinds. Every error surfaced by the board,
// the stores, or the insights engine matches exactly one of these via
// errors.Is.
var (
	// ErrValidation marks bad input shape or content. Raised synchronously,
	// never reaches a persistence backend.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation that referenced a task ID that does
	// not exist in the live collection.
	ErrNotFound = errors.New("task not found")
	// ErrPersistence marks a failed backend read or write. The optimistic
	// local mutation is NOT rolled back when this is reported.
	ErrPersistence = errors.New("persistence failed")
	// ErrImport marks a malformed import payload. The existing collection
	// is left untouched.
	ErrImport = errors.New("import failed")
)

// TaskError pairs a user-facing message with one of the sentinel kinds
// above and an optional underlying cause.
type TaskError struct {
	Kind    error
	Message string
	Err     error
}

func (e *TaskError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is reports whether target is this error's kind, so callers can match
// with errors.Is(err, types.ErrNotFound) and friends.
func (e *TaskError) Is(target error) bool {
	return target == e.Kind
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a synchronous input-validation failure.
func NewValidationError(format string, args ...any) *TaskError {
	return &TaskError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError creates an error for a missing task ID.
func NewNotFoundError(id string) *TaskError {
	return &TaskError{Kind: ErrNotFound, Message: fmt.Sprintf("task with ID '%s' not found", id)}
}

// NewPersistenceError wraps a backend failure for the named operation.
func NewPersistenceError(op string, err error) *TaskError {
	return &TaskError{Kind: ErrPersistence, Message: fmt.Sprintf("persistence failed during %s", op), Err: err}
}

// NewImportError wraps a malformed-payload failure.
func NewImportError(msg string, err error) *TaskError {
	return &TaskError{Kind: ErrImport, Message: msg, Err: err}
}
