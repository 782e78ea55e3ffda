package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current resource state
// (e.g. a serialization failure or stale version). Conflicts are retryable.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrImbalancedEntry indicates a journal entry whose debits and credits do not
// match to two decimal places. It is always rejected before any mutation.
var ErrImbalancedEntry = errors.New("journal entry debits and credits do not balance")

// ErrAlreadyPosted indicates an attempt to post a journal entry that has
// already left the draft state.
var ErrAlreadyPosted = errors.New("journal entry is already posted")

// ErrInsufficientAuthority indicates the acting approver's limit is lower than
// the document amount.
var ErrInsufficientAuthority = errors.New("approval authority insufficient for amount")

// AppError wraps a lower-level failure with a status code and message for the
// transport layer. Use errors.Is/As against the wrapped error for taxonomy checks.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
