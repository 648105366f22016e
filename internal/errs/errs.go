// Package errs holds the error kinds shared by the tracker domain.
//
// Every domain failure wraps exactly one kind, so callers classify with errors.Is
// and never by message:
//
//	if errors.Is(err, errs.ErrAlreadyExists) { ... }
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that breaks a business rule, e.g. an entry without hours.
	ErrValidation = errors.New("validation error")

	// ErrInvalidOperation marks a well-formed request that the current state refuses,
	// e.g. deleting the last remaining rate.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrAlreadyExists marks a duplicate year or rate location.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound marks a reference to an unknown entry, node, rate or year.
	ErrNotFound = errors.New("not found")
)

// Error carries a kind plus the detail shown to the user.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(field string, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func InvalidOperation(format string, args ...any) error {
	return &Error{Kind: ErrInvalidOperation, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExists(format string, args ...any) error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// IsClientError reports whether err was caused by the request rather than by the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotFound)
}
