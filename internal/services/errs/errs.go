// Package errs defines the error kinds the service layer returns to the
// gateway. Handlers match them with errors.As/errors.Is to pick a status
// code; nothing is reported as a bare string.
package errs

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

type InsufficientStockError struct {
	SKU       string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.SKU, e.Available, e.Requested)
}

type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

type ConstraintViolationError struct {
	Constraint string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	return "constraint violation: " + e.Constraint
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// TransientError marks storage failures a caller may retry with backoff.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient store failure: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

func InvalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// FromStore translates gorm errors into the service error kinds. The zero
// case wraps the error as transient so the gateway answers 503 rather than
// blaming the client.
func FromStore(err error, resource, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource, key)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConstraintViolationError{Constraint: resource, Err: err}
	default:
		return &TransientError{Err: err}
	}
}
