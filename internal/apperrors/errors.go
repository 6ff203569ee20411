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

// ErrTenantMismatch indicates that a row referenced by the caller belongs to a
// different organization. Never retried, never auto-recovered.
var ErrTenantMismatch = errors.New("organization mismatch")

// ErrConflict indicates the operation conflicts with the current state of the
// resource (e.g., an invalid status transition).
var ErrConflict = errors.New("conflict with current resource state")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrMalformedAttribute indicates a dynamic field value populated zero or
// more than one typed value slot, or a slot that contradicts its field type.
var ErrMalformedAttribute = errors.New("malformed dynamic attribute value")

// ErrUnbalancedLedger indicates a financial transaction whose line amounts do
// not sum to zero within tolerance. The delta is always reported alongside.
var ErrUnbalancedLedger = errors.New("transaction lines do not balance to zero")

// ErrInvalidStateTransition indicates a transaction status change outside the
// draft -> posted -> (cancelled | reversed) state machine.
var ErrInvalidStateTransition = errors.New("invalid transaction status transition")

// ErrDuplicateSuspected indicates a candidate transaction scored above the
// blocking duplicate-confidence threshold.
var ErrDuplicateSuspected = errors.New("transaction suspected to be a duplicate")

// AppError wraps a lower-level error with an HTTP-style status code and a
// message suitable for logging. Repositories use it to annotate storage
// failures without leaking SQL details to callers.
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
