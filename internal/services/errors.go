package services

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers translate into HTTP statuses.
var (
	// ErrNotFound - a referenced item, bill, order or party does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock - a delta would drive stock below zero and the
	// strict policy is in effect. Under the clamp policy this is never
	// returned; stock is floored at zero instead.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTerminalOrder - the advance order is Delivered or Cancelled and
	// rejects further status updates and payments.
	ErrTerminalOrder = errors.New("order is already delivered or cancelled")

	// ErrBillCancelled - the bill is cancelled; cancellation is sticky and
	// no payment or second cancellation can touch it.
	ErrBillCancelled = errors.New("bill is cancelled")
)

// ValidationError - caller-supplied input violates a precondition.
// Always raised before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
