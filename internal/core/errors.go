package core

import "fmt"

// ValidationError reports bad input shape or value: non-positive payment
// amounts, overpayment, malformed emails, missing fields, invalid
// quantities or prices. The Reason string is suitable for direct display.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a write that raced past the per-invoice
// serialization guarantee. With row locking in place this indicates a
// programming defect, not a user error.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}
