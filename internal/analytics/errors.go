package analytics

import (
	"errors"
	"fmt"
)

// ValidationError reports a structurally invalid input: mismatched lengths,
// too few valid pairs, an unknown method name or an out-of-range parameter.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// InsufficientDataError reports that too few finite points remain for an
// operation that needs at least Required of them.
type InsufficientDataError struct {
	Operation string
	Required  int
	Available int
}

// NewInsufficientDataError creates an InsufficientDataError
func NewInsufficientDataError(op string, required, available int) *InsufficientDataError {
	return &InsufficientDataError{
		Operation: op,
		Required:  required,
		Available: available,
	}
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d finite points, got %d", e.Operation, e.Required, e.Available)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInsufficientData reports whether err wraps an *InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ie *InsufficientDataError
	return errors.As(err, &ie)
}
