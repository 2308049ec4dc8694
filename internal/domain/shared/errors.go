package shared

import "errors"

// ErrInvalid matches every ValidationError under errors.Is
var ErrInvalid = errors.New("invalid value")

// ValidationError rejects a constructor or command argument
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err, or anything it wraps, is a ValidationError
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalid)
}
