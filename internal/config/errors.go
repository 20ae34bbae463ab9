package config

import "fmt"

// FieldError is a configuration error tied to a specific field. It is
// surfaced before any solving happens and is never silently coerced.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// NewFieldError constructs a FieldError with a formatted message.
func NewFieldError(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
