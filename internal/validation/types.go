package validation

import (
	"time"
)

// ValidationSeverity represents the severity level of a validation issue
type ValidationSeverity int

const (
	ValidationSeverityError ValidationSeverity = iota
	ValidationSeverityWarning
)

// ValidationErrorCode represents specific validation error types
type ValidationErrorCode int

const (
	ErrorNameRequired ValidationErrorCode = iota
	ErrorNameTooLong
	ErrorEmailRequired
	ErrorInvalidEmail
	ErrorPhoneRequired
	ErrorInvalidPhone
	ErrorPasswordRequired
	ErrorPasswordTooShort
)

// ValidationError represents a specific validation error
type ValidationError struct {
	Field    string
	Code     ValidationErrorCode
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationResult represents the result of validating a form
type ValidationResult struct {
	IsValid     bool
	ValidatedAt time.Time
	Errors      []ValidationError
}

// FirstError returns the first error in field order, or nil when valid.
func (r ValidationResult) FirstError() *ValidationError {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// FieldErrors maps each field to its first error message.
func (r ValidationResult) FieldErrors() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, err := range r.Errors {
		if _, ok := out[err.Field]; !ok {
			out[err.Field] = err.Message
		}
	}
	return out
}

func (r *ValidationResult) add(field string, code ValidationErrorCode, message string) {
	r.Errors = append(r.Errors, ValidationError{
		Field:    field,
		Code:     code,
		Message:  message,
		Severity: ValidationSeverityError,
	})
	r.IsValid = false
}
