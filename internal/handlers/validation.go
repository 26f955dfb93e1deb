package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError describes the first failed validation on a request struct
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed: %s (%s)", e.Field, e.Tag)
}

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct using go-playground/validator.
// Callers can errors.As the result into *FieldError to pick a user-facing
// message per failed tag.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return &FieldError{Field: ve[0].Field(), Tag: ve[0].Tag()}
	}
	return fmt.Errorf("validation failed: %w", err)
}

// ValidEmail reports whether value is a loosely well-formed email address
func ValidEmail(value string) bool {
	return validate.Var(value, "required,email") == nil
}
