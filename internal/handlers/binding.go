package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// bindingErrorMessage turns a gin binding failure into a client-facing
// message. Field validation failures list each offending field; anything else
// (malformed JSON, type mismatches) falls through to the raw error.
func bindingErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "Invalid request format: " + err.Error()
	}

	parts := make([]string, len(validationErrs))
	for i, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			parts[i] = fmt.Sprintf("field '%s' is required", fieldErr.Field())
		case "oneof":
			parts[i] = fmt.Sprintf("field '%s' must be one of [%s]", fieldErr.Field(), fieldErr.Param())
		case "min":
			parts[i] = fmt.Sprintf("field '%s' needs at least %s items", fieldErr.Field(), fieldErr.Param())
		default:
			parts[i] = fmt.Sprintf("field '%s' failed '%s' validation", fieldErr.Field(), fieldErr.Tag())
		}
	}
	return "Invalid request: " + strings.Join(parts, "; ")
}
