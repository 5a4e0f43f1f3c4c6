package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request DTO.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetValidationErrors converts validator errors into field-level messages.
func GetValidationErrors(err error) []ValidationError {
	var errs []ValidationError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ValidationError{{Field: "", Message: err.Error()}}
	}

	for _, fe := range validationErrors {
		errs = append(errs, ValidationError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: messageForTag(fe),
		})
	}

	return errs
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "uuid":
		return "must be a valid UUID"
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "dive":
		return "contains an invalid element"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
