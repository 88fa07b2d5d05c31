package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation wraps every request-shape failure
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a path id is not a valid document id
	ErrInvalidID = errors.New("invalid id")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the `validate` tags on v and reports the first failing
// field as an ErrValidation.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := verrs[0]
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	case "email":
		return fmt.Errorf("%w: %s must be a valid email", ErrValidation, field)
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", ErrValidation, field, fe.Param())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", ErrValidation, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", ErrValidation, field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
