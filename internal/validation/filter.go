package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apierrors "vcpulse/internal/errors"
)

// validate is shared; validator instances cache struct metadata
var validate = validator.New()

// FilterParams is the raw filter input from the presentation layer,
// before it becomes a FilterSelection. Zero years mean "unbounded".
type FilterParams struct {
	MinYear   int      `validate:"omitempty,min=1000,max=9999"`
	MaxYear   int      `validate:"omitempty,min=1000,max=9999,gtefield=MinYear"`
	Countries []string `validate:"max=500,dive,min=2,max=3"`
	Markets   []string `validate:"max=2000,dive,min=1"`
}

// ValidateFilterParams checks the filter input and returns an APIError
// describing every violated field, or nil when the input is valid.
func ValidateFilterParams(params FilterParams) *apierrors.APIError {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	fields := make([]apierrors.ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return apierrors.ErrValidationMultiple(fields)
}

// messageFor renders a human-readable message for a field error
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gtefield":
		return "max_year must not be below min_year"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
