// Package validation provides request validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eringen/erasite/apperror"
)

// Validator wraps go-playground/validator with apperror conversion.
// It satisfies echo.Validator.
type Validator struct {
	v        *validator.Validate
	required string
	invalid  string
}

// New creates a validator. required is the top-level message when only
// required fields are missing; invalid is used for any other failure.
func New(required, invalid string) *Validator {
	v := validator.New()

	// json tag names in field details, form names for form-only structs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{v: v, required: required, invalid: invalid}
}

// Validate validates a struct and returns an *apperror.AppError on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	message := v.required
	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		if e.Tag() != "required" {
			message = v.invalid
		}
	}
	return apperror.ValidationWithDetails(message, fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "min":
		return fmt.Sprintf("не короче %s символов", e.Param())
	case "max":
		return fmt.Sprintf("не длиннее %s символов", e.Param())
	case "gte":
		return "не меньше " + e.Param()
	case "lte":
		return "не больше " + e.Param()
	default:
		return "некорректное значение"
	}
}
