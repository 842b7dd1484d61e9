//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/jobhuntos/jobhunt-api/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "employment_type", func(fl validator.FieldLevel) bool {
		return EmploymentType(fl.Field().String()).Valid()
	})
	mustRegister(v, "stage", func(fl validator.FieldLevel) bool {
		return Stage(fl.Field().String()).Valid()
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// validateFields runs the struct-tag rules and returns the first failure as a
// field-named validation error.
func validateFields(s any) error {
	return translate(validate.Struct(s))
}

// validatePartial runs the struct-tag rules for the named struct fields only.
func validatePartial(s any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(validate.StructPartial(s, fields...))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request")
	}
	fe := verrs[0]
	return apperrors.ValidationField(fe.Field(), ruleMessage(fe))
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "http_url":
		return "must be an absolute http or https URL"
	case "employment_type":
		return "must be one of: " + joinValues(EmploymentTypes)
	case "stage":
		return "must be one of: " + joinValues(Stages)
	case "status":
		return "must be one of: " + joinValues(Statuses)
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
