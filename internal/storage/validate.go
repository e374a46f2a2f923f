package storage

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := field.Tag.Get("db")
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !isBlank(fl.Field().String())
	})
	return v
}

// Validate checks a NewScenario against the column bounds. Lengths are
// counted in characters, not bytes. Missing required fields are reported
// before length overruns; otherwise the first failing field wins.
func Validate(in NewScenario) error {
	if isBlank(in.Owner) {
		in.Owner = ""
	}
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate scenario: %w", err)
	}
	fe := firstFailure(verrs)
	return &ValidationError{Field: fe.Field(), Reason: reasonFor(fe)}
}

// firstFailure prefers a missing required field over a length overrun.
func firstFailure(verrs validator.ValidationErrors) validator.FieldError {
	for _, fe := range verrs {
		if fe.Tag() == "notblank" {
			return fe
		}
	}
	return verrs[0]
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("must be %s characters or less", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
