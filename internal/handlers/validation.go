package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/saeid-a/FlashFitBack/internal/services"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest returns one field error per failed rule, named after the
// JSON keys of the request.
func validateRequest(req any) []services.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return []services.FieldError{{Field: "body", Message: "Invalid request body"}}
	}

	fields := make([]services.FieldError, 0, len(failures))
	for _, failure := range failures {
		fields = append(fields, services.FieldError{
			Field:   failure.Field(),
			Message: validationMessage(failure),
		})
	}
	return fields
}

func validationMessage(failure validator.FieldError) string {
	label := humanize(failure.Field())
	switch failure.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Valid email is required"
	case "min":
		if failure.Kind() == reflect.String {
			return label + " must be at least " + failure.Param() + " characters"
		}
		return label + " must be at least " + failure.Param()
	case "gt":
		return label + " must be greater than " + failure.Param()
	case "gte":
		return label + " must be " + failure.Param() + " or more"
	case "datetime":
		return label + " must be a date in YYYY-MM-DD format"
	default:
		return label + " is invalid"
	}
}

func humanize(field string) string {
	if field == "" {
		return "Value"
	}
	words := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(words[:1]) + words[1:]
}
