// Package validation validates form input using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/listenupapp/pokedex/internal/errors"
)

// FieldError describes one failed rule, in struct field order.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a VALIDATION domain error whose
// details are the []FieldError. The message is the first field's message.
//
// A field may carry a `msg` tag; it replaces the generated message for any
// rule failing on that field.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(s, err)
	}
	return nil
}

// Fields extracts the field errors from a Validate result.
func Fields(err error) []FieldError {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		return nil
	}
	fields, _ := domainErr.Details.([]FieldError)
	return fields
}

func (v *Validator) formatError(s any, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := ""
		if sf, ok := t.FieldByName(e.StructField()); ok {
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = e.Field() + " " + friendlyMessage(e)
		}
		fields = append(fields, FieldError{Field: e.Field(), Message: msg})
	}

	return domainerrors.ValidationWithDetails(fields[0].Message, fields)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
