package editor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// Validator checks draft payloads against their `validate` struct tags and
// reports failures by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Check validates payload. Missing required fields are reported together,
// e.g. "sku and name are required"; other failures name the first field.
func (v *Validator) Check(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}
	var required []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			required = append(required, fe.Field())
		}
	}
	if len(required) > 0 {
		return catalog.RequiredFields(required...)
	}
	fe := fieldErrs[0]
	return &catalog.ValidationError{
		Fields:  []string{fe.Field()},
		Message: describe(fe),
	}
}

func describe(fe validator.FieldError) string {
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
