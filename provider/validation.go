package provider

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

// newStructValidator reports fields by their `conf` tag when one is present
func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := strings.Split(field.Tag.Get("conf"), ",")[0]; name != "" && name != "-" {
			return name
		}
		return field.Name
	})
	return v
}

// FieldError names a configuration field that failed validation
type FieldError struct {
	Field string
	Tag   string
}

// ValidateStruct checks the validate tags of s and returns the failing
// fields sorted by name. A nil slice means s is valid.
func ValidateStruct(s any) ([]FieldError, error) {
	err := structValidator.Struct(s)
	if err == nil {
		return nil, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return fields, nil
}

// DescribeFieldErrors renders failing fields as "a (required), b (url)"
func DescribeFieldErrors(fields []FieldError) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Tag)
	}
	return strings.Join(parts, ", ")
}
