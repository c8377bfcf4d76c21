package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Validator defines the interface for validation operations
type Validator interface {
	// ValidateStruct returns a message per invalid field keyed by the field's JSON name,
	// or nil when s is valid.
	ValidateStruct(s any) map[string]string
}

type validatorImpl struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports JSON field names and understands
// decimal.Decimal through the dgte / dlte tags.
func NewValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("dgte", decimalCompare(func(d, bound decimal.Decimal) bool { return d.GreaterThanOrEqual(bound) }))
	_ = v.RegisterValidation("dlte", decimalCompare(func(d, bound decimal.Decimal) bool { return d.LessThanOrEqual(bound) }))

	return &validatorImpl{validate: v}
}

func decimalCompare(ok func(d, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		switch d := fl.Field().Interface().(type) {
		case decimal.Decimal:
			return ok(d, bound)
		case *decimal.Decimal:
			return d == nil || ok(*d, bound)
		default:
			return false
		}
	}
}

func (v *validatorImpl) ValidateStruct(s any) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"body": err.Error()}
	}

	result := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		result[fieldErr.Field()] = formatValidationError(fieldErr, prettifyFieldName(fieldErr.Field()))
	}
	return result
}

func formatValidationError(err validator.FieldError, fieldName string) string {
	switch err.Tag() {
	case "required":
		return fieldName + " is required"
	case "email":
		return fieldName + " must be a valid email address"
	case "min":
		if err.Kind() == reflect.String {
			return fieldName + " must be at least " + err.Param() + " characters long"
		}
		return fieldName + " must be at least " + err.Param()
	case "max":
		if err.Kind() == reflect.String {
			return fieldName + " must be at most " + err.Param() + " characters long"
		}
		return fieldName + " must be at most " + err.Param()
	case "gt":
		return fieldName + " must be greater than " + err.Param()
	case "gte", "dgte":
		return fieldName + " must be greater than or equal to " + err.Param()
	case "lte", "dlte":
		return fieldName + " must be less than or equal to " + err.Param()
	case "oneof":
		return fieldName + " must be one of the following: " + err.Param()
	default:
		return fieldName + " is invalid"
	}
}

// prettifyFieldName turns a camelCase JSON name into a human-readable string
func prettifyFieldName(field string) string {
	var result []rune
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' && field[i-1] >= 'a' && field[i-1] <= 'z' {
			result = append(result, ' ')
		}
		result = append(result, r)
	}
	return cases.Title(language.Und, cases.NoLower).String(string(result))
}
