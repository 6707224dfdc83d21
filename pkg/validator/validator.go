package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormatValidationError turns a binding error into the single
// human-readable message the API contract fixes for that field.
// Fields are validated in struct order, so the first failure wins.
func FormatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		return getFieldErrorMessage(validationErrors[0])
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s too long (max %s characters)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid %s", field)
	default:
		return fmt.Sprintf("Invalid %s", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username": "Username",
		"Password": "Password",
		"Message":  "Message",
		"Type":     "request type",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
