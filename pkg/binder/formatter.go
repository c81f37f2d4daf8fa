package binder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// formatValidationError converts a validator.FieldError into a human-readable
// message that names the offending field by its json tag.
func formatValidationError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required.", field)
	case "min":
		if fe.Kind().String() == "string" || fe.Kind().String() == "slice" {
			return fmt.Sprintf("%q must have a length of at least %s.", field, fe.Param())
		}
		return fmt.Sprintf("%q must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" || fe.Kind().String() == "slice" {
			return fmt.Sprintf("%q must have a length of at most %s.", field, fe.Param())
		}
		return fmt.Sprintf("%q must be at most %s.", field, fe.Param())
	case "oneof":
		options := strings.Join(strings.Split(fe.Param(), " "), ", ")
		return fmt.Sprintf("%q must be one of: %s.", field, options)
	case "language":
		return fmt.Sprintf("%q must be a two-letter language code.", field)
	default:
		return fmt.Sprintf("%q is invalid.", field)
	}
}

// formatUnmarshalTypeError converts a json.UnmarshalTypeError into a
// human-readable message.
func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q must be of type %s.", err.Field, err.Type.String())
}

// formatSchemaConversionError converts a schema.ConversionError into a
// human-readable message.
func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q must be of type %s.", err.Key, err.Type.String())
}
