package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var languageRE = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2})?$`)

// RegisterCustomValidations adds this package's custom rules to a validator
// instance. The binder registers them on its own instance; the pipeline's
// descriptor validation reuses them on a separate one.
func RegisterCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("language", languageValidator)
}

// languageValidator ensures the value is a lowercase two-letter language code,
// optionally with a region suffix (e.g. "en", "pt-br"). The empty string is
// allowed so the validator can be combined with omitempty semantics.
func languageValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return languageRE.MatchString(value)
}
