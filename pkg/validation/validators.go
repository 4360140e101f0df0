package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Regex patterns shared with the browser controller. Both are valid in RE2 and ECMAScript.
const (
	// Permissive local@domain.tld shape used before submission
	ClientEmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// Digits only, no separators
	DigitsPattern = `^[0-9]+$`
)

var digitsRegex = regexp.MustCompile(DigitsPattern)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("digits", Digits)
}

// Digits validates that a string consists of ASCII digits only
func Digits(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return digitsRegex.MatchString(val)
}
