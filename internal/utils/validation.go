package utils

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Column widths of the users table.
const (
	MaxEmailLength = 320
	MaxNameLength  = 255
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	// local@domain.tld, nothing stricter
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("tmm_username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("tmm_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// IsValidUsername reports whether s is 3-20 characters of letters, digits or underscore.
func IsValidUsername(s string) bool {
	return validate.Var(s, "required,tmm_username") == nil
}

// IsValidEmail reports whether s has the simple local@domain shape.
func IsValidEmail(s string) bool {
	return validate.Var(s, "required,tmm_email") == nil
}

// IsWithinLength reports whether s has at most max characters.
func IsWithinLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// TruncateRunes cuts s to at most max characters.
func TruncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
