package utils

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// nameRe matches names made of Russian or English letters and hyphens.
var nameRe = regexp.MustCompile(`^[А-Яа-яA-Za-z-]+$`)

// Validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request bodies.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the validator and registers the custom rules
// referenced by request DTO tags: person_name for first and last
// names, strong_password for password complexity.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("person_name", validPersonName)
	_ = v.RegisterValidation("strong_password", validStrongPassword)
	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func validPersonName(fl validator.FieldLevel) bool {
	return nameRe.MatchString(fl.Field().String())
}

// validStrongPassword requires at least one upper case Latin letter,
// one lower case Latin letter and one digit. Length bounds are
// declared separately with min/max tags.
func validStrongPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
