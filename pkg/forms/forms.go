// Package forms validates the login and signup forms before any request is
// made. Failures are reported as *core.ValidationError with the message the
// user sees.
package forms

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/inkwell/pkg/core"
)

const (
	MsgRequired = "All fields are required"
	MsgEmail    = "Enter a valid email address"
	MsgPassword = "Password must be at least 6 characters"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// The stock "email" rule is stricter than what the server accepts.
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// Login is the login form.
type Login struct {
	Email    string `validate:"required,emailaddr"`
	Password string `validate:"required"`
}

// Signup is the signup form.
type Signup struct {
	Username string `validate:"required"`
	Email    string `validate:"required,emailaddr"`
	Password string `validate:"required,min=6"`
}

// Validate checks the login form.
func (f Login) Validate() error {
	return check(f)
}

// Validate checks the signup form. The username is trimmed first.
func (f Signup) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

// check reports a missing field before any other problem, then the first
// failing field in declaration order.
func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return &core.ValidationError{Field: strings.ToLower(fe.Field()), Message: MsgRequired}
		}
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "emailaddr":
		return &core.ValidationError{Field: field, Message: MsgEmail}
	case "min":
		return &core.ValidationError{Field: field, Message: MsgPassword}
	default:
		return &core.ValidationError{Field: field, Message: fe.Error()}
	}
}
