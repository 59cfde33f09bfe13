// Package validation wraps go-playground/validator with the field rules of
// the API and translates tag failures into apperr field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"yamdb/internal/apperr"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ReservedUsername cannot be registered; it names the current-user endpoint.
const ReservedUsername = "me"

// Validator checks request structs against their `validate` tags.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a Validator. now is the clock used by the notfutureyear rule;
// nil means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(), now: now}

	// Report JSON field names instead of Go field names.
	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	mustRegister(v.validate, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v.validate, "notme", func(fl validator.FieldLevel) bool {
		return !IsReservedUsername(fl.Field().String())
	})
	mustRegister(v.validate, "slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	mustRegister(v.validate, "notfutureyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(v.now().Year())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// IsReservedUsername reports whether name is the reserved "me", in any case.
func IsReservedUsername(name string) bool {
	return strings.EqualFold(name, ReservedUsername)
}

// Now returns the validator's clock reading.
func (v *Validator) Now() time.Time {
	return v.now()
}

// Struct validates s and returns apperr.ValidationErrors, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}
	out := make(apperr.ValidationErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, apperr.New(e.Field(), kindFor(e.Tag()), messageFor(e)))
	}
	return out
}

// Var validates a single value against tag, reporting failures under field.
func (v *Validator) Var(field string, value interface{}, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", field, err)
	}
	out := make(apperr.ValidationErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, apperr.New(field, kindFor(e.Tag()), messageFor(e)))
	}
	return out
}

func kindFor(tag string) apperr.Kind {
	switch tag {
	case "required":
		return apperr.RequiredFieldMissing
	case "email":
		return apperr.InvalidEmail
	case "username", "notme":
		return apperr.InvalidUsername
	case "slug":
		return apperr.InvalidSlug
	default:
		return apperr.OutOfRange
	}
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. It may contain only letters and digits of any alphabet, and @/./+/-/_ characters."
	case "notme":
		return fmt.Sprintf("Username %q is not allowed.", ReservedUsername)
	case "slug":
		return "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
	case "notfutureyear":
		return "Year cannot be greater than the current year."
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", e.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", e.Tag())
	}
}
