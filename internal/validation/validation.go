// Package validation wraps struct-tag validation for configuration and
// profile input.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// ActivityLevels are the accepted values of the activity_level tag.
var ActivityLevels = []string{"Sedentary", "Light", "Moderate", "Very Active", "Athlete"}

func init() {
	validate = validator.New()
	validate.RegisterValidation("activity_level", validateActivityLevel)
	validate.RegisterValidation("loglevel", validateLogLevel)
}

// Struct validates s and returns a single error describing every violation.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return errors.New(Format(verrs))
}

// Email returns an error unless s is a valid email address.
func Email(s string) error {
	if err := validate.Var(s, "required,email"); err != nil {
		return fmt.Errorf("%q must be a valid email address", s)
	}
	return nil
}

// Format renders validation errors as "field message" pairs.
func Format(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldPath(fe)+" "+message(fe))
	}
	return strings.Join(msgs, ", ")
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "activity_level":
		return "must be one of: " + strings.Join(ActivityLevels, ", ")
	case "loglevel":
		return "must be one of: debug, info, warn, error"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}

func validateActivityLevel(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	for _, a := range ActivityLevels {
		if v == a {
			return true
		}
	}
	return false
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
