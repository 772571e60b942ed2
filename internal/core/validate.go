package core

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("regno", func(fl validator.FieldLevel) bool {
		return NormalizeRegistrationNumber(fl.Field().String()) != ""
	})
	return v
}

// IsValidMobile reports whether s is exactly ten ASCII digits.
func IsValidMobile(s string) bool {
	return mobileRegex.MatchString(s)
}

// validateStruct runs tag validation and converts the first failure into an
// ErrValidation with a readable message.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "regno":
		return fmt.Errorf("%w: %s is required", ErrValidation, fe.Field())
	case "mobile":
		return fmt.Errorf("%w: %s must be a valid 10-digit number", ErrValidation, fe.Field())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of [%s]", ErrValidation, fe.Field(), fe.Param())
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", ErrValidation, fe.Field())
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", ErrValidation, fe.Field(), fe.Param())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", ErrValidation, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s is not valid", ErrValidation, fe.Field())
	}
}
