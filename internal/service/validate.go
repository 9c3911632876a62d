package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/helpline-directory/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator, reporting field names by
// their json tag so messages match what the form and API call them.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateStruct runs struct-tag validation on v and converts the first
// failure into a domain.ErrValidation with a human-readable message.
func validateStruct(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, fe.Field())
	case "min", "max":
		return fmt.Errorf("%w: %s must be between %d and %d", domain.ErrValidation, fe.Field(), domain.MinRating, domain.MaxRating)
	case "gt":
		return fmt.Errorf("%w: %s must be greater than %s", domain.ErrValidation, fe.Field(), fe.Param())
	}
	return fmt.Errorf("%w: %s is invalid", domain.ErrValidation, fe.Field())
}
