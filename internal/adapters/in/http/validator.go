package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tagging/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// RequestValidator checks `validate` struct tags of bound request bodies.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator. Violations are reported as
// errs.ValueIsInvalidError naming the first offending field.
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return errs.NewValueIsInvalidErrorWithCause(fe.Field(), fmt.Errorf("failed on %q", fe.Tag()))
	}
	return errs.NewValueIsInvalidErrorWithCause("request", err)
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}
