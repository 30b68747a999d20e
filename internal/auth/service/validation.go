package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	autherror "github.com/aryamansrivastava/account-service/internal/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput reports every violated field, not only the first.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return autherror.NewInternal(err)
	}

	fields := make([]autherror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, autherror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return autherror.NewValidation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "invalid email format"
	case "min", "max":
		if fe.Field() == "password" {
			return "password must be between 6 and 30 characters"
		}
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be an RFC 3339 timestamp", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
