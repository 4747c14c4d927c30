package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/hrd-platform/hr-admin-api/pkg/errors"
)

// NewValidator builds the request validator. Field names in error output come
// from json tags so clients see the keys they sent.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError turns tag-level validation failures into a field-keyed 422.
// Non-validator errors keep the fallback message.
func validationError(err error, fallback string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fallback)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		fields[key] = append(fields[key], fieldMessage(key, fe))
	}
	return appErrors.Validation(fields)
}

// fieldKey converts a validator namespace ("EmployeeRequest.departments[0].id")
// into the dotted form clients use ("departments.0.id").
func fieldKey(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func fieldMessage(key string, fe validator.FieldError) string {
	name := strings.ReplaceAll(key, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must have at least %s items.", name, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "uuid4":
		return fmt.Sprintf("The %s field must be a valid UUID.", name)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s field is invalid.", name)
	}
}
