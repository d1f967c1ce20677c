package v1

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// userCandidate is what a create request resolves to before anything is
// persisted. ClientID is zero when idClient was absent or unknown.
type userCandidate struct {
	Name     string `json:"name" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"notblank,email"`
	ClientID int64  `json:"idClient" validate:"required"`
}

func validateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{err.Error()}
	}
	msgs := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldError(fe))
	}
	return msgs
}

func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return fmt.Sprintf("%s should not be blank.", fe.Field())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s characters.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s %q is not a valid email address.", fe.Field(), fe.Value())
	case "required":
		if fe.Field() == "idClient" {
			return "idClient does not reference an existing client."
		}
		return fmt.Sprintf("%s is required.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
