package registrations

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input is the registration form. Field names match the form and JSON keys.
type Input struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=2,max=100"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=2,max=100"`
	Email     string `json:"email" form:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" form:"phone" validate:"required,min=10,max=20"`
}

// Normalize trims every field and lower-cases the email.
func Normalize(in Input) Input {
	return Input{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
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

var fieldLabels = map[string]string{
	"firstName": "First name",
	"lastName":  "Last name",
	"email":     "Email",
	"phone":     "Phone number",
}

// Validate returns field → messages for every violated rule, or nil.
func Validate(in Input) map[string][]string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"form": {err.Error()}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabels[fe.Field()]
	switch {
	case fe.Tag() == "required":
		return label + " is required"
	case fe.Tag() == "email":
		return "Please enter a valid email address"
	case fe.Field() == "phone" && fe.Tag() == "min":
		return "Please enter a valid phone number"
	case fe.Tag() == "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case fe.Tag() == "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
