// Package validation is the form layer. Screen inputs are validated here
// before any state operation is dispatched, so malformed payloads never
// reach the slices or the network client.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator configures the shared validator instance.
// - Uses JSON tag names in errors.
// - Registers alias tags for common validations.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Aliases for common semantics
	v.RegisterAlias("pwd", "min=8") // password minimum length
	v.RegisterAlias("phone", "e164")
	return v
}

// SigninForm carries the login screen input.
type SigninForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

// SignupForm carries the registration screen input.
type SignupForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,pwd"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"omitempty,min=2"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
}

// ProfileForm carries the profile edit screen input.
type ProfileForm struct {
	FirstName string `json:"firstName" validate:"omitempty,min=2"`
	LastName  string `json:"lastName" validate:"omitempty,min=2"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// PasswordChangeForm carries the password rotation input.
type PasswordChangeForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,pwd,nefield=CurrentPassword"`
}

// PaymentMethodForm carries the payment-method create/update input.
type PaymentMethodForm struct {
	Type  string `json:"type" validate:"required,oneof=card kaspi apple_pay google_pay cash"`
	Title string `json:"title" validate:"required,min=2,max=64"`
	Last4 string `json:"last4" validate:"omitempty,len=4,numeric"`
}

// Check validates any form struct against its validate tags.
func Check(form any) error {
	return validate.Struct(form)
}

// ToDetails converts validation errors into a map[field]message suitable for
// rendering next to each input on the screen.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"form": "invalid input"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "len":
		if param != "" {
			return fmt.Sprintf("must be exactly %s characters long", param)
		}
		return "invalid length"
	case "min":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at least " + param
			}
			return "must be at least " + param + " characters long"
		}
		return "too small"
	case "max":
		if param != "" {
			if isNumberKind(kind) {
				return "must be at most " + param
			}
			return "must be at most " + param + " characters long"
		}
		return "too large"
	case "eqfield":
		return "must be equal to " + param + " field"
	case "nefield":
		return "must not be equal to " + param + " field"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "numeric":
		return "must be numeric"
	case "pwd":
		return "min length 8"
	case "phone", "e164":
		return "must be a valid phone number"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
