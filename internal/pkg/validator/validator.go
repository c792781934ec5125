package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/frizerski/booking-api/internal/domain/schedule"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ]{5,19}$`)

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "user", "admin":
			return true
		}
		return false
	})

	validate.RegisterValidation("slot_date", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseDate(fl.Field().String())
		return err == nil
	})

	validate.RegisterValidation("slot_time", func(fl validator.FieldLevel) bool {
		return schedule.IsGridSlot(fl.Field().String())
	})

	validate.RegisterValidation("service_duration", func(fl validator.FieldLevel) bool {
		switch fl.Field().Int() {
		case 30, 60, 90, 120:
			return true
		}
		return false
	})

	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short (min: " + fe.Param() + ")"
	case "max":
		return "Value is too long (max: " + fe.Param() + ")"
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "gte":
		return "Value must be at least " + fe.Param()
	case "len":
		return "Value must have length " + fe.Param()
	case "numeric":
		return "Value must contain digits only"
	case "url":
		return "Invalid URL format"
	case "role":
		return "Invalid role. Must be: user or admin"
	case "slot_date":
		return "Invalid date. Use YYYY-MM-DD"
	case "slot_time":
		return "Invalid time. Must be a slot between 09:00 and 17:30 on a 30 minute step"
	case "service_duration":
		return "Invalid duration. Must be 30, 60, 90 or 120 minutes"
	case "phone":
		return "Invalid phone number"
	default:
		return "Invalid value"
	}
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
