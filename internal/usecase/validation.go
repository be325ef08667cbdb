package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// messages для правил валидации; ключ "поле.тег" переопределяет общий "тег".
var messages = map[string]string{
	"name.min":                "Name must be at least 2 characters",
	"email.email":             "Please enter a valid email address",
	"password.min":            "Password must be at least 6 characters",
	"confirmPassword.eqfield": "Passwords don't match",
	"cardNumber.luhn":         "Invalid card number",
	"cardNumber.numeric":      "Card number must contain only digits",
	"cvv.numeric":             "CVV must contain only digits",
	"expiry.expiry":           "Expiry must be in MM/YY format",
	"required":                "This field is required",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("luhn", func(fl validator.FieldLevel) bool {
		return Luhn(fl.Field().String())
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		_, _, ok := parseExpiry(fl.Field().String())
		return ok
	})

	return v
}

// validateStruct проверяет структуру по тегам validate и собирает ошибки по полям.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return e.Wrap("validateStruct", err)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, ok := fields[fe.Field()]; ok {
			continue
		}
		fields[fe.Field()] = messageFor(fe)
	}

	return e.NewValidationError(fields)
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return "Invalid value"
	}
}

// Luhn проверяет контрольную сумму номера карты.
func Luhn(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}

		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// parseExpiry разбирает срок действия карты "MM/YY".
func parseExpiry(s string) (month int, year int, ok bool) {
	mm, yy, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found || len(mm) != 2 || len(yy) != 2 {
		return 0, 0, false
	}

	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}

	year, err = strconv.Atoi(yy)
	if err != nil || year < 0 {
		return 0, 0, false
	}

	return month, 2000 + year, true
}
