package service

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// Validation messages returned to site visitors.
const (
	msgRequired    = "Обязательное поле."
	msgTooLong     = "Слишком длинное значение."
	msgMinOne      = "Значение должно быть не меньше 1."
	msgNonNegative = "Значение не может быть отрицательным."
	msgInvalid     = "Некорректное значение."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct tags of v and converts failures into
// domain.FieldErrors keyed by snake_case paths ("items[0].quantity").
func validateStruct(v any, errs domain.FieldErrors) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		errs.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return msgTooLong
	case "gte":
		if fe.Param() == "1" {
			return msgMinOne
		}
		return msgInvalid
	default:
		return msgInvalid
	}
}

// fieldPath drops the root struct name from namespace and snake_cases every
// segment: "DayScenario.Items[0].Quantity" becomes "items[0].quantity".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
			continue
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}

func requireNonNegative(errs domain.FieldErrors, field string, d decimal.Decimal) {
	if d.IsNegative() {
		errs.Add(field, msgNonNegative)
	}
}
