// internal/validator/validator.go
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"finance-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

var nonSpace = regexp.MustCompile(`\S`)

// DateLayouts are accepted wherever the API takes a date.
var DateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках берём из JSON-тегов
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Name
		}
		return name
	})

	// Регистрируем валидацию: строка не пустая и не только пробелы
	_ = Validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return nonSpace.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	_ = Validate.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return domain.Currency(fl.Field().String()).Valid()
	})

	// Суммы храним с точностью до копейки
	_ = Validate.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		return decimal.NewFromFloat(fl.Field().Float()).Exponent() >= -2
	})
}

// ParseDate accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Struct validates v and converts failures into a *domain.ValidationError.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, domain.FieldError{Field: fieldPath(e), Message: fieldErrorToString(e)})
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", e.Field())
	case "excluded_unless", "excluded_if":
		return fmt.Sprintf("%s is not allowed here", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "email":
		return "Please provide a valid email"
	case "isodate":
		return fmt.Sprintf("%s must be a valid date", e.Field())
	case "money":
		return fmt.Sprintf("%s cannot have more than 2 decimal places", e.Field())
	case "currency":
		return fmt.Sprintf("%s must be one of %v", e.Field(), domain.Currencies)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color", e.Field())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", e.Field())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
