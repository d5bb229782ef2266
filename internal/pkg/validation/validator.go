package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"boardcamp/internal/domain"
	apperror "boardcamp/internal/errors"
)

// Validator valida os payloads de entrada usando as tags `validate`.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New cria o validador com as regras customizadas do boardcamp.
func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock permite fixar a data corrente (usada pela regra pastdate).
func NewWithClock(now func() time.Time) *Validator {
	v := &Validator{validate: validator.New(), now: now}

	// Mensagens usam o nome do campo no JSON.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.validate.RegisterValidation("digits", isDigits)
	v.validate.RegisterValidation("pastdate", v.isPastDate)

	return v
}

// Struct valida s e devolve um ValidationError com o detalhe por campo.
func (v *Validator) Struct(s interface{}, msg string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.NewValidationError(msg)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = formatValidationError(e)
	}
	return apperror.NewFieldValidationError(msg, fields)
}

func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (v *Validator) isPastDate(fl validator.FieldLevel) bool {
	d, err := domain.ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.After(domain.NewDate(v.now()))
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", e.Field())
	case "uri":
		return fmt.Sprintf("%s deve ser uma URI válida", e.Field())
	case "digits":
		return fmt.Sprintf("%s deve conter apenas dígitos", e.Field())
	case "len":
		return fmt.Sprintf("%s deve ter exatamente %s caracteres", e.Field(), e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no mínimo %s caracteres", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s deve ser maior ou igual a %s", e.Field(), e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter no máximo %s caracteres", e.Field(), e.Param())
		}
		return fmt.Sprintf("%s deve ser menor ou igual a %s", e.Field(), e.Param())
	case "pastdate":
		return fmt.Sprintf("%s deve ser uma data válida que não esteja no futuro", e.Field())
	default:
		return fmt.Sprintf("%s é inválido", e.Field())
	}
}
