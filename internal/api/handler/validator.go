package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Caiquefelipe/minimal-api/internal/core/validation"
)

// ruleSet is implemented by request payloads that carry their own ordered
// rules and client-facing messages.
type ruleSet interface {
	Validate() []string
}

// echoValidator lets Echo call c.Validate(req). Payloads implementing ruleSet
// are checked with their rules; query structs use their validate tags.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(wireName)
	return &echoValidator{v: v}
}

// wireName reports fields by their query or JSON name so messages say
// "pagina" rather than "Page".
func wireName(f reflect.StructField) string {
	name := f.Tag.Get("query")
	if name == "" {
		name, _, _ = strings.Cut(f.Tag.Get("json"), ",")
	}
	if name == "-" {
		return ""
	}
	return name
}

// Validate satisfies the echo.Validator interface. Failures are returned as
// *validation.Failed.
func (ev *echoValidator) Validate(i any) error {
	if rs, ok := i.(ruleSet); ok {
		return validation.Check(rs.Validate())
	}

	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return &validation.Failed{Messages: msgs}
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " é obrigatório"
	case "email":
		return field + " deve ser um email válido"
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}
