// Package validator envuelve go-playground/validator con nombres de campo JSON.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describe un campo que no pasó la validación.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Tag)
}

var (
	validate = validator.New()
	roleName = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,39}$`)
)

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// role_name: minúsculas, dígitos, '_' o '-', empieza por letra, 2-40 caracteres.
	_ = validate.RegisterValidation("role_name", func(fl validator.FieldLevel) bool {
		return roleName.MatchString(fl.Field().String())
	})
	// uuid_or_empty: "" (limpia una referencia) o un UUID en cualquier capitalización.
	_ = validate.RegisterValidation("uuid_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
}

// ValidateStruct devuelve los campos inválidos de data (nil si es válido).
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Tag: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: trimRoot(fe.Namespace()), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// IsRoleName indica si s es un nombre de rol aceptable.
func IsRoleName(s string) bool {
	return roleName.MatchString(s)
}

// Summary concatena los errores en un mensaje legible.
func Summary(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// trimRoot quita el nombre del struct raíz: "ProductRequest.items[0].quantity" → "items[0].quantity".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
