package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrProtectedRole      = errors.New("el rol no puede modificarse")

	// Rechazos del resolvedor de identidad.
	ErrMissingCredential = errors.New("credencial requerida")
	ErrInvalidCredential = errors.New("credencial inválida o expirada")
	ErrUnknownIdentity   = errors.New("la identidad no corresponde a un empleado activo")
)

// InvalidReferencesError lista UUIDs referenciados que no existen dentro del tenant.
// errors.Is(err, ErrInvalidInput) es verdadero.
type InvalidReferencesError struct {
	Field string
	UUIDs []string
}

func (e *InvalidReferencesError) Error() string {
	return fmt.Sprintf("referencias inválidas en %s: %s", e.Field, strings.Join(e.UUIDs, ", "))
}

// Is permite tratar el error como ErrInvalidInput.
func (e *InvalidReferencesError) Is(target error) bool {
	return target == ErrInvalidInput
}
