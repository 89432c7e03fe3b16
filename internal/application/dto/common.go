package dto

import "github.com/jhoicas/backoffice-api/pkg/validator"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Required y Role solo en denegaciones del control de acceso (403).
	Required string `json:"required,omitempty"`
	Role     string `json:"role,omitempty"`
	// Fields lista los campos inválidos; InvalidRefs las referencias que no existen en RefField.
	Fields      []validator.FieldError `json:"fields,omitempty"`
	InvalidRefs []string               `json:"invalidRefs,omitempty"`
	RefField    string                 `json:"refField,omitempty"`
}

// ListResponse envoltorio de listados.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewList construye el envoltorio; items nil se serializa como [].
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}
