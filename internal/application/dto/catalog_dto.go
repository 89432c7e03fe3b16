package dto

import "github.com/shopspring/decimal"

// Los campos puntero distinguen "ausente" (conservar) de "presente" (sobrescribir).

// CategoryRequest crear/actualizar categoría.
type CategoryRequest struct {
	UUID        string  `json:"uuid" validate:"uuid_or_empty"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Subcategory *string `json:"subcategory" validate:"omitempty,max=120"`
	IsActive    *bool   `json:"isActive"`
	IsDeleted   *bool   `json:"isDeleted"`
}

// UnitRequest crear/actualizar unidad de medida.
type UnitRequest struct {
	UUID      string  `json:"uuid" validate:"uuid_or_empty"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=60"`
	Symbol    *string `json:"symbol" validate:"omitempty,max=16"`
	IsActive  *bool   `json:"isActive"`
	IsDeleted *bool   `json:"isDeleted"`
}

// BrandRequest crear/actualizar marca.
type BrandRequest struct {
	UUID      string  `json:"uuid" validate:"uuid_or_empty"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=120"`
	IsActive  *bool   `json:"isActive"`
	IsDeleted *bool   `json:"isDeleted"`
}

// SupplierRequest crear/actualizar proveedor.
type SupplierRequest struct {
	UUID      string  `json:"uuid" validate:"uuid_or_empty"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=160"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Address   *string `json:"address" validate:"omitempty,max=255"`
	IsDeleted *bool   `json:"isDeleted"`
}

// CustomerRequest crear/actualizar cliente.
type CustomerRequest struct {
	UUID           string           `json:"uuid" validate:"uuid_or_empty"`
	Name           *string          `json:"name" validate:"omitempty,min=1,max=160"`
	Phone          *string          `json:"phone" validate:"omitempty,max=40"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Address        *string          `json:"address" validate:"omitempty,max=255"`
	CreditLimit    *decimal.Decimal `json:"creditLimit"`
	CurrentBalance *decimal.Decimal `json:"currentBalance"`
	IsDeleted      *bool            `json:"isDeleted"`
}
