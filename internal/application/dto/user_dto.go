package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// EmployeeRequest crear/actualizar empleado. Password es obligatorio al crear.
type EmployeeRequest struct {
	UUID      string           `json:"uuid" validate:"uuid_or_empty"`
	Name      *string          `json:"name" validate:"omitempty,min=1,max=160"`
	Email     *string          `json:"email" validate:"omitempty,email"`
	Password  *string          `json:"password" validate:"omitempty,min=8,max=72"`
	Phone     *string          `json:"phone" validate:"omitempty,max=40"`
	Address   *string          `json:"address" validate:"omitempty,max=255"`
	Position  *string          `json:"position" validate:"omitempty,max=80"`
	Salary    *decimal.Decimal `json:"salary"`
	Role      *string          `json:"role" validate:"omitempty,role_name"`
	IsDeleted *bool            `json:"isDeleted"`
}

// SignupRequest alta de empresa con su empleado propietario (admin).
type SignupRequest struct {
	BusinessName    string `json:"businessName" validate:"required,min=2,max=160"`
	BusinessAddress string `json:"businessAddress" validate:"max=255"`
	TaxID           string `json:"taxId" validate:"max=40"`
	Phone           string `json:"phone" validate:"max=40"`
	Name            string `json:"name" validate:"required,min=1,max=160"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token + empleado + empresa.
type LoginResponse struct {
	Token    string           `json:"token"`
	Employee *entity.Employee `json:"employee"`
	Company  *entity.Company  `json:"company"`
}

// MeResponse identidad actual con permisos efectivos.
type MeResponse struct {
	Employee    *entity.Employee `json:"employee"`
	Company     *entity.Company  `json:"company"`
	Permissions []string         `json:"permissions"`
}
