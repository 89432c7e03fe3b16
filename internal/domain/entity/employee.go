package entity

import "github.com/shopspring/decimal"

// Roles predefinidos. Una empresa puede además configurar roles propios.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
	RoleCashier  = "cashier"
)

// Employee es la identidad que inicia sesión; pertenece a una Company.
type Employee struct {
	SyncMeta
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"` // bcrypt, nunca sale del servidor
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Position     string          `json:"position"`
	Salary       decimal.Decimal `json:"salary"`
	Role         string          `json:"role"`
	IsOwner      bool            `json:"isOwner"`
}

// Identity es el resultado de autenticar una credencial: quién llama y en qué tenant.
type Identity struct {
	EmployeeID   int64
	EmployeeUUID string
	CompanyID    int64
	Role         string
	IsOwner      bool
}
