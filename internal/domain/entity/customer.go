package entity

import "github.com/shopspring/decimal"

// WalkInCustomerName nombre del cliente genérico de mostrador.
const WalkInCustomerName = "Walk-in Customer"

// Customer representa un cliente de la empresa.
type Customer struct {
	SyncMeta
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	CreditLimit    decimal.Decimal `json:"creditLimit"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsWalkIn       bool            `json:"isWalkIn"`
}

// Supplier proveedor de la empresa.
type Supplier struct {
	SyncMeta
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
