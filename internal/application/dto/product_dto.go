package dto

import "github.com/shopspring/decimal"

// ProductRequest crear/actualizar producto. Las referencias van por UUID;
// "" limpia la referencia y la ausencia la conserva.
type ProductRequest struct {
	UUID              string           `json:"uuid" validate:"uuid_or_empty"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU               *string          `json:"sku" validate:"omitempty,max=64"`
	CategoryUUID      *string          `json:"categoryUuid" validate:"omitempty,uuid_or_empty"`
	UnitUUID          *string          `json:"unitUuid" validate:"omitempty,uuid_or_empty"`
	BrandUUID         *string          `json:"brandUuid" validate:"omitempty,uuid_or_empty"`
	Type              *string          `json:"type" validate:"omitempty,max=40"`
	PackSize          *int             `json:"packSize" validate:"omitempty,min=0"`
	Price             *decimal.Decimal `json:"price"`
	Cost              *decimal.Decimal `json:"cost"`
	StockQuantity     *int             `json:"stockQuantity"`
	IsActive          *bool            `json:"isActive"`
	GSTType           *string          `json:"gstType" validate:"omitempty,max=20"`
	GSTRate           *decimal.Decimal `json:"gstRate"`
	ImageURL          *string          `json:"imageUrl" validate:"omitempty,max=500"`
	Description       *string          `json:"description" validate:"omitempty,max=2000"`
	Discount          *decimal.Decimal `json:"discount"`
	IsPercentDiscount *bool            `json:"isPercentDiscount"`
	IsDeleted         *bool            `json:"isDeleted"`
}
