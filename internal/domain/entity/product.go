package entity

import "github.com/shopspring/decimal"

// Product representa un producto del catálogo de la empresa.
// Las referencias a categoría, unidad y marca se exponen por UUID; los IDs numéricos son internos.
type Product struct {
	SyncMeta
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	CategoryID        *int64          `json:"-"`
	CategoryUUID      *string         `json:"categoryUuid"`
	UnitID            *int64          `json:"-"`
	UnitUUID          *string         `json:"unitUuid"`
	BrandID           *int64          `json:"-"`
	BrandUUID         *string         `json:"brandUuid"`
	Type              string          `json:"type"`
	PackSize          int             `json:"packSize"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	StockQuantity     int             `json:"stockQuantity"`
	IsActive          bool            `json:"isActive"`
	GSTType           string          `json:"gstType"`
	GSTRate           decimal.Decimal `json:"gstRate"`
	ImageURL          string          `json:"imageUrl"`
	Description       string          `json:"description"`
	Discount          decimal.Decimal `json:"discount"`
	IsPercentDiscount bool            `json:"isPercentDiscount"`
}
