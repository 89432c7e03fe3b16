package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice cabecera de una venta. El cliente se expone por UUID.
type Invoice struct {
	SyncMeta
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerID    *int64          `json:"-"`
	CustomerUUID  *string         `json:"customerUuid"`
	Date          time.Time       `json:"date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Notes         string          `json:"notes"`
}

// InvoiceItem línea de factura. Es de solo inserción: no tiene UpdatedAt ni borrado lógico,
// por eso el delta de sincronización la filtra por CreatedAt.
type InvoiceItem struct {
	ID          int64           `json:"-"`
	UUID        string          `json:"uuid"`
	CompanyID   int64           `json:"-"`
	InvoiceID   int64           `json:"-"`
	InvoiceUUID string          `json:"invoiceUuid"`
	ProductID   int64           `json:"-"`
	ProductUUID string          `json:"productUuid"`
	Quantity    int             `json:"quantity"`
	Bonus       int             `json:"bonus"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Discount    decimal.Decimal `json:"discount"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
}
