package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// InvoiceRequest crear/actualizar factura. Items nil conserva las líneas existentes;
// un arreglo (aunque vacío) las reemplaza. customerUuid ausente usa el cliente de mostrador.
type InvoiceRequest struct {
	UUID          string               `json:"uuid" validate:"uuid_or_empty"`
	InvoiceNumber *string              `json:"invoiceNumber" validate:"omitempty,min=1,max=60"`
	CustomerUUID  *string              `json:"customerUuid" validate:"omitempty,uuid_or_empty"`
	Date          *time.Time           `json:"date"`
	Tax           *decimal.Decimal     `json:"tax"`
	Discount      *decimal.Decimal     `json:"discount"`
	Subtotal      *decimal.Decimal     `json:"subtotal"`
	Total         *decimal.Decimal     `json:"total"`
	Notes         *string              `json:"notes" validate:"omitempty,max=1000"`
	Items         []InvoiceItemRequest `json:"items" validate:"omitempty,dive"`
	IsDeleted     *bool                `json:"isDeleted"`
}

// InvoiceItemRequest línea de factura.
type InvoiceItemRequest struct {
	UUID        string           `json:"uuid" validate:"uuid_or_empty"`
	ProductUUID string           `json:"productUuid" validate:"required"`
	Quantity    int              `json:"quantity" validate:"min=1"`
	Bonus       int              `json:"bonus" validate:"min=0"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	Discount    decimal.Decimal  `json:"discount"`
	TotalPrice  *decimal.Decimal `json:"totalPrice"`
}

// InvoiceResponse cabecera + líneas.
type InvoiceResponse struct {
	*entity.Invoice
	Items []*entity.InvoiceItem `json:"items"`
}
