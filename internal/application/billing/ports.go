package billing

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ReceiptLine línea de factura enriquecida con el nombre del producto para el PDF.
type ReceiptLine struct {
	entity.InvoiceItem
	ProductName string
	ProductSKU  string
}

// Receipt datos completos que necesita el generador.
type Receipt struct {
	Invoice  *entity.Invoice
	Company  *entity.Company
	Customer *entity.Customer // nil si la factura no tiene cliente
	Lines    []ReceiptLine
}

// InvoicePDFGenerator genera la representación imprimible de una factura.
type InvoicePDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, r Receipt) ([]byte, error)
}
