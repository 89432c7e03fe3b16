package repository

import (
	"context"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// InvoiceRepository puerto de persistencia para facturas y sus líneas.
type InvoiceRepository interface {
	SyncStore[entity.Invoice]
	// ReplaceItems borra las líneas actuales de la factura e inserta items. Debe ejecutarse en la misma tx que la cabecera.
	ReplaceItems(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error
	ListItems(ctx context.Context, companyID, invoiceID int64) ([]*entity.InvoiceItem, error)
	// ItemsCreatedSince líneas con created_at > since (todas si since es nil), ordenadas por created_at, id.
	ItemsCreatedSince(ctx context.Context, companyID int64, since *time.Time) ([]*entity.InvoiceItem, error)
}
