package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	syncStore[entity.Invoice, *entity.Invoice]
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{syncStore[entity.Invoice, *entity.Invoice]{q: q, t: invoicesTable}}
}

const selectItems = `
	SELECT it.id, it.uuid::text, it.company_id, it.invoice_id, inv.uuid::text, it.product_id, p.uuid::text,
	       it.quantity, it.bonus, it.unit_price, it.discount, it.total_price, it.created_at
	  FROM invoice_items it
	  JOIN invoices inv ON inv.id = it.invoice_id
	  JOIN products p ON p.id = it.product_id`

// ReplaceItems borra las líneas de la factura e inserta las nuevas en un único batch.
func (r *InvoiceRepo) ReplaceItems(ctx context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID)
	for _, it := range items {
		it := it // per-iteration copy: the QueryRow callback runs after the loop (go < 1.22 loopvar semantics)
		it.InvoiceID = inv.ID
		it.InvoiceUUID = inv.UUID
		it.CompanyID = inv.CompanyID
		batch.Queue(`
			INSERT INTO invoice_items (uuid, company_id, invoice_id, product_id, quantity, bonus, unit_price, discount, total_price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			it.UUID, it.CompanyID, it.InvoiceID, it.ProductID, it.Quantity, it.Bonus,
			it.UnitPrice, it.Discount, it.TotalPrice, it.CreatedAt,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&it.ID)
		})
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("replace invoice items: %w", invoicesTable.uniqueError(err))
		}
		return fmt.Errorf("replace invoice items: %w", err)
	}
	return nil
}

// ListItems líneas de una factura en orden de inserción.
func (r *InvoiceRepo) ListItems(ctx context.Context, companyID, invoiceID int64) ([]*entity.InvoiceItem, error) {
	return r.queryItems(ctx, selectItems+" WHERE it.company_id = $1 AND it.invoice_id = $2 ORDER BY it.id", companyID, invoiceID)
}

// ItemsCreatedSince líneas creadas después de since; todas si since es nil.
func (r *InvoiceRepo) ItemsCreatedSince(ctx context.Context, companyID int64, since *time.Time) ([]*entity.InvoiceItem, error) {
	if since == nil {
		return r.queryItems(ctx, selectItems+" WHERE it.company_id = $1 ORDER BY it.created_at, it.id", companyID)
	}
	return r.queryItems(ctx, selectItems+" WHERE it.company_id = $1 AND it.created_at > $2 ORDER BY it.created_at, it.id", companyID, *since)
}

func (r *InvoiceRepo) queryItems(ctx context.Context, query string, args ...any) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.UUID, &it.CompanyID, &it.InvoiceID, &it.InvoiceUUID, &it.ProductID, &it.ProductUUID,
			&it.Quantity, &it.Bonus, &it.UnitPrice, &it.Discount, &it.TotalPrice, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}
