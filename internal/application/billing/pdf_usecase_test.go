package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
)

// captureGenerator guarda el comprobante recibido.
type captureGenerator struct {
	got *Receipt
}

func (g *captureGenerator) GenerateReceiptPDF(_ context.Context, r Receipt) ([]byte, error) {
	g.got = &r
	return []byte("%PDF-1.4"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	repos := st.Registry()
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	company := &entity.Company{BusinessName: "Tienda Sol"}
	require.NoError(t, repos.Companies().Create(ctx, company))

	product := &entity.Product{Name: "Café", SKU: "CF-1"}
	product.Stamp(company.ID, uuid.NewString(), now)
	_, err := repos.Products().InsertIfAbsent(ctx, product)
	require.NoError(t, err)

	inv := &entity.Invoice{InvoiceNumber: "F 001/A", Date: now, Total: decimal.NewFromInt(20)}
	inv.Stamp(company.ID, uuid.NewString(), now)
	_, err = repos.Invoices().InsertIfAbsent(ctx, inv)
	require.NoError(t, err)
	stored, err := repos.Invoices().FindByUUID(ctx, company.ID, inv.UUID)
	require.NoError(t, err)

	items := []*entity.InvoiceItem{
		{UUID: uuid.NewString(), ProductUUID: product.UUID, Quantity: 2, UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(20), CreatedAt: now},
		{UUID: uuid.NewString(), ProductUUID: uuid.NewString(), Quantity: 1, CreatedAt: now},
	}
	require.NoError(t, repos.Invoices().ReplaceItems(ctx, stored, items))

	gen := &captureGenerator{}
	uc := NewPDFUseCase(repos, gen)

	pdf, filename, err := uc.DownloadInvoicePDF(ctx, company.ID, inv.UUID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "factura_F_001_A.pdf", filename, "el nombre de archivo solo lleva caracteres seguros")

	require.NotNil(t, gen.got)
	assert.Nil(t, gen.got.Customer)
	require.Len(t, gen.got.Lines, 2)
	assert.Equal(t, "Café", gen.got.Lines[0].ProductName)
	assert.Equal(t, "CF-1", gen.got.Lines[0].ProductSKU)
	assert.Contains(t, gen.got.Lines[1].ProductName, items[1].ProductUUID, "producto inexistente: se imprime su uuid")
}

func TestDownloadInvoicePDF_OtherTenant(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	repos := st.Registry()
	now := time.Now()

	a, b := &entity.Company{BusinessName: "A"}, &entity.Company{BusinessName: "B"}
	require.NoError(t, repos.Companies().Create(ctx, a))
	require.NoError(t, repos.Companies().Create(ctx, b))

	inv := &entity.Invoice{InvoiceNumber: "F-1", Date: now}
	inv.Stamp(a.ID, uuid.NewString(), now)
	_, err := repos.Invoices().InsertIfAbsent(ctx, inv)
	require.NoError(t, err)

	_, _, err = NewPDFUseCase(repos, &captureGenerator{}).DownloadInvoicePDF(ctx, b.ID, inv.UUID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
