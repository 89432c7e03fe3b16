package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// PDFUseCase genera el comprobante imprimible (PDF) de una factura.
type PDFUseCase struct {
	repos     repository.Registry
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso. repos debe estar atado al pool.
func NewPDFUseCase(repos repository.Registry, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator}
}

// DownloadInvoicePDF arma el comprobante de la factura id de la empresa companyID.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe en la empresa o está eliminada.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID int64, id string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Factura ────────────────────────────────────────────────────────────
	inv, err := uc.repos.Invoices().FindByUUID(ctx, companyID, strings.ToLower(id))
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil || inv.IsDeleted {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Empresa ────────────────────────────────────────────────────────────
	company, err := uc.repos.Companies().GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 3. Cliente ────────────────────────────────────────────────────────────
	var customer *entity.Customer
	if inv.CustomerUUID != nil {
		if customer, err = uc.repos.Customers().FindByUUID(ctx, companyID, *inv.CustomerUUID); err != nil {
			return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
		}
	}

	// ── 4. Líneas + nombre de producto ────────────────────────────────────────
	items, err := uc.repos.Invoices().ListItems(ctx, companyID, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	lines := make([]ReceiptLine, 0, len(items))
	for _, it := range items {
		line := ReceiptLine{InvoiceItem: *it, ProductName: "Producto " + it.ProductUUID}
		if p, pErr := uc.repos.Products().FindByUUID(ctx, companyID, it.ProductUUID); pErr == nil && p != nil {
			line.ProductName, line.ProductSKU = p.Name, p.SKU
		}
		lines = append(lines, line)
	}

	// ── 5. Generar ────────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateReceiptPDF(ctx, Receipt{Invoice: inv, Company: company, Customer: customer, Lines: lines})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", sanitizeFilename(inv.InvoiceNumber)), nil
}

func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
