package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

type invoiceReader interface {
	Detail(ctx context.Context, companyID int64, id string) (*dto.InvoiceResponse, error)
	Items(ctx context.Context, companyID int64, id string) ([]*entity.InvoiceItem, error)
}

// receiptRenderer lo implementa *billing.PDFUseCase.
type receiptRenderer interface {
	DownloadInvoicePDF(ctx context.Context, companyID int64, id string) ([]byte, string, error)
}

// InvoiceHandler lecturas específicas de facturas; el CRUD lo cubre ResourceHandler.
type InvoiceHandler struct {
	uc  invoiceReader
	pdf receiptRenderer
	log *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc invoiceReader, pdf receiptRenderer, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, pdf: pdf, log: log}
}

// GetByID godoc
// @Summary      Obtener factura con sus líneas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        uuid  path  string  true  "UUID de la factura"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{uuid} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Detail(c.UserContext(), GetCompanyID(c), c.Params("uuid"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Líneas de una factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        uuid  path  string  true  "UUID de la factura"
// @Success      200   {object}  dto.ListResponse[entity.InvoiceItem]
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{uuid}/items [get]
func (h *InvoiceHandler) Items(c *fiber.Ctx) error {
	items, err := h.uc.Items(c.UserContext(), GetCompanyID(c), c.Params("uuid"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewList(items))
}

// DownloadPDF godoc
// @Summary      Comprobante PDF de la factura
// @Tags         invoices
// @Security     Bearer
// @Produce      application/pdf
// @Param        uuid  path  string  true  "UUID de la factura"
// @Success      200   {file}    binary
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{uuid}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), GetCompanyID(c), c.Params("uuid"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
