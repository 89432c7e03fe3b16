package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// InvoiceProductField nombre del campo en los errores de productos inexistentes.
const InvoiceProductField = "invalidProductUuids"

// InvoiceUseCase facturas: cabecera vía upsert y líneas reemplazadas en la misma transacción.
type InvoiceUseCase struct {
	*Resource[entity.Invoice, *entity.Invoice, dto.InvoiceRequest]
}

// NewInvoiceUseCase construye el caso de uso.
//
// Todas las líneas deben referenciar productos de la empresa; si alguno no existe se rechaza
// la petición completa antes de escribir, sin importar la política de referencias.
// Sin customerUuid la factura queda a nombre del cliente de mostrador.
func NewInvoiceUseCase(d Deps) *InvoiceUseCase {
	return &InvoiceUseCase{&Resource[entity.Invoice, *entity.Invoice, dto.InvoiceRequest]{
		name:  "invoices",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Invoice] { return r.Invoices() },
		patch: func(ctx context.Context, repos repository.Registry, actor entity.Identity, in dto.InvoiceRequest) (upsert.Patch[entity.Invoice], error) {
			return newInvoicePatch(ctx, repos, d, actor, in)
		},
		uuid: func(in dto.InvoiceRequest) string { return in.UUID },
	}}
}

// Detail devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) Detail(ctx context.Context, companyID int64, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.deps.Repos.Invoices().ListItems(ctx, companyID, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas: %w", err)
	}
	if items == nil {
		items = []*entity.InvoiceItem{}
	}
	return &dto.InvoiceResponse{Invoice: inv, Items: items}, nil
}

// Items devuelve solo las líneas de la factura.
func (uc *InvoiceUseCase) Items(ctx context.Context, companyID int64, id string) ([]*entity.InvoiceItem, error) {
	resp, err := uc.Detail(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type invoicePatch struct {
	in       dto.InvoiceRequest
	customer upsert.Ref
	// walkIn obtiene (o crea) el cliente de mostrador; solo se invoca si la factura lo usa.
	walkIn func() (*entity.Customer, error)
	items  []*entity.InvoiceItem // nil: conservar las líneas actuales
	now    time.Time
}

func newInvoicePatch(ctx context.Context, repos repository.Registry, d Deps, actor entity.Identity, in dto.InvoiceRequest) (*invoicePatch, error) {
	now := d.now().UTC().Truncate(time.Microsecond)
	p := &invoicePatch{in: in, now: now}

	// 1. Productos: siempre estricto y antes de cualquier escritura.
	if in.Items != nil {
		productUUIDs := make([]string, len(in.Items))
		for i, it := range in.Items {
			productUUIDs[i] = strings.ToLower(strings.TrimSpace(it.ProductUUID))
		}
		ids, err := upsert.ResolveAll(ctx, repos.Products(), actor.CompanyID, InvoiceProductField, productUUIDs)
		if err != nil {
			return nil, err
		}
		p.items = make([]*entity.InvoiceItem, 0, len(in.Items))
		for i, it := range in.Items {
			item, err := buildItem(it, productUUIDs[i], ids[productUUIDs[i]], now)
			if err != nil {
				return nil, err
			}
			p.items = append(p.items, item)
		}
	}

	// 2. Cliente.
	if in.CustomerUUID != nil && strings.TrimSpace(*in.CustomerUUID) != "" {
		ref, err := d.Policy.Resolve(ctx, repos.Customers(), actor.CompanyID, "customerUuid", in.CustomerUUID)
		if err != nil {
			return nil, err
		}
		p.customer = ref
	}
	if !p.customer.Set && (in.CustomerUUID == nil || strings.TrimSpace(*in.CustomerUUID) == "" || d.Policy == upsert.Lenient) {
		p.walkIn = func() (*entity.Customer, error) {
			c, err := repos.Customers().GetOrCreateWalkIn(ctx, actor.CompanyID, now)
			if err != nil {
				return nil, fmt.Errorf("cliente de mostrador: %w", err)
			}
			return c, nil
		}
	}
	return p, nil
}

func buildItem(in dto.InvoiceItemRequest, productUUID string, productID int64, now time.Time) (*entity.InvoiceItem, error) {
	id := strings.ToLower(strings.TrimSpace(in.UUID))
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: uuid de línea %q mal formado", domain.ErrInvalidInput, in.UUID)
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	total := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))).Sub(in.Discount)
	if in.TotalPrice != nil {
		total = *in.TotalPrice
	}
	return &entity.InvoiceItem{
		UUID:        id,
		ProductID:   productID,
		ProductUUID: productUUID,
		Quantity:    in.Quantity,
		Bonus:       in.Bonus,
		UnitPrice:   in.UnitPrice,
		Discount:    in.Discount,
		TotalPrice:  total,
		CreatedAt:   now,
	}, nil
}

func (p *invoicePatch) Build() (*entity.Invoice, error) {
	inv := &entity.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-%d", p.now.UnixMilli()),
		Date:          p.now,
	}
	if !p.customer.Set && p.walkIn != nil {
		c, err := p.walkIn()
		if err != nil {
			return nil, err
		}
		inv.CustomerID, inv.CustomerUUID = &c.ID, &c.UUID
	}
	return inv, p.Apply(inv)
}

func (p *invoicePatch) Apply(inv *entity.Invoice) error {
	if p.in.InvoiceNumber != nil && strings.TrimSpace(*p.in.InvoiceNumber) != "" {
		inv.InvoiceNumber = strings.TrimSpace(*p.in.InvoiceNumber)
	}
	if p.in.Date != nil {
		inv.Date = p.in.Date.UTC()
	}
	switch {
	case p.customer.Set:
		inv.CustomerID, inv.CustomerUUID = p.customer.ID, p.customer.UUID
	case p.toWalkIn() && p.walkIn != nil:
		c, err := p.walkIn()
		if err != nil {
			return err
		}
		inv.CustomerID, inv.CustomerUUID = &c.ID, &c.UUID
	}
	assign(&inv.Tax, p.in.Tax)
	assign(&inv.Discount, p.in.Discount)
	assign(&inv.Notes, p.in.Notes)
	assign(&inv.IsDeleted, p.in.IsDeleted)

	if p.in.Subtotal != nil {
		inv.Subtotal = *p.in.Subtotal
	} else if p.items != nil {
		inv.Subtotal = itemsTotal(p.items)
	}
	if p.in.Total != nil {
		inv.Total = *p.in.Total
	} else if p.items != nil || p.in.Subtotal != nil || p.in.Tax != nil || p.in.Discount != nil {
		inv.Total = inv.Subtotal.Add(inv.Tax).Sub(inv.Discount)
	}
	return nil
}

// WriteDependents reemplaza las líneas cuando el payload trae items (aunque sea vacío).
func (p *invoicePatch) WriteDependents(ctx context.Context, repos repository.Registry, inv *entity.Invoice) error {
	if p.items == nil {
		return nil
	}
	for _, it := range p.items {
		it.CompanyID = inv.CompanyID
		it.InvoiceID = inv.ID
		it.InvoiceUUID = inv.UUID
	}
	if err := repos.Invoices().ReplaceItems(ctx, inv, p.items); err != nil {
		return fmt.Errorf("reemplazar líneas: %w", err)
	}
	return nil
}

// toWalkIn indica que el cliente pidió explícitamente el cliente de mostrador ("").
func (p *invoicePatch) toWalkIn() bool {
	return p.in.CustomerUUID != nil && strings.TrimSpace(*p.in.CustomerUUID) == ""
}

func itemsTotal(items []*entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}
