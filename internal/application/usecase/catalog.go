package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Casos de uso de los recursos de catálogo. Todos comparten Resource; cada uno solo define
// cómo su payload se convierte en un registro nuevo (Build) o se mezcla sobre uno existente (Apply).
type (
	CategoryUseCase = Resource[entity.Category, *entity.Category, dto.CategoryRequest]
	UnitUseCase     = Resource[entity.Unit, *entity.Unit, dto.UnitRequest]
	BrandUseCase    = Resource[entity.Brand, *entity.Brand, dto.BrandRequest]
	SupplierUseCase = Resource[entity.Supplier, *entity.Supplier, dto.SupplierRequest]
	CustomerUseCase = Resource[entity.Customer, *entity.Customer, dto.CustomerRequest]
	ProductUseCase  = Resource[entity.Product, *entity.Product, dto.ProductRequest]
)

// NewCategoryUseCase construye el caso de uso de categorías.
func NewCategoryUseCase(d Deps) *CategoryUseCase {
	return &CategoryUseCase{
		name:  "categories",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Category] { return r.Categories() },
		patch: func(_ context.Context, _ repository.Registry, _ entity.Identity, in dto.CategoryRequest) (upsert.Patch[entity.Category], error) {
			return categoryPatch{in}, nil
		},
		uuid: func(in dto.CategoryRequest) string { return in.UUID },
	}
}

// NewUnitUseCase construye el caso de uso de unidades.
func NewUnitUseCase(d Deps) *UnitUseCase {
	return &UnitUseCase{
		name:  "units",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Unit] { return r.Units() },
		patch: func(_ context.Context, _ repository.Registry, _ entity.Identity, in dto.UnitRequest) (upsert.Patch[entity.Unit], error) {
			return unitPatch{in}, nil
		},
		uuid: func(in dto.UnitRequest) string { return in.UUID },
	}
}

// NewBrandUseCase construye el caso de uso de marcas.
func NewBrandUseCase(d Deps) *BrandUseCase {
	return &BrandUseCase{
		name:  "brands",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Brand] { return r.Brands() },
		patch: func(_ context.Context, _ repository.Registry, _ entity.Identity, in dto.BrandRequest) (upsert.Patch[entity.Brand], error) {
			return brandPatch{in}, nil
		},
		uuid: func(in dto.BrandRequest) string { return in.UUID },
	}
}

// NewSupplierUseCase construye el caso de uso de proveedores.
func NewSupplierUseCase(d Deps) *SupplierUseCase {
	return &SupplierUseCase{
		name:  "suppliers",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Supplier] { return r.Suppliers() },
		patch: func(_ context.Context, _ repository.Registry, _ entity.Identity, in dto.SupplierRequest) (upsert.Patch[entity.Supplier], error) {
			return supplierPatch{in}, nil
		},
		uuid: func(in dto.SupplierRequest) string { return in.UUID },
	}
}

// NewCustomerUseCase construye el caso de uso de clientes.
// El cliente de mostrador no puede eliminarse: las facturas sin cliente dependen de él.
func NewCustomerUseCase(d Deps) *CustomerUseCase {
	return &CustomerUseCase{
		name:  "customers",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Customer] { return r.Customers() },
		patch: func(_ context.Context, _ repository.Registry, _ entity.Identity, in dto.CustomerRequest) (upsert.Patch[entity.Customer], error) {
			return customerPatch{in}, nil
		},
		uuid: func(in dto.CustomerRequest) string { return in.UUID },
		guardDelete: func(_ entity.Identity, c *entity.Customer) error {
			if c.IsWalkIn {
				return fmt.Errorf("%w: el cliente de mostrador no puede eliminarse", domain.ErrConflict)
			}
			return nil
		},
	}
}

// NewProductUseCase construye el caso de uso de productos. Las referencias a categoría,
// unidad y marca se resuelven por UUID dentro de la empresa según la política configurada.
func NewProductUseCase(d Deps) *ProductUseCase {
	return &ProductUseCase{
		name:  "products",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Product] { return r.Products() },
		patch: func(ctx context.Context, repos repository.Registry, actor entity.Identity, in dto.ProductRequest) (upsert.Patch[entity.Product], error) {
			p := productPatch{in: in}
			var err error
			if p.category, err = d.Policy.Resolve(ctx, repos.Categories(), actor.CompanyID, "categoryUuid", in.CategoryUUID); err != nil {
				return nil, err
			}
			if p.unit, err = d.Policy.Resolve(ctx, repos.Units(), actor.CompanyID, "unitUuid", in.UnitUUID); err != nil {
				return nil, err
			}
			if p.brand, err = d.Policy.Resolve(ctx, repos.Brands(), actor.CompanyID, "brandUuid", in.BrandUUID); err != nil {
				return nil, err
			}
			return p, nil
		},
		uuid: func(in dto.ProductRequest) string { return in.UUID },
	}
}

// ── Patches ──────────────────────────────────────────────────────────────────

type categoryPatch struct{ in dto.CategoryRequest }

func (p categoryPatch) Build() (*entity.Category, error) {
	if blank(p.in.Name) {
		return nil, missing("name")
	}
	c := &entity.Category{IsActive: true}
	return c, p.Apply(c)
}

func (p categoryPatch) Apply(c *entity.Category) error {
	assign(&c.Name, trimmed(p.in.Name))
	assign(&c.Subcategory, p.in.Subcategory)
	assign(&c.IsActive, p.in.IsActive)
	assign(&c.IsDeleted, p.in.IsDeleted)
	return nil
}

type unitPatch struct{ in dto.UnitRequest }

func (p unitPatch) Build() (*entity.Unit, error) {
	if blank(p.in.Name) {
		return nil, missing("name")
	}
	u := &entity.Unit{IsActive: true}
	return u, p.Apply(u)
}

func (p unitPatch) Apply(u *entity.Unit) error {
	assign(&u.Name, trimmed(p.in.Name))
	assign(&u.Symbol, p.in.Symbol)
	assign(&u.IsActive, p.in.IsActive)
	assign(&u.IsDeleted, p.in.IsDeleted)
	return nil
}

type brandPatch struct{ in dto.BrandRequest }

func (p brandPatch) Build() (*entity.Brand, error) {
	if blank(p.in.Name) {
		return nil, missing("name")
	}
	b := &entity.Brand{IsActive: true}
	return b, p.Apply(b)
}

func (p brandPatch) Apply(b *entity.Brand) error {
	assign(&b.Name, trimmed(p.in.Name))
	assign(&b.IsActive, p.in.IsActive)
	assign(&b.IsDeleted, p.in.IsDeleted)
	return nil
}

type supplierPatch struct{ in dto.SupplierRequest }

func (p supplierPatch) Build() (*entity.Supplier, error) {
	if blank(p.in.Name) {
		return nil, missing("name")
	}
	s := &entity.Supplier{}
	return s, p.Apply(s)
}

func (p supplierPatch) Apply(s *entity.Supplier) error {
	assign(&s.Name, trimmed(p.in.Name))
	assign(&s.Phone, p.in.Phone)
	assign(&s.Email, p.in.Email)
	assign(&s.Address, p.in.Address)
	assign(&s.IsDeleted, p.in.IsDeleted)
	return nil
}

type customerPatch struct{ in dto.CustomerRequest }

func (p customerPatch) Build() (*entity.Customer, error) {
	if blank(p.in.Name) {
		return nil, missing("name")
	}
	c := &entity.Customer{}
	return c, p.Apply(c)
}

func (p customerPatch) Apply(c *entity.Customer) error {
	assign(&c.Name, trimmed(p.in.Name))
	assign(&c.Phone, p.in.Phone)
	assign(&c.Email, p.in.Email)
	assign(&c.Address, p.in.Address)
	assign(&c.CreditLimit, p.in.CreditLimit)
	assign(&c.CurrentBalance, p.in.CurrentBalance)
	if p.in.IsDeleted != nil && *p.in.IsDeleted && c.IsWalkIn {
		return fmt.Errorf("%w: el cliente de mostrador no puede eliminarse", domain.ErrConflict)
	}
	assign(&c.IsDeleted, p.in.IsDeleted)
	return nil
}

type productPatch struct {
	in                    dto.ProductRequest
	category, unit, brand upsert.Ref
}

func (p productPatch) Build() (*entity.Product, error) {
	if blank(p.in.Name) {
		return nil, missing("name")
	}
	pr := &entity.Product{IsActive: true, PackSize: 1}
	return pr, p.Apply(pr)
}

func (p productPatch) Apply(pr *entity.Product) error {
	assign(&pr.Name, trimmed(p.in.Name))
	assign(&pr.SKU, p.in.SKU)
	assign(&pr.Type, p.in.Type)
	assign(&pr.PackSize, p.in.PackSize)
	assign(&pr.Price, p.in.Price)
	assign(&pr.Cost, p.in.Cost)
	assign(&pr.StockQuantity, p.in.StockQuantity)
	assign(&pr.IsActive, p.in.IsActive)
	assign(&pr.GSTType, p.in.GSTType)
	assign(&pr.GSTRate, p.in.GSTRate)
	assign(&pr.ImageURL, p.in.ImageURL)
	assign(&pr.Description, p.in.Description)
	assign(&pr.Discount, p.in.Discount)
	assign(&pr.IsPercentDiscount, p.in.IsPercentDiscount)
	assign(&pr.IsDeleted, p.in.IsDeleted)
	if p.category.Set {
		pr.CategoryID, pr.CategoryUUID = p.category.ID, p.category.UUID
	}
	if p.unit.Set {
		pr.UnitID, pr.UnitUUID = p.unit.ID, p.unit.UUID
	}
	if p.brand.Set {
		pr.BrandID, pr.BrandUUID = p.brand.ID, p.brand.UUID
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// assign copia *src en *dst solo si src está presente en el payload.
func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func missing(field string) error {
	return fmt.Errorf("%w: %s es requerido", domain.ErrInvalidInput, field)
}
