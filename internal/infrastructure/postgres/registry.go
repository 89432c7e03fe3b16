package postgres

import (
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.Registry = (*Registry)(nil)

// Registry repositorios atados a un mismo Querier (el pool o una tx).
type Registry struct {
	q Querier
}

// NewRegistry construye el registro sobre q.
func NewRegistry(q Querier) *Registry {
	return &Registry{q: q}
}

func (r *Registry) Companies() repository.CompanyRepository  { return NewCompanyRepository(r.q) }
func (r *Registry) Employees() repository.EmployeeRepository { return NewEmployeeRepository(r.q) }
func (r *Registry) RolePermissions() repository.RolePermissionRepository {
	return NewRolePermissionRepository(r.q)
}
func (r *Registry) Customers() repository.CustomerRepository { return NewCustomerRepository(r.q) }
func (r *Registry) Invoices() repository.InvoiceRepository   { return NewInvoiceRepository(r.q) }

func (r *Registry) Categories() repository.CategoryRepository {
	return syncStore[entity.Category, *entity.Category]{q: r.q, t: categoriesTable}
}

func (r *Registry) Units() repository.UnitRepository {
	return syncStore[entity.Unit, *entity.Unit]{q: r.q, t: unitsTable}
}

func (r *Registry) Brands() repository.BrandRepository {
	return syncStore[entity.Brand, *entity.Brand]{q: r.q, t: brandsTable}
}

func (r *Registry) Products() repository.ProductRepository {
	return syncStore[entity.Product, *entity.Product]{q: r.q, t: productsTable}
}

func (r *Registry) Suppliers() repository.SupplierRepository {
	return syncStore[entity.Supplier, *entity.Supplier]{q: r.q, t: suppliersTable}
}
