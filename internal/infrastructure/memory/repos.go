package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

type registry struct{ d *db }

func (r *registry) Companies() repository.CompanyRepository { return companyRepo{r.d} }
func (r *registry) Employees() repository.EmployeeRepository {
	return employeeRepo{syncRepo[entity.Employee, *entity.Employee]{r.d, func(s *state) *table[entity.Employee, *entity.Employee] { return s.employees }}}
}
func (r *registry) RolePermissions() repository.RolePermissionRepository { return roleRepo{r.d} }
func (r *registry) Categories() repository.CategoryRepository {
	return syncRepo[entity.Category, *entity.Category]{r.d, func(s *state) *table[entity.Category, *entity.Category] { return s.categories }}
}
func (r *registry) Units() repository.UnitRepository {
	return syncRepo[entity.Unit, *entity.Unit]{r.d, func(s *state) *table[entity.Unit, *entity.Unit] { return s.units }}
}
func (r *registry) Brands() repository.BrandRepository {
	return syncRepo[entity.Brand, *entity.Brand]{r.d, func(s *state) *table[entity.Brand, *entity.Brand] { return s.brands }}
}
func (r *registry) Products() repository.ProductRepository {
	return syncRepo[entity.Product, *entity.Product]{r.d, func(s *state) *table[entity.Product, *entity.Product] { return s.products }}
}
func (r *registry) Customers() repository.CustomerRepository {
	return customerRepo{syncRepo[entity.Customer, *entity.Customer]{r.d, func(s *state) *table[entity.Customer, *entity.Customer] { return s.customers }}}
}
func (r *registry) Suppliers() repository.SupplierRepository {
	return syncRepo[entity.Supplier, *entity.Supplier]{r.d, func(s *state) *table[entity.Supplier, *entity.Supplier] { return s.suppliers }}
}
func (r *registry) Invoices() repository.InvoiceRepository {
	return invoiceRepo{syncRepo[entity.Invoice, *entity.Invoice]{r.d, func(s *state) *table[entity.Invoice, *entity.Invoice] { return s.invoices }}}
}

// ── Companies ────────────────────────────────────────────────────────────────

type companyRepo struct{ d *db }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.d.with(func(st *state) {
		st.nextCompany++
		c.ID = st.nextCompany
		if c.UUID == "" {
			c.UUID = uuid.NewString()
		}
		cp := *c
		st.companies[c.ID] = &cp
	})
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	var out *entity.Company
	r.d.with(func(st *state) {
		if c, ok := st.companies[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	r.d.with(func(st *state) {
		if _, ok := st.companies[c.ID]; ok {
			cp := *c
			st.companies[c.ID] = &cp
		}
	})
	return nil
}

// ── Employees ────────────────────────────────────────────────────────────────

type employeeRepo struct {
	syncRepo[entity.Employee, *entity.Employee]
}

func emailTaken(st *state, email string, except int64) bool {
	for _, e := range st.employees.rows {
		if e.ID != except && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

func (r employeeRepo) InsertIfAbsent(_ context.Context, e *entity.Employee) (bool, error) {
	var (
		ok  bool
		err error
	)
	r.d.with(func(st *state) {
		if st.employees.index(e.CompanyID, e.UUID) >= 0 {
			return
		}
		for _, other := range st.employees.rows {
			if other.UUID == e.UUID {
				err = domain.ErrDuplicate
				return
			}
		}
		if emailTaken(st, e.Email, 0) {
			err = domain.ErrEmailAlreadyExists
			return
		}
		ok = st.employees.insert(e)
	})
	return ok, err
}

func (r employeeRepo) Update(_ context.Context, e *entity.Employee) error {
	var err error
	r.d.with(func(st *state) {
		if emailTaken(st, e.Email, e.ID) {
			err = domain.ErrEmailAlreadyExists
			return
		}
		st.employees.update(e)
	})
	return err
}

func (r employeeRepo) FindByEmail(_ context.Context, email string) (*entity.Employee, error) {
	var out *entity.Employee
	r.d.with(func(st *state) {
		for _, e := range st.employees.rows {
			if strings.EqualFold(e.Email, email) {
				cp := *e
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r employeeRepo) FindIdentity(_ context.Context, id string) (*entity.Employee, bool, error) {
	var (
		out            *entity.Employee
		companyDeleted bool
	)
	r.d.with(func(st *state) {
		for _, e := range st.employees.rows {
			if e.UUID == id {
				cp := *e
				out = &cp
				c, ok := st.companies[e.CompanyID]
				companyDeleted = !ok || c.IsDeleted
				return
			}
		}
	})
	return out, companyDeleted, nil
}

// ── Customers ────────────────────────────────────────────────────────────────

type customerRepo struct {
	syncRepo[entity.Customer, *entity.Customer]
}

func (r customerRepo) GetOrCreateWalkIn(_ context.Context, companyID int64, now time.Time) (*entity.Customer, error) {
	var out *entity.Customer
	r.d.with(func(st *state) {
		for _, c := range st.customers.rows {
			if c.CompanyID == companyID && c.IsWalkIn {
				cp := *c
				out = &cp
				return
			}
		}
		c := &entity.Customer{Name: entity.WalkInCustomerName, IsWalkIn: true}
		c.Stamp(companyID, uuid.NewString(), now)
		st.customers.insert(c)
		out = c
	})
	return out, nil
}

// ── Invoices ─────────────────────────────────────────────────────────────────

type invoiceRepo struct {
	syncRepo[entity.Invoice, *entity.Invoice]
}

func (r invoiceRepo) ReplaceItems(_ context.Context, inv *entity.Invoice, items []*entity.InvoiceItem) error {
	r.d.with(func(st *state) {
		kept := st.items[:0:0]
		for _, it := range st.items {
			if it.InvoiceID != inv.ID {
				kept = append(kept, it)
			}
		}
		for _, it := range items {
			st.nextItem++
			it.ID = st.nextItem
			it.InvoiceID = inv.ID
			it.InvoiceUUID = inv.UUID
			it.CompanyID = inv.CompanyID
			it.CreatedAt = truncate(it.CreatedAt)
			cp := *it
			kept = append(kept, &cp)
		}
		st.items = kept
	})
	return nil
}

func (r invoiceRepo) ListItems(_ context.Context, companyID, invoiceID int64) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	r.d.with(func(st *state) {
		for _, it := range st.items {
			if it.CompanyID == companyID && it.InvoiceID == invoiceID {
				cp := *it
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r invoiceRepo) ItemsCreatedSince(_ context.Context, companyID int64, since *time.Time) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	r.d.with(func(st *state) {
		for _, it := range st.items {
			if it.CompanyID != companyID {
				continue
			}
			if since != nil && !it.CreatedAt.After(*since) {
				continue
			}
			cp := *it
			out = append(out, &cp)
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ── Role permissions ─────────────────────────────────────────────────────────

type roleRepo struct{ d *db }

func (r roleRepo) FindOverride(_ context.Context, companyID int64, role string) ([]string, bool, error) {
	var (
		perms      []string
		configured bool
	)
	r.d.with(func(st *state) {
		var p []string
		p, configured = st.roles[roleKey{companyID, role}]
		perms = append([]string{}, p...)
	})
	return perms, configured, nil
}

func (r roleRepo) Replace(_ context.Context, companyID int64, role string, perms []string, _ time.Time) error {
	r.d.with(func(st *state) {
		st.roles[roleKey{companyID, strings.Clone(role)}] = append([]string{}, perms...)
	})
	return nil
}

func (r roleRepo) Reset(_ context.Context, companyID int64, role string) error {
	r.d.with(func(st *state) { delete(st.roles, roleKey{companyID, role}) })
	return nil
}

func (r roleRepo) ListConfiguredRoles(_ context.Context, companyID int64) ([]string, error) {
	var out []string
	r.d.with(func(st *state) {
		for k := range st.roles {
			if k.company == companyID {
				out = append(out, k.role)
			}
		}
	})
	sort.Strings(out)
	return out, nil
}
