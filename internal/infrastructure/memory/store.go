// Package memory implementa los repositorios en memoria. Se usa en tests y con
// STORAGE_DRIVER=memory para demos locales; las transacciones se serializan con un mutex
// y trabajan sobre una copia del estado que se publica solo en el Commit.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type record[E any] interface {
	*E
	entity.Syncable
}

type roleKey struct {
	company int64
	role    string
}

type state struct {
	companies   map[int64]*entity.Company
	nextCompany int64

	employees  *table[entity.Employee, *entity.Employee]
	categories *table[entity.Category, *entity.Category]
	units      *table[entity.Unit, *entity.Unit]
	brands     *table[entity.Brand, *entity.Brand]
	products   *table[entity.Product, *entity.Product]
	customers  *table[entity.Customer, *entity.Customer]
	suppliers  *table[entity.Supplier, *entity.Supplier]
	invoices   *table[entity.Invoice, *entity.Invoice]

	items    []*entity.InvoiceItem
	nextItem int64

	// roles presentes = configurados (aunque la lista esté vacía).
	roles map[roleKey][]string
}

func newState() *state {
	return &state{
		companies:  map[int64]*entity.Company{},
		employees:  &table[entity.Employee, *entity.Employee]{},
		categories: &table[entity.Category, *entity.Category]{},
		units:      &table[entity.Unit, *entity.Unit]{},
		brands:     &table[entity.Brand, *entity.Brand]{},
		products:   &table[entity.Product, *entity.Product]{},
		customers:  &table[entity.Customer, *entity.Customer]{},
		suppliers:  &table[entity.Supplier, *entity.Supplier]{},
		invoices:   &table[entity.Invoice, *entity.Invoice]{},
		roles:      map[roleKey][]string{},
	}
}

func (s *state) clone() *state {
	c := &state{
		companies:   make(map[int64]*entity.Company, len(s.companies)),
		nextCompany: s.nextCompany,
		employees:   s.employees.clone(),
		categories:  s.categories.clone(),
		units:       s.units.clone(),
		brands:      s.brands.clone(),
		products:    s.products.clone(),
		customers:   s.customers.clone(),
		suppliers:   s.suppliers.clone(),
		invoices:    s.invoices.clone(),
		items:       make([]*entity.InvoiceItem, len(s.items)),
		nextItem:    s.nextItem,
		roles:       make(map[roleKey][]string, len(s.roles)),
	}
	for id, co := range s.companies {
		cp := *co
		c.companies[id] = &cp
	}
	for i, it := range s.items {
		cp := *it
		c.items[i] = &cp
	}
	for k, v := range s.roles {
		c.roles[k] = append([]string{}, v...)
	}
	return c
}

// Store es la base en memoria.
type Store struct {
	mu    sync.Mutex
	state *state
}

// New crea un Store vacío.
func New() *Store {
	return &Store{state: newState()}
}

// Registry devuelve repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Registry() repository.Registry {
	return &registry{d: &db{store: s}}
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(repository.Registry) error) error {
	return s.run(ctx, fn, true)
}

// RunReadOnly ejecuta fn sobre una copia que siempre se descarta.
func (s *Store) RunReadOnly(ctx context.Context, fn func(repository.Registry) error) error {
	return s.run(ctx, fn, false)
}

func (s *Store) run(ctx context.Context, fn func(repository.Registry) error, commit bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.state.clone()
	if err := fn(&registry{d: &db{tx: work}}); err != nil {
		return err
	}
	if commit {
		s.state = work
	}
	return nil
}

// db resuelve el estado sobre el que opera un repositorio: el de la tx, o el publicado bajo mutex.
type db struct {
	store *Store
	tx    *state
}

func (d *db) with(fn func(st *state)) {
	if d.tx != nil {
		fn(d.tx)
		return
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	fn(d.store.state)
}

// table guarda filas en orden de inserción (== orden de ID).
type table[E any, P record[E]] struct {
	rows   []*E
	nextID int64
}

func (t *table[E, P]) clone() *table[E, P] {
	c := &table[E, P]{rows: make([]*E, len(t.rows)), nextID: t.nextID}
	for i, r := range t.rows {
		cp := *r
		c.rows[i] = &cp
	}
	return c
}

func (t *table[E, P]) find(companyID int64, uuid string) *E {
	for _, r := range t.rows {
		m := P(r).Meta()
		if m.CompanyID == companyID && m.UUID == uuid {
			cp := *r
			return &cp
		}
	}
	return nil
}

func (t *table[E, P]) index(companyID int64, uuid string) int {
	for i, r := range t.rows {
		m := P(r).Meta()
		if m.CompanyID == companyID && m.UUID == uuid {
			return i
		}
	}
	return -1
}

func (t *table[E, P]) insert(e *E) bool {
	m := P(e).Meta()
	if t.index(m.CompanyID, m.UUID) >= 0 {
		return false
	}
	t.nextID++
	m.ID = t.nextID
	cp := *e
	t.rows = append(t.rows, &cp)
	return true
}

func (t *table[E, P]) update(e *E) {
	m := P(e).Meta()
	if i := t.index(m.CompanyID, m.UUID); i >= 0 {
		cp := *e
		t.rows[i] = &cp
	}
}

func (t *table[E, P]) list(companyID int64, f repository.ListFilter) []*E {
	var out []*E
	for _, r := range t.rows {
		m := P(r).Meta()
		if m.CompanyID != companyID {
			continue
		}
		if m.IsDeleted && !f.IncludeDeleted {
			continue
		}
		if f.Since != nil && !m.UpdatedAt.After(*f.Since) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := P(out[i]).Meta(), P(out[j]).Meta()
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (t *table[E, P]) resolve(companyID int64, uuids []string) map[string]int64 {
	out := make(map[string]int64, len(uuids))
	for _, u := range uuids {
		if i := t.index(companyID, u); i >= 0 {
			out[u] = P(t.rows[i]).Meta().ID
		}
	}
	return out
}

// syncRepo implementa repository.SyncStore sobre una tabla del estado.
type syncRepo[E any, P record[E]] struct {
	d   *db
	tbl func(*state) *table[E, P]
}

func (r syncRepo[E, P]) FindByUUID(_ context.Context, companyID int64, uuid string) (*E, error) {
	var out *E
	r.d.with(func(st *state) { out = r.tbl(st).find(companyID, uuid) })
	return out, nil
}

func (r syncRepo[E, P]) LockByUUID(ctx context.Context, companyID int64, uuid string) (*E, error) {
	return r.FindByUUID(ctx, companyID, uuid)
}

func (r syncRepo[E, P]) InsertIfAbsent(_ context.Context, e *E) (bool, error) {
	var ok bool
	r.d.with(func(st *state) { ok = r.tbl(st).insert(e) })
	return ok, nil
}

func (r syncRepo[E, P]) Update(_ context.Context, e *E) error {
	r.d.with(func(st *state) { r.tbl(st).update(e) })
	return nil
}

func (r syncRepo[E, P]) List(_ context.Context, companyID int64, f repository.ListFilter) ([]*E, error) {
	var out []*E
	r.d.with(func(st *state) { out = r.tbl(st).list(companyID, f) })
	return out, nil
}

func (r syncRepo[E, P]) ResolveIDs(_ context.Context, companyID int64, uuids []string) (map[string]int64, error) {
	var out map[string]int64
	r.d.with(func(st *state) { out = r.tbl(st).resolve(companyID, uuids) })
	return out, nil
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
