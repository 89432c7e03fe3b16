// Package syncdelta calcula el delta de sincronización offline: todas las filas de la empresa
// modificadas después de la marca de agua del cliente, leídas en una sola instantánea.
package syncdelta

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

// Kind nombre de una colección en la respuesta de sync.
type Kind string

const (
	Categories   Kind = "categories"
	Units        Kind = "units"
	Brands       Kind = "brands"
	Products     Kind = "products"
	Customers    Kind = "customers"
	Suppliers    Kind = "suppliers"
	Invoices     Kind = "invoices"
	InvoiceItems Kind = "invoiceItems"
	Employees    Kind = "employees"
)

type fetchFunc func(ctx context.Context, repos repository.Registry, companyID int64, since *time.Time) (any, int, error)

// kindSpec colección, permiso de lectura que la habilita y cómo leerla.
type kindSpec struct {
	kind  Kind
	perm  rbac.Permission
	fetch fetchFunc
	empty func() any
}

var specs = []kindSpec{
	{Categories, rbac.ViewProducts, fetchSync[entity.Category](repository.Registry.Categories), emptyOf[entity.Category]},
	{Units, rbac.ViewProducts, fetchSync[entity.Unit](repository.Registry.Units), emptyOf[entity.Unit]},
	{Brands, rbac.ViewProducts, fetchSync[entity.Brand](repository.Registry.Brands), emptyOf[entity.Brand]},
	{Products, rbac.ViewProducts, fetchSync[entity.Product](repository.Registry.Products), emptyOf[entity.Product]},
	{Customers, rbac.ViewCustomers, fetchSync[entity.Customer](repository.Registry.Customers), emptyOf[entity.Customer]},
	{Suppliers, rbac.ViewSuppliers, fetchSync[entity.Supplier](repository.Registry.Suppliers), emptyOf[entity.Supplier]},
	{Invoices, rbac.ViewInvoices, fetchSync[entity.Invoice](repository.Registry.Invoices), emptyOf[entity.Invoice]},
	{InvoiceItems, rbac.ViewInvoices, fetchItems, emptyOf[entity.InvoiceItem]},
	{Employees, rbac.ViewEmployees, fetchSync[entity.Employee](repository.Registry.Employees), emptyOf[entity.Employee]},
}

// AllKinds devuelve las colecciones en el orden de la respuesta.
func AllKinds() []Kind {
	out := make([]Kind, len(specs))
	for i, s := range specs {
		out[i] = s.kind
	}
	return out
}

// fetchSync adapta el getter de un repositorio sincronizable. Incluye filas eliminadas
// para que el cliente propague los borrados.
func fetchSync[E any, S repository.SyncStore[E]](get func(repository.Registry) S) fetchFunc {
	return func(ctx context.Context, repos repository.Registry, companyID int64, since *time.Time) (any, int, error) {
		rows, err := get(repos).List(ctx, companyID, repository.ListFilter{Since: since, IncludeDeleted: true})
		if err != nil {
			return nil, 0, err
		}
		if rows == nil {
			rows = []*E{}
		}
		return rows, len(rows), nil
	}
}

// fetchItems las líneas son de solo inserción: se filtran por created_at.
func fetchItems(ctx context.Context, repos repository.Registry, companyID int64, since *time.Time) (any, int, error) {
	rows, err := repos.Invoices().ItemsCreatedSince(ctx, companyID, since)
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []*entity.InvoiceItem{}
	}
	return rows, len(rows), nil
}

func emptyOf[E any]() any { return []*E{} }

// Delta resultado de una sincronización.
type Delta struct {
	ServerTime time.Time
	Updates    map[Kind]any
}

// PermissionSource permisos efectivos del llamador. Lo implementa *access.Service.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, error)
}

// Engine calcula deltas. No guarda estado entre llamadas.
type Engine struct {
	tx      ports.TxRunner
	perms   PermissionSource
	lag     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configura el Engine.
type Option func(*Engine)

// WithWatermarkLag resta lag al serverTime devuelto para re-entregar filas de transacciones
// que seguían abiertas durante la lectura.
func WithWatermarkLag(lag time.Duration) Option {
	return func(e *Engine) { e.lag = lag }
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine construye el motor.
func NewEngine(tx ports.TxRunner, perms PermissionSource, log *logger.Logger, m *metrics.Metrics, opts ...Option) *Engine {
	e := &Engine{tx: tx, perms: perms, log: log.Named("sync"), metrics: m, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Sync calcula el delta del llamador, limitado a las colecciones que su rol puede ver.
func (e *Engine) Sync(ctx context.Context, id entity.Identity, watermark *time.Time) (*Delta, error) {
	allowed, err := e.perms.EffectivePermissions(ctx, id.CompanyID, id.Role)
	if err != nil {
		return nil, fmt.Errorf("sync: permisos: %w", err)
	}
	return e.Delta(ctx, id.CompanyID, watermark, allowed)
}

// Delta devuelve, para cada colección permitida, las filas de companyID con marca > watermark
// (nil o cero: copia completa) ordenadas por (marca, id). Las colecciones no permitidas
// aparecen vacías. serverTime se toma antes de leer y todas las lecturas comparten instantánea.
func (e *Engine) Delta(ctx context.Context, companyID int64, watermark *time.Time, allowed rbac.Set) (*Delta, error) {
	serverTime := e.now().UTC().Truncate(time.Microsecond)
	var since *time.Time
	if watermark != nil && !watermark.IsZero() {
		w := watermark.UTC()
		since = &w
	}

	updates := make(map[Kind]any, len(specs))
	counts := make(map[Kind]int, len(specs))
	err := e.tx.RunReadOnly(ctx, func(repos repository.Registry) error {
		for _, s := range specs {
			if !allowed.Has(s.perm) {
				updates[s.kind] = s.empty()
				continue
			}
			rows, n, err := s.fetch(ctx, repos, companyID, since)
			if err != nil {
				return fmt.Errorf("sync %s: %w", s.kind, err)
			}
			updates[s.kind] = rows
			counts[s.kind] = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := 0
	for kind, n := range counts {
		e.metrics.RecordSyncRows(string(kind), n)
		total += n
	}
	e.log.Debug().Int64("company_id", companyID).Bool("full", since == nil).Int("rows", total).Msg("delta calculado")

	return &Delta{ServerTime: serverTime.Add(-e.lag), Updates: updates}, nil
}
