package repository

import (
	"context"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ListFilter filtra listados de entidades sincronizables.
// Since nil = sin límite inferior; IncludeDeleted lo usa el delta de sincronización.
type ListFilter struct {
	Since          *time.Time
	IncludeDeleted bool
}

// SyncStore puerto común a toda tabla multi-tenant con UUID externo.
// Todas las búsquedas filtran por companyID; un UUID de otra empresa se comporta como inexistente.
// Los métodos que no encuentran fila devuelven (nil, nil).
type SyncStore[E any] interface {
	FindByUUID(ctx context.Context, companyID int64, uuid string) (*E, error)
	// LockByUUID igual que FindByUUID pero bloquea la fila hasta el fin de la transacción.
	LockByUUID(ctx context.Context, companyID int64, uuid string) (*E, error)
	// InsertIfAbsent inserta y devuelve false si (company_id, uuid) ya existía.
	InsertIfAbsent(ctx context.Context, e *E) (bool, error)
	// Update persiste todos los campos mutables, incluidos is_deleted y updated_at.
	Update(ctx context.Context, e *E) error
	List(ctx context.Context, companyID int64, f ListFilter) ([]*E, error)
	// ResolveIDs traduce UUIDs a IDs internos dentro del tenant; los no encontrados se omiten.
	ResolveIDs(ctx context.Context, companyID int64, uuids []string) (map[string]int64, error)
}

// CategoryRepository puerto de persistencia para categorías.
type CategoryRepository interface {
	SyncStore[entity.Category]
}

// UnitRepository puerto de persistencia para unidades de medida.
type UnitRepository interface {
	SyncStore[entity.Unit]
}

// BrandRepository puerto de persistencia para marcas.
type BrandRepository interface {
	SyncStore[entity.Brand]
}

// SupplierRepository puerto de persistencia para proveedores.
type SupplierRepository interface {
	SyncStore[entity.Supplier]
}

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	SyncStore[entity.Product]
}
