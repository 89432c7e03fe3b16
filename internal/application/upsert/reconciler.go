// Package upsert converge peticiones de creación/actualización identificadas por UUID
// a exactamente una fila por (uuid, empresa).
package upsert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// Outcome indica si Reconcile insertó o actualizó.
type Outcome int

const (
	Created Outcome = iota + 1
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

// Store es el subconjunto de repository.SyncStore que necesita el reconciliador.
type Store[E any] interface {
	LockByUUID(ctx context.Context, companyID int64, uuid string) (*E, error)
	InsertIfAbsent(ctx context.Context, e *E) (bool, error)
	Update(ctx context.Context, e *E) error
}

// Patch es el payload del cliente ya validado y con referencias resueltas.
type Patch[E any] interface {
	// Build crea un registro nuevo; devuelve domain.ErrInvalidInput si faltan campos requeridos.
	Build() (*E, error)
	// Apply mezcla sobre un registro existente solo los campos presentes en el payload.
	Apply(existing *E) error
}

// Record restringe E a entidades que embeben entity.SyncMeta.
type Record[E any] interface {
	*E
	entity.Syncable
}

// Reconcile inserta o actualiza según el UUID. Debe llamarse dentro de una transacción:
// el bloqueo de fila de LockByUUID dura hasta el Commit.
//
//   - id vacío: inserción pura con UUID asignado por el servidor.
//   - id existente en companyID: merge + Touch + Update.
//   - id inexistente en companyID (aunque exista en otra empresa): inserción con ese UUID.
func Reconcile[E any, P Record[E]](ctx context.Context, store Store[E], companyID int64, id string, patch Patch[E], now time.Time) (*E, Outcome, error) {
	if id == "" {
		rec, outcome, err := insert[E, P](ctx, store, companyID, uuid.NewString(), patch, now)
		if errors.Is(err, errLostRace) {
			return nil, 0, domain.ErrConflict
		}
		return rec, outcome, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: uuid %q mal formado", domain.ErrInvalidInput, id)
	}
	id = parsed.String()

	existing, err := store.LockByUUID(ctx, companyID, id)
	if err != nil {
		return nil, 0, err
	}
	if existing != nil {
		return update[E, P](ctx, store, existing, patch, now)
	}

	rec, outcome, err := insert[E, P](ctx, store, companyID, id, patch, now)
	if !errors.Is(err, errLostRace) {
		return rec, outcome, err
	}

	// Otra transacción insertó el mismo (company_id, uuid) entre el lock y el insert.
	existing, err = store.LockByUUID(ctx, companyID, id)
	if err != nil {
		return nil, 0, err
	}
	if existing == nil {
		return nil, 0, fmt.Errorf("%w: uuid %s", domain.ErrConflict, id)
	}
	return update[E, P](ctx, store, existing, patch, now)
}

var errLostRace = errors.New("upsert: fila insertada concurrentemente")

func insert[E any, P Record[E]](ctx context.Context, store Store[E], companyID int64, id string, patch Patch[E], now time.Time) (*E, Outcome, error) {
	rec, err := patch.Build()
	if err != nil {
		return nil, 0, err
	}
	P(rec).Meta().Stamp(companyID, id, now)
	inserted, err := store.InsertIfAbsent(ctx, rec)
	if err != nil {
		return nil, 0, err
	}
	if !inserted {
		return nil, 0, errLostRace
	}
	return rec, Created, nil
}

func update[E any, P Record[E]](ctx context.Context, store Store[E], existing *E, patch Patch[E], now time.Time) (*E, Outcome, error) {
	if err := patch.Apply(existing); err != nil {
		return nil, 0, err
	}
	P(existing).Meta().Touch(now)
	if err := store.Update(ctx, existing); err != nil {
		return nil, 0, err
	}
	return existing, Updated, nil
}
