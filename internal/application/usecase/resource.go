package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

// PatchFunc convierte el payload R en un Patch. Se ejecuta dentro de la transacción del upsert,
// así que puede resolver referencias con repos.
type PatchFunc[E any, R any] func(ctx context.Context, repos repository.Registry, actor entity.Identity, in R) (upsert.Patch[E], error)

// Deps dependencias comunes de los casos de uso de recursos.
type Deps struct {
	Tx      ports.TxRunner
	Repos   repository.Registry // atado al pool: lecturas fuera de transacción
	Log     *logger.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
	Policy  upsert.ReferencePolicy
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// dependents lo implementan los patches que escriben filas hijas después de la cabecera
// (p. ej. las líneas de factura), dentro de la misma transacción.
type dependents[E any] interface {
	WriteDependents(ctx context.Context, repos repository.Registry, rec *E) error
}

func writeDependents[E any](ctx context.Context, repos repository.Registry, patch upsert.Patch[E], rec *E) error {
	if d, ok := patch.(dependents[E]); ok {
		return d.WriteDependents(ctx, repos, rec)
	}
	return nil
}

// Resource implementa listado, lectura, upsert, actualización parcial y borrado lógico
// de un recurso multi-tenant identificado por UUID.
type Resource[E any, P upsert.Record[E], R any] struct {
	name  string
	deps  Deps
	store func(repository.Registry) repository.SyncStore[E]
	patch PatchFunc[E, R]
	uuid  func(R) string
	// guardDelete puede vetar el borrado (p. ej. el propietario de la empresa).
	guardDelete func(actor entity.Identity, rec *E) error
}

// List devuelve filas no eliminadas de la empresa, opcionalmente solo las modificadas después de since.
func (r *Resource[E, P, R]) List(ctx context.Context, companyID int64, since *time.Time) ([]*E, error) {
	rows, err := r.store(r.deps.Repos).List(ctx, companyID, repository.ListFilter{Since: since})
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", r.name, err)
	}
	return rows, nil
}

// Get devuelve la fila por UUID; ErrNotFound si no existe en la empresa o está eliminada.
func (r *Resource[E, P, R]) Get(ctx context.Context, companyID int64, id string) (*E, error) {
	id, ok := canonicalUUID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec, err := r.store(r.deps.Repos).FindByUUID(ctx, companyID, id)
	if err != nil {
		return nil, fmt.Errorf("obtener %s: %w", r.name, err)
	}
	if rec == nil || P(rec).Meta().IsDeleted {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// Save crea o actualiza según el UUID del payload (POST).
func (r *Resource[E, P, R]) Save(ctx context.Context, actor entity.Identity, in R) (*E, upsert.Outcome, error) {
	var (
		rec     *E
		outcome upsert.Outcome
	)
	err := r.deps.Tx.Run(ctx, func(repos repository.Registry) error {
		store := r.store(repos)
		// La marca de tiempo se toma con la fila ya bloqueada.
		if id, ok := canonicalUUID(r.uuid(in)); ok {
			if _, err := store.LockByUUID(ctx, actor.CompanyID, id); err != nil {
				return err
			}
		}
		now := r.deps.now()
		patch, err := r.patch(ctx, repos, actor, in)
		if err != nil {
			return err
		}
		rec, outcome, err = upsert.Reconcile[E, P](ctx, store, actor.CompanyID, r.uuid(in), patch, now)
		if err != nil {
			return err
		}
		return writeDependents(ctx, repos, patch, rec)
	})
	if err != nil {
		return nil, 0, err
	}
	r.deps.Metrics.RecordUpsert(r.name, outcome.String())
	return rec, outcome, nil
}

// Modify actualiza parcialmente una fila existente (PUT). ErrNotFound si no existe en la empresa.
func (r *Resource[E, P, R]) Modify(ctx context.Context, actor entity.Identity, id string, in R) (*E, error) {
	id, ok := canonicalUUID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	var rec *E
	err := r.deps.Tx.Run(ctx, func(repos repository.Registry) error {
		existing, err := r.store(repos).LockByUUID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		now := r.deps.now()
		patch, err := r.patch(ctx, repos, actor, in)
		if err != nil {
			return err
		}
		rec, _, err = upsert.Reconcile[E, P](ctx, r.store(repos), actor.CompanyID, id, patch, now)
		if err != nil {
			return err
		}
		return writeDependents(ctx, repos, patch, rec)
	})
	if err != nil {
		return nil, err
	}
	r.deps.Metrics.RecordUpsert(r.name, upsert.Updated.String())
	return rec, nil
}

// Delete marca la fila como eliminada y avanza updatedAt para que el delta la propague.
// Borrar una fila ya eliminada no la modifica.
func (r *Resource[E, P, R]) Delete(ctx context.Context, actor entity.Identity, id string) (*E, error) {
	id, ok := canonicalUUID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	var rec *E
	err := r.deps.Tx.Run(ctx, func(repos repository.Registry) error {
		store := r.store(repos)
		existing, err := store.LockByUUID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		rec = existing
		meta := P(existing).Meta()
		if meta.IsDeleted {
			return nil
		}
		if r.guardDelete != nil {
			if err := r.guardDelete(actor, existing); err != nil {
				return err
			}
		}
		meta.IsDeleted = true
		meta.Touch(r.deps.now())
		return store.Update(ctx, existing)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// canonicalUUID devuelve id en minúsculas con guiones. Los UUID mal formados no existen en ninguna empresa.
func canonicalUUID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
