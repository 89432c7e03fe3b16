package upsert

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

// ReferencePolicy define qué hacer con una referencia por UUID que no existe en el tenant.
type ReferencePolicy string

const (
	// Strict rechaza la petición con domain.InvalidReferencesError antes de escribir.
	Strict ReferencePolicy = "strict"
	// Lenient ignora la referencia y conserva el valor previo (si lo hay).
	Lenient ReferencePolicy = "lenient"
)

// ParsePolicy interpreta el valor de configuración; cualquier otro valor es Strict.
func ParsePolicy(s string) ReferencePolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(Lenient)) {
		return Lenient
	}
	return Strict
}

// IDResolver traduce UUIDs a IDs internos dentro de un tenant.
type IDResolver interface {
	ResolveIDs(ctx context.Context, companyID int64, uuids []string) (map[string]int64, error)
}

// Ref resultado de resolver una referencia opcional del payload.
// Set=false: no aplicar (ausente, o no resuelta en modo Lenient).
// Set=true con ID nil: el cliente pidió limpiar la referencia ("").
type Ref struct {
	Set  bool
	ID   *int64
	UUID *string
}

// Resolve resuelve una referencia opcional del campo field.
func (p ReferencePolicy) Resolve(ctx context.Context, r IDResolver, companyID int64, field string, ref *string) (Ref, error) {
	if ref == nil {
		return Ref{}, nil
	}
	raw := strings.ToLower(strings.TrimSpace(*ref))
	if raw == "" {
		return Ref{Set: true}, nil
	}
	ids, err := r.ResolveIDs(ctx, companyID, []string{raw})
	if err != nil {
		return Ref{}, fmt.Errorf("resolver %s: %w", field, err)
	}
	id, ok := ids[raw]
	if !ok {
		if p == Lenient {
			return Ref{}, nil
		}
		return Ref{}, &domain.InvalidReferencesError{Field: field, UUIDs: []string{raw}}
	}
	return Ref{Set: true, ID: &id, UUID: &raw}, nil
}

// ResolveAll resuelve un lote de UUIDs obligatorios; si alguno falta devuelve
// domain.InvalidReferencesError con todos los faltantes, en el orden recibido y sin repetir.
func ResolveAll(ctx context.Context, r IDResolver, companyID int64, field string, uuids []string) (map[string]int64, error) {
	ids, err := r.ResolveIDs(ctx, companyID, uuids)
	if err != nil {
		return nil, fmt.Errorf("resolver %s: %w", field, err)
	}
	var missing []string
	seen := make(map[string]bool, len(uuids))
	for _, u := range uuids {
		if _, ok := ids[u]; ok || seen[u] {
			continue
		}
		seen[u] = true
		missing = append(missing, u)
	}
	if len(missing) > 0 {
		return nil, &domain.InvalidReferencesError{Field: field, UUIDs: missing}
	}
	return ids, nil
}
