package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

// TokenVerifier valida un token y devuelve su subject. Lo implementa *jwt.Verifier.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityStore busca el empleado de un subject sin conocer aún el tenant.
type IdentityStore interface {
	FindIdentity(ctx context.Context, uuid string) (emp *entity.Employee, companyDeleted bool, err error)
}

// Resolver convierte una credencial en la identidad del llamador: empleado, empresa y rol
// leídos del almacén en cada petición.
type Resolver struct {
	verifier TokenVerifier
	store    IdentityStore
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewResolver construye el resolvedor.
func NewResolver(verifier TokenVerifier, store IdentityStore, log *logger.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{verifier: verifier, store: store, log: log.Named("auth"), metrics: m}
}

// Resolve devuelve domain.ErrMissingCredential, domain.ErrInvalidCredential o
// domain.ErrUnknownIdentity según el motivo del rechazo. Otros errores son fallos del almacén.
func (r *Resolver) Resolve(ctx context.Context, token string) (entity.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return r.reject("missing", domain.ErrMissingCredential)
	}
	subject, err := r.verifier.Verify(token)
	if err != nil {
		r.log.Debug().Err(err).Msg("token rechazado")
		return r.reject("invalid", domain.ErrInvalidCredential)
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return r.reject("unknown", domain.ErrUnknownIdentity)
	}

	emp, companyDeleted, err := r.store.FindIdentity(ctx, id.String())
	if err != nil {
		return entity.Identity{}, fmt.Errorf("resolver identidad: %w", err)
	}
	if emp == nil || emp.IsDeleted || companyDeleted {
		return r.reject("unknown", domain.ErrUnknownIdentity)
	}
	return entity.Identity{
		EmployeeID:   emp.ID,
		EmployeeUUID: emp.UUID,
		CompanyID:    emp.CompanyID,
		Role:         emp.Role,
		IsOwner:      emp.IsOwner,
	}, nil
}

func (r *Resolver) reject(reason string, err error) (entity.Identity, error) {
	r.metrics.RecordAuthFailure(reason)
	return entity.Identity{}, err
}
