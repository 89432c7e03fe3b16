package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

// DenyReason motivo de una denegación.
type DenyReason string

const (
	NoRole                 DenyReason = "NoRole"
	InsufficientPermission DenyReason = "InsufficientPermission"
)

// Decision resultado de Authorize.
type Decision struct {
	Allowed  bool
	Reason   DenyReason
	Required rbac.Permission
	Role     string
}

// PermissionSource resuelve permisos efectivos. Lo implementa *Service.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, error)
}

// Gate decide si (rol, empresa) tiene un permiso. Consulta el almacén en cada llamada:
// no hay caché, una revocación aplica desde la siguiente petición.
type Gate struct {
	source  PermissionSource
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewGate construye el gate.
func NewGate(source PermissionSource, log *logger.Logger, m *metrics.Metrics) *Gate {
	return &Gate{source: source, log: log.Named("gate"), metrics: m}
}

// Authorize evalúa required para role en companyID. El error solo indica fallo del almacén.
func (g *Gate) Authorize(ctx context.Context, role string, companyID int64, required rbac.Permission) (Decision, error) {
	d := Decision{Required: required, Role: role}
	if role == "" {
		d.Reason = NoRole
		g.denied(d, companyID)
		return d, nil
	}
	perms, err := g.source.EffectivePermissions(ctx, companyID, role)
	if err != nil {
		return Decision{}, fmt.Errorf("autorizar %s: %w", required, err)
	}
	if !perms.Has(required) {
		d.Reason = InsufficientPermission
		g.denied(d, companyID)
		return d, nil
	}
	d.Allowed = true
	return d, nil
}

func (g *Gate) denied(d Decision, companyID int64) {
	g.metrics.RecordAccessDenied(string(d.Required), string(d.Reason))
	g.log.Debug().
		Int64("company_id", companyID).
		Str("role", d.Role).
		Str("required", string(d.Required)).
		Str("reason", string(d.Reason)).
		Msg("acceso denegado")
}
