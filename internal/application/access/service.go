// Package access resuelve permisos efectivos por (empresa, rol) y decide si una operación procede.
package access

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/validator"
)

// RoleInfo resumen de un rol en uso por la empresa.
type RoleInfo struct {
	Role       string `json:"role"`
	IsDefault  bool   `json:"isDefault"`
	Configured bool   `json:"configured"`
}

// Service implementa el almacén de permisos por rol (sobrescritura por empresa con
// respaldo en el registro) y los casos de uso de gestión de roles.
type Service struct {
	perms repository.RolePermissionRepository
	tx    ports.TxRunner
	log   *logger.Logger
	now   func() time.Time
}

// NewService construye el servicio. perms debe estar atado al pool (lecturas fuera de tx).
func NewService(perms repository.RolePermissionRepository, tx ports.TxRunner, log *logger.Logger) *Service {
	return &Service{perms: perms, tx: tx, log: log.Named("access"), now: time.Now}
}

// EffectivePermissions devuelve las filas sobrescritas si el rol está configurado en la
// empresa (aunque sean cero), o los permisos por defecto del registro si no lo está.
func (s *Service) EffectivePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, error) {
	keys, configured, err := s.perms.FindOverride(ctx, companyID, role)
	if err != nil {
		return nil, fmt.Errorf("leer permisos de %s: %w", role, err)
	}
	return effective(role, keys, configured), nil
}

func effective(role string, keys []string, configured bool) rbac.Set {
	if !configured {
		return rbac.DefaultPermissions(role)
	}
	set := make(rbac.Set, len(keys))
	for _, k := range keys {
		// Claves retiradas del catálogo no conceden nada.
		if p := rbac.Permission(k); rbac.IsKnown(p) {
			set[p] = struct{}{}
		}
	}
	return set
}

// RolePermissions normaliza role y devuelve sus permisos efectivos y si la empresa lo configuró.
func (s *Service) RolePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, bool, error) {
	role, err := normalizeRole(role)
	if err != nil {
		return nil, false, err
	}
	keys, configured, err := s.perms.FindOverride(ctx, companyID, role)
	if err != nil {
		return nil, false, fmt.Errorf("leer permisos de %s: %w", role, err)
	}
	return effective(role, keys, configured), configured, nil
}

// ReplacePermissions reemplaza atómicamente el conjunto de permisos del rol en la empresa.
// Un conjunto vacío es válido y deja al rol sin permisos (no vuelve a los valores por defecto).
func (s *Service) ReplacePermissions(ctx context.Context, actor entity.Identity, role string, keys []string) (rbac.Set, error) {
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}
	if role == entity.RoleAdmin {
		return nil, domain.ErrProtectedRole
	}
	set, err := rbac.Parse(keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := s.now()
	err = s.tx.Run(ctx, func(repos repository.Registry) error {
		return repos.RolePermissions().Replace(ctx, actor.CompanyID, role, set.Strings(), now)
	})
	if err != nil {
		return nil, fmt.Errorf("reemplazar permisos de %s: %w", role, err)
	}
	s.log.Info().
		Int64("company_id", actor.CompanyID).
		Str("actor", actor.EmployeeUUID).
		Str("role", role).
		Strs("permissions", set.Strings()).
		Msg("permisos de rol reemplazados")
	return set, nil
}

// ResetPermissions elimina la configuración del rol; vuelve a regir el registro.
func (s *Service) ResetPermissions(ctx context.Context, actor entity.Identity, role string) (rbac.Set, error) {
	role, err := normalizeRole(role)
	if err != nil {
		return nil, err
	}
	if role == entity.RoleAdmin {
		return nil, domain.ErrProtectedRole
	}
	err = s.tx.Run(ctx, func(repos repository.Registry) error {
		return repos.RolePermissions().Reset(ctx, actor.CompanyID, role)
	})
	if err != nil {
		return nil, fmt.Errorf("restablecer permisos de %s: %w", role, err)
	}
	s.log.Info().Int64("company_id", actor.CompanyID).Str("actor", actor.EmployeeUUID).Str("role", role).Msg("permisos de rol restablecidos")
	return rbac.DefaultPermissions(role), nil
}

// ListRoles devuelve la unión de roles predefinidos y roles configurados por la empresa.
func (s *Service) ListRoles(ctx context.Context, companyID int64) ([]RoleInfo, error) {
	configured, err := s.perms.ListConfiguredRoles(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar roles: %w", err)
	}
	isConfigured := make(map[string]bool, len(configured))
	for _, r := range configured {
		isConfigured[r] = true
	}

	out := make([]RoleInfo, 0, len(configured)+4)
	for _, r := range rbac.DefaultRoles() {
		out = append(out, RoleInfo{Role: r, IsDefault: true, Configured: isConfigured[r]})
	}
	var custom []string
	for _, r := range configured {
		if !rbac.IsDefaultRole(r) {
			custom = append(custom, r)
		}
	}
	sort.Strings(custom)
	for _, r := range custom {
		out = append(out, RoleInfo{Role: r, Configured: true})
	}
	return out, nil
}

// RoleExists indica si role es predefinido o está configurado en la empresa. Recibe el
// repositorio para poder consultarse dentro de la transacción del llamador.
func RoleExists(ctx context.Context, perms repository.RolePermissionRepository, companyID int64, role string) (bool, error) {
	if rbac.IsDefaultRole(role) {
		return true, nil
	}
	_, configured, err := perms.FindOverride(ctx, companyID, role)
	if err != nil {
		return false, err
	}
	return configured, nil
}

// Definitions catálogo de permisos con etiquetas.
func (s *Service) Definitions() []rbac.Definition {
	return rbac.Catalog()
}

func normalizeRole(role string) (string, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !validator.IsRoleName(role) {
		return "", fmt.Errorf("%w: nombre de rol inválido %q", domain.ErrInvalidInput, role)
	}
	return role, nil
}
