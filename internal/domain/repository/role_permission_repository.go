package repository

import (
	"context"
	"time"
)

// RolePermissionRepository almacena las sobrescrituras de permisos por (empresa, rol).
// Un rol está "configurado" cuando existe su marca en company_roles, aunque no tenga permisos.
type RolePermissionRepository interface {
	// FindOverride devuelve los permisos guardados y si el rol está configurado, leídos en una sola consulta.
	FindOverride(ctx context.Context, companyID int64, role string) (perms []string, configured bool, err error)
	// Replace marca el rol como configurado y reemplaza sus permisos. Requiere transacción.
	Replace(ctx context.Context, companyID int64, role string, perms []string, now time.Time) error
	// Reset elimina la configuración del rol (vuelve a los permisos por defecto).
	Reset(ctx context.Context, companyID int64, role string) error
	ListConfiguredRoles(ctx context.Context, companyID int64) ([]string, error)
}
