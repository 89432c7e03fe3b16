package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.RolePermissionRepository = (*RolePermissionRepo)(nil)

// RolePermissionRepo sobrescrituras de permisos. company_roles marca el rol como configurado;
// role_permissions guarda una fila por permiso concedido.
type RolePermissionRepo struct {
	q Querier
}

// NewRolePermissionRepository construye el repositorio.
func NewRolePermissionRepository(q Querier) *RolePermissionRepo {
	return &RolePermissionRepo{q: q}
}

// FindOverride lee la marca y los permisos en una sola consulta.
func (r *RolePermissionRepo) FindOverride(ctx context.Context, companyID int64, role string) ([]string, bool, error) {
	const query = `
		SELECT EXISTS (SELECT 1 FROM company_roles WHERE company_id = $1 AND role = $2),
		       COALESCE((SELECT array_agg(permission ORDER BY permission)
		                   FROM role_permissions WHERE company_id = $1 AND role = $2), '{}')`
	var (
		configured bool
		perms      []string
	)
	if err := r.q.QueryRow(ctx, query, companyID, role).Scan(&configured, &perms); err != nil {
		return nil, false, fmt.Errorf("find role override %s: %w", role, err)
	}
	return perms, configured, nil
}

// Replace marca el rol y reescribe sus permisos. Debe ir dentro de una transacción.
func (r *RolePermissionRepo) Replace(ctx context.Context, companyID int64, role string, perms []string, now time.Time) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO company_roles (company_id, role, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (company_id, role) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		companyID, role, now)
	batch.Queue(`DELETE FROM role_permissions WHERE company_id = $1 AND role = $2`, companyID, role)
	if len(perms) > 0 {
		batch.Queue(`
			INSERT INTO role_permissions (company_id, role, permission)
			SELECT $1, $2, unnest($3::text[])`,
			companyID, role, perms)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("replace role permissions %s: %w", role, err)
	}
	return nil
}

// Reset borra la marca; role_permissions cae por ON DELETE CASCADE.
func (r *RolePermissionRepo) Reset(ctx context.Context, companyID int64, role string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM company_roles WHERE company_id = $1 AND role = $2`, companyID, role); err != nil {
		return fmt.Errorf("reset role %s: %w", role, err)
	}
	return nil
}

func (r *RolePermissionRepo) ListConfiguredRoles(ctx context.Context, companyID int64) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT role FROM company_roles WHERE company_id = $1 ORDER BY role`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list configured roles: %w", err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan configured roles: %w", err)
	}
	return roles, nil
}
