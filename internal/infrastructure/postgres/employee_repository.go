package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo empleados: CRUD sincronizable más las búsquedas globales del login.
type EmployeeRepo struct {
	syncStore[entity.Employee, *entity.Employee]
}

// NewEmployeeRepository construye el repositorio de empleados.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{syncStore[entity.Employee, *entity.Employee]{q: q, t: employeesTable}}
}

// FindByEmail busca sin filtrar por empresa; el email es único global sin distinguir mayúsculas.
func (r *EmployeeRepo) FindByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	e, err := r.scan(r.q.QueryRow(ctx, r.t.selectSQL+" WHERE lower(t.email) = lower($1)", email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by email: %w", err)
	}
	return e, nil
}

// FindIdentity busca el empleado por UUID junto con el estado de su empresa.
func (r *EmployeeRepo) FindIdentity(ctx context.Context, id string) (*entity.Employee, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false, nil
	}
	var (
		e              entity.Employee
		companyDeleted bool
	)
	query := `
		SELECT t.id, t.uuid::text, t.company_id, t.is_deleted, t.created_at, t.updated_at,
		       t.name, t.email, t.role, t.is_owner, co.is_deleted
		  FROM employees t
		  JOIN companies co ON co.id = t.company_id
		 WHERE t.uuid = $1`
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.UUID, &e.CompanyID, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt,
		&e.Name, &e.Email, &e.Role, &e.IsOwner, &companyDeleted,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("find identity: %w", err)
	}
	return &e, companyDeleted, nil
}
