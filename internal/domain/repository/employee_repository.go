package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// EmployeeRepository puerto de persistencia para empleados.
type EmployeeRepository interface {
	SyncStore[entity.Employee]
	// FindByEmail busca en todas las empresas (el email es único global). Incluye eliminados.
	FindByEmail(ctx context.Context, email string) (*entity.Employee, error)
	// FindIdentity busca por UUID sin filtrar tenant, junto con el estado de su empresa.
	// Lo usa el resolvedor de identidad antes de conocer el tenant.
	FindIdentity(ctx context.Context, uuid string) (emp *entity.Employee, companyDeleted bool, err error)
}
