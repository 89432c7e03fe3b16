package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// PasswordCost costo bcrypt para contraseñas de empleados.
var PasswordCost = bcrypt.DefaultCost

// EmployeeUseCase CRUD de empleados.
type EmployeeUseCase = Resource[entity.Employee, *entity.Employee, dto.EmployeeRequest]

// NewEmployeeUseCase construye el caso de uso de empleados.
// Reglas: solo un admin asigna el rol admin o modifica a otro admin; el rol debe existir
// para la empresa; el propietario no puede ser degradado ni eliminado.
func NewEmployeeUseCase(d Deps) *EmployeeUseCase {
	return &EmployeeUseCase{
		name:  "employees",
		deps:  d,
		store: func(r repository.Registry) repository.SyncStore[entity.Employee] { return r.Employees() },
		patch: func(ctx context.Context, repos repository.Registry, actor entity.Identity, in dto.EmployeeRequest) (upsert.Patch[entity.Employee], error) {
			p := employeePatch{in: in, actor: actor}
			if in.Role != nil {
				role := strings.ToLower(strings.TrimSpace(*in.Role))
				if err := checkRoleExists(ctx, repos, actor.CompanyID, role); err != nil {
					return nil, err
				}
				if role == entity.RoleAdmin && actor.Role != entity.RoleAdmin {
					return nil, fmt.Errorf("%w: solo un admin puede asignar el rol admin", domain.ErrForbidden)
				}
				p.role = &role
			}
			if in.Email != nil {
				email := strings.ToLower(strings.TrimSpace(*in.Email))
				p.email = &email
			}
			if in.Password != nil {
				hash, err := HashPassword(*in.Password)
				if err != nil {
					return nil, err
				}
				p.hash = &hash
			}
			return p, nil
		},
		uuid: func(in dto.EmployeeRequest) string { return in.UUID },
		guardDelete: func(actor entity.Identity, e *entity.Employee) error {
			if e.IsOwner {
				return fmt.Errorf("%w: el propietario de la empresa no puede eliminarse", domain.ErrConflict)
			}
			if e.Role == entity.RoleAdmin && actor.Role != entity.RoleAdmin {
				return fmt.Errorf("%w: solo un admin puede eliminar a otro admin", domain.ErrForbidden)
			}
			return nil
		},
	}
}

// HashPassword genera el hash bcrypt de una contraseña.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// checkRoleExists acepta roles predefinidos y roles configurados por la empresa.
func checkRoleExists(ctx context.Context, repos repository.Registry, companyID int64, role string) error {
	exists, err := access.RoleExists(ctx, repos.RolePermissions(), companyID, role)
	if err != nil {
		return fmt.Errorf("consultar rol: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: el rol %q no existe en la empresa", domain.ErrInvalidInput, role)
	}
	return nil
}

type employeePatch struct {
	in          dto.EmployeeRequest
	actor       entity.Identity
	role, email *string
	hash        *string
}

func (p employeePatch) Build() (*entity.Employee, error) {
	switch {
	case blank(p.in.Name):
		return nil, missing("name")
	case p.email == nil || *p.email == "":
		return nil, missing("email")
	case p.hash == nil:
		return nil, missing("password")
	}
	e := &entity.Employee{Role: entity.RoleEmployee}
	return e, p.apply(e)
}

func (p employeePatch) Apply(e *entity.Employee) error {
	if e.Role == entity.RoleAdmin && p.actor.Role != entity.RoleAdmin {
		return fmt.Errorf("%w: solo un admin puede modificar a otro admin", domain.ErrForbidden)
	}
	if e.IsOwner {
		if p.role != nil && *p.role != entity.RoleAdmin {
			return fmt.Errorf("%w: el propietario de la empresa no puede cambiar de rol", domain.ErrConflict)
		}
		if p.in.IsDeleted != nil && *p.in.IsDeleted {
			return fmt.Errorf("%w: el propietario de la empresa no puede eliminarse", domain.ErrConflict)
		}
	}
	return p.apply(e)
}

func (p employeePatch) apply(e *entity.Employee) error {
	assign(&e.Name, trimmed(p.in.Name))
	assign(&e.Email, p.email)
	assign(&e.PasswordHash, p.hash)
	assign(&e.Phone, p.in.Phone)
	assign(&e.Address, p.in.Address)
	assign(&e.Position, p.in.Position)
	assign(&e.Salary, p.in.Salary)
	assign(&e.Role, p.role)
	assign(&e.IsDeleted, p.in.IsDeleted)
	return nil
}
