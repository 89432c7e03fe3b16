package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// PermissionSource permisos efectivos de un rol. Lo implementa *access.Service.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, error)
}

// ProfileUseCase perfil propio del empleado autenticado. No requiere permisos salvo para
// los datos de empresa, que exigen MANAGE_COMPANY.
type ProfileUseCase struct {
	deps  Deps
	perms PermissionSource
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(d Deps, perms PermissionSource) *ProfileUseCase {
	return &ProfileUseCase{deps: d, perms: perms}
}

// Get devuelve el perfil del llamador.
func (uc *ProfileUseCase) Get(ctx context.Context, actor entity.Identity) (*dto.ProfileResponse, error) {
	emp, company, err := loadProfile(ctx, uc.deps.Repos, actor, false)
	if err != nil {
		return nil, err
	}
	out := dto.NewProfileResponse(emp, company)
	return &out, nil
}

// Update aplica los campos presentes. El email sigue siendo único en todo el sistema.
func (uc *ProfileUseCase) Update(ctx context.Context, actor entity.Identity, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	switch {
	case in.Name != nil && strings.TrimSpace(*in.Name) == "":
		return nil, missing("name")
	case in.Email != nil && strings.TrimSpace(*in.Email) == "":
		return nil, missing("email")
	case in.Password != nil && len(*in.Password) < 8:
		return nil, fmt.Errorf("%w: password debe tener al menos 8 caracteres", domain.ErrInvalidInput)
	case in.BusinessName != nil && strings.TrimSpace(*in.BusinessName) == "":
		return nil, missing("businessName")
	}
	if in.TouchesCompany() {
		allowed, err := uc.perms.EffectivePermissions(ctx, actor.CompanyID, actor.Role)
		if err != nil {
			return nil, fmt.Errorf("permisos: %w", err)
		}
		if !allowed.Has(rbac.ManageCompany) {
			return nil, fmt.Errorf("%w: se requiere %s para modificar la empresa", domain.ErrForbidden, rbac.ManageCompany)
		}
	}

	var hash *string
	if in.Password != nil {
		h, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	var out dto.ProfileResponse
	err := uc.deps.Tx.Run(ctx, func(repos repository.Registry) error {
		emp, company, err := loadProfile(ctx, repos, actor, true)
		if err != nil {
			return err
		}
		now := uc.deps.now().UTC()

		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			in.Email = &email
		}
		assign(&emp.Name, trimmed(in.Name))
		assign(&emp.Email, in.Email)
		assign(&emp.Phone, in.Phone)
		assign(&emp.Address, in.Address)
		assign(&emp.Position, in.Position)
		assign(&emp.PasswordHash, hash)
		emp.Touch(now)
		if err := repos.Employees().Update(ctx, emp); err != nil {
			return err
		}

		if in.TouchesCompany() {
			assign(&company.BusinessName, trimmed(in.BusinessName))
			assign(&company.BusinessAddress, in.BusinessAddress)
			assign(&company.TaxID, in.TaxID)
			assign(&company.Phone, in.CompanyPhone)
			assign(&company.Email, in.CompanyEmail)
			company.UpdatedAt = now
			if err := repos.Companies().Update(ctx, company); err != nil {
				return err
			}
		}
		out = dto.NewProfileResponse(emp, company)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.deps.Log.Info().
		Int64("company_id", actor.CompanyID).
		Str("employee", actor.EmployeeUUID).
		Bool("password", hash != nil).
		Bool("company", in.TouchesCompany()).
		Msg("perfil actualizado")
	return &out, nil
}

// loadProfile lee empleado y empresa del llamador; lock bloquea la fila del empleado.
func loadProfile(ctx context.Context, repos repository.Registry, actor entity.Identity, lock bool) (*entity.Employee, *entity.Company, error) {
	employees := repos.Employees()
	find := employees.FindByUUID
	if lock {
		find = employees.LockByUUID
	}
	emp, err := find(ctx, actor.CompanyID, actor.EmployeeUUID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener empleado: %w", err)
	}
	if emp == nil || emp.IsDeleted {
		return nil, nil, domain.ErrNotFound
	}
	company, err := repos.Companies().GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil || company.IsDeleted {
		return nil, nil, domain.ErrNotFound
	}
	return emp, company, nil
}
