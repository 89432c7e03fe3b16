package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/ports"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// PermissionSource permisos efectivos para /auth/me. Lo implementa *access.Service.
type PermissionSource interface {
	EffectivePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, error)
}

// AuthUseCase casos de uso de autenticación: alta de empresa, login e identidad actual.
type AuthUseCase struct {
	repos  repository.Registry
	tx     ports.TxRunner
	perms  PermissionSource
	jwtCfg JWTConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repos repository.Registry, tx ports.TxRunner, perms PermissionSource, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{repos: repos, tx: tx, perms: perms, jwtCfg: jwtCfg, log: log.Named("auth"), now: time.Now}
}

// Signup crea la empresa y su empleado propietario (admin) en una sola transacción.
// Devuelve domain.ErrEmailAlreadyExists si el email ya está registrado en cualquier empresa.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := usecase.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC().Truncate(time.Microsecond)

	var (
		company *entity.Company
		owner   *entity.Employee
	)
	err = uc.tx.Run(ctx, func(repos repository.Registry) error {
		existing, err := repos.Employees().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}

		company = &entity.Company{
			UUID:            uuid.NewString(),
			BusinessName:    strings.TrimSpace(in.BusinessName),
			BusinessAddress: in.BusinessAddress,
			TaxID:           in.TaxID,
			Phone:           in.Phone,
			Email:           email,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repos.Companies().Create(ctx, company); err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}

		owner = &entity.Employee{
			Name:         strings.TrimSpace(in.Name),
			Email:        email,
			PasswordHash: hash,
			Phone:        in.Phone,
			Position:     "Propietario",
			Role:         entity.RoleAdmin,
			IsOwner:      true,
		}
		owner.Stamp(company.ID, uuid.NewString(), now)
		inserted, err := repos.Employees().InsertIfAbsent(ctx, owner)
		if err != nil {
			return fmt.Errorf("crear propietario: %w", err)
		}
		if !inserted {
			return domain.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("company", company.UUID).Str("owner", owner.UUID).Msg("empresa registrada")
	return uc.issue(owner, company)
}

// Login verifica email/password y emite un token cuyo subject es el UUID del empleado.
// Cualquier fallo de credenciales devuelve domain.ErrInvalidCredential.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	emp, err := uc.repos.Employees().FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if emp == nil || emp.IsDeleted {
		return nil, domain.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredential
	}
	company, err := uc.repos.Companies().GetByID(ctx, emp.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.IsDeleted {
		return nil, domain.ErrInvalidCredential
	}
	return uc.issue(emp, company)
}

// Me devuelve el empleado, su empresa y los permisos efectivos de su rol.
func (uc *AuthUseCase) Me(ctx context.Context, id entity.Identity) (*dto.MeResponse, error) {
	emp, err := uc.repos.Employees().FindByUUID(ctx, id.CompanyID, id.EmployeeUUID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, domain.ErrNotFound
	}
	company, err := uc.repos.Companies().GetByID(ctx, id.CompanyID)
	if err != nil {
		return nil, err
	}
	perms, err := uc.perms.EffectivePermissions(ctx, id.CompanyID, id.Role)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{Employee: emp, Company: company, Permissions: perms.Strings()}, nil
}

func (uc *AuthUseCase) issue(emp *entity.Employee, company *entity.Company) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, emp.UUID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.LoginResponse{Token: token, Employee: emp, Company: company}, nil
}
