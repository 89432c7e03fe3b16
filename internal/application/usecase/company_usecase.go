package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// CompanyUseCase perfil de la empresa del llamador.
type CompanyUseCase struct {
	deps Deps
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(d Deps) *CompanyUseCase {
	return &CompanyUseCase{deps: d}
}

// Get devuelve la empresa; ErrNotFound si no existe o fue eliminada.
func (uc *CompanyUseCase) Get(ctx context.Context, companyID int64) (*entity.Company, error) {
	company, err := uc.deps.Repos.Companies().GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil || company.IsDeleted {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// Update aplica solo los campos presentes en el payload.
func (uc *CompanyUseCase) Update(ctx context.Context, actor entity.Identity, in dto.UpdateCompanyRequest) (*entity.Company, error) {
	if in.BusinessName != nil && strings.TrimSpace(*in.BusinessName) == "" {
		return nil, missing("businessName")
	}
	var company *entity.Company
	err := uc.deps.Tx.Run(ctx, func(repos repository.Registry) error {
		c, err := repos.Companies().GetByID(ctx, actor.CompanyID)
		if err != nil {
			return err
		}
		if c == nil || c.IsDeleted {
			return domain.ErrNotFound
		}
		assign(&c.BusinessName, trimmed(in.BusinessName))
		assign(&c.BusinessAddress, in.BusinessAddress)
		assign(&c.TaxID, in.TaxID)
		assign(&c.Phone, in.Phone)
		assign(&c.Email, in.Email)
		assign(&c.LogoURL, in.LogoURL)
		c.UpdatedAt = uc.deps.now().UTC()
		company = c
		return repos.Companies().Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.deps.Log.Info().Int64("company_id", actor.CompanyID).Str("by", actor.EmployeeUUID).Msg("perfil de empresa actualizado")
	return company, nil
}
