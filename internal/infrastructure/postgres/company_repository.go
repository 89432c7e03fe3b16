package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa y completa su ID y UUID.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (uuid, business_name, business_address, tax_id, phone, email, logo_url, is_deleted, created_at, updated_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, uuid::text`
	err := r.q.QueryRow(ctx, query,
		company.UUID, company.BusinessName, company.BusinessAddress, company.TaxID,
		company.Phone, company.Email, company.LogoURL, company.IsDeleted,
		company.CreatedAt, company.UpdatedAt,
	).Scan(&company.ID, &company.UUID)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID, incluidas las eliminadas.
func (r *CompanyRepo) GetByID(ctx context.Context, id int64) (*entity.Company, error) {
	query := `
		SELECT id, uuid::text, business_name, business_address, tax_id, phone, email, logo_url, is_deleted, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UUID, &c.BusinessName, &c.BusinessAddress, &c.TaxID, &c.Phone, &c.Email,
		&c.LogoURL, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update actualiza una empresa existente.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		   SET business_name = $2, business_address = $3, tax_id = $4, phone = $5, email = $6,
		       logo_url = $7, is_deleted = $8, updated_at = $9
		 WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.BusinessName, company.BusinessAddress, company.TaxID,
		company.Phone, company.Email, company.LogoURL, company.IsDeleted, company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
