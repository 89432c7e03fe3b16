package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes de la empresa, incluido el de mostrador.
type CustomerRepo struct {
	syncStore[entity.Customer, *entity.Customer]
}

// NewCustomerRepository construye el repositorio de clientes.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{syncStore[entity.Customer, *entity.Customer]{q: q, t: customersTable}}
}

// GetOrCreateWalkIn el índice parcial customers_walk_in_key garantiza uno por empresa
// aunque dos transacciones lo creen a la vez.
func (r *CustomerRepo) GetOrCreateWalkIn(ctx context.Context, companyID int64, now time.Time) (*entity.Customer, error) {
	c := &entity.Customer{Name: entity.WalkInCustomerName, IsWalkIn: true}
	c.Stamp(companyID, uuid.NewString(), now)
	insert := `
		INSERT INTO customers (uuid, company_id, is_deleted, created_at, updated_at, name, is_walk_in)
		VALUES ($1, $2, false, $3, $4, $5, true)
		ON CONFLICT (company_id) WHERE is_walk_in DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, c.UUID, companyID, c.CreatedAt, c.UpdatedAt, c.Name); err != nil {
		return nil, fmt.Errorf("insert walk-in customer: %w", err)
	}
	out, err := r.scan(r.q.QueryRow(ctx, r.t.selectSQL+" WHERE t.company_id = $1 AND t.is_walk_in", companyID))
	if err != nil {
		return nil, fmt.Errorf("get walk-in customer: %w", err)
	}
	return out, nil
}
