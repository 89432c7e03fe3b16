package repository

import (
	"context"
	"time"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CustomerRepository puerto de persistencia para clientes.
type CustomerRepository interface {
	SyncStore[entity.Customer]
	// GetOrCreateWalkIn devuelve el cliente de mostrador de la empresa, creándolo la primera vez.
	GetOrCreateWalkIn(ctx context.Context, companyID int64, now time.Time) (*entity.Customer, error)
}
