package ports

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta fn con repositorios atados a una única transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Registry) error) error
	// RunReadOnly abre una transacción de solo lectura con snapshot estable (REPEATABLE READ).
	RunReadOnly(ctx context.Context, fn func(repos repository.Registry) error) error
}
