package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/pkg/config"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func TestDefineTable_SQL(t *testing.T) {
	assert.Equal(t,
		"INSERT INTO brands (uuid, company_id, is_deleted, created_at, updated_at, name, is_active) VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (company_id, uuid) DO NOTHING RETURNING id",
		brandsTable.insertSQL)
	assert.Equal(t,
		"UPDATE brands SET is_deleted = $3, updated_at = $4, name = $5, is_active = $6 WHERE company_id = $1 AND uuid = $2",
		brandsTable.updateSQL)
	assert.Contains(t, productsTable.selectSQL, "c.uuid::text, u.uuid::text, b.uuid::text FROM products t LEFT JOIN categories c")
}

func TestDefineTable_ScanDestMatchesSelect(t *testing.T) {
	// Cada columna seleccionada necesita un destino: metadatos (6) + columnas + referencias.
	p := &entity.Product{}
	assert.Len(t, productsTable.dest(p), len(productsTable.columns)+len(productsTable.refCols))
	assert.Len(t, productsTable.values(p), len(productsTable.columns))

	inv := &entity.Invoice{}
	assert.Len(t, invoicesTable.dest(inv), len(invoicesTable.columns)+len(invoicesTable.refCols))
	assert.Len(t, invoicesTable.values(inv), len(invoicesTable.columns))

	e := &entity.Employee{}
	assert.Len(t, employeesTable.dest(e), len(employeesTable.columns))
	assert.Len(t, employeesTable.values(e), len(employeesTable.columns))

	c := &entity.Customer{}
	assert.Len(t, customersTable.dest(c), len(customersTable.columns))
}

func TestUniqueError(t *testing.T) {
	email := &pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"}
	id := &pgconn.PgError{Code: "23505", ConstraintName: "employees_uuid_key"}

	assert.True(t, isUniqueViolation(email))
	assert.False(t, isUniqueViolation(errors.New("otro")))
	assert.ErrorIs(t, employeesTable.uniqueError(email), domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, employeesTable.uniqueError(id), domain.ErrDuplicate)
	assert.ErrorIs(t, categoriesTable.uniqueError(id), domain.ErrDuplicate)
}

// Las pruebas contra una base real solo corren con TEST_DATABASE_URL definido.
func testRunner(t *testing.T) (*TxRunner, *Registry) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, ConnectTimeout: 5 * time.Second}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return NewTxRunner(pool), NewRegistry(pool)
}

func TestPostgres_SyncStoreRoundTrip(t *testing.T) {
	tx, reg := testRunner(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	company := &entity.Company{BusinessName: "Tienda", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, reg.Companies().Create(ctx, company))

	cat := &entity.Category{Name: "Bebidas", IsActive: true}
	cat.Stamp(company.ID, uuid.NewString(), now)
	prod := &entity.Product{Name: "Agua", PackSize: 1}
	prod.Stamp(company.ID, uuid.NewString(), now)

	err := tx.Run(ctx, func(r repository.Registry) error {
		ok, err := r.Categories().InsertIfAbsent(ctx, cat)
		if err != nil || !ok {
			return errors.Join(err, errors.New("categoría no insertada"))
		}
		prod.CategoryID = &cat.ID
		_, err = r.Products().InsertIfAbsent(ctx, prod)
		return err
	})
	require.NoError(t, err)

	got, err := reg.Products().FindByUUID(ctx, company.ID, prod.UUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.CategoryUUID)
	assert.Equal(t, cat.UUID, *got.CategoryUUID)

	again, err := reg.Categories().InsertIfAbsent(ctx, cat)
	require.NoError(t, err)
	assert.False(t, again)

	ids, err := reg.Categories().ResolveIDs(ctx, company.ID, []string{cat.UUID, "no-es-uuid", uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{cat.UUID: cat.ID}, ids)

	walkIn, err := reg.Customers().GetOrCreateWalkIn(ctx, company.ID, now)
	require.NoError(t, err)
	again2, err := reg.Customers().GetOrCreateWalkIn(ctx, company.ID, now)
	require.NoError(t, err)
	assert.Equal(t, walkIn.UUID, again2.UUID)
}

func TestPostgres_RoleOverride(t *testing.T) {
	tx, reg := testRunner(t)
	ctx := context.Background()
	now := time.Now().UTC()

	company := &entity.Company{BusinessName: "Roles", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, reg.Companies().Create(ctx, company))

	require.NoError(t, tx.Run(ctx, func(r repository.Registry) error {
		return r.RolePermissions().Replace(ctx, company.ID, "cashier", []string{"VIEW_PRODUCTS", "CREATE_INVOICES"}, now)
	}))
	perms, configured, err := reg.RolePermissions().FindOverride(ctx, company.ID, "cashier")
	require.NoError(t, err)
	assert.True(t, configured)
	assert.Equal(t, []string{"CREATE_INVOICES", "VIEW_PRODUCTS"}, perms)

	require.NoError(t, tx.Run(ctx, func(r repository.Registry) error {
		return r.RolePermissions().Replace(ctx, company.ID, "cashier", nil, now)
	}))
	perms, configured, err = reg.RolePermissions().FindOverride(ctx, company.ID, "cashier")
	require.NoError(t, err)
	assert.True(t, configured)
	assert.Empty(t, perms)

	require.NoError(t, reg.RolePermissions().Reset(ctx, company.ID, "cashier"))
	_, configured, err = reg.RolePermissions().FindOverride(ctx, company.ID, "cashier")
	require.NoError(t, err)
	assert.False(t, configured)
}
