package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func init() {
	PasswordCost = bcrypt.MinCost
}

func ptr[T any](v T) *T { return &v }

// testDeps arma dependencias sobre el store en memoria con un reloj que avanza un segundo por llamada.
func testDeps(policy upsert.ReferencePolicy) (Deps, *memory.Store) {
	st := memory.New()
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return Deps{
		Tx:     st,
		Repos:  st.Registry(),
		Log:    logger.Nop(),
		Policy: policy,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}, st
}

var (
	adminA   = entity.Identity{EmployeeID: 1, EmployeeUUID: uuid.NewString(), CompanyID: 1, Role: entity.RoleAdmin, IsOwner: true}
	managerA = entity.Identity{EmployeeID: 2, EmployeeUUID: uuid.NewString(), CompanyID: 1, Role: entity.RoleManager}
	adminB   = entity.Identity{EmployeeID: 3, EmployeeUUID: uuid.NewString(), CompanyID: 2, Role: entity.RoleAdmin}
)

// ─── Upsert por UUID ──────────────────────────────────────────────────────────

func TestResource_SaveWithoutUUIDAlwaysCreates(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewCategoryUseCase(d)
	ctx := context.Background()

	first, o1, err := uc.Save(ctx, adminA, dto.CategoryRequest{Name: ptr("Bebidas")})
	require.NoError(t, err)
	second, o2, err := uc.Save(ctx, adminA, dto.CategoryRequest{Name: ptr("Bebidas")})
	require.NoError(t, err)

	assert.Equal(t, upsert.Created, o1)
	assert.Equal(t, upsert.Created, o2)
	assert.NotEqual(t, first.UUID, second.UUID, "sin uuid cada POST crea una fila nueva")

	rows, err := uc.List(ctx, adminA.CompanyID, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestResource_SaveWithUUIDIsIdempotent(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewCategoryUseCase(d)
	ctx := context.Background()
	id := uuid.NewString()

	created, o1, err := uc.Save(ctx, adminA, dto.CategoryRequest{UUID: id, Name: ptr("Snacks")})
	require.NoError(t, err)
	createdAt := created.UpdatedAt

	updated, o2, err := uc.Save(ctx, adminA, dto.CategoryRequest{UUID: id, Subcategory: ptr("Papas")})
	require.NoError(t, err)

	assert.Equal(t, upsert.Created, o1)
	assert.Equal(t, upsert.Updated, o2)
	assert.Equal(t, "Snacks", updated.Name, "los campos ausentes se conservan")
	assert.Equal(t, "Papas", updated.Subcategory)
	assert.True(t, updated.UpdatedAt.After(createdAt))

	rows, err := uc.List(ctx, adminA.CompanyID, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResource_SaveRequiresNameOnInsert(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	_, _, err := NewBrandUseCase(d).Save(context.Background(), adminA, dto.BrandRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── Aislamiento por empresa ─────────────────────────────────────────────────

func TestResource_TenantIsolation(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewSupplierUseCase(d)
	ctx := context.Background()

	s, _, err := uc.Save(ctx, adminA, dto.SupplierRequest{Name: ptr("Distribuidora Norte")})
	require.NoError(t, err)

	_, err = uc.Get(ctx, adminB.CompanyID, s.UUID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Modify(ctx, adminB, s.UUID, dto.SupplierRequest{Name: ptr("Robado")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Delete(ctx, adminB, s.UUID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El mismo UUID en otra empresa es una fila distinta.
	other, outcome, err := uc.Save(ctx, adminB, dto.SupplierRequest{UUID: s.UUID, Name: ptr("Proveedor B")})
	require.NoError(t, err)
	assert.Equal(t, upsert.Created, outcome)
	assert.Equal(t, s.UUID, other.UUID)

	mine, err := uc.Get(ctx, adminA.CompanyID, s.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Norte", mine.Name)
}

// ─── Borrado lógico ──────────────────────────────────────────────────────────

func TestResource_SoftDelete(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewUnitUseCase(d)
	ctx := context.Background()

	u, _, err := uc.Save(ctx, adminA, dto.UnitRequest{Name: ptr("Kilogramo"), Symbol: ptr("kg")})
	require.NoError(t, err)

	deleted, err := uc.Delete(ctx, adminA, u.UUID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.True(t, deleted.UpdatedAt.After(u.UpdatedAt), "el borrado avanza updatedAt")

	again, err := uc.Delete(ctx, adminA, u.UUID)
	require.NoError(t, err)
	assert.Equal(t, deleted.UpdatedAt, again.UpdatedAt, "borrar dos veces no modifica la fila")

	_, err = uc.Get(ctx, adminA.CompanyID, u.UUID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rows, err := uc.List(ctx, adminA.CompanyID, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestResource_ModifyMissingIsNotFound(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	_, err := NewCategoryUseCase(d).Modify(context.Background(), adminA, uuid.NewString(), dto.CategoryRequest{Name: ptr("X")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResource_ListUpdatedSince(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewCategoryUseCase(d)
	ctx := context.Background()

	old, _, err := uc.Save(ctx, adminA, dto.CategoryRequest{Name: ptr("Vieja")})
	require.NoError(t, err)
	_, _, err = uc.Save(ctx, adminA, dto.CategoryRequest{Name: ptr("Nueva")})
	require.NoError(t, err)

	since := old.UpdatedAt
	rows, err := uc.List(ctx, adminA.CompanyID, &since)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nueva", rows[0].Name)
}

// ─── Referencias de producto ─────────────────────────────────────────────────

func TestProduct_StrictRejectsUnknownReference(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	ghost := uuid.NewString()

	_, _, err := NewProductUseCase(d).Save(context.Background(), adminA, dto.ProductRequest{
		Name:         ptr("Gaseosa"),
		CategoryUUID: ptr(ghost),
	})

	var refErr *domain.InvalidReferencesError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "categoryUuid", refErr.Field)
	assert.Equal(t, []string{ghost}, refErr.UUIDs)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_LenientIgnoresUnknownReference(t *testing.T) {
	d, _ := testDeps(upsert.Lenient)
	p, _, err := NewProductUseCase(d).Save(context.Background(), adminA, dto.ProductRequest{
		Name:         ptr("Gaseosa"),
		CategoryUUID: ptr(uuid.NewString()),
	})
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)
	assert.Nil(t, p.CategoryUUID)
}

func TestProduct_ResolvesAndClearsReferences(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	ctx := context.Background()
	cat, _, err := NewCategoryUseCase(d).Save(ctx, adminA, dto.CategoryRequest{Name: ptr("Lácteos")})
	require.NoError(t, err)

	products := NewProductUseCase(d)
	p, _, err := products.Save(ctx, adminA, dto.ProductRequest{
		Name:         ptr("Leche"),
		Price:        ptr(decimal.RequireFromString("4200")),
		CategoryUUID: ptr(cat.UUID),
	})
	require.NoError(t, err)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, cat.ID, *p.CategoryID)
	assert.Equal(t, cat.UUID, *p.CategoryUUID)

	cleared, err := products.Modify(ctx, adminA, p.UUID, dto.ProductRequest{CategoryUUID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.CategoryID)
	assert.True(t, cleared.Price.Equal(decimal.RequireFromString("4200")))
}

func TestProduct_ReferenceFromOtherTenantIsInvalid(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	ctx := context.Background()
	cat, _, err := NewCategoryUseCase(d).Save(ctx, adminB, dto.CategoryRequest{Name: ptr("Ajena")})
	require.NoError(t, err)

	_, _, err = NewProductUseCase(d).Save(ctx, adminA, dto.ProductRequest{Name: ptr("Leche"), CategoryUUID: ptr(cat.UUID)})
	var refErr *domain.InvalidReferencesError
	assert.True(t, errors.As(err, &refErr))
}

// ─── Clientes ────────────────────────────────────────────────────────────────

func TestCustomer_WalkInCannotBeDeleted(t *testing.T) {
	d, st := testDeps(upsert.Strict)
	ctx := context.Background()
	var walkIn *entity.Customer
	require.NoError(t, st.Run(ctx, func(r repository.Registry) error {
		var err error
		walkIn, err = r.Customers().GetOrCreateWalkIn(ctx, adminA.CompanyID, time.Now())
		return err
	}))

	uc := NewCustomerUseCase(d)
	_, err := uc.Delete(ctx, adminA, walkIn.UUID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Modify(ctx, adminA, walkIn.UUID, dto.CustomerRequest{IsDeleted: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResource_UppercaseUUIDFindsRow(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewCategoryUseCase(d)
	ctx := context.Background()

	c, _, err := uc.Save(ctx, adminA, dto.CategoryRequest{Name: ptr("Bebidas")})
	require.NoError(t, err)
	upper := strings.ToUpper(c.UUID)

	got, err := uc.Get(ctx, adminA.CompanyID, upper)
	require.NoError(t, err)
	assert.Equal(t, c.UUID, got.UUID)

	updated, err := uc.Modify(ctx, adminA, upper, dto.CategoryRequest{Name: ptr("Gaseosas")})
	require.NoError(t, err)
	assert.Equal(t, c.UUID, updated.UUID)

	deleted, err := uc.Delete(ctx, adminA, upper)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = uc.Get(ctx, adminA.CompanyID, "no-es-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// lockRecorder anota en events cada bloqueo de fila.
type lockRecorder struct {
	repository.CategoryRepository
	events *[]string
}

func (l lockRecorder) LockByUUID(ctx context.Context, companyID int64, id string) (*entity.Category, error) {
	*l.events = append(*l.events, "lock")
	return l.CategoryRepository.LockByUUID(ctx, companyID, id)
}

func TestResource_TimestampTakenAfterRowLock(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	var events []string
	clock := d.Now
	d.Now = func() time.Time {
		events = append(events, "now")
		return clock()
	}
	uc := NewCategoryUseCase(d)
	uc.store = func(r repository.Registry) repository.SyncStore[entity.Category] {
		return lockRecorder{CategoryRepository: r.Categories(), events: &events}
	}
	ctx := context.Background()

	c, _, err := uc.Save(ctx, adminA, dto.CategoryRequest{UUID: uuid.NewString(), Name: ptr("Snacks")})
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "lock", events[0], "upsert con uuid: bloqueo antes del reloj")

	events = nil
	_, err = uc.Modify(ctx, adminA, c.UUID, dto.CategoryRequest{Name: ptr("Dulces")})
	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "now"}, events[:2])

	events = nil
	_, err = uc.Delete(ctx, adminA, c.UUID)
	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "now"}, events)
}
