package memory

import (
	"context"
	"errors"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newCategory(company int64, id, name string, at time.Time) *entity.Category {
	c := &entity.Category{Name: name, IsActive: true}
	c.Stamp(company, id, at)
	return c
}

func TestStore_RunDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r repository.Registry) error {
		_, err := r.Categories().InsertIfAbsent(ctx, newCategory(1, "c1", "Bebidas", t0))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Registry().Categories().FindByUUID(ctx, 1, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_RunCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Run(ctx, func(r repository.Registry) error {
		ok, err := r.Categories().InsertIfAbsent(ctx, newCategory(1, "c1", "Bebidas", t0))
		assert.True(t, ok)
		return err
	}))

	got, err := s.Registry().Categories().FindByUUID(ctx, 1, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bebidas", got.Name)
	assert.Equal(t, int64(1), got.ID)
}

func TestStore_ReadOnlyNeverPublishes(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.RunReadOnly(ctx, func(r repository.Registry) error {
		_, err := r.Categories().InsertIfAbsent(ctx, newCategory(1, "c1", "Bebidas", t0))
		return err
	}))
	got, _ := s.Registry().Categories().FindByUUID(ctx, 1, "c1")
	assert.Nil(t, got)
}

func TestSyncRepo_InsertIfAbsentIsPerTenant(t *testing.T) {
	ctx := context.Background()
	repo := New().Registry().Categories()

	ok, err := repo.InsertIfAbsent(ctx, newCategory(1, "c1", "A", t0))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.InsertIfAbsent(ctx, newCategory(1, "c1", "B", t0))
	require.NoError(t, err)
	assert.False(t, ok)

	// Mismo UUID en otra empresa: fila independiente.
	ok, err = repo.InsertIfAbsent(ctx, newCategory(2, "c1", "C", t0))
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := repo.FindByUUID(ctx, 1, "c1")
	assert.Equal(t, "A", got.Name)
}

func TestSyncRepo_ListOrderAndFilters(t *testing.T) {
	ctx := context.Background()
	repo := New().Registry().Categories()

	_, _ = repo.InsertIfAbsent(ctx, newCategory(1, "late", "late", t0.Add(2*time.Second)))
	_, _ = repo.InsertIfAbsent(ctx, newCategory(1, "early", "early", t0))
	deleted := newCategory(1, "gone", "gone", t0.Add(time.Second))
	deleted.IsDeleted = true
	_, _ = repo.InsertIfAbsent(ctx, deleted)
	_, _ = repo.InsertIfAbsent(ctx, newCategory(2, "other", "other", t0))

	all, err := repo.List(ctx, 1, repository.ListFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"early", "gone", "late"}, []string{all[0].UUID, all[1].UUID, all[2].UUID})

	live, _ := repo.List(ctx, 1, repository.ListFilter{})
	assert.Len(t, live, 2)

	since := t0.Add(time.Second)
	after, _ := repo.List(ctx, 1, repository.ListFilter{Since: &since, IncludeDeleted: true})
	require.Len(t, after, 1)
	assert.Equal(t, "late", after[0].UUID)
}

func TestEmployeeRepo_UniqueEmailAndUUID(t *testing.T) {
	ctx := context.Background()
	repo := New().Registry().Employees()

	newEmp := func(company int64, id, email string) *entity.Employee {
		e := &entity.Employee{Name: "x", Email: email, Role: entity.RoleEmployee}
		e.Stamp(company, id, t0)
		return e
	}

	ok, err := repo.InsertIfAbsent(ctx, newEmp(1, "e1", "ana@example.com"))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.InsertIfAbsent(ctx, newEmp(2, "e2", "ANA@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = repo.InsertIfAbsent(ctx, newEmp(2, "e1", "otra@example.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	found, err := repo.FindByEmail(ctx, "Ana@Example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "e1", found.UUID)
}

func TestCustomerRepo_WalkInOncePerCompany(t *testing.T) {
	ctx := context.Background()
	repo := New().Registry().Customers()

	a, err := repo.GetOrCreateWalkIn(ctx, 1, t0)
	require.NoError(t, err)
	b, err := repo.GetOrCreateWalkIn(ctx, 1, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, a.UUID, b.UUID)
	assert.True(t, a.IsWalkIn)
	assert.Equal(t, entity.WalkInCustomerName, a.Name)

	c, err := repo.GetOrCreateWalkIn(ctx, 2, t0)
	require.NoError(t, err)
	assert.NotEqual(t, a.UUID, c.UUID)
}

func TestRoleRepo_EmptyOverrideIsConfigured(t *testing.T) {
	ctx := context.Background()
	repo := New().Registry().RolePermissions()

	_, configured, err := repo.FindOverride(ctx, 1, "cashier")
	require.NoError(t, err)
	assert.False(t, configured)

	require.NoError(t, repo.Replace(ctx, 1, "cashier", nil, t0))
	perms, configured, err := repo.FindOverride(ctx, 1, "cashier")
	require.NoError(t, err)
	assert.True(t, configured)
	assert.Empty(t, perms)

	roles, _ := repo.ListConfiguredRoles(ctx, 1)
	assert.Equal(t, []string{"cashier"}, roles)

	require.NoError(t, repo.Reset(ctx, 1, "cashier"))
	_, configured, _ = repo.FindOverride(ctx, 1, "cashier")
	assert.False(t, configured)
}

func TestRoleRepo_ReplaceCopiesRoleName(t *testing.T) {
	ctx := context.Background()
	repo := New().Registry().RolePermissions()

	// El nombre llega como vista de un buffer que el servidor HTTP reutiliza.
	buf := []byte("manager")
	role := unsafe.String(&buf[0], len(buf))
	require.NoError(t, repo.Replace(ctx, 1, role, []string{}, t0))
	copy(buf, "tsnager")

	_, configured, err := repo.FindOverride(ctx, 1, "manager")
	require.NoError(t, err)
	assert.True(t, configured)

	roles, err := repo.ListConfiguredRoles(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"manager"}, roles)
}
