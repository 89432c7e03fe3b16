package upsert_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type key struct {
	company int64
	uuid    string
}

type fakeStore struct {
	rows   map[key]*entity.Category
	nextID int64
	// raceOnInsert simula que otra transacción insertó la fila justo antes del INSERT.
	raceOnInsert *entity.Category
}

func newFakeStore() *fakeStore { return &fakeStore{rows: map[key]*entity.Category{}} }

func (s *fakeStore) LockByUUID(_ context.Context, companyID int64, id string) (*entity.Category, error) {
	if c, ok := s.rows[key{companyID, id}]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) InsertIfAbsent(_ context.Context, c *entity.Category) (bool, error) {
	if s.raceOnInsert != nil {
		winner := s.raceOnInsert
		s.raceOnInsert = nil
		s.nextID++
		winner.ID = s.nextID
		s.rows[key{winner.CompanyID, winner.UUID}] = winner
	}
	k := key{c.CompanyID, c.UUID}
	if _, ok := s.rows[k]; ok {
		return false, nil
	}
	s.nextID++
	c.ID = s.nextID
	cp := *c
	s.rows[k] = &cp
	return true, nil
}

func (s *fakeStore) Update(_ context.Context, c *entity.Category) error {
	cp := *c
	s.rows[key{c.CompanyID, c.UUID}] = &cp
	return nil
}

type categoryPatch struct {
	Name        *string
	Subcategory *string
}

func (p categoryPatch) Build() (*entity.Category, error) {
	if p.Name == nil || *p.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &entity.Category{Name: *p.Name, IsActive: true}
	if p.Subcategory != nil {
		c.Subcategory = *p.Subcategory
	}
	return c, nil
}

func (p categoryPatch) Apply(c *entity.Category) error {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Subcategory != nil {
		c.Subcategory = *p.Subcategory
	}
	return nil
}

func str(s string) *string { return &s }

const (
	companyA = int64(1)
	companyB = int64(2)
	fixedID  = "5f0c6f7e-8a7b-4d0e-9a55-1d2b3c4d5e6f"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func reconcile(t *testing.T, s *fakeStore, company int64, id string, p categoryPatch, now time.Time) (*entity.Category, upsert.Outcome) {
	t.Helper()
	c, outcome, err := upsert.Reconcile[entity.Category](context.Background(), s, company, id, p, now)
	require.NoError(t, err)
	return c, outcome
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_SinUUIDSiempreInserta(t *testing.T) {
	s := newFakeStore()
	a, oa := reconcile(t, s, companyA, "", categoryPatch{Name: str("Bebidas")}, t0)
	b, ob := reconcile(t, s, companyA, "", categoryPatch{Name: str("Lácteos")}, t0)

	assert.Equal(t, upsert.Created, oa)
	assert.Equal(t, upsert.Created, ob)
	assert.NotEqual(t, a.UUID, b.UUID, "el servidor debe asignar UUIDs distintos")
	assert.Len(t, s.rows, 2)
}

func TestReconcile_MismoUUIDEsIdempotente(t *testing.T) {
	s := newFakeStore()
	p := categoryPatch{Name: str("Bebidas")}
	first, o1 := reconcile(t, s, companyA, fixedID, p, t0)
	second, o2 := reconcile(t, s, companyA, fixedID, p, t0)

	assert.Equal(t, upsert.Created, o1)
	assert.Equal(t, upsert.Updated, o2)
	assert.Len(t, s.rows, 1, "repetir el mismo payload no debe duplicar filas")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, fixedID, second.UUID)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "updatedAt debe ser estrictamente creciente")
}

func TestReconcile_MergeConservaCamposAusentes(t *testing.T) {
	s := newFakeStore()
	reconcile(t, s, companyA, fixedID, categoryPatch{Name: str("Bebidas"), Subcategory: str("Gaseosas")}, t0)
	got, _ := reconcile(t, s, companyA, fixedID, categoryPatch{Name: str("Bebidas frías")}, t0.Add(time.Minute))

	assert.Equal(t, "Bebidas frías", got.Name)
	assert.Equal(t, "Gaseosas", got.Subcategory, "campo ausente debe conservar su valor")
	assert.Equal(t, t0.Add(time.Minute), got.UpdatedAt)
}

func TestReconcile_AislamientoEntreEmpresas(t *testing.T) {
	s := newFakeStore()
	a, _ := reconcile(t, s, companyA, fixedID, categoryPatch{Name: str("De A")}, t0)
	b, outcome := reconcile(t, s, companyB, fixedID, categoryPatch{Name: str("De B")}, t0)

	assert.Equal(t, upsert.Created, outcome, "UUID de otra empresa se trata como inexistente")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, companyB, b.CompanyID)
	assert.Equal(t, "De A", s.rows[key{companyA, fixedID}].Name, "la fila de A no debe mutar")
}

func TestReconcile_InsercionSinCamposRequeridos(t *testing.T) {
	s := newFakeStore()
	_, _, err := upsert.Reconcile[entity.Category](context.Background(), s, companyA, fixedID, categoryPatch{}, t0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.rows)
}

func TestReconcile_UUIDMalFormado(t *testing.T) {
	s := newFakeStore()
	_, _, err := upsert.Reconcile[entity.Category](context.Background(), s, companyA, "no-es-uuid", categoryPatch{Name: str("x")}, t0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReconcile_CarreraDeInsercionTerminaEnMerge(t *testing.T) {
	s := newFakeStore()
	winner := &entity.Category{Name: "Ganador", Subcategory: "Concurrente"}
	winner.Stamp(companyA, fixedID, t0)
	s.raceOnInsert = winner

	got, outcome := reconcile(t, s, companyA, fixedID, categoryPatch{Name: str("Perdedor")}, t0)

	assert.Equal(t, upsert.Updated, outcome)
	assert.Len(t, s.rows, 1)
	assert.Equal(t, "Perdedor", got.Name)
	assert.Equal(t, "Concurrente", got.Subcategory, "el merge parte de la fila ganadora")
}

func TestReconcile_UUIDSeNormaliza(t *testing.T) {
	s := newFakeStore()
	upper := "5F0C6F7E-8A7B-4D0E-9A55-1D2B3C4D5E6F"
	reconcile(t, s, companyA, upper, categoryPatch{Name: str("x")}, t0)
	_, outcome := reconcile(t, s, companyA, fixedID, categoryPatch{Name: str("y")}, t0)
	assert.Equal(t, upsert.Updated, outcome)
}
