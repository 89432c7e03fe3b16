package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

func newEmployeeReq(email string) dto.EmployeeRequest {
	return dto.EmployeeRequest{
		Name:     ptr("Ana Pérez"),
		Email:    ptr(email),
		Password: ptr("secreta123"),
	}
}

func TestEmployee_CreateHashesPassword(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	e, _, err := NewEmployeeUseCase(d).Save(context.Background(), adminA, newEmployeeReq("Ana@Tienda.com"))
	require.NoError(t, err)

	assert.Equal(t, "ana@tienda.com", e.Email, "el email se normaliza")
	assert.Equal(t, entity.RoleEmployee, e.Role, "rol por defecto")
	assert.NotEqual(t, "secreta123", e.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte("secreta123")))
}

func TestEmployee_PasswordRequiredOnInsert(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	req := newEmployeeReq("sin.clave@tienda.com")
	req.Password = nil
	_, _, err := NewEmployeeUseCase(d).Save(context.Background(), adminA, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmployee_EmailConflict(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewEmployeeUseCase(d)
	ctx := context.Background()

	_, _, err := uc.Save(ctx, adminA, newEmployeeReq("caja@tienda.com"))
	require.NoError(t, err)
	_, _, err = uc.Save(ctx, adminB, newEmployeeReq("CAJA@tienda.com"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists, "el email es único entre empresas")
}

func TestEmployee_RoleRules(t *testing.T) {
	d, st := testDeps(upsert.Strict)
	uc := NewEmployeeUseCase(d)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   entity.Identity
		role    string
		wantErr error
	}{
		{name: "manager no asigna admin", actor: managerA, role: entity.RoleAdmin, wantErr: domain.ErrForbidden},
		{name: "admin asigna admin", actor: adminA, role: entity.RoleAdmin},
		{name: "rol por defecto", actor: managerA, role: entity.RoleCashier},
		{name: "rol desconocido", actor: adminA, role: "bodeguero", wantErr: domain.ErrInvalidInput},
		{name: "rol configurado", actor: adminA, role: "supervisor"},
	}

	require.NoError(t, st.Run(ctx, func(r repository.Registry) error {
		return r.RolePermissions().Replace(ctx, adminA.CompanyID, "supervisor", []string{"VIEW_DASHBOARD"}, time.Now())
	}))

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newEmployeeReq(tt.role + string(rune('a'+i)) + "@tienda.com")
			req.Role = ptr(tt.role)
			e, _, err := uc.Save(ctx, tt.actor, req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, e.Role)
		})
	}
}

func TestEmployee_ManagerCannotEditAdmin(t *testing.T) {
	d, _ := testDeps(upsert.Strict)
	uc := NewEmployeeUseCase(d)
	ctx := context.Background()

	req := newEmployeeReq("jefe@tienda.com")
	req.Role = ptr(entity.RoleAdmin)
	boss, _, err := uc.Save(ctx, adminA, req)
	require.NoError(t, err)

	_, err = uc.Modify(ctx, managerA, boss.UUID, dto.EmployeeRequest{Phone: ptr("300")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Delete(ctx, managerA, boss.UUID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEmployee_OwnerIsProtected(t *testing.T) {
	d, st := testDeps(upsert.Strict)
	ctx := context.Background()

	owner := &entity.Employee{Name: "Dueña", Email: "duena@tienda.com", Role: entity.RoleAdmin, IsOwner: true}
	owner.Stamp(adminA.CompanyID, adminA.EmployeeUUID, time.Now())
	require.NoError(t, st.Run(ctx, func(r repository.Registry) error {
		_, err := r.Employees().InsertIfAbsent(ctx, owner)
		return err
	}))

	uc := NewEmployeeUseCase(d)
	_, err := uc.Modify(ctx, adminA, owner.UUID, dto.EmployeeRequest{Role: ptr(entity.RoleManager)})
	assert.ErrorIs(t, err, domain.ErrConflict, "el propietario no puede degradarse")

	_, err = uc.Delete(ctx, adminA, owner.UUID)
	assert.ErrorIs(t, err, domain.ErrConflict, "el propietario no puede eliminarse")

	renamed, err := uc.Modify(ctx, adminA, owner.UUID, dto.EmployeeRequest{Name: ptr("Dueña Actual")})
	require.NoError(t, err)
	assert.Equal(t, "Dueña Actual", renamed.Name)
	assert.True(t, renamed.IsOwner)
}
