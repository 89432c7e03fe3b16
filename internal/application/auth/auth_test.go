package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/usecase"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/backoffice-api/pkg/jwt"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

const (
	testSecret = "secreto-de-pruebas"
	testIssuer = "backoffice-api"
)

func init() {
	usecase.PasswordCost = bcrypt.MinCost
}

type fixture struct {
	store    *memory.Store
	uc       *AuthUseCase
	resolver *Resolver
}

func newFixture() fixture {
	st := memory.New()
	svc := access.NewService(st.Registry().RolePermissions(), st, logger.Nop())
	cfg := JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer}
	return fixture{
		store:    st,
		uc:       NewAuthUseCase(st.Registry(), st, svc, cfg, logger.Nop()),
		resolver: NewResolver(jwt.NewVerifier(testSecret, testIssuer), st.Registry().Employees(), logger.Nop(), nil),
	}
}

func signupReq(email string) dto.SignupRequest {
	return dto.SignupRequest{BusinessName: "Tienda Sol", Name: "Marta", Email: email, Password: "clave-segura"}
}

// ─── Signup / Login ──────────────────────────────────────────────────────────

func TestSignup_CreatesCompanyAndOwner(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Signup(context.Background(), signupReq("Marta@Sol.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Tienda Sol", resp.Company.BusinessName)
	assert.Equal(t, entity.RoleAdmin, resp.Employee.Role)
	assert.True(t, resp.Employee.IsOwner)
	assert.Equal(t, resp.Company.ID, resp.Employee.CompanyID)
	assert.Equal(t, "marta@sol.com", resp.Employee.Email)

	subject, err := jwt.Parse(testSecret, testIssuer, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Employee.UUID, subject, "el subject es el UUID del empleado")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.uc.Signup(ctx, signupReq("marta@sol.com"))
	require.NoError(t, err)

	_, err = f.uc.Signup(ctx, signupReq("MARTA@sol.com"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Signup(ctx, signupReq("marta@sol.com"))
	require.NoError(t, err)

	resp, err := f.uc.Login(ctx, dto.LoginRequest{Email: "marta@sol.com", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, created.Employee.UUID, resp.Employee.UUID)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "marta@sol.com", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "nadie@sol.com", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestMe_ReturnsEffectivePermissions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Signup(ctx, signupReq("marta@sol.com"))
	require.NoError(t, err)

	id, err := f.resolver.Resolve(ctx, created.Token)
	require.NoError(t, err)

	me, err := f.uc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, created.Employee.UUID, me.Employee.UUID)
	assert.Len(t, me.Permissions, len(rbac.Catalog()))
}

// ─── Resolver ────────────────────────────────────────────────────────────────

func TestResolver_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Signup(ctx, signupReq("marta@sol.com"))
	require.NoError(t, err)

	id, err := f.resolver.Resolve(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.Employee.ID, id.EmployeeID)
	assert.Equal(t, created.Employee.UUID, id.EmployeeUUID)
	assert.Equal(t, created.Company.ID, id.CompanyID)
	assert.Equal(t, entity.RoleAdmin, id.Role)
	assert.True(t, id.IsOwner)
}

func TestResolver_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Signup(ctx, signupReq("marta@sol.com"))
	require.NoError(t, err)

	mustToken := func(subject string) string {
		tok, err := jwt.Generate(testSecret, subject, testIssuer, 5)
		require.NoError(t, err)
		return tok
	}
	forged, err := jwt.Generate("otro-secreto", created.Employee.UUID, testIssuer, 5)
	require.NoError(t, err)
	expired, err := jwt.Generate(testSecret, created.Employee.UUID, testIssuer, -1)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "sin token", token: "  ", wantErr: domain.ErrMissingCredential},
		{name: "basura", token: "no-es-un-jwt", wantErr: domain.ErrInvalidCredential},
		{name: "firma ajena", token: forged, wantErr: domain.ErrInvalidCredential},
		{name: "expirado", token: expired, wantErr: domain.ErrInvalidCredential},
		{name: "subject numérico", token: mustToken("42"), wantErr: domain.ErrUnknownIdentity},
		{name: "empleado inexistente", token: mustToken(uuid.NewString()), wantErr: domain.ErrUnknownIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.Resolve(ctx, tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolver_DeletedEmployeeOrCompany(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.Signup(ctx, signupReq("marta@sol.com"))
	require.NoError(t, err)

	require.NoError(t, f.store.Run(ctx, func(r repository.Registry) error {
		c, err := r.Companies().GetByID(ctx, created.Company.ID)
		if err != nil {
			return err
		}
		c.IsDeleted = true
		c.UpdatedAt = time.Now()
		return r.Companies().Update(ctx, c)
	}))
	_, err = f.resolver.Resolve(ctx, created.Token)
	assert.ErrorIs(t, err, domain.ErrUnknownIdentity, "empresa eliminada")

	other, err := f.uc.Signup(ctx, signupReq("luis@luna.com"))
	require.NoError(t, err)
	require.NoError(t, f.store.Run(ctx, func(r repository.Registry) error {
		e, err := r.Employees().LockByUUID(ctx, other.Company.ID, other.Employee.UUID)
		if err != nil {
			return err
		}
		e.IsDeleted = true
		e.Touch(time.Now())
		return r.Employees().Update(ctx, e)
	}))
	_, err = f.resolver.Resolve(ctx, other.Token)
	assert.ErrorIs(t, err, domain.ErrUnknownIdentity, "empleado eliminado")
}
