package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	apphttp "github.com/jhoicas/backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

// stubResolver acepta un único token y devuelve la identidad configurada.
type stubResolver struct {
	token string
	id    entity.Identity
}

func (s stubResolver) Resolve(_ context.Context, token string) (entity.Identity, error) {
	switch token {
	case "":
		return entity.Identity{}, domain.ErrMissingCredential
	case s.token:
		return s.id, nil
	default:
		return entity.Identity{}, domain.ErrInvalidCredential
	}
}

// stubGate concede solo los permisos de perms; err simula caída del almacén.
type stubGate struct {
	perms rbac.Set
	err   error
}

func (g stubGate) Authorize(_ context.Context, role string, _ int64, required rbac.Permission) (access.Decision, error) {
	if g.err != nil {
		return access.Decision{}, g.err
	}
	d := access.Decision{Required: required, Role: role}
	switch {
	case role == "":
		d.Reason = access.NoRole
	case !g.perms.Has(required):
		d.Reason = access.InsufficientPermission
	default:
		d.Allowed = true
	}
	return d, nil
}

const stubToken = "token-valido"

var cashier = entity.Identity{EmployeeID: 7, EmployeeUUID: "00000000-0000-0000-0000-000000000007", CompanyID: 3, Role: entity.RoleCashier}

// buildTestApp monta una ruta protegida por AuthMiddleware + RequirePermission(required).
func buildTestApp(id entity.Identity, gate stubGate, required rbac.Permission) *fiber.App {
	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Get("/protected",
		apphttp.AuthMiddleware(stubResolver{token: stubToken, id: id}, log),
		apphttp.RequirePermission(gate, required, log),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"ok":        true,
				"role":      apphttp.GetRole(c),
				"companyId": apphttp.GetCompanyID(c),
			})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, headers map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "la respuesta debe ser JSON: %s", raw)
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Credentials(t *testing.T) {
	app := buildTestApp(cashier, stubGate{perms: rbac.NewSet(rbac.ViewProducts)}, rbac.ViewProducts)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{"sin credencial", nil, fiber.StatusUnauthorized, "MISSING_TOKEN"},
		{"bearer inválido", map[string]string{"Authorization": "Bearer otro"}, fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"bearer válido", map[string]string{"Authorization": "Bearer " + stubToken}, fiber.StatusOK, ""},
		{"esquema en minúsculas", map[string]string{"Authorization": "bearer " + stubToken}, fiber.StatusOK, ""},
		{"authorization crudo", map[string]string{"Authorization": stubToken}, fiber.StatusOK, ""},
		{"x-auth-token", map[string]string{apphttp.HeaderAuthToken: stubToken}, fiber.StatusOK, ""},
		{"authorization tiene prioridad", map[string]string{"Authorization": "Bearer otro", apphttp.HeaderAuthToken: stubToken}, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := doRequest(t, app, tc.headers)
			assert.Equal(t, tc.wantStatus, status)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, body["code"])
				return
			}
			assert.Equal(t, entity.RoleCashier, body["role"])
			assert.EqualValues(t, 3, body["companyId"])
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_Denied(t *testing.T) {
	app := buildTestApp(cashier, stubGate{perms: rbac.NewSet(rbac.ViewProducts)}, rbac.ManageEmployees)

	status, body := doRequest(t, app, map[string]string{"Authorization": "Bearer " + stubToken})

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.Equal(t, string(rbac.ManageEmployees), body["required"], "la respuesta nombra el permiso faltante")
	assert.Equal(t, entity.RoleCashier, body["role"])
}

func TestRequirePermission_NoRole(t *testing.T) {
	sinRol := cashier
	sinRol.Role = ""
	app := buildTestApp(sinRol, stubGate{perms: rbac.NewSet(rbac.ViewProducts)}, rbac.ViewProducts)

	status, body := doRequest(t, app, map[string]string{"Authorization": "Bearer " + stubToken})

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "NO_ROLE", body["code"])
	assert.Equal(t, string(rbac.ViewProducts), body["required"])
}

func TestRequirePermission_StoreFailureIsNotADenial(t *testing.T) {
	app := buildTestApp(cashier, stubGate{err: errors.New("conexión rechazada")}, rbac.ViewProducts)

	status, body := doRequest(t, app, map[string]string{"Authorization": "Bearer " + stubToken})

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "PERMISSION_CHECK_FAILED", body["code"])
}

func TestRequirePermission_WithoutIdentity(t *testing.T) {
	log := logger.Nop()
	app := fiber.New()
	app.Get("/protected", apphttp.RequirePermission(stubGate{}, rbac.ViewProducts, log), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	status, body := doRequest(t, app, nil)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}
