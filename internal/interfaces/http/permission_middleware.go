package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// permissionGate es el contrato mínimo del middleware. Lo implementa *access.Gate.
type permissionGate interface {
	Authorize(ctx context.Context, role string, companyID int64, required rbac.Permission) (access.Decision, error)
}

// RequirePermission devuelve un middleware Fiber que exige required al rol del llamador en su
// empresa. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 si no hay identidad en el contexto.
//   - 403 FORBIDDEN (o NO_ROLE) con el permiso requerido y el rol.
//   - 503 Service Unavailable si no se pudo leer el almacén de permisos.
func RequirePermission(gate permissionGate, required rbac.Permission, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "identidad no encontrada en el contexto",
			})
		}

		d, err := gate.Authorize(c.UserContext(), id.Role, id.CompanyID, required)
		if err != nil {
			log.Error().Err(err).Int64("company_id", id.CompanyID).Str("required", string(required)).Msg("verificación de permisos")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PERMISSION_CHECK_FAILED",
				Message: "no se pudo verificar el permiso, intente más tarde",
			})
		}

		if !d.Allowed {
			code, msg := "FORBIDDEN", "el rol '"+d.Role+"' no tiene el permiso "+string(required)
			if d.Reason == access.NoRole {
				code, msg = "NO_ROLE", "el empleado no tiene rol asignado"
			}
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:     code,
				Message:  msg,
				Required: string(required),
				Role:     d.Role,
			})
		}

		return c.Next()
	}
}
