package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// LocalIdentity key de c.Locals con la entity.Identity del llamador.
const LocalIdentity = "identity"

// HeaderAuthToken cabecera alternativa a Authorization usada por los clientes POS.
const HeaderAuthToken = "x-auth-token"

// identityResolver lo implementa *auth.Resolver.
type identityResolver interface {
	Resolve(ctx context.Context, token string) (entity.Identity, error)
}

// AuthMiddleware resuelve la credencial a una identidad activa (empleado + empresa) y la deja
// en c.Locals. La empresa y el rol se leen de la base en cada petición.
func AuthMiddleware(resolver identityResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := resolver.Resolve(c.UserContext(), credential(c))
		if err != nil {
			return writeError(c, log, err)
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// credential extrae el token de "Authorization: Bearer <token>" o, si no viene, de x-auth-token.
func credential(c *fiber.Ctx) string {
	if h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		// Authorization sin esquema Bearer: se trata como token crudo y el verificador decide.
		return h
	}
	return strings.TrimSpace(c.Get(HeaderAuthToken))
}

// GetIdentity devuelve la identidad del contexto (después de AuthMiddleware).
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(entity.Identity)
	return id, ok
}

// GetCompanyID devuelve el ID interno de la empresa del llamador, 0 si no hay identidad.
func GetCompanyID(c *fiber.Ctx) int64 {
	id, _ := GetIdentity(c)
	return id.CompanyID
}

// GetRole devuelve el rol del llamador, "" si no hay identidad.
func GetRole(c *fiber.Ctx) string {
	id, _ := GetIdentity(c)
	return id.Role
}
