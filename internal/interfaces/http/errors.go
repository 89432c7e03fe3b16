package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// errorMapping traduce un error de dominio a status y código. El orden importa:
// InvalidReferencesError también es ErrInvalidInput.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrMissingCredential, fiber.StatusUnauthorized, "MISSING_TOKEN"},
	{domain.ErrInvalidCredential, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrUnknownIdentity, fiber.StatusUnauthorized, "UNKNOWN_IDENTITY"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrProtectedRole, fiber.StatusForbidden, "PROTECTED_ROLE"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
}

// writeError responde el error con su status; lo no reconocido es 500 y se registra.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var refs *domain.InvalidReferencesError
	if errors.As(err, &refs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:        "INVALID_REFERENCE",
			Message:     refs.Error(),
			InvalidRefs: refs.UUIDs,
			RefField:    refs.Field,
		})
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

// ErrorHandler para fiber.Config: errores que escapan de los handlers (404 de rutas, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_" + statusCode(fe.Code), Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
