package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/pkg/validator"
)

// bind parsea el cuerpo JSON en dst y lo valida. Si responde, devuelve ok=false y el error de
// escritura; el handler debe retornar inmediatamente.
func bind(c *fiber.Ctx, dst any) (bool, error) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(dst); err != nil {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if errs := validator.ValidateStruct(dst); len(errs) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validator.Summary(errs),
			Fields:  errs,
		})
	}
	return true, nil
}

// updatedSince lee ?updatedSince=RFC3339. Ausente → nil.
func updatedSince(c *fiber.Ctx) (*time.Time, bool, error) {
	raw := c.Query("updatedSince")
	if raw == "" {
		return nil, true, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "updatedSince debe ser una fecha RFC3339",
		})
	}
	return &t, true, nil
}

func statusCode(status int) string {
	return strconv.Itoa(status)
}
