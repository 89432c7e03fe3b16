package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

type profileService interface {
	Get(ctx context.Context, actor entity.Identity) (*dto.ProfileResponse, error)
	Update(ctx context.Context, actor entity.Identity, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

// ProfileHandler perfil propio del empleado autenticado.
type ProfileHandler struct {
	uc  profileService
	log *logger.Logger
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc profileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Perfil propio
// @Tags         profile
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil propio
// @Description  Cualquier empleado puede cambiar sus datos y su contraseña. Los campos de empresa requieren MANAGE_COMPANY.
// @Tags         profile
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
