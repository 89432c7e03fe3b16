package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

type companyService interface {
	Get(ctx context.Context, companyID int64) (*entity.Company, error)
	Update(ctx context.Context, actor entity.Identity, in dto.UpdateCompanyRequest) (*entity.Company, error)
}

// CompanyHandler perfil de la empresa del llamador.
type CompanyHandler struct {
	uc  companyService
	log *logger.Logger
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc companyService, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Perfil de la empresa
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Company
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil de la empresa
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateCompanyRequest  true  "campos a modificar"
// @Success      200   {object}  entity.Company
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/company [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
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
