package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/backoffice-api/internal/application/access"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/rbac"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// roleService lo implementa *access.Service.
type roleService interface {
	Definitions() []rbac.Definition
	ListRoles(ctx context.Context, companyID int64) ([]access.RoleInfo, error)
	RolePermissions(ctx context.Context, companyID int64, role string) (rbac.Set, bool, error)
	ReplacePermissions(ctx context.Context, actor entity.Identity, role string, keys []string) (rbac.Set, error)
	ResetPermissions(ctx context.Context, actor entity.Identity, role string) (rbac.Set, error)
}

// RoleHandler administración de permisos por rol de la empresa.
type RoleHandler struct {
	svc roleService
	log *logger.Logger
}

// NewRoleHandler construye el handler.
func NewRoleHandler(svc roleService, log *logger.Logger) *RoleHandler {
	return &RoleHandler{svc: svc, log: log}
}

// Definitions godoc
// @Summary      Catálogo de permisos
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  rbac.Definition
// @Router       /api/roles/definitions [get]
func (h *RoleHandler) Definitions(c *fiber.Ctx) error {
	return c.JSON(h.svc.Definitions())
}

// List godoc
// @Summary      Roles predefinidos y configurados por la empresa
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  access.RoleInfo
// @Router       /api/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.ListRoles(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Permissions godoc
// @Summary      Permisos efectivos de un rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        role  path  string  true  "nombre del rol"
// @Success      200   {object}  dto.RolePermissionsResponse
// @Router       /api/roles/{role}/permissions [get]
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	role := roleParam(c)
	set, configured, err := h.svc.RolePermissions(c.UserContext(), GetCompanyID(c), role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RolePermissionsResponse{Role: role, Configured: configured, Permissions: set.Strings()})
}

// Replace godoc
// @Summary      Reemplazar los permisos de un rol
// @Description  Un arreglo vacío deja al rol sin permisos. El rol admin no puede modificarse.
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        role  path  string  true  "nombre del rol"
// @Param        body  body  dto.ReplacePermissionsRequest  true  "permisos"
// @Success      200   {object}  dto.RolePermissionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/roles/{role}/permissions [put]
func (h *RoleHandler) Replace(c *fiber.Ctx) error {
	var in dto.ReplacePermissionsRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	role := roleParam(c)
	set, err := h.svc.ReplacePermissions(c.UserContext(), id, role, in.Permissions)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RolePermissionsResponse{Role: role, Configured: true, Permissions: set.Strings()})
}

// Reset godoc
// @Summary      Restablecer los permisos por defecto de un rol
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Param        role  path  string  true  "nombre del rol"
// @Success      200   {object}  dto.RolePermissionsResponse
// @Router       /api/roles/{role}/permissions [delete]
func (h *RoleHandler) Reset(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	role := roleParam(c)
	set, err := h.svc.ResetPermissions(c.UserContext(), id, role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RolePermissionsResponse{Role: role, Configured: false, Permissions: set.Strings()})
}

// roleParam copia el parámetro: c.Params apunta al buffer de fasthttp, que se reutiliza.
func roleParam(c *fiber.Ctx) string {
	return strings.ToLower(strings.TrimSpace(utils.CopyString(c.Params("role"))))
}
