package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/upsert"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// resourceService lo implementan los casos de uso construidos sobre usecase.Resource.
type resourceService[E any, R any] interface {
	List(ctx context.Context, companyID int64, since *time.Time) ([]*E, error)
	Get(ctx context.Context, companyID int64, id string) (*E, error)
	Save(ctx context.Context, actor entity.Identity, in R) (*E, upsert.Outcome, error)
	Modify(ctx context.Context, actor entity.Identity, id string, in R) (*E, error)
	Delete(ctx context.Context, actor entity.Identity, id string) (*E, error)
}

// ResourceHandler CRUD HTTP de un recurso sincronizable: E es la entidad y R el payload.
type ResourceHandler[E any, R any] struct {
	svc resourceService[E, R]
	log *logger.Logger
}

// NewResourceHandler construye el handler.
func NewResourceHandler[E any, R any](svc resourceService[E, R], log *logger.Logger) *ResourceHandler[E, R] {
	return &ResourceHandler[E, R]{svc: svc, log: log}
}

// List GET /: filas no eliminadas, opcionalmente ?updatedSince=RFC3339.
func (h *ResourceHandler[E, R]) List(c *fiber.Ctx) error {
	since, ok, err := updatedSince(c)
	if !ok {
		return err
	}
	out, err := h.svc.List(c.UserContext(), GetCompanyID(c), since)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewList(out))
}

// Get GET /:uuid.
func (h *ResourceHandler[E, R]) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), GetCompanyID(c), c.Params("uuid"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Upsert POST /: sin uuid crea; con uuid actualiza si existe en la empresa o crea con ese uuid.
// 201 si creó, 200 si actualizó.
func (h *ResourceHandler[E, R]) Upsert(c *fiber.Ctx) error {
	var in R
	if ok, err := bind(c, &in); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	out, outcome, err := h.svc.Save(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	status := fiber.StatusOK
	if outcome == upsert.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Update PUT /:uuid: actualización parcial; 404 si no existe.
func (h *ResourceHandler[E, R]) Update(c *fiber.Ctx) error {
	var in R
	if ok, err := bind(c, &in); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	out, err := h.svc.Modify(c.UserContext(), id, c.Params("uuid"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /:uuid: borrado lógico; devuelve la fila marcada.
func (h *ResourceHandler[E, R]) Delete(c *fiber.Ctx) error {
	id, _ := GetIdentity(c)
	out, err := h.svc.Delete(c.UserContext(), id, c.Params("uuid"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Mount registra las rutas CRUD en r: lectura con view, escritura con manage.
func (h *ResourceHandler[E, R]) Mount(r fiber.Router, view, manage fiber.Handler) {
	r.Get("/", view, h.List)
	r.Get("/:uuid", view, h.Get)
	h.MountWrites(r, manage)
}

// MountWrites registra solo POST, PUT y DELETE.
func (h *ResourceHandler[E, R]) MountWrites(r fiber.Router, manage fiber.Handler) {
	r.Post("/", manage, h.Upsert)
	r.Put("/:uuid", manage, h.Update)
	r.Delete("/:uuid", manage, h.Delete)
}
