package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/syncdelta"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

// syncer lo implementa *syncdelta.Engine.
type syncer interface {
	Sync(ctx context.Context, id entity.Identity, watermark *time.Time) (*syncdelta.Delta, error)
}

// SyncHandler delta de sincronización offline.
type SyncHandler struct {
	engine syncer
	log    *logger.Logger
}

// NewSyncHandler construye el handler.
func NewSyncHandler(engine syncer, log *logger.Logger) *SyncHandler {
	return &SyncHandler{engine: engine, log: log}
}

// Sync godoc
// @Summary      Cambios desde la última sincronización
// @Description  lastSyncTime nulo o ausente devuelve una copia completa. Incluye filas eliminadas
// @Description  lógicamente; solo las colecciones que el rol puede ver traen datos.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncRequest  false  "marca de agua"
// @Success      200   {object}  dto.SyncResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Sync(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	id, _ := GetIdentity(c)
	delta, err := h.engine.Sync(c.UserContext(), id, in.Since())
	if err != nil {
		return writeError(c, h.log, err)
	}
	kinds := syncdelta.AllKinds()
	updates := make(map[string]any, len(kinds))
	for _, kind := range kinds {
		if rows, ok := delta.Updates[kind]; ok {
			updates[string(kind)] = rows
		}
	}
	return c.JSON(dto.SyncResponse{ServerTime: delta.ServerTime, Updates: updates})
}
