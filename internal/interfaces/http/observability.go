package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/backoffice-api/pkg/logger"
	"github.com/jhoicas/backoffice-api/pkg/metrics"
)

// Observe registra latencia y status de cada petición (métricas + access log).
// La ruta se etiqueta con su plantilla (/api/products/:uuid) para acotar la cardinalidad.
func Observe(m *metrics.Metrics, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		// Las etiquetas quedan retenidas en el registro: el método se copia fuera del buffer de fasthttp.
		m.ObserveHTTP(utils.CopyString(c.Method()), c.Route().Path, strconv.Itoa(status), elapsed)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Int64("company_id", GetCompanyID(c)).
			Str("role", GetRole(c)).
			Msg("http")
		return err
	}
}
