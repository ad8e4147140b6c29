package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docuflow-api/internal/observability/metrics"
)

// MetricsMiddleware registra conteo y duración de cada request. Usa la ruta
// registrada (no el path crudo) para acotar la cardinalidad de labels.
func MetricsMiddleware(m *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		m.HTTPRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
