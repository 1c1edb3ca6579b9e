package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-graph-importer/internal/application/dto"
)

// RequireFeature responde 503 FEATURE_DISABLED si la dependencia opcional no está configurada
// (por ejemplo el historial sin base de datos).
func RequireFeature(name string, enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "'" + name + "' no está habilitado en este despliegue",
			})
		}
		return c.Next()
	}
}
