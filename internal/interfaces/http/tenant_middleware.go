package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TenantMiddleware resuelve el tenant del request público por hostname.
// Permite el override con el header X-Tenant-Host (útil detrás de proxies y
// en desarrollo local). Deja el TenantID en c.Locals.
func TenantMiddleware(tenants repository.TenantRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hostname := c.Get("X-Tenant-Host")
		if hostname == "" {
			hostname = c.Hostname()
		}
		t, err := tenants.GetByHostname(c.Context(), hostname)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		if t == nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TENANT_NOT_FOUND", Message: "restaurante no registrado para " + hostname})
		}
		c.Locals(LocalTenantID, t.ID)
		return c.Next()
	}
}
