package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Info godoc
// @Summary Service metadata
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /info [get]
func (h *HealthHandler) Info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "masarif",
		"version": h.version,
	})
}
