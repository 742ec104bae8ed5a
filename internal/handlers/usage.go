package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmalone/crossprep/internal/models"
	"github.com/dmalone/crossprep/internal/services"
)

// UsageHandler exposes the usage ledger and the demo identity
type UsageHandler struct {
	ledger   *services.Ledger
	limits   *services.LimitEvaluator
	identity *models.Identity
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(ledger *services.Ledger, limits *services.LimitEvaluator, identity *models.Identity) *UsageHandler {
	return &UsageHandler{ledger: ledger, limits: limits, identity: identity}
}

// GetUsage returns the current window's usage and remaining headroom
// @Summary Get usage for the current window
// @Tags usage
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /v1/usage [get]
func (h *UsageHandler) GetUsage(c *fiber.Ctx) error {
	stats := h.ledger.Stats()
	return c.JSON(fiber.Map{
		"usage":     stats,
		"cost":      h.limits.CheckCost(0),
		"documents": h.limits.CheckDocuments(0),
	})
}

// GetIdentity returns the anonymous install identity
// @Summary Get the demo identity
// @Tags usage
// @Produce json
// @Success 200 {object} models.Identity
// @Router /v1/identity [get]
func (h *UsageHandler) GetIdentity(c *fiber.Ctx) error {
	return c.JSON(h.identity)
}

// Health is the liveness probe
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *UsageHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
