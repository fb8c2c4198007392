package handler

import (
	"go-slab-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetBatchSummary returns slab counts and area per grade
// GET /api/v1/batches/:batch/summary
func (h *DashboardHandler) GetBatchSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetBatchSummary(currentSession(c), c.Params("batch"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// GetDashboardStats returns overview statistics
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(currentSession(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
