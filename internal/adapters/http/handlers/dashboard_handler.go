package handlers

import (
	"maha-evoting/internal/core/services"
	"maha-evoting/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles admin dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Overview returns aggregated platform statistics
// @Summary Dashboard overview
// @Description Get aggregate election statistics for the admin dashboard (Admin only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	data, err := h.dashboardService.Overview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard overview")
	}

	return response.Success(c, "Dashboard overview retrieved successfully", data)
}
