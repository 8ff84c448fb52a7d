package handlers

import (
	"maha-evoting/internal/core/services"
	"maha-evoting/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ResultHandler handles public result endpoints
type ResultHandler struct {
	dashboardService *services.DashboardService
}

// NewResultHandler creates a new result handler
func NewResultHandler(dashboardService *services.DashboardService) *ResultHandler {
	return &ResultHandler{
		dashboardService: dashboardService,
	}
}

// List returns declared election results
// @Summary List results
// @Description List completed elections with declared winners, newest first
// @Tags Results
// @Produce json
// @Success 200 {object} response.Response
// @Router /results/declared [get]
func (h *ResultHandler) List(c *fiber.Ctx) error {
	elections, err := h.dashboardService.DeclaredResults(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list results")
	}

	return response.Success(c, "Results retrieved successfully", elections)
}
