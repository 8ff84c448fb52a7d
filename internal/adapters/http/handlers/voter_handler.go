package handlers

import (
	"errors"

	"maha-evoting/internal/adapters/http/middleware"
	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/core/domain"
	"maha-evoting/internal/core/services"
	"maha-evoting/internal/pkg/pagination"
	"maha-evoting/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// VoterHandler handles voter endpoints
type VoterHandler struct {
	voterService *services.VoterService
}

// NewVoterHandler creates a new voter handler
func NewVoterHandler(voterService *services.VoterService) *VoterHandler {
	return &VoterHandler{
		voterService: voterService,
	}
}

func voterError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrVoterNotFound):
		return response.NotFound(c, "Voter not found – sync first")
	case errors.Is(err, domain.ErrProfileAlreadySet):
		return response.Conflict(c, "Profile already completed")
	case errors.Is(err, domain.ErrIdentityTaken):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Server error")
	}
}

// Sync upserts the caller's voter record
// @Summary Sync voter
// @Description Create or refresh the local voter record for the authenticated session
// @Tags Voters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/sync [post]
func (h *VoterHandler) Sync(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	voter, err := h.voterService.Sync(c.Context(), caller)
	if err != nil {
		return voterError(c, err)
	}

	return response.Success(c, "Voter synced successfully", fiber.Map{
		"user": voter.ToResponse(),
	})
}

// Me returns the caller's voter record
// @Summary Get profile
// @Description Get the authenticated voter's profile
// @Tags Voters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/me [get]
func (h *VoterHandler) Me(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	voter, err := h.voterService.Me(c.Context(), caller)
	if err != nil {
		return voterError(c, err)
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": voter.ToResponse(),
	})
}

// CompleteProfile submits the one-shot enrollment details
// @Summary Complete profile
// @Description Submit voter enrollment details; allowed exactly once
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CompleteProfileInput true "Profile data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/complete-profile [post]
func (h *VoterHandler) CompleteProfile(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CompleteProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	voter, err := h.voterService.CompleteProfile(c.Context(), caller, &req)
	if err != nil {
		return voterError(c, err)
	}

	return response.Success(c, "Profile completed successfully", fiber.Map{
		"user": voter.ToResponse(),
	})
}

// List lists registered voters
// @Summary List voters
// @Description List registered voters with pagination (Admin only)
// @Tags Voters
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *VoterHandler) List(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	voters, total, err := h.voterService.List(c.Context(), caller, params.Offset, params.Limit)
	if err != nil {
		return voterError(c, err)
	}

	responses := make([]*models.VoterResponse, 0, len(voters))
	for _, v := range voters {
		responses = append(responses, v.ToResponse())
	}

	return response.Success(c, "Voters retrieved successfully", pagination.NewResponse(responses, params, total))
}
