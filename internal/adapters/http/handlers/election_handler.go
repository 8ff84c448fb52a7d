package handlers

import (
	"errors"
	"strconv"

	"maha-evoting/internal/adapters/http/middleware"
	"maha-evoting/internal/core/domain"
	"maha-evoting/internal/core/services"
	"maha-evoting/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ElectionHandler handles election endpoints
type ElectionHandler struct {
	electionService *services.ElectionService
}

// NewElectionHandler creates a new election handler
func NewElectionHandler(electionService *services.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		electionService: electionService,
	}
}

// electionError maps engine errors to HTTP responses. Conflicts that
// mean "this already happened" get 409 so clients don't retry; guard
// failures on state or eligibility get 400.
func electionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrElectionNotFound):
		return response.NotFound(c, "Election not found")
	case errors.Is(err, domain.ErrCandidateNotFound):
		return response.NotFound(c, "Candidate not found")
	case errors.Is(err, domain.ErrVoterNotFound):
		return response.NotFound(c, "Voter not found – sync first")
	case errors.Is(err, domain.ErrAlreadyVoted):
		return response.Conflict(c, "Already voted")
	case errors.Is(err, domain.ErrElectionCompleted):
		return response.Conflict(c, "Election already completed")
	case errors.Is(err, domain.ErrElectionNotActive):
		return response.BadRequest(c, "Election is not active")
	case errors.Is(err, domain.ErrDistrictMismatch):
		return response.BadRequest(c, "Cannot vote in this election")
	case errors.Is(err, domain.ErrNotUpcoming):
		return response.BadRequest(c, "Election is not upcoming")
	case errors.Is(err, domain.ErrNoCandidates):
		return response.BadRequest(c, "No candidates found")
	case errors.Is(err, domain.ErrProfileIncomplete):
		return response.Forbidden(c, "Complete your profile first")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Server error")
	}
}

func parseElectionID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	return uint(id), err
}

// Create creates a new election
// @Summary Create election
// @Description Create a new election in the upcoming state (Admin only)
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateElectionInput true "Election data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /elections [post]
func (h *ElectionHandler) Create(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CreateElectionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	election, err := h.electionService.Create(c.Context(), caller, &req)
	if err != nil {
		return electionError(c, err)
	}

	return response.Created(c, "Election created successfully", fiber.Map{
		"election": election,
	})
}

// Update edits an election
// @Summary Update election
// @Description Update a non-completed election (Admin only)
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param body body services.UpdateElectionInput true "Election data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id} [put]
func (h *ElectionHandler) Update(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	var req services.UpdateElectionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	election, err := h.electionService.Update(c.Context(), caller, id, &req)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Election updated successfully", fiber.Map{
		"election": election,
	})
}

// Delete removes an election
// @Summary Delete election
// @Description Delete an election (Admin only)
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id} [delete]
func (h *ElectionHandler) Delete(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	if err := h.electionService.Delete(c.Context(), caller, id); err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Election deleted successfully", nil)
}

// AddCandidate adds a candidate to an election
// @Summary Add candidate
// @Description Add a candidate to a non-completed election (Admin only)
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param body body services.AddCandidateInput true "Candidate data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/candidates [post]
func (h *ElectionHandler) AddCandidate(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	var req services.AddCandidateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	election, err := h.electionService.AddCandidate(c.Context(), caller, id, &req)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Candidate added successfully", fiber.Map{
		"election": election,
	})
}

// UpdateCandidate edits a candidate
// @Summary Update candidate
// @Description Update a candidate in a non-completed election (Admin only)
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidate_id path string true "Candidate ID"
// @Param body body services.UpdateCandidateInput true "Candidate data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/candidates/{candidate_id} [put]
func (h *ElectionHandler) UpdateCandidate(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	var req services.UpdateCandidateInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	election, err := h.electionService.UpdateCandidate(c.Context(), caller, id, c.Params("candidate_id"), &req)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Candidate updated successfully", fiber.Map{
		"election": election,
	})
}

// DeleteCandidate removes a candidate
// @Summary Delete candidate
// @Description Remove a candidate from a non-completed election (Admin only)
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidate_id path string true "Candidate ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/candidates/{candidate_id} [delete]
func (h *ElectionHandler) DeleteCandidate(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	if err := h.electionService.DeleteCandidate(c.Context(), caller, id, c.Params("candidate_id")); err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Candidate deleted successfully", nil)
}

// Activate transitions an election to active
// @Summary Activate election
// @Description Activate an upcoming election (Admin only)
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id}/activate [put]
func (h *ElectionHandler) Activate(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	election, err := h.electionService.Activate(c.Context(), caller, id)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Election activated!", fiber.Map{
		"election": election,
	})
}

// DeclareResult declares the election winner
// @Summary Declare result
// @Description Compute the winner and complete the election (Admin only)
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/declare-winner [put]
func (h *ElectionHandler) DeclareResult(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	result, err := h.electionService.DeclareResult(c.Context(), caller, id)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Election result declared successfully", fiber.Map{
		"election": result.Election,
		"winner":   result.Winner,
	})
}

// VoteRequest represents a vote request body
type VoteRequest struct {
	CandidateID string `json:"candidateId"`
}

// CastVote casts the caller's vote
// @Summary Cast vote
// @Description Cast a vote in an active election (Voter only)
// @Tags Elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param body body VoteRequest true "Vote data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /elections/{id}/vote [post]
func (h *ElectionHandler) CastVote(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	var req VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CandidateID == "" {
		return response.BadRequest(c, "candidateId is required")
	}

	if err := h.electionService.CastVote(c.Context(), caller, id, req.CandidateID); err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Vote cast successfully", fiber.Map{
		"success": true,
	})
}

// List lists all elections
// @Summary List elections
// @Description List all elections, newest first
// @Tags Elections
// @Produce json
// @Success 200 {object} response.Response
// @Router /elections [get]
func (h *ElectionHandler) List(c *fiber.Ctx) error {
	elections, err := h.electionService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list elections")
	}

	return response.Success(c, "Elections retrieved successfully", elections)
}

// ListLive lists live elections
// @Summary List live elections
// @Description List active elections inside their voting window
// @Tags Elections
// @Produce json
// @Success 200 {object} response.Response
// @Router /elections/live [get]
func (h *ElectionHandler) ListLive(c *fiber.Ctx) error {
	elections, err := h.electionService.ListLive(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list live elections")
	}

	return response.Success(c, "Live elections retrieved successfully", elections)
}

// MyElection returns the live election for the caller's district
// @Summary My election
// @Description Get the live election for the caller's district, if any
// @Tags Elections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/my-election [get]
func (h *ElectionHandler) MyElection(c *fiber.Ctx) error {
	caller, ok := middleware.CallerFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	election, err := h.electionService.MyElection(c.Context(), caller)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Election retrieved successfully", fiber.Map{
		"election": election,
	})
}

// GetByID gets an election by ID
// @Summary Get election
// @Description Get a single election with its candidates
// @Tags Elections
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /elections/{id} [get]
func (h *ElectionHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseElectionID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid election ID")
	}

	election, err := h.electionService.GetByID(c.Context(), id)
	if err != nil {
		return electionError(c, err)
	}

	return response.Success(c, "Election retrieved successfully", fiber.Map{
		"election": election,
	})
}
