package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/adapters/persistence/repositories"
	"maha-evoting/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ElectionService owns the election lifecycle: creation, candidate
// management, activation, vote casting and result declaration.
// Every operation takes an explicit domain.Caller; role guards run here
// as well as at the route layer.
type ElectionService struct {
	electionRepo repositories.ElectionRepository
	voterRepo    repositories.VoterRepository
	voteRepo     repositories.VoteRepository
}

// NewElectionService creates a new election service
func NewElectionService(
	electionRepo repositories.ElectionRepository,
	voterRepo repositories.VoterRepository,
	voteRepo repositories.VoteRepository,
) *ElectionService {
	return &ElectionService{
		electionRepo: electionRepo,
		voterRepo:    voterRepo,
		voteRepo:     voteRepo,
	}
}

// dateLayouts accepted for election start/end dates
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, value)
}

// CreateElectionInput represents create election input
type CreateElectionInput struct {
	Title     string `json:"title"`
	Region    string `json:"region"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Create creates a new election in the upcoming state with no candidates.
func (s *ElectionService) Create(ctx context.Context, caller domain.Caller, input *CreateElectionInput) (*models.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if input.Title == "" || input.Region == "" {
		return nil, fmt.Errorf("%w: title and region are required", domain.ErrInvalidInput)
	}

	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidInput)
	}

	createdByName := caller.Name
	if createdByName == "" {
		createdByName = "Admin"
	}

	election := &models.Election{
		Title:         input.Title,
		Region:        input.Region,
		StartDate:     start,
		EndDate:       end,
		Status:        models.ElectionUpcoming,
		CreatedBy:     caller.SubjectID,
		CreatedByName: createdByName,
	}

	if err := s.electionRepo.Create(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// UpdateElectionInput represents election edit input
type UpdateElectionInput struct {
	Title     string `json:"title"`
	Region    string `json:"region"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Update edits an election's descriptive fields. Rejected once the
// election is completed: the declared winner must keep reflecting the
// contest as it was declared.
func (s *ElectionService) Update(ctx context.Context, caller domain.Caller, id uint, input *UpdateElectionInput) (*models.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	election, err := s.getElection(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.IsCompleted() {
		return nil, domain.ErrElectionCompleted
	}

	if input.Title == "" || input.Region == "" {
		return nil, fmt.Errorf("%w: title and region are required", domain.ErrInvalidInput)
	}
	start, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidInput)
	}

	election.Title = input.Title
	election.Region = input.Region
	election.StartDate = start
	election.EndDate = end

	if err := s.electionRepo.Update(ctx, election); err != nil {
		return nil, err
	}
	return election, nil
}

// Delete soft deletes an election.
func (s *ElectionService) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	if _, err := s.getElection(ctx, id); err != nil {
		return err
	}
	return s.electionRepo.Delete(ctx, id)
}

// AddCandidateInput represents add candidate input
type AddCandidateInput struct {
	Name    string `json:"name"`
	Party   string `json:"party"`
	LogoURL string `json:"logo,omitempty"`
}

// AddCandidate appends a candidate to a non-completed election.
func (s *ElectionService) AddCandidate(ctx context.Context, caller domain.Caller, electionID uint, input *AddCandidateInput) (*models.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	if input.Name == "" || input.Party == "" {
		return nil, fmt.Errorf("%w: candidate name and party are required", domain.ErrInvalidInput)
	}

	election, err := s.getElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.IsCompleted() {
		return nil, domain.ErrElectionCompleted
	}

	position, err := s.electionRepo.NextCandidatePosition(ctx, electionID)
	if err != nil {
		return nil, err
	}

	candidate := &models.Candidate{
		CandidateID: uuid.New().String(),
		ElectionID:  electionID,
		Name:        input.Name,
		Party:       input.Party,
		LogoURL:     input.LogoURL,
		Position:    position,
	}

	if err := s.electionRepo.AddCandidate(ctx, candidate); err != nil {
		return nil, err
	}

	return s.getElection(ctx, electionID)
}

// UpdateCandidateInput represents candidate edit input
type UpdateCandidateInput struct {
	Name    *string `json:"name"`
	Party   *string `json:"party"`
	LogoURL *string `json:"logo"`
}

// UpdateCandidate edits a candidate's descriptive fields. The tally is
// not touchable through this path.
func (s *ElectionService) UpdateCandidate(ctx context.Context, caller domain.Caller, electionID uint, candidateID string, input *UpdateCandidateInput) (*models.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	election, err := s.getElection(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.IsCompleted() {
		return nil, domain.ErrElectionCompleted
	}

	if _, err := s.electionRepo.GetCandidate(ctx, electionID, candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}

	// Only descriptive columns; the tally is off limits here.
	fields := map[string]interface{}{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: candidate name cannot be empty", domain.ErrInvalidInput)
		}
		fields["name"] = *input.Name
	}
	if input.Party != nil {
		if *input.Party == "" {
			return nil, fmt.Errorf("%w: candidate party cannot be empty", domain.ErrInvalidInput)
		}
		fields["party"] = *input.Party
	}
	if input.LogoURL != nil {
		fields["logo_url"] = *input.LogoURL
	}

	if len(fields) > 0 {
		if err := s.electionRepo.UpdateCandidateFields(ctx, electionID, candidateID, fields); err != nil {
			return nil, err
		}
	}

	return s.getElection(ctx, electionID)
}

// DeleteCandidate removes a candidate from a non-completed election.
func (s *ElectionService) DeleteCandidate(ctx context.Context, caller domain.Caller, electionID uint, candidateID string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	election, err := s.getElection(ctx, electionID)
	if err != nil {
		return err
	}
	if election.IsCompleted() {
		return domain.ErrElectionCompleted
	}

	if _, err := s.electionRepo.GetCandidate(ctx, electionID, candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCandidateNotFound
		}
		return err
	}

	return s.electionRepo.DeleteCandidate(ctx, electionID, candidateID)
}

// Activate transitions an upcoming election to active.
func (s *ElectionService) Activate(ctx context.Context, caller domain.Caller, id uint) (*models.Election, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	election, err := s.getElection(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.IsCompleted() {
		return nil, domain.ErrElectionCompleted
	}
	if election.Status != models.ElectionUpcoming {
		return nil, domain.ErrNotUpcoming
	}

	if err := s.electionRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": models.ElectionActive,
	}); err != nil {
		return nil, err
	}

	return s.getElection(ctx, id)
}

// DeclareResultOutput carries the declared winner with the election
type DeclareResultOutput struct {
	Election *models.Election  `json:"election"`
	Winner   *models.Candidate `json:"winner"`
}

// DeclareResult freezes the election and computes the winner: the
// candidate with the strictly highest tally, scanning in stored order,
// so the earliest-added candidate wins ties. Declaring twice fails with
// the election unchanged.
func (s *ElectionService) DeclareResult(ctx context.Context, caller domain.Caller, id uint) (*DeclareResultOutput, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	election, err := s.getElection(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.IsCompleted() {
		return nil, domain.ErrElectionCompleted
	}
	if len(election.Candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	winner := pickWinner(election.Candidates)
	winnerLabel := fmt.Sprintf("%s (%s)", winner.Name, winner.Party)

	if err := s.electionRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status": models.ElectionCompleted,
		"winner": winnerLabel,
	}); err != nil {
		return nil, err
	}

	election, err = s.getElection(ctx, id)
	if err != nil {
		return nil, err
	}

	return &DeclareResultOutput{Election: election, Winner: winner}, nil
}

// pickWinner scans candidates in stored order tracking the running
// maximum. A later candidate replaces the winner only on a strictly
// greater tally, never on a tie.
func pickWinner(candidates []models.Candidate) *models.Candidate {
	winner := &candidates[0]
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Votes > winner.Votes {
			winner = &candidates[i]
		}
	}
	return winner
}

// CastVote applies one vote from the caller to a candidate. Eligibility:
// voter role, completed profile, active election, district match,
// candidate in the election, and no prior vote ever. The write itself is
// a single transaction in the vote repository, so two concurrent
// attempts can never both count.
func (s *ElectionService) CastVote(ctx context.Context, caller domain.Caller, electionID uint, candidateID string) error {
	if !caller.IsVoter() {
		return domain.ErrForbidden
	}

	voter, err := s.voterRepo.GetBySubjectID(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrVoterNotFound
		}
		return err
	}
	if !voter.ProfileCompleted {
		return domain.ErrProfileIncomplete
	}
	if voter.HasVoted {
		return domain.ErrAlreadyVoted
	}

	election, err := s.getElection(ctx, electionID)
	if err != nil {
		return err
	}
	if election.Status != models.ElectionActive {
		return domain.ErrElectionNotActive
	}
	if election.Region != voter.District {
		return domain.ErrDistrictMismatch
	}

	candidate, err := s.electionRepo.GetCandidate(ctx, electionID, candidateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCandidateNotFound
		}
		return err
	}

	record := &models.VoteRecord{
		VoterSubjectID: voter.SubjectID,
		VoterEmail:     voter.Email,
		ElectionID:     electionID,
		Party:          candidate.Party,
		CandidateName:  candidate.Name,
	}

	err = s.voteRepo.CastVote(ctx, voter.ID, electionID, candidateID, record)
	switch {
	case errors.Is(err, repositories.ErrVoteConflict):
		return domain.ErrAlreadyVoted
	case errors.Is(err, repositories.ErrCandidateGone):
		return domain.ErrCandidateNotFound
	case errors.Is(err, repositories.ErrElectionClosed):
		return domain.ErrElectionNotActive
	default:
		return err
	}
}

// List lists all elections, newest first.
func (s *ElectionService) List(ctx context.Context) ([]*models.Election, error) {
	return s.electionRepo.List(ctx)
}

// ListLive lists active elections currently inside their voting window.
func (s *ElectionService) ListLive(ctx context.Context) ([]*models.Election, error) {
	return s.electionRepo.FindLive(ctx)
}

// GetByID gets an election by ID.
func (s *ElectionService) GetByID(ctx context.Context, id uint) (*models.Election, error) {
	return s.getElection(ctx, id)
}

// MyElection returns the live election for the caller's district, or
// nil when there is none.
func (s *ElectionService) MyElection(ctx context.Context, caller domain.Caller) (*models.Election, error) {
	voter, err := s.voterRepo.GetBySubjectID(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, err
	}
	if voter.District == "" {
		return nil, nil
	}

	election, err := s.electionRepo.FindActiveByRegion(ctx, voter.District)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return election, nil
}

func (s *ElectionService) getElection(ctx context.Context, id uint) (*models.Election, error) {
	election, err := s.electionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, err
	}
	return election, nil
}
