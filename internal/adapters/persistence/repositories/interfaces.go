package repositories

import (
	"context"
	"time"

	"maha-evoting/internal/adapters/persistence/models"
)

// VoterRepository defines voter data access
type VoterRepository interface {
	Create(ctx context.Context, voter *models.Voter) error
	GetBySubjectID(ctx context.Context, subjectID string) (*models.Voter, error)
	Update(ctx context.Context, voter *models.Voter) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	List(ctx context.Context, offset, limit int) ([]*models.Voter, int64, error)
	ExistsIdentity(ctx context.Context, excludeID uint, voterID, aadhaarNo, phone string) (bool, error)
}

// ElectionRepository defines election and candidate data access
type ElectionRepository interface {
	Create(ctx context.Context, election *models.Election) error
	GetByID(ctx context.Context, id uint) (*models.Election, error)
	List(ctx context.Context) ([]*models.Election, error)
	FindLive(ctx context.Context) ([]*models.Election, error)
	FindActiveByRegion(ctx context.Context, region string) (*models.Election, error)
	FindDueUpcoming(ctx context.Context, now time.Time) ([]*models.Election, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Election, error)
	Update(ctx context.Context, election *models.Election) error
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error

	AddCandidate(ctx context.Context, candidate *models.Candidate) error
	GetCandidate(ctx context.Context, electionID uint, candidateID string) (*models.Candidate, error)
	UpdateCandidateFields(ctx context.Context, electionID uint, candidateID string, fields map[string]interface{}) error
	DeleteCandidate(ctx context.Context, electionID uint, candidateID string) error
	NextCandidatePosition(ctx context.Context, electionID uint) (int, error)
}

// VoteRepository defines the vote ledger and the atomic vote-casting
// write. CastVote is the only mutation path for candidate tallies.
type VoteRepository interface {
	CastVote(ctx context.Context, voterPK, electionID uint, candidateID string, record *models.VoteRecord) error
	CountByElection(ctx context.Context, electionID uint) (int64, error)
}
