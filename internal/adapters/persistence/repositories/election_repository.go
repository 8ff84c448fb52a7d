package repositories

import (
	"context"
	"time"

	"maha-evoting/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormElectionRepository handles election and candidate data access
type GormElectionRepository struct {
	db *gorm.DB
}

// NewElectionRepository creates a new election repository
func NewElectionRepository(db *gorm.DB) ElectionRepository {
	return &GormElectionRepository{db: db}
}

// candidateOrder preloads candidates in insertion order. The winner
// scan depends on this ordering for its tie-break.
func candidateOrder(db *gorm.DB) *gorm.DB {
	return db.Order("candidates.position ASC")
}

// Create creates a new election
func (r *GormElectionRepository) Create(ctx context.Context, election *models.Election) error {
	return r.db.WithContext(ctx).Create(election).Error
}

// GetByID gets an election by ID with its candidates
func (r *GormElectionRepository) GetByID(ctx context.Context, id uint) (*models.Election, error) {
	var election models.Election
	err := r.db.WithContext(ctx).
		Preload("Candidates", candidateOrder).
		First(&election, id).Error
	if err != nil {
		return nil, err
	}
	return &election, nil
}

// List lists all elections, newest first
func (r *GormElectionRepository) List(ctx context.Context) ([]*models.Election, error) {
	var elections []*models.Election
	err := r.db.WithContext(ctx).
		Preload("Candidates", candidateOrder).
		Order("created_at DESC").
		Find(&elections).Error
	return elections, err
}

// FindLive lists active elections currently inside their voting window
func (r *GormElectionRepository) FindLive(ctx context.Context) ([]*models.Election, error) {
	now := time.Now()
	var elections []*models.Election
	err := r.db.WithContext(ctx).
		Preload("Candidates", candidateOrder).
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.ElectionActive, now, now).
		Find(&elections).Error
	return elections, err
}

// FindActiveByRegion finds the active election for a region, if any
func (r *GormElectionRepository) FindActiveByRegion(ctx context.Context, region string) (*models.Election, error) {
	now := time.Now()
	var election models.Election
	err := r.db.WithContext(ctx).
		Preload("Candidates", candidateOrder).
		Where("region = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			region, models.ElectionActive, now, now).
		First(&election).Error
	if err != nil {
		return nil, err
	}
	return &election, nil
}

// FindDueUpcoming lists upcoming elections whose start time has passed
func (r *GormElectionRepository) FindDueUpcoming(ctx context.Context, now time.Time) ([]*models.Election, error) {
	var elections []*models.Election
	err := r.db.WithContext(ctx).
		Preload("Candidates", candidateOrder).
		Where("status = ? AND start_date <= ?", models.ElectionUpcoming, now).
		Find(&elections).Error
	return elections, err
}

// FindExpiredActive lists active elections whose end time has passed
func (r *GormElectionRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Election, error) {
	var elections []*models.Election
	err := r.db.WithContext(ctx).
		Preload("Candidates", candidateOrder).
		Where("status = ? AND end_date < ?", models.ElectionActive, now).
		Find(&elections).Error
	return elections, err
}

// Update saves the full election record
func (r *GormElectionRepository) Update(ctx context.Context, election *models.Election) error {
	return r.db.WithContext(ctx).Save(election).Error
}

// UpdateFields applies a partial update in a single statement
func (r *GormElectionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Election{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete soft deletes an election
func (r *GormElectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Election{}, id).Error
}

// AddCandidate appends a candidate to an election
func (r *GormElectionRepository) AddCandidate(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

// GetCandidate gets a candidate by its stable id within an election
func (r *GormElectionRepository) GetCandidate(ctx context.Context, electionID uint, candidateID string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.WithContext(ctx).
		Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
		First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// UpdateCandidateFields applies a partial update to a candidate. The
// votes column must never appear in fields: tallies move only through
// the vote-casting transaction, and a full-row save here could overwrite
// an increment that landed after the caller's read.
func (r *GormElectionRepository) UpdateCandidateFields(ctx context.Context, electionID uint, candidateID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
		Updates(fields).Error
}

// DeleteCandidate removes a candidate from an election
func (r *GormElectionRepository) DeleteCandidate(ctx context.Context, electionID uint, candidateID string) error {
	return r.db.WithContext(ctx).
		Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
		Delete(&models.Candidate{}).Error
}

// NextCandidatePosition returns the next free position for an election
func (r *GormElectionRepository) NextCandidatePosition(ctx context.Context, electionID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("election_id = ?", electionID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}
