package repositories

import (
	"context"

	"maha-evoting/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormVoterRepository handles voter data access
type GormVoterRepository struct {
	db *gorm.DB
}

// NewVoterRepository creates a new voter repository
func NewVoterRepository(db *gorm.DB) VoterRepository {
	return &GormVoterRepository{db: db}
}

// Create creates a new voter
func (r *GormVoterRepository) Create(ctx context.Context, voter *models.Voter) error {
	return r.db.WithContext(ctx).Create(voter).Error
}

// GetBySubjectID gets a voter by identity-provider subject id
func (r *GormVoterRepository) GetBySubjectID(ctx context.Context, subjectID string) (*models.Voter, error) {
	var voter models.Voter
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		First(&voter).Error
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

// Update saves the full voter record
func (r *GormVoterRepository) Update(ctx context.Context, voter *models.Voter) error {
	return r.db.WithContext(ctx).Save(voter).Error
}

// UpdateFields applies a partial update in a single statement
func (r *GormVoterRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Voter{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// List lists voters with pagination
func (r *GormVoterRepository) List(ctx context.Context, offset, limit int) ([]*models.Voter, int64, error) {
	var voters []*models.Voter
	var total int64

	r.db.WithContext(ctx).Model(&models.Voter{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&voters).Error

	return voters, total, err
}

// ExistsIdentity reports whether another voter already registered any of
// the given government identity values. Empty values are ignored.
func (r *GormVoterRepository) ExistsIdentity(ctx context.Context, excludeID uint, voterID, aadhaarNo, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Voter{}).
		Where("id <> ?", excludeID).
		Where(
			r.db.Where("voter_id = ? AND voter_id <> ''", voterID).
				Or("aadhaar_no = ? AND aadhaar_no <> ''", aadhaarNo).
				Or("phone = ? AND phone <> ''", phone),
		).
		Count(&count).Error
	return count > 0, err
}
