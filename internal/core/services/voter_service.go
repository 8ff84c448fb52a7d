package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/adapters/persistence/repositories"
	"maha-evoting/internal/core/domain"

	"gorm.io/gorm"
)

// Field format rules for profile completion
var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)
	voterIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{10}$`)
)

// VoterService handles voter records: lazy creation on first contact,
// one-shot profile completion, and admin listing.
type VoterService struct {
	voterRepo repositories.VoterRepository
}

// NewVoterService creates a new voter service
func NewVoterService(voterRepo repositories.VoterRepository) *VoterService {
	return &VoterService{voterRepo: voterRepo}
}

// Sync upserts the voter record from the caller's provider claims.
// Called once after login. On an existing completed profile only the
// mirrored role and image are refreshed; the profile fields stay frozen.
func (s *VoterService) Sync(ctx context.Context, caller domain.Caller) (*models.Voter, error) {
	role := string(caller.Role)
	if !caller.Role.Valid() {
		role = string(domain.RoleVoter)
	}

	voter, err := s.voterRepo.GetBySubjectID(ctx, caller.SubjectID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		voter = &models.Voter{
			SubjectID: caller.SubjectID,
			FullName:  caller.Name,
			Email:     caller.Email,
			ImageURL:  caller.ImageURL,
			Role:      role,
		}
		if err := s.voterRepo.Create(ctx, voter); err != nil {
			return nil, err
		}
		return voter, nil
	}

	voter.Role = role
	if caller.ImageURL != "" {
		voter.ImageURL = caller.ImageURL
	}
	if !voter.ProfileCompleted {
		if caller.Name != "" {
			voter.FullName = caller.Name
		}
		if caller.Email != "" {
			voter.Email = caller.Email
		}
	}

	if err := s.voterRepo.Update(ctx, voter); err != nil {
		return nil, err
	}
	return voter, nil
}

// Me returns the caller's own voter record.
func (s *VoterService) Me(ctx context.Context, caller domain.Caller) (*models.Voter, error) {
	voter, err := s.voterRepo.GetBySubjectID(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, err
	}
	return voter, nil
}

// CompleteProfileInput carries the full one-shot profile payload
type CompleteProfileInput struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	VoterID     string `json:"voterId"`
	AadhaarNo   string `json:"aadharCard"`
	District    string `json:"district"`
	Taluka      string `json:"taluka"`
	City        string `json:"city"`
}

// CompleteProfile validates and stores the full profile exactly once.
// All validation runs before any write; the write itself is a single
// update, so a failed attempt leaves the record untouched.
func (s *VoterService) CompleteProfile(ctx context.Context, caller domain.Caller, input *CompleteProfileInput) (*models.Voter, error) {
	voter, err := s.voterRepo.GetBySubjectID(ctx, caller.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, err
	}
	if voter.ProfileCompleted {
		return nil, domain.ErrProfileAlreadySet
	}

	dob, err := s.validateProfile(input)
	if err != nil {
		return nil, err
	}

	taken, err := s.voterRepo.ExistsIdentity(ctx, voter.ID, input.VoterID, input.AadhaarNo, input.Phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrIdentityTaken
	}

	fields := map[string]interface{}{
		"full_name":         input.FullName,
		"email":             input.Email,
		"phone":             input.Phone,
		"date_of_birth":     dob,
		"voter_id":          input.VoterID,
		"aadhaar_no":        input.AadhaarNo,
		"district":          input.District,
		"taluka":            input.Taluka,
		"city":              input.City,
		"profile_completed": true,
		"has_voted":         false,
	}
	if err := s.voterRepo.UpdateFields(ctx, voter.ID, fields); err != nil {
		return nil, err
	}

	return s.voterRepo.GetBySubjectID(ctx, caller.SubjectID)
}

// validateProfile checks presence and format of every profile field
func (s *VoterService) validateProfile(input *CompleteProfileInput) (time.Time, error) {
	var zero time.Time

	required := map[string]string{
		"fullName":    input.FullName,
		"email":       input.Email,
		"phone":       input.Phone,
		"dateOfBirth": input.DateOfBirth,
		"voterId":     input.VoterID,
		"aadharCard":  input.AadhaarNo,
		"district":    input.District,
		"taluka":      input.Taluka,
		"city":        input.City,
	}
	for field, value := range required {
		if value == "" {
			return zero, fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, field)
		}
	}

	if !phonePattern.MatchString(input.Phone) {
		return zero, fmt.Errorf("%w: phone must be exactly 10 digits", domain.ErrInvalidInput)
	}
	if !aadhaarPattern.MatchString(input.AadhaarNo) {
		return zero, fmt.Errorf("%w: aadhaar must be exactly 12 digits", domain.ErrInvalidInput)
	}
	if !voterIDPattern.MatchString(input.VoterID) {
		return zero, fmt.Errorf("%w: voter id must be 10 alphanumeric characters", domain.ErrInvalidInput)
	}

	dob, err := parseDate(input.DateOfBirth)
	if err != nil {
		return zero, fmt.Errorf("%w: invalid dateOfBirth", domain.ErrInvalidInput)
	}
	if !dob.Before(time.Now()) {
		return zero, fmt.Errorf("%w: dateOfBirth must be in the past", domain.ErrInvalidInput)
	}

	return dob, nil
}

// List lists registered voters, paginated. Admin only.
func (s *VoterService) List(ctx context.Context, caller domain.Caller, offset, limit int) ([]*models.Voter, int64, error) {
	if !caller.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	return s.voterRepo.List(ctx, offset, limit)
}
