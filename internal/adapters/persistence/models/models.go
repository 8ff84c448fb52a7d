package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Voter
// ============================================================

// Voter represents the voters table. One row per identity-provider
// subject; created lazily on first authenticated contact and completed
// once via the profile-completion operation.
type Voter struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SubjectID string `gorm:"uniqueIndex;size:64;not null" json:"subject_id"`

	// Personal info (filled on profile completion)
	FullName    string     `gorm:"size:100" json:"full_name"`
	Email       string     `gorm:"size:100;index" json:"email"`
	Phone       string     `gorm:"size:15" json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	// Government identity (unique once set)
	VoterID   string `gorm:"size:20;index" json:"voter_id"`
	AadhaarNo string `gorm:"size:20;index" json:"aadhaar_no"`

	// Location. District is the sole eligibility key against elections.
	District string `gorm:"size:100;index" json:"district"`
	Taluka   string `gorm:"size:100" json:"taluka"`
	City     string `gorm:"size:100" json:"city"`

	// Voting state
	HasVoted          bool  `gorm:"default:false" json:"has_voted"`
	VotedInElectionID *uint `json:"voted_in_election_id"`

	ProfileCompleted bool   `gorm:"default:false" json:"profile_completed"`
	ImageURL         string `gorm:"size:255" json:"image_url"`
	Role             string `gorm:"size:20;default:'voter'" json:"role"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Voter) TableName() string {
	return "voters"
}

// VoterResponse DTO
type VoterResponse struct {
	ID                uint       `json:"id"`
	SubjectID         string     `json:"subject_id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	VoterID           string     `json:"voter_id,omitempty"`
	District          string     `json:"district,omitempty"`
	Taluka            string     `json:"taluka,omitempty"`
	City              string     `json:"city,omitempty"`
	HasVoted          bool       `json:"has_voted"`
	VotedInElectionID *uint      `json:"voted_in_election_id,omitempty"`
	ProfileCompleted  bool       `json:"profile_completed"`
	ImageURL          string     `json:"image_url,omitempty"`
	Role              string     `json:"role"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToResponse converts a voter to its API shape. Aadhaar never leaves
// the persistence layer.
func (v *Voter) ToResponse() *VoterResponse {
	return &VoterResponse{
		ID:                v.ID,
		SubjectID:         v.SubjectID,
		FullName:          v.FullName,
		Email:             v.Email,
		Phone:             v.Phone,
		DateOfBirth:       v.DateOfBirth,
		VoterID:           v.VoterID,
		District:          v.District,
		Taluka:            v.Taluka,
		City:              v.City,
		HasVoted:          v.HasVoted,
		VotedInElectionID: v.VotedInElectionID,
		ProfileCompleted:  v.ProfileCompleted,
		ImageURL:          v.ImageURL,
		Role:              v.Role,
		CreatedAt:         v.CreatedAt,
	}
}

// ============================================================
// Election & Candidates
// ============================================================

// Election statuses
const (
	ElectionUpcoming  = "upcoming"
	ElectionActive    = "active"
	ElectionCompleted = "completed"
)

// Election represents the elections table. One row per announced
// contest; owns an ordered candidate list.
type Election struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Region    string    `gorm:"size:100;not null;index" json:"region"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"size:20;not null;default:'upcoming';index" json:"status"`

	// Winner is set exactly once, on the transition into completed.
	Winner *string `gorm:"size:200" json:"winner"`

	CreatedBy     string `gorm:"size:64;not null" json:"created_by"`
	CreatedByName string `gorm:"size:100" json:"created_by_name"`

	Candidates []Candidate `gorm:"foreignKey:ElectionID" json:"candidates"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Election) TableName() string {
	return "elections"
}

// IsCompleted reports whether the election reached its terminal state.
func (e *Election) IsCompleted() bool {
	return e.Status == ElectionCompleted
}

// Candidate represents the candidates table. Position preserves
// insertion order; the winner scan depends on it for tie-breaking.
type Candidate struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	CandidateID string `gorm:"uniqueIndex;size:36;not null" json:"candidate_id"`
	ElectionID  uint   `gorm:"not null;index" json:"election_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Party       string `gorm:"size:100;not null" json:"party"`
	LogoURL     string `gorm:"size:255" json:"logo_url,omitempty"`
	Votes       int64  `gorm:"not null;default:0" json:"votes"`
	Position    int    `gorm:"not null" json:"position"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// ============================================================
// Vote ledger
// ============================================================

// VoteRecord is an append-only ledger row written alongside each
// successful vote. Analytics only: eligibility is enforced by the
// voter's has_voted flag, never by consulting this table.
type VoteRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	VoterSubjectID string    `gorm:"size:64;not null;index" json:"voter_subject_id"`
	VoterEmail     string    `gorm:"size:100" json:"voter_email"`
	ElectionID     uint      `gorm:"not null;index" json:"election_id"`
	Party          string    `gorm:"size:100;not null" json:"party"`
	CandidateName  string    `gorm:"size:100" json:"candidate_name"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VoteRecord) TableName() string {
	return "vote_records"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Voter{},
		&Election{},
		&Candidate{},
		&VoteRecord{},
	)
}
