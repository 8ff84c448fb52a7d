package repositories

import (
	"context"
	"errors"

	"maha-evoting/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// Vote repository errors
var (
	// ErrVoteConflict means the conditional has_voted update matched no
	// row: the voter already voted, possibly in a concurrent request.
	ErrVoteConflict = errors.New("voter already marked as voted")
	// ErrCandidateGone means the candidate row disappeared between the
	// eligibility check and the tally increment.
	ErrCandidateGone = errors.New("candidate no longer exists")
	// ErrElectionClosed means the election left the active state between
	// the eligibility check and the tally increment, typically because a
	// result declaration committed first.
	ErrElectionClosed = errors.New("election is no longer active")
)

// GormVoteRepository handles the vote ledger and the vote-casting write
type GormVoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &GormVoteRepository{db: db}
}

// CastVote applies one vote in a single transaction:
//
//  1. UPDATE voters SET has_voted=1, voted_in_election_id=?
//     WHERE id=? AND has_voted=0
//  2. UPDATE candidates SET votes=votes+1
//     WHERE election_id=? AND candidate_id=?
//     AND the election is still active
//  3. INSERT vote_records
//
// Step 1 is the exactly-once guard: if zero rows are affected the voter
// already voted (this or a concurrent request) and the whole transaction
// rolls back, so a failed attempt never partially increments a tally.
// Step 2 re-checks the election's stored status inside the transaction,
// so a ballot that passed the service's eligibility read cannot land
// after a result declaration commits.
func (r *GormVoteRepository) CastVote(ctx context.Context, voterPK, electionID uint, candidateID string, record *models.VoteRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Voter{}).
			Where("id = ? AND has_voted = ?", voterPK, false).
			Updates(map[string]interface{}{
				"has_voted":            true,
				"voted_in_election_id": electionID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVoteConflict
		}

		res = tx.Model(&models.Candidate{}).
			Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
			Where("(SELECT status FROM elections WHERE id = ?) = ?", electionID, models.ElectionActive).
			Update("votes", gorm.Expr("votes + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var candidates int64
			if err := tx.Model(&models.Candidate{}).
				Where("election_id = ? AND candidate_id = ?", electionID, candidateID).
				Count(&candidates).Error; err != nil {
				return err
			}
			if candidates == 0 {
				return ErrCandidateGone
			}
			return ErrElectionClosed
		}

		return tx.Create(record).Error
	})
}

// CountByElection counts ledger rows for an election
func (r *GormVoteRepository) CountByElection(ctx context.Context, electionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VoteRecord{}).
		Where("election_id = ?", electionID).
		Count(&count).Error
	return count, err
}
