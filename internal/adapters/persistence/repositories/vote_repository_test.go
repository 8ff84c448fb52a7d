package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"maha-evoting/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupVoteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	// sqlite allows one writer at a time; keep the pool at one
	// connection so concurrent casts queue instead of failing on a
	// locked database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func seedVoteFixture(t *testing.T, db *gorm.DB) (*models.Voter, *models.Election, *models.Candidate) {
	t.Helper()

	voter := &models.Voter{
		SubjectID:        "sub-ballot",
		FullName:         "Ballot Holder",
		Email:            "ballot@example.com",
		District:         "Pune",
		ProfileCompleted: true,
		Role:             "voter",
	}
	require.NoError(t, db.Create(voter).Error)

	election := &models.Election{
		Title:     "Pune Assembly",
		Region:    "Pune",
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(time.Hour),
		Status:    models.ElectionActive,
		CreatedBy: "sub-admin",
	}
	require.NoError(t, db.Create(election).Error)

	candidate := &models.Candidate{
		CandidateID: "cand-1",
		ElectionID:  election.ID,
		Name:        "A",
		Party:       "Lotus Front",
		Position:    1,
	}
	require.NoError(t, db.Create(candidate).Error)

	return voter, election, candidate
}

func ballotRecord(voter *models.Voter, election *models.Election, candidate *models.Candidate) *models.VoteRecord {
	return &models.VoteRecord{
		VoterSubjectID: voter.SubjectID,
		VoterEmail:     voter.Email,
		ElectionID:     election.ID,
		Party:          candidate.Party,
		CandidateName:  candidate.Name,
	}
}

func TestCastVoteExactlyOnce(t *testing.T) {
	db := setupVoteTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	voter, election, candidate := seedVoteFixture(t, db)

	err := repo.CastVote(ctx, voter.ID, election.ID, candidate.CandidateID, ballotRecord(voter, election, candidate))
	require.NoError(t, err)

	err = repo.CastVote(ctx, voter.ID, election.ID, candidate.CandidateID, ballotRecord(voter, election, candidate))
	assert.ErrorIs(t, err, ErrVoteConflict)

	var got models.Candidate
	require.NoError(t, db.First(&got, "candidate_id = ?", candidate.CandidateID).Error)
	assert.Equal(t, int64(1), got.Votes)

	count, err := repo.CountByElection(ctx, election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCastVoteConcurrentAttempts(t *testing.T) {
	db := setupVoteTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	voter, election, candidate := seedVoteFixture(t, db)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CastVote(ctx, voter.ID, election.ID, candidate.CandidateID, ballotRecord(voter, election, candidate))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrVoteConflict)
		}
	}
	assert.Equal(t, 1, ok, "exactly one attempt may succeed")

	var got models.Candidate
	require.NoError(t, db.First(&got, "candidate_id = ?", candidate.CandidateID).Error)
	assert.Equal(t, int64(1), got.Votes)
}

func TestCastVoteRollsBackOnMissingCandidate(t *testing.T) {
	db := setupVoteTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	voter, election, candidate := seedVoteFixture(t, db)

	err := repo.CastVote(ctx, voter.ID, election.ID, "vanished", ballotRecord(voter, election, candidate))
	assert.ErrorIs(t, err, ErrCandidateGone)

	// The voter's ballot must survive the failed transaction.
	var got models.Voter
	require.NoError(t, db.First(&got, voter.ID).Error)
	assert.False(t, got.HasVoted)
	assert.Nil(t, got.VotedInElectionID)

	count, err := repo.CountByElection(ctx, election.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
