package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"maha-evoting/internal/adapters/persistence/models"
	"maha-evoting/internal/adapters/persistence/repositories"
	"maha-evoting/internal/core/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database named after the test so
// parallel tests never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

type testEnv struct {
	db          *gorm.DB
	voterRepo   repositories.VoterRepository
	electionSvc *ElectionService
	voterSvc    *VoterService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	voterRepo := repositories.NewVoterRepository(db)
	electionRepo := repositories.NewElectionRepository(db)
	voteRepo := repositories.NewVoteRepository(db)

	return &testEnv{
		db:          db,
		voterRepo:   voterRepo,
		electionSvc: NewElectionService(electionRepo, voterRepo, voteRepo),
		voterSvc:    NewVoterService(voterRepo),
	}
}

func adminCaller(subjectID string) domain.Caller {
	return domain.Caller{
		SubjectID: subjectID,
		Role:      domain.RoleAdmin,
		Name:      "Test Admin",
		Email:     subjectID + "@example.com",
	}
}

func voterCaller(subjectID string) domain.Caller {
	return domain.Caller{
		SubjectID: subjectID,
		Role:      domain.RoleVoter,
		Name:      "Test Voter",
		Email:     subjectID + "@example.com",
	}
}

// seedVoter creates a voter with a completed profile in the given district.
func seedVoter(t *testing.T, env *testEnv, subjectID, district string) domain.Caller {
	t.Helper()

	caller := voterCaller(subjectID)
	voter := &models.Voter{
		SubjectID:        subjectID,
		FullName:         caller.Name,
		Email:            caller.Email,
		Phone:            "9876543210",
		VoterID:          "VOT" + subjectID[len(subjectID)-7:],
		AadhaarNo:        "123412341234",
		District:         district,
		Taluka:           "Haveli",
		City:             "Test City",
		ProfileCompleted: true,
		Role:             string(domain.RoleVoter),
	}
	require.NoError(t, env.voterRepo.Create(context.Background(), voter))
	return caller
}

// seedActiveElection creates an active election in the given region with
// candidates, one per (name, party) pair.
func seedActiveElection(t *testing.T, env *testEnv, region string, candidates [][2]string) *models.Election {
	t.Helper()

	ctx := context.Background()
	admin := adminCaller("sub-seed-admin")

	election, err := env.electionSvc.Create(ctx, admin, &CreateElectionInput{
		Title:     region + " Assembly",
		Region:    region,
		StartDate: time.Now().Add(-time.Hour).Format(time.RFC3339),
		EndDate:   time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	for _, c := range candidates {
		_, err = env.electionSvc.AddCandidate(ctx, admin, election.ID, &AddCandidateInput{
			Name:  c[0],
			Party: c[1],
		})
		require.NoError(t, err)
	}

	election, err = env.electionSvc.Activate(ctx, admin, election.ID)
	require.NoError(t, err)
	return election
}

// setVotes overwrites a candidate's tally directly, bypassing the
// casting path, for winner-computation tests.
func setVotes(t *testing.T, env *testEnv, candidateID string, votes int64) {
	t.Helper()

	err := env.db.Model(&models.Candidate{}).
		Where("candidate_id = ?", candidateID).
		Update("votes", votes).Error
	require.NoError(t, err)
}
