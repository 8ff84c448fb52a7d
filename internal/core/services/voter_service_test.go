package services

import (
	"context"
	"testing"

	"maha-evoting/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *CompleteProfileInput {
	return &CompleteProfileInput{
		FullName:    "Asha Kulkarni",
		Email:       "asha@example.com",
		Phone:       "9876543210",
		DateOfBirth: "1990-05-15",
		VoterID:     "MH12345678",
		AadhaarNo:   "123456789012",
		District:    "Pune",
		Taluka:      "Haveli",
		City:        "Pune",
	}
}

func TestSync(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	t.Run("creates voter on first contact", func(t *testing.T) {
		caller := voterCaller("sub-first")
		voter, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)

		assert.Equal(t, "sub-first", voter.SubjectID)
		assert.Equal(t, caller.Name, voter.FullName)
		assert.Equal(t, string(domain.RoleVoter), voter.Role)
		assert.False(t, voter.ProfileCompleted)
		assert.False(t, voter.HasVoted)
	})

	t.Run("repeat sync is an update not a duplicate", func(t *testing.T) {
		caller := voterCaller("sub-repeat")
		first, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)

		caller.Name = "Renamed At Provider"
		second, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Renamed At Provider", second.FullName)
	})

	t.Run("completed profile fields stay frozen", func(t *testing.T) {
		caller := voterCaller("sub-frozen")
		_, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)
		_, err = env.voterSvc.CompleteProfile(ctx, caller, validProfile())
		require.NoError(t, err)

		caller.Name = "Provider Rename"
		caller.Email = "other@example.com"
		voter, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)

		assert.Equal(t, "Asha Kulkarni", voter.FullName)
		assert.Equal(t, "asha@example.com", voter.Email)
	})

	t.Run("unknown role defaults to voter", func(t *testing.T) {
		caller := domain.Caller{SubjectID: "sub-weird-role", Role: "superuser"}
		voter, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, string(domain.RoleVoter), voter.Role)
	})
}

func TestMe(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.voterSvc.Me(ctx, voterCaller("sub-never-synced"))
	assert.ErrorIs(t, err, domain.ErrVoterNotFound)

	caller := voterCaller("sub-synced")
	_, err = env.voterSvc.Sync(ctx, caller)
	require.NoError(t, err)

	voter, err := env.voterSvc.Me(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, "sub-synced", voter.SubjectID)
}

func TestCompleteProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		env := setupServices(t)
		caller := voterCaller("sub-profile")
		_, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)

		voter, err := env.voterSvc.CompleteProfile(ctx, caller, validProfile())
		require.NoError(t, err)

		assert.True(t, voter.ProfileCompleted)
		assert.False(t, voter.HasVoted)
		assert.Equal(t, "Pune", voter.District)
		assert.Equal(t, "MH12345678", voter.VoterID)
	})

	t.Run("allowed exactly once", func(t *testing.T) {
		env := setupServices(t)
		caller := voterCaller("sub-once")
		_, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)
		_, err = env.voterSvc.CompleteProfile(ctx, caller, validProfile())
		require.NoError(t, err)

		again := validProfile()
		again.District = "Nashik"
		_, err = env.voterSvc.CompleteProfile(ctx, caller, again)
		assert.ErrorIs(t, err, domain.ErrProfileAlreadySet)

		voter, err := env.voterSvc.Me(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, "Pune", voter.District)
	})

	t.Run("requires a synced record", func(t *testing.T) {
		env := setupServices(t)
		_, err := env.voterSvc.CompleteProfile(ctx, voterCaller("sub-ghost"), validProfile())
		assert.ErrorIs(t, err, domain.ErrVoterNotFound)
	})

	t.Run("identity values must be unused", func(t *testing.T) {
		env := setupServices(t)
		first := voterCaller("sub-id-first")
		_, err := env.voterSvc.Sync(ctx, first)
		require.NoError(t, err)
		_, err = env.voterSvc.CompleteProfile(ctx, first, validProfile())
		require.NoError(t, err)

		second := voterCaller("sub-id-second")
		_, err = env.voterSvc.Sync(ctx, second)
		require.NoError(t, err)

		dup := validProfile()
		dup.Email = "second@example.com"
		_, err = env.voterSvc.CompleteProfile(ctx, second, dup)
		assert.ErrorIs(t, err, domain.ErrIdentityTaken)

		// The failed attempt must not half-write the profile.
		voter, err := env.voterSvc.Me(ctx, second)
		require.NoError(t, err)
		assert.False(t, voter.ProfileCompleted)
		assert.Empty(t, voter.District)
	})

	t.Run("field validation", func(t *testing.T) {
		env := setupServices(t)
		caller := voterCaller("sub-validate")
		_, err := env.voterSvc.Sync(ctx, caller)
		require.NoError(t, err)

		tests := []struct {
			name   string
			mutate func(*CompleteProfileInput)
		}{
			{"missing district", func(p *CompleteProfileInput) { p.District = "" }},
			{"missing fullName", func(p *CompleteProfileInput) { p.FullName = "" }},
			{"phone too short", func(p *CompleteProfileInput) { p.Phone = "12345" }},
			{"phone non numeric", func(p *CompleteProfileInput) { p.Phone = "98765abc10" }},
			{"aadhaar not 12 digits", func(p *CompleteProfileInput) { p.AadhaarNo = "1234" }},
			{"voter id not 10 chars", func(p *CompleteProfileInput) { p.VoterID = "SHORT" }},
			{"dob in the future", func(p *CompleteProfileInput) { p.DateOfBirth = "2099-01-01" }},
			{"dob unparseable", func(p *CompleteProfileInput) { p.DateOfBirth = "15/05/1990" }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				input := validProfile()
				tt.mutate(input)
				_, err := env.voterSvc.CompleteProfile(ctx, caller, input)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			})
		}
	})
}

func TestVoterList(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	for _, sub := range []string{"sub-list-a", "sub-list-b", "sub-list-c"} {
		_, err := env.voterSvc.Sync(ctx, voterCaller(sub))
		require.NoError(t, err)
	}

	voters, total, err := env.voterSvc.List(ctx, adminCaller("sub-admin-1"), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, voters, 2)

	_, _, err = env.voterSvc.List(ctx, voterCaller("sub-list-a"), 0, 2)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
