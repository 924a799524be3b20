package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garomon/garo-vibe-api/internal/config"
	"github.com/garomon/garo-vibe-api/internal/domain"
)

func testMembershipConfig() *config.MembershipConfig {
	return &config.MembershipConfig{
		TierTwoAt:       3,
		TierThreeAt:     10,
		DecayWindowDays: 30,
		InviteTTLDays:   30,
		ReferralBonus:   10,
	}
}

func TestComputeTier(t *testing.T) {
	engine := NewTierEngine(newFakeMemberRepo(), &fakeIssuer{}, testMembershipConfig())

	tests := []struct {
		name       string
		attendance int
		want       int
	}{
		{"zero attendance is a ghost", 0, domain.TierGhost},
		{"first check-in reaches tier one", 1, domain.TierOne},
		{"below tier two threshold", 2, domain.TierOne},
		{"tier two threshold", 3, domain.TierTwo},
		{"between thresholds", 9, domain.TierTwo},
		{"tier three threshold", 10, domain.TierThree},
		{"well past the top threshold", 250, domain.TierThree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ComputeTier(tt.attendance))
		})
	}
}

func TestCheckUpgrade(t *testing.T) {
	t.Run("persists an increase and reports it", func(t *testing.T) {
		repo := newFakeMemberRepo()
		member := repo.add(domain.Member{
			WalletAddress:   "0xaaaa",
			Tier:            domain.TierOne,
			AttendanceCount: 3,
		})

		engine := NewTierEngine(repo, &fakeIssuer{}, testMembershipConfig())

		newTier, upgraded, err := engine.CheckUpgrade(context.Background(), member)
		require.NoError(t, err)
		assert.True(t, upgraded)
		assert.Equal(t, domain.TierTwo, newTier)

		stored, err := repo.FindByID(context.Background(), member.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TierTwo, stored.Tier)
	})

	t.Run("never lowers the tier", func(t *testing.T) {
		repo := newFakeMemberRepo()
		member := repo.add(domain.Member{
			WalletAddress:   "0xbbbb",
			Tier:            domain.TierThree,
			AttendanceCount: 2,
		})

		engine := NewTierEngine(repo, &fakeIssuer{}, testMembershipConfig())

		newTier, upgraded, err := engine.CheckUpgrade(context.Background(), member)
		require.NoError(t, err)
		assert.False(t, upgraded)
		assert.Equal(t, domain.TierThree, newTier)
		assert.Empty(t, repo.tierUpdates)
	})

	t.Run("no-op when the computed tier matches", func(t *testing.T) {
		repo := newFakeMemberRepo()
		member := repo.add(domain.Member{
			WalletAddress:   "0xcccc",
			Tier:            domain.TierTwo,
			AttendanceCount: 5,
		})

		engine := NewTierEngine(repo, &fakeIssuer{}, testMembershipConfig())

		newTier, upgraded, err := engine.CheckUpgrade(context.Background(), member)
		require.NoError(t, err)
		assert.False(t, upgraded)
		assert.Equal(t, domain.TierTwo, newTier)
	})
}

func TestCheckDecay(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	newEngine := func(repo *fakeMemberRepo) *TierEngine {
		engine := NewTierEngine(repo, &fakeIssuer{}, testMembershipConfig())
		engine.now = func() time.Time { return now }

		return engine
	}

	t.Run("drops one step after the window", func(t *testing.T) {
		repo := newFakeMemberRepo()
		last := now.Add(-31 * 24 * time.Hour)
		member := repo.add(domain.Member{
			WalletAddress:    "0xaaaa",
			Tier:             domain.TierThree,
			AttendanceCount:  12,
			LastAttendanceAt: &last,
		})

		newTier, decayed, err := newEngine(repo).CheckDecay(context.Background(), member)
		require.NoError(t, err)
		assert.True(t, decayed)
		assert.Equal(t, domain.TierTwo, newTier)

		stored, err := repo.FindByID(context.Background(), member.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TierTwo, stored.Tier)
		assert.Equal(t, 12, stored.AttendanceCount, "decay must not touch attendance")
	})

	t.Run("recent attendance keeps the tier", func(t *testing.T) {
		repo := newFakeMemberRepo()
		last := now.Add(-29 * 24 * time.Hour)
		member := repo.add(domain.Member{
			WalletAddress:    "0xbbbb",
			Tier:             domain.TierTwo,
			AttendanceCount:  4,
			LastAttendanceAt: &last,
		})

		newTier, decayed, err := newEngine(repo).CheckDecay(context.Background(), member)
		require.NoError(t, err)
		assert.False(t, decayed)
		assert.Equal(t, domain.TierTwo, newTier)
	})

	t.Run("tier one is the floor", func(t *testing.T) {
		repo := newFakeMemberRepo()
		last := now.Add(-400 * 24 * time.Hour)
		member := repo.add(domain.Member{
			WalletAddress:    "0xcccc",
			Tier:             domain.TierOne,
			AttendanceCount:  1,
			LastAttendanceAt: &last,
		})

		newTier, decayed, err := newEngine(repo).CheckDecay(context.Background(), member)
		require.NoError(t, err)
		assert.False(t, decayed)
		assert.Equal(t, domain.TierOne, newTier)
	})

	t.Run("no attendance timestamp means no decay", func(t *testing.T) {
		repo := newFakeMemberRepo()
		member := repo.add(domain.Member{
			WalletAddress: "0xdddd",
			Tier:          domain.TierTwo,
		})

		newTier, decayed, err := newEngine(repo).CheckDecay(context.Background(), member)
		require.NoError(t, err)
		assert.False(t, decayed)
		assert.Equal(t, domain.TierTwo, newTier)
	})
}
