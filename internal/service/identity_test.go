package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garomon/garo-vibe-api/internal/domain"
)

func newIdentityService(members *fakeMemberRepo, store *fakeTicketStore) *IdentityService {
	tiers := NewTierEngine(members, &fakeIssuer{}, testMembershipConfig())

	return NewIdentityService(members, store, tiers)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an empty wallet", func(t *testing.T) {
		svc := newIdentityService(newFakeMemberRepo(), newFakeTicketStore())

		_, err := svc.Resolve(ctx, "   ", "")
		assert.ErrorIs(t, err, ErrWalletRequired)
	})

	t.Run("first login creates a ghost", func(t *testing.T) {
		members := newFakeMemberRepo()
		svc := newIdentityService(members, newFakeTicketStore())

		resolution, err := svc.Resolve(ctx, "0xaaaa", "")
		require.NoError(t, err)

		assert.True(t, resolution.IsNew)
		assert.False(t, resolution.TicketGranted)
		assert.Equal(t, domain.TierGhost, resolution.Member.Tier)
		assert.Zero(t, resolution.Member.AttendanceCount)
		assert.True(t, resolution.Member.IsGhost())
	})

	t.Run("second login returns the same member", func(t *testing.T) {
		members := newFakeMemberRepo()
		svc := newIdentityService(members, newFakeTicketStore())

		first, err := svc.Resolve(ctx, "0xaaaa", "")
		require.NoError(t, err)

		second, err := svc.Resolve(ctx, "0xaaaa", "")
		require.NoError(t, err)

		assert.False(t, second.IsNew)
		assert.Equal(t, first.Member.ID, second.Member.ID)
	})

	t.Run("invited guest signing up gets a ticket", func(t *testing.T) {
		members := newFakeMemberRepo()
		store := newFakeTicketStore()
		eventID := uint(7)
		store.addInvitation(domain.Invitation{
			Email:   "guest@example.com",
			EventID: &eventID,
		})

		svc := newIdentityService(members, store)

		resolution, err := svc.Resolve(ctx, "0xaaaa", "Guest@Example.com")
		require.NoError(t, err)

		assert.True(t, resolution.IsNew)
		assert.True(t, resolution.TicketGranted)

		tickets, err := store.FindRedeemableTickets(ctx, resolution.Member.ID, time.Now())
		require.NoError(t, err)
		require.Len(t, tickets, 1)
		assert.Equal(t, eventID, *tickets[0].EventID)

		invitations, err := store.FindPendingInvitationsByEmail(ctx, "guest@example.com")
		require.NoError(t, err)
		assert.Empty(t, invitations, "claimed invitation must leave the pending pool")
	})

	t.Run("general invitations stay pending at signup", func(t *testing.T) {
		members := newFakeMemberRepo()
		store := newFakeTicketStore()
		store.addInvitation(domain.Invitation{
			Email: "guest@example.com",
		})

		svc := newIdentityService(members, store)

		resolution, err := svc.Resolve(ctx, "0xaaaa", "guest@example.com")
		require.NoError(t, err)

		assert.False(t, resolution.TicketGranted)

		invitations, err := store.FindPendingInvitationsByEmail(ctx, "guest@example.com")
		require.NoError(t, err)
		assert.Len(t, invitations, 1)
	})

	t.Run("expired invitations are skipped", func(t *testing.T) {
		members := newFakeMemberRepo()
		store := newFakeTicketStore()
		eventID := uint(7)
		expired := time.Now().Add(-time.Hour)
		store.addInvitation(domain.Invitation{
			Email:     "guest@example.com",
			EventID:   &eventID,
			ExpiresAt: &expired,
		})

		svc := newIdentityService(members, store)

		resolution, err := svc.Resolve(ctx, "0xaaaa", "guest@example.com")
		require.NoError(t, err)
		assert.False(t, resolution.TicketGranted)
	})

	t.Run("backfills a missing email", func(t *testing.T) {
		members := newFakeMemberRepo()
		svc := newIdentityService(members, newFakeTicketStore())

		_, err := svc.Resolve(ctx, "0xaaaa", "")
		require.NoError(t, err)

		resolution, err := svc.Resolve(ctx, "0xaaaa", "Late@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "late@example.com", resolution.Member.Email)

		stored, err := members.FindByWallet(ctx, "0xaaaa")
		require.NoError(t, err)
		assert.Equal(t, "late@example.com", stored.Email)
	})

	t.Run("backfill never overwrites an existing email", func(t *testing.T) {
		members := newFakeMemberRepo()
		svc := newIdentityService(members, newFakeTicketStore())

		_, err := svc.Resolve(ctx, "0xaaaa", "first@example.com")
		require.NoError(t, err)

		resolution, err := svc.Resolve(ctx, "0xaaaa", "second@example.com")
		require.NoError(t, err)
		assert.Equal(t, "first@example.com", resolution.Member.Email)
	})

	t.Run("taken email does not break the login", func(t *testing.T) {
		members := newFakeMemberRepo()
		members.add(domain.Member{WalletAddress: "0xbbbb", Email: "taken@example.com"})
		svc := newIdentityService(members, newFakeTicketStore())

		_, err := svc.Resolve(ctx, "0xaaaa", "")
		require.NoError(t, err)

		resolution, err := svc.Resolve(ctx, "0xaaaa", "taken@example.com")
		require.NoError(t, err)
		assert.Empty(t, resolution.Member.Email)
	})

	t.Run("applies decay at login", func(t *testing.T) {
		members := newFakeMemberRepo()
		last := time.Now().Add(-45 * 24 * time.Hour)
		cred := "cred-0xaaaa-t1"
		members.add(domain.Member{
			WalletAddress:    "0xaaaa",
			Tier:             domain.TierThree,
			AttendanceCount:  11,
			LastAttendanceAt: &last,
			CredentialRef:    &cred,
		})

		svc := newIdentityService(members, newFakeTicketStore())

		resolution, err := svc.Resolve(ctx, "0xaaaa", "")
		require.NoError(t, err)
		assert.Equal(t, domain.TierTwo, resolution.Member.Tier)
		assert.Equal(t, 11, resolution.Member.AttendanceCount)
	})
}
