package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository"
)

var (
	ErrMemberNotFound    = repository.ErrMemberNotFound
	ErrMemberEmailExists = repository.ErrMemberEmailExists
	ErrWalletRequired    = errors.New("wallet address is required")
)

type IdentityMemberRepository interface {
	Create(ctx context.Context, member domain.Member) (domain.Member, error)
	FindByWallet(ctx context.Context, walletAddress string) (domain.Member, error)
	BackfillEmail(ctx context.Context, id uint, email string) error
}

type IdentityTicketRepository interface {
	FindPendingInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error)
	MarkInvitationClaimed(ctx context.Context, id uint, at time.Time) error
	CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
}

// Resolution is what a login produces: the member record, whether it was
// created by this call, and whether any invitation was converted into a
// redeemable ticket along the way.
type Resolution struct {
	Member        domain.Member
	IsNew         bool
	TicketGranted bool
}

type IdentityService struct {
	members IdentityMemberRepository
	tickets IdentityTicketRepository
	tiers   *TierEngine

	now func() time.Time
}

func NewIdentityService(members IdentityMemberRepository, tickets IdentityTicketRepository, tiers *TierEngine) *IdentityService {
	return &IdentityService{
		members: members,
		tickets: tickets,
		tiers:   tiers,
		now:     time.Now,
	}
}

// Resolve maps an authentication event to a member record, creating a ghost
// on first sight. A new member with an email immediately inherits any pending
// invitations for that email as redeemable tickets, so an invitee who signs
// up holds a valid ticket without a second action. Existing members get the
// lazy decay check before this returns.
func (s *IdentityService) Resolve(ctx context.Context, walletAddress, email string) (Resolution, error) {
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return Resolution{}, ErrWalletRequired
	}
	email = NormalizeEmail(email)

	member, err := s.members.FindByWallet(ctx, walletAddress)
	if err != nil {
		if !errors.Is(err, repository.ErrMemberNotFound) {
			return Resolution{}, fmt.Errorf("s.members.FindByWallet -> %w", err)
		}

		return s.createGhost(ctx, walletAddress, email)
	}

	if member.Email == "" && email != "" {
		if err = s.members.BackfillEmail(ctx, member.ID, email); err != nil {
			if !errors.Is(err, repository.ErrMemberEmailExists) {
				return Resolution{}, fmt.Errorf("s.members.BackfillEmail -> %w", err)
			}

			// Email belongs to someone else; keep the login working.
			zap.L().Warn("email backfill skipped, already registered",
				zap.Uint("member_id", member.ID))
		} else {
			member.Email = email
		}
	}

	newTier, decayed, err := s.tiers.CheckDecay(ctx, member)
	if err != nil {
		return Resolution{}, fmt.Errorf("s.tiers.CheckDecay -> %w", err)
	}
	if decayed {
		zap.L().Info("member tier decayed",
			zap.Uint("member_id", member.ID),
			zap.Int("old_tier", member.Tier),
			zap.Int("new_tier", newTier))
		member.Tier = newTier
	}

	return Resolution{Member: member}, nil
}

func (s *IdentityService) createGhost(ctx context.Context, walletAddress, email string) (Resolution, error) {
	member, err := s.members.Create(ctx, domain.Member{
		WalletAddress: walletAddress,
		Email:         email,
		Tier:          domain.TierGhost,
	})
	if err != nil {
		return Resolution{}, fmt.Errorf("s.members.Create -> %w", err)
	}

	resolution := Resolution{Member: member, IsNew: true}
	if email == "" {
		return resolution, nil
	}

	granted, err := s.claimInvitations(ctx, member, email)
	if err != nil {
		return Resolution{}, err
	}
	resolution.TicketGranted = granted

	return resolution, nil
}

// claimInvitations converts the new member's pending event invitations into
// tickets. CLAIMED is distinct from USED: claimed means "converted to a
// ticket", used means "consumed at the door". Invitations without an event
// stay pending and are matched by email at redemption instead.
func (s *IdentityService) claimInvitations(ctx context.Context, member domain.Member, email string) (bool, error) {
	invitations, err := s.tickets.FindPendingInvitationsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("s.tickets.FindPendingInvitationsByEmail -> %w", err)
	}

	now := s.now()
	granted := false

	for _, invitation := range invitations {
		if invitation.EventID == nil || invitation.IsExpired(now) {
			continue
		}

		if err = s.tickets.MarkInvitationClaimed(ctx, invitation.ID, now); err != nil {
			if errors.Is(err, repository.ErrInvitationUnavailable) {
				continue
			}

			return granted, fmt.Errorf("s.tickets.MarkInvitationClaimed -> %w", err)
		}

		invitationID := invitation.ID
		if _, err = s.tickets.CreateTicket(ctx, domain.Ticket{
			MemberID:     member.ID,
			EventID:      invitation.EventID,
			InvitationID: &invitationID,
			ExpiresAt:    invitation.ExpiresAt,
		}); err != nil {
			return granted, fmt.Errorf("s.tickets.CreateTicket -> %w", err)
		}

		granted = true
	}

	return granted, nil
}

// NormalizeEmail lowercases and trims an email so both issuance and identity
// resolution agree on the matching key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
