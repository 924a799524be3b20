package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garomon/garo-vibe-api/internal/config"
	"github.com/garomon/garo-vibe-api/internal/credential"
	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository"
)

var (
	ErrEmailRequired = errors.New("invitation email is required")
	ErrEventNotFound = repository.ErrEventNotFound

	// ErrNoAccess is the ghost-path denial: the wallet has never completed a
	// check-in and holds no valid invitation or ticket at all.
	ErrNoAccess = errors.New("no valid invitation or ticket")
	// ErrNoTicket is the member-path denial: the member exists but holds no
	// redeemable ticket for this check-in.
	ErrNoTicket = errors.New("no redeemable ticket")
)

// WrongEventError means a valid ticket exists, but for another event than the
// one being scanned. It names the held event so door staff can redirect the
// guest instead of turning them away.
type WrongEventError struct {
	RequestedEventID uint
	HeldEventID      uint
	HeldEventName    string
}

func (e *WrongEventError) Error() string {
	if e.HeldEventName != "" {
		return fmt.Sprintf("ticket is for a different event: %s", e.HeldEventName)
	}

	return fmt.Sprintf("ticket is for a different event (id %d)", e.HeldEventID)
}

type TicketMemberRepository interface {
	FindByWallet(ctx context.Context, walletAddress string) (domain.Member, error)
	RecordTransmutation(ctx context.Context, id uint, at time.Time) error
	IncrementAttendance(ctx context.Context, id uint, at time.Time) error
	SetCredentialRef(ctx context.Context, id uint, ref string) error
	AddVibePoints(ctx context.Context, id uint, amount int) error
}

type TicketStore interface {
	CreateInvitation(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error)
	FindOpenInvitation(ctx context.Context, email string, eventID *uint) (domain.Invitation, error)
	FindPendingInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error)
	ClaimInvitation(ctx context.Context, id uint, at time.Time) error
	FindRedeemableTickets(ctx context.Context, memberID uint, now time.Time) ([]domain.Ticket, error)
	ClaimTicket(ctx context.Context, id uint, at time.Time) error
}

type TicketAttendanceRepository interface {
	AppendRecord(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error)
	UpsertEventAttendance(ctx context.Context, memberID, eventID uint) (domain.EventAttendance, error)
	SetEventCredential(ctx context.Context, id uint, ref string) error
}

type TicketEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

type TicketService struct {
	members    TicketMemberRepository
	store      TicketStore
	attendance TicketAttendanceRepository
	events     TicketEventRepository
	tiers      *TierEngine
	issuer     credential.Issuer

	inviteTTL     time.Duration
	referralBonus int

	now func() time.Time
}

func NewTicketService(
	members TicketMemberRepository,
	store TicketStore,
	attendance TicketAttendanceRepository,
	events TicketEventRepository,
	tiers *TierEngine,
	issuer credential.Issuer,
	conf *config.MembershipConfig,
) *TicketService {
	return &TicketService{
		members:       members,
		store:         store,
		attendance:    attendance,
		events:        events,
		tiers:         tiers,
		issuer:        issuer,
		inviteTTL:     time.Duration(conf.InviteTTLDays) * 24 * time.Hour,
		referralBonus: conf.ReferralBonus,
		now:           time.Now,
	}
}

// Issue creates a PENDING invitation for an email. Issuing twice for the same
// (email, event) pair returns the existing invitation instead of erroring, so
// a repeated admin click stays harmless. Event-scoped invitations expire a day
// after the event; general invitations get the configured TTL.
func (s *TicketService) Issue(ctx context.Context, email string, eventID *uint, issuedBy string) (domain.Invitation, bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return domain.Invitation{}, false, ErrEmailRequired
	}

	existing, err := s.store.FindOpenInvitation(ctx, email, eventID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrInvitationNotFound) {
		return domain.Invitation{}, false, fmt.Errorf("s.store.FindOpenInvitation -> %w", err)
	}

	var expiresAt *time.Time
	if eventID != nil {
		event, err := s.events.FindByID(ctx, *eventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return domain.Invitation{}, false, ErrEventNotFound
			}

			return domain.Invitation{}, false, fmt.Errorf("s.events.FindByID -> %w", err)
		}

		expiry := event.StartsAt.Add(24 * time.Hour)
		expiresAt = &expiry
	} else {
		expiry := s.now().Add(s.inviteTTL)
		expiresAt = &expiry
	}

	created, err := s.store.CreateInvitation(ctx, domain.Invitation{
		Email:     email,
		EventID:   eventID,
		IssuedBy:  issuedBy,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return domain.Invitation{}, false, fmt.Errorf("s.store.CreateInvitation -> %w", err)
	}

	return created, true, nil
}

// Redeem burns a ticket at the door. A ghost completes transmutation into a
// tier-1 member; an existing member accrues attendance and may level up. The
// conditional claim on the underlying row is the exactly-once guard; a lost
// race surfaces as the same denial as a missing ticket. Credential minting and
// referral crediting are best-effort: their failure is logged and never rolls
// back the attendance already committed.
func (s *TicketService) Redeem(ctx context.Context, walletAddress string, eventID *uint) (domain.RedeemResult, error) {
	member, err := s.members.FindByWallet(ctx, walletAddress)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return domain.RedeemResult{}, ErrMemberNotFound
		}

		return domain.RedeemResult{}, fmt.Errorf("s.members.FindByWallet -> %w", err)
	}

	now := s.now()

	grant, held, err := s.findRedeemable(ctx, member, eventID, now)
	if err != nil {
		return domain.RedeemResult{}, err
	}
	if grant == nil {
		if held != nil {
			return domain.RedeemResult{}, s.wrongEvent(ctx, eventID, held)
		}
		if member.IsGhost() {
			return domain.RedeemResult{}, ErrNoAccess
		}

		return domain.RedeemResult{}, ErrNoTicket
	}

	// A general-access grant burned at a specific event counts as attendance
	// of that event.
	if eventID != nil {
		grant.EventID = eventID
	}

	if err = s.claim(ctx, member, *grant, now); err != nil {
		return domain.RedeemResult{}, err
	}

	if member.IsGhost() {
		return s.transmute(ctx, member, *grant, now)
	}

	return s.accrue(ctx, member, *grant, now)
}

// findRedeemable locates a valid grant of entry, preferring a confirmed ticket
// over a still-pending invitation matched by email, both normalized into one
// RedeemableTicket shape. When the scan is event-scoped and the only valid
// grants are for other events, the best of those is returned as held so the
// caller can answer WrongEvent instead of NoTicket.
func (s *TicketService) findRedeemable(ctx context.Context, member domain.Member, eventID *uint, now time.Time) (*domain.RedeemableTicket, *domain.RedeemableTicket, error) {
	var held *domain.RedeemableTicket

	tickets, err := s.store.FindRedeemableTickets(ctx, member.ID, now)
	if err != nil {
		return nil, nil, fmt.Errorf("s.store.FindRedeemableTickets -> %w", err)
	}

	for i := range tickets {
		ticket := tickets[i]
		normalized := domain.RedeemableTicket{
			Source:   domain.SourceTicket,
			TicketID: ticket.ID,
			EventID:  ticket.EventID,
		}

		if matchesEvent(ticket.EventID, eventID) {
			return &normalized, nil, nil
		}
		if held == nil {
			held = &normalized
		}
	}

	if member.Email != "" {
		invitations, err := s.store.FindPendingInvitationsByEmail(ctx, member.Email)
		if err != nil {
			return nil, nil, fmt.Errorf("s.store.FindPendingInvitationsByEmail -> %w", err)
		}

		for i := range invitations {
			invitation := invitations[i]
			if !invitation.IsRedeemable(now) {
				continue
			}

			normalized := domain.RedeemableTicket{
				Source:       domain.SourceInvitation,
				InvitationID: invitation.ID,
				EventID:      invitation.EventID,
			}

			if matchesEvent(invitation.EventID, eventID) {
				return &normalized, nil, nil
			}
			if held == nil {
				held = &normalized
			}
		}
	}

	return nil, held, nil
}

// matchesEvent reports whether a grant scoped to grantEventID admits entry to
// the requested event. A grant without an event is general access and matches
// anything; a scan without an event accepts any grant.
func matchesEvent(grantEventID, requestedEventID *uint) bool {
	if grantEventID == nil || requestedEventID == nil {
		return true
	}

	return *grantEventID == *requestedEventID
}

func (s *TicketService) wrongEvent(ctx context.Context, requested *uint, held *domain.RedeemableTicket) error {
	wrong := &WrongEventError{}
	if requested != nil {
		wrong.RequestedEventID = *requested
	}
	if held.EventID != nil {
		wrong.HeldEventID = *held.EventID

		if event, err := s.events.FindByID(ctx, *held.EventID); err == nil {
			wrong.HeldEventName = event.Name
		}
	}

	return wrong
}

// claim consumes the grant with a conditional update. Losing the race (the
// row is no longer PENDING) is reported as the ordinary denial for the path,
// which is what makes redemption exactly-once in effect.
func (s *TicketService) claim(ctx context.Context, member domain.Member, grant domain.RedeemableTicket, now time.Time) error {
	var err error
	switch grant.Source {
	case domain.SourceTicket:
		err = s.store.ClaimTicket(ctx, grant.TicketID, now)
	case domain.SourceInvitation:
		err = s.store.ClaimInvitation(ctx, grant.InvitationID, now)
	default:
		return fmt.Errorf("unknown ticket source %q", grant.Source)
	}

	if err != nil {
		if errors.Is(err, repository.ErrTicketUnavailable) || errors.Is(err, repository.ErrInvitationUnavailable) {
			if member.IsGhost() {
				return ErrNoAccess
			}

			return ErrNoTicket
		}

		return fmt.Errorf("s.claim -> %w", err)
	}

	return nil
}

// transmute is the one-time ghost-to-member activation.
func (s *TicketService) transmute(ctx context.Context, member domain.Member, grant domain.RedeemableTicket, now time.Time) (domain.RedeemResult, error) {
	if err := s.members.RecordTransmutation(ctx, member.ID, now); err != nil {
		return domain.RedeemResult{}, fmt.Errorf("s.members.RecordTransmutation -> %w", err)
	}

	var credentialRef *string
	ref, err := s.issuer.MintMembershipCredential(ctx, member.WalletAddress, domain.TierOne)
	if err != nil {
		// Attendance is already committed; the credential can be minted later.
		zap.L().Warn("membership credential mint failed",
			zap.Uint("member_id", member.ID),
			zap.Error(err))
	} else {
		if err = s.members.SetCredentialRef(ctx, member.ID, ref); err != nil {
			return domain.RedeemResult{}, fmt.Errorf("s.members.SetCredentialRef -> %w", err)
		}
		credentialRef = &ref
	}

	if _, err = s.attendance.AppendRecord(ctx, domain.AttendanceRecord{
		MemberID:    member.ID,
		EventID:     grant.EventID,
		CheckedInAt: now,
	}); err != nil {
		return domain.RedeemResult{}, fmt.Errorf("s.attendance.AppendRecord -> %w", err)
	}

	if grant.EventID != nil {
		s.recordEventAttendance(ctx, member, *grant.EventID)
	}

	if member.ReferrerID != nil && s.referralBonus > 0 {
		if err = s.members.AddVibePoints(ctx, *member.ReferrerID, s.referralBonus); err != nil {
			zap.L().Warn("referral bonus credit failed",
				zap.Uint("referrer_id", *member.ReferrerID),
				zap.Error(err))
		}
	}

	return domain.RedeemResult{
		Kind:            domain.RedeemTransmutation,
		NewTier:         domain.TierOne,
		AttendanceCount: 1,
		CredentialRef:   credentialRef,
		EventID:         grant.EventID,
	}, nil
}

// accrue handles a check-in by an existing member.
func (s *TicketService) accrue(ctx context.Context, member domain.Member, grant domain.RedeemableTicket, now time.Time) (domain.RedeemResult, error) {
	if err := s.members.IncrementAttendance(ctx, member.ID, now); err != nil {
		return domain.RedeemResult{}, fmt.Errorf("s.members.IncrementAttendance -> %w", err)
	}
	member.AttendanceCount++
	member.LastAttendanceAt = &now

	if _, err := s.attendance.AppendRecord(ctx, domain.AttendanceRecord{
		MemberID:    member.ID,
		EventID:     grant.EventID,
		CheckedInAt: now,
	}); err != nil {
		return domain.RedeemResult{}, fmt.Errorf("s.attendance.AppendRecord -> %w", err)
	}

	if grant.EventID != nil {
		s.recordEventAttendance(ctx, member, *grant.EventID)
	}

	newTier, upgraded, err := s.tiers.CheckUpgrade(ctx, member)
	if err != nil {
		return domain.RedeemResult{}, fmt.Errorf("s.tiers.CheckUpgrade -> %w", err)
	}

	kind := domain.RedeemAccessGranted
	if upgraded {
		kind = domain.RedeemLevelUp
	}

	return domain.RedeemResult{
		Kind:            kind,
		NewTier:         newTier,
		AttendanceCount: member.AttendanceCount,
		CredentialRef:   member.CredentialRef,
		EventID:         grant.EventID,
	}, nil
}

// recordEventAttendance upserts the idempotent per-(member, event) record and
// requests the proof-of-attendance credential for it. Everything here is
// best-effort relative to the redemption result.
func (s *TicketService) recordEventAttendance(ctx context.Context, member domain.Member, eventID uint) {
	attendance, err := s.attendance.UpsertEventAttendance(ctx, member.ID, eventID)
	if err != nil {
		zap.L().Warn("event attendance upsert failed",
			zap.Uint("member_id", member.ID),
			zap.Uint("event_id", eventID),
			zap.Error(err))

		return
	}
	if attendance.CredentialRef != nil {
		return
	}

	eventName := ""
	if event, err := s.events.FindByID(ctx, eventID); err == nil {
		eventName = event.Name
	}

	ref, err := s.issuer.MintEventCredential(ctx, member.WalletAddress, eventID, eventName)
	if err != nil {
		zap.L().Warn("event credential mint failed",
			zap.Uint("member_id", member.ID),
			zap.Uint("event_id", eventID),
			zap.Error(err))

		return
	}

	if err = s.attendance.SetEventCredential(ctx, attendance.ID, ref); err != nil {
		zap.L().Warn("event credential store failed",
			zap.Uint("member_id", member.ID),
			zap.Uint("event_id", eventID),
			zap.Error(err))
	}
}
