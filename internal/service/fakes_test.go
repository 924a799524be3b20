package service

import (
	"context"
	"fmt"
	"time"

	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository"
)

// In-memory doubles for the repository interfaces. They mimic the conditional
// claim semantics of the real DAOs, which is what the redemption tests lean on.

type fakeMemberRepo struct {
	members map[uint]*domain.Member
	nextID  uint

	updateTierErr error
	tierUpdates   []int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{
		members: make(map[uint]*domain.Member),
		nextID:  1,
	}
}

func (f *fakeMemberRepo) add(member domain.Member) domain.Member {
	member.ID = f.nextID
	f.nextID++
	f.members[member.ID] = &member

	return member
}

func (f *fakeMemberRepo) Create(_ context.Context, member domain.Member) (domain.Member, error) {
	for _, existing := range f.members {
		if existing.WalletAddress == member.WalletAddress {
			return domain.Member{}, repository.ErrMemberWalletExists
		}
	}

	return f.add(member), nil
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id uint) (domain.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return domain.Member{}, repository.ErrMemberNotFound
	}

	return *member, nil
}

func (f *fakeMemberRepo) FindByWallet(_ context.Context, walletAddress string) (domain.Member, error) {
	for _, member := range f.members {
		if member.WalletAddress == walletAddress {
			return *member, nil
		}
	}

	return domain.Member{}, repository.ErrMemberNotFound
}

func (f *fakeMemberRepo) BackfillEmail(_ context.Context, id uint, email string) error {
	for _, member := range f.members {
		if member.Email == email && member.ID != id {
			return repository.ErrMemberEmailExists
		}
	}

	member, ok := f.members[id]
	if !ok {
		return repository.ErrMemberNotFound
	}
	if member.Email == "" {
		member.Email = email
	}

	return nil
}

func (f *fakeMemberRepo) RecordTransmutation(_ context.Context, id uint, at time.Time) error {
	member, ok := f.members[id]
	if !ok {
		return repository.ErrMemberNotFound
	}

	member.Tier = domain.TierOne
	member.AttendanceCount = 1
	member.LastAttendanceAt = &at

	return nil
}

func (f *fakeMemberRepo) IncrementAttendance(_ context.Context, id uint, at time.Time) error {
	member, ok := f.members[id]
	if !ok {
		return repository.ErrMemberNotFound
	}

	member.AttendanceCount++
	member.LastAttendanceAt = &at

	return nil
}

func (f *fakeMemberRepo) UpdateTier(_ context.Context, id uint, tier int) error {
	if f.updateTierErr != nil {
		return f.updateTierErr
	}

	member, ok := f.members[id]
	if !ok {
		return repository.ErrMemberNotFound
	}

	member.Tier = tier
	f.tierUpdates = append(f.tierUpdates, tier)

	return nil
}

func (f *fakeMemberRepo) SetCredentialRef(_ context.Context, id uint, ref string) error {
	member, ok := f.members[id]
	if !ok {
		return repository.ErrMemberNotFound
	}

	member.CredentialRef = &ref

	return nil
}

func (f *fakeMemberRepo) AddVibePoints(_ context.Context, id uint, amount int) error {
	member, ok := f.members[id]
	if !ok {
		return repository.ErrMemberNotFound
	}

	member.VibePoints += amount

	return nil
}

type fakeTicketStore struct {
	invitations map[uint]*domain.Invitation
	tickets     map[uint]*domain.Ticket
	nextID      uint
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{
		invitations: make(map[uint]*domain.Invitation),
		tickets:     make(map[uint]*domain.Ticket),
		nextID:      1,
	}
}

func (f *fakeTicketStore) addInvitation(invitation domain.Invitation) domain.Invitation {
	invitation.ID = f.nextID
	f.nextID++
	if invitation.Status == "" {
		invitation.Status = domain.InvitationPending
	}
	f.invitations[invitation.ID] = &invitation

	return invitation
}

func (f *fakeTicketStore) addTicket(ticket domain.Ticket) domain.Ticket {
	ticket.ID = f.nextID
	f.nextID++
	if ticket.Status == "" {
		ticket.Status = domain.TicketPending
	}
	f.tickets[ticket.ID] = &ticket

	return ticket
}

func (f *fakeTicketStore) CreateInvitation(_ context.Context, invitation domain.Invitation) (domain.Invitation, error) {
	return f.addInvitation(invitation), nil
}

func (f *fakeTicketStore) FindOpenInvitation(_ context.Context, email string, eventID *uint) (domain.Invitation, error) {
	for _, invitation := range f.invitations {
		if invitation.Email != email || invitation.Status != domain.InvitationPending {
			continue
		}
		if !sameEventScope(invitation.EventID, eventID) {
			continue
		}

		return *invitation, nil
	}

	return domain.Invitation{}, repository.ErrInvitationNotFound
}

func sameEventScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func (f *fakeTicketStore) FindPendingInvitationsByEmail(_ context.Context, email string) ([]domain.Invitation, error) {
	var found []domain.Invitation
	for _, invitation := range f.invitations {
		if invitation.Email == email && invitation.Status == domain.InvitationPending {
			found = append(found, *invitation)
		}
	}

	return found, nil
}

func (f *fakeTicketStore) MarkInvitationClaimed(_ context.Context, id uint, at time.Time) error {
	invitation, ok := f.invitations[id]
	if !ok || invitation.Status != domain.InvitationPending {
		return repository.ErrInvitationUnavailable
	}

	invitation.Status = domain.InvitationClaimed
	invitation.ClaimedAt = &at

	return nil
}

func (f *fakeTicketStore) ClaimInvitation(_ context.Context, id uint, at time.Time) error {
	invitation, ok := f.invitations[id]
	if !ok || invitation.Status != domain.InvitationPending {
		return repository.ErrInvitationUnavailable
	}

	invitation.Status = domain.InvitationUsed
	invitation.UsedAt = &at

	return nil
}

func (f *fakeTicketStore) CreateTicket(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	return f.addTicket(ticket), nil
}

func (f *fakeTicketStore) FindRedeemableTickets(_ context.Context, memberID uint, now time.Time) ([]domain.Ticket, error) {
	var found []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.MemberID == memberID && ticket.IsRedeemable(now) {
			found = append(found, *ticket)
		}
	}

	return found, nil
}

func (f *fakeTicketStore) ClaimTicket(_ context.Context, id uint, at time.Time) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.Status != domain.TicketPending {
		return repository.ErrTicketUnavailable
	}

	ticket.Status = domain.TicketUsed
	ticket.UsedAt = &at

	return nil
}

type fakeAttendanceRepo struct {
	records map[uint][]domain.AttendanceRecord
	events  map[string]*domain.EventAttendance
	nextID  uint
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records: make(map[uint][]domain.AttendanceRecord),
		events:  make(map[string]*domain.EventAttendance),
		nextID:  1,
	}
}

func eventKey(memberID, eventID uint) string {
	return fmt.Sprintf("%d/%d", memberID, eventID)
}

func (f *fakeAttendanceRepo) AppendRecord(_ context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	record.ID = f.nextID
	f.nextID++
	f.records[record.MemberID] = append(f.records[record.MemberID], record)

	return record, nil
}

func (f *fakeAttendanceRepo) FindRecordsByMember(_ context.Context, memberID uint) ([]domain.AttendanceRecord, error) {
	return f.records[memberID], nil
}

func (f *fakeAttendanceRepo) UpsertEventAttendance(_ context.Context, memberID, eventID uint) (domain.EventAttendance, error) {
	key := eventKey(memberID, eventID)
	if existing, ok := f.events[key]; ok {
		return *existing, nil
	}

	attendance := &domain.EventAttendance{
		ID:       f.nextID,
		MemberID: memberID,
		EventID:  eventID,
	}
	f.nextID++
	f.events[key] = attendance

	return *attendance, nil
}

func (f *fakeAttendanceRepo) SetEventCredential(_ context.Context, id uint, ref string) error {
	for _, attendance := range f.events {
		if attendance.ID == id {
			attendance.CredentialRef = &ref

			return nil
		}
	}

	return repository.ErrEventAttendanceNotFound
}

type fakeEventRepo struct {
	events map[uint]domain.Event
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: make(map[uint]domain.Event)}
	for _, event := range events {
		f.events[event.ID] = event
	}

	return f
}

func (f *fakeEventRepo) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}

	return event, nil
}

type fakeIssuer struct {
	mintErr    error
	refreshErr error

	memberMints  []string
	eventMints   []uint
	refreshCalls []int
}

func (f *fakeIssuer) MintMembershipCredential(_ context.Context, walletAddress string, tier int) (string, error) {
	if f.mintErr != nil {
		return "", f.mintErr
	}
	f.memberMints = append(f.memberMints, walletAddress)

	return fmt.Sprintf("cred-%s-t%d", walletAddress, tier), nil
}

func (f *fakeIssuer) MintEventCredential(_ context.Context, walletAddress string, eventID uint, _ string) (string, error) {
	if f.mintErr != nil {
		return "", f.mintErr
	}
	f.eventMints = append(f.eventMints, eventID)

	return fmt.Sprintf("poa-%s-e%d", walletAddress, eventID), nil
}

func (f *fakeIssuer) RefreshMetadata(_ context.Context, _ string, newTier int) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.refreshCalls = append(f.refreshCalls, newTier)

	return nil
}
