package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository/dao"
)

var (
	ErrInvitationNotFound    = dao.ErrInvitationNotFound
	ErrInvitationUnavailable = dao.ErrInvitationUnavailable
	ErrTicketNotFound        = dao.ErrTicketNotFound
	ErrTicketUnavailable     = dao.ErrTicketUnavailable
)

type TicketDAO interface {
	Insert(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	FindByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindRedeemableByMember(ctx context.Context, memberID uint, now time.Time) ([]dao.Ticket, error)
	Claim(ctx context.Context, id uint, at time.Time) error
}

type InvitationDAO interface {
	Insert(ctx context.Context, invitation dao.Invitation) (dao.Invitation, error)
	FindByID(ctx context.Context, id uint) (dao.Invitation, error)
	FindPendingByEmail(ctx context.Context, email string) ([]dao.Invitation, error)
	FindOpenByEmailAndEvent(ctx context.Context, email string, eventID *uint) (dao.Invitation, error)
	MarkClaimed(ctx context.Context, id uint, at time.Time) error
	Claim(ctx context.Context, id uint, at time.Time) error
}

// TicketRepository owns both stores a grant of entry can live in: the ticket
// table (bound to a member) and the invitation table (bound to an email).
type TicketRepository struct {
	ticketDAO     TicketDAO
	invitationDAO InvitationDAO
}

func NewTicketRepository(ticketDAO TicketDAO, invitationDAO InvitationDAO) *TicketRepository {
	return &TicketRepository{
		ticketDAO:     ticketDAO,
		invitationDAO: invitationDAO,
	}
}

func (r *TicketRepository) CreateInvitation(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error) {
	created, err := r.invitationDAO.Insert(ctx, dao.Invitation{
		Email:     invitation.Email,
		EventID:   invitation.EventID,
		Status:    string(domain.InvitationPending),
		IssuedBy:  invitation.IssuedBy,
		ExpiresAt: invitation.ExpiresAt,
	})
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("r.invitationDAO.Insert -> %w", err)
	}

	return r.invitationDaoToDomain(created), nil
}

func (r *TicketRepository) FindOpenInvitation(ctx context.Context, email string, eventID *uint) (domain.Invitation, error) {
	found, err := r.invitationDAO.FindOpenByEmailAndEvent(ctx, email, eventID)
	if err != nil {
		if errors.Is(err, dao.ErrInvitationNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}

		return domain.Invitation{}, fmt.Errorf("r.invitationDAO.FindOpenByEmailAndEvent -> %w", err)
	}

	return r.invitationDaoToDomain(found), nil
}

func (r *TicketRepository) FindPendingInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	found, err := r.invitationDAO.FindPendingByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.invitationDAO.FindPendingByEmail -> %w", err)
	}

	invitations := make([]domain.Invitation, len(found))
	for i, inv := range found {
		invitations[i] = r.invitationDaoToDomain(inv)
	}

	return invitations, nil
}

func (r *TicketRepository) MarkInvitationClaimed(ctx context.Context, id uint, at time.Time) error {
	if err := r.invitationDAO.MarkClaimed(ctx, id, at); err != nil {
		if errors.Is(err, dao.ErrInvitationUnavailable) {
			return ErrInvitationUnavailable
		}

		return fmt.Errorf("r.invitationDAO.MarkClaimed -> %w", err)
	}

	return nil
}

func (r *TicketRepository) ClaimInvitation(ctx context.Context, id uint, at time.Time) error {
	if err := r.invitationDAO.Claim(ctx, id, at); err != nil {
		if errors.Is(err, dao.ErrInvitationUnavailable) {
			return ErrInvitationUnavailable
		}

		return fmt.Errorf("r.invitationDAO.Claim -> %w", err)
	}

	return nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.ticketDAO.Insert(ctx, dao.Ticket{
		MemberID:     ticket.MemberID,
		EventID:      ticket.EventID,
		Status:       string(domain.TicketPending),
		InvitationID: ticket.InvitationID,
		ExpiresAt:    ticket.ExpiresAt,
	})
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.ticketDAO.Insert -> %w", err)
	}

	return r.ticketDaoToDomain(created), nil
}

func (r *TicketRepository) FindRedeemableTickets(ctx context.Context, memberID uint, now time.Time) ([]domain.Ticket, error) {
	found, err := r.ticketDAO.FindRedeemableByMember(ctx, memberID, now)
	if err != nil {
		return nil, fmt.Errorf("r.ticketDAO.FindRedeemableByMember -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, t := range found {
		tickets[i] = r.ticketDaoToDomain(t)
	}

	return tickets, nil
}

func (r *TicketRepository) ClaimTicket(ctx context.Context, id uint, at time.Time) error {
	if err := r.ticketDAO.Claim(ctx, id, at); err != nil {
		if errors.Is(err, dao.ErrTicketUnavailable) {
			return ErrTicketUnavailable
		}

		return fmt.Errorf("r.ticketDAO.Claim -> %w", err)
	}

	return nil
}

func (r *TicketRepository) invitationDaoToDomain(i dao.Invitation) domain.Invitation {
	return domain.Invitation{
		ID:        i.ID,
		Email:     i.Email,
		EventID:   i.EventID,
		Status:    domain.InvitationStatus(i.Status),
		IssuedBy:  i.IssuedBy,
		ExpiresAt: i.ExpiresAt,
		ClaimedAt: i.ClaimedAt,
		UsedAt:    i.UsedAt,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func (r *TicketRepository) ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:           t.ID,
		MemberID:     t.MemberID,
		EventID:      t.EventID,
		Status:       domain.TicketStatus(t.Status),
		InvitationID: t.InvitationID,
		ExpiresAt:    t.ExpiresAt,
		UsedAt:       t.UsedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
