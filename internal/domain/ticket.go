package domain

import "time"

type TicketStatus string

const (
	TicketPending TicketStatus = "PENDING"
	TicketUsed    TicketStatus = "USED"
)

// Ticket is a single-use grant of entry already bound to a member, either
// issued directly or converted from a claimed invitation at login.
type Ticket struct {
	ID           uint         `json:"id"`
	MemberID     uint         `json:"member_id"`
	EventID      *uint        `json:"event_id,omitempty"`
	Status       TicketStatus `json:"status"`
	InvitationID *uint        `json:"invitation_id,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	UsedAt       *time.Time   `json:"used_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsExpired reports whether the ticket has passed its expiry.
func (t *Ticket) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// IsRedeemable reports whether the ticket can still be burned at the door.
func (t *Ticket) IsRedeemable(now time.Time) bool {
	return t.Status == TicketPending && !t.IsExpired(now)
}

type TicketSource string

const (
	SourceTicket     TicketSource = "ticket"
	SourceInvitation TicketSource = "invitation"
)

// RedeemableTicket normalizes a grant found in either the ticket table or the
// invitation table into one shape, so redemption logic never branches on the
// source again after lookup.
type RedeemableTicket struct {
	Source       TicketSource `json:"source"`
	TicketID     uint         `json:"ticket_id,omitempty"`
	InvitationID uint         `json:"invitation_id,omitempty"`
	EventID      *uint        `json:"event_id,omitempty"`
}
