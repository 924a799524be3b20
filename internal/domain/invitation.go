package domain

import "time"

type InvitationStatus string

const (
	// InvitationPending means the invitation can still be claimed or redeemed.
	InvitationPending InvitationStatus = "PENDING"
	// InvitationClaimed means the invitation was converted into a ticket at login.
	InvitationClaimed InvitationStatus = "CLAIMED"
	// InvitationUsed means the invitation was consumed directly at the door.
	InvitationUsed InvitationStatus = "USED"
)

type Invitation struct {
	ID        uint             `json:"id"`
	Email     string           `json:"email"`
	EventID   *uint            `json:"event_id,omitempty"`
	Status    InvitationStatus `json:"status"`
	IssuedBy  string           `json:"issued_by"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	ClaimedAt *time.Time       `json:"claimed_at,omitempty"`
	UsedAt    *time.Time       `json:"used_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// IsExpired reports whether the invitation has passed its expiry.
// An invitation without an expiry never expires.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// IsRedeemable reports whether the invitation can still be consumed.
func (i *Invitation) IsRedeemable(now time.Time) bool {
	return i.Status == InvitationPending && !i.IsExpired(now)
}
