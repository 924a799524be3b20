package domain

import "time"

// Tier 0 is a "ghost": a wallet we have seen but that has never completed
// a check-in. Tiers 1..3 are active membership ranks derived from attendance.
const (
	TierGhost = 0
	TierOne   = 1
	TierTwo   = 2
	TierThree = 3
)

type Member struct {
	ID               uint       `json:"id"`
	WalletAddress    string     `json:"wallet_address"`
	Email            string     `json:"email,omitempty"`
	Tier             int        `json:"tier"`
	AttendanceCount  int        `json:"attendance_count"`
	LastAttendanceAt *time.Time `json:"last_attendance_at,omitempty"`
	CredentialRef    *string    `json:"credential_ref,omitempty"`
	ReferrerID       *uint      `json:"referrer_id,omitempty"`
	VibePoints       int        `json:"vibe_points"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsGhost reports whether the member has never held a membership credential.
// Ghost status is defined by the missing credential, not by the numeric tier.
func (m *Member) IsGhost() bool {
	return m.CredentialRef == nil
}
