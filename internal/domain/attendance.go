package domain

import "time"

// AttendanceRecord is one entry in the append-only check-in log.
type AttendanceRecord struct {
	ID          uint      `json:"id"`
	MemberID    uint      `json:"member_id"`
	EventID     *uint     `json:"event_id,omitempty"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

// EventAttendance is the idempotent per-(member, event) record carrying the
// proof-of-attendance credential reference. At most one row exists per pair.
type EventAttendance struct {
	ID            uint      `json:"id"`
	MemberID      uint      `json:"member_id"`
	EventID       uint      `json:"event_id"`
	CredentialRef *string   `json:"credential_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
