package domain

type RedeemKind string

const (
	// RedeemTransmutation is the one-time activation of a ghost into a tier-1 member.
	RedeemTransmutation RedeemKind = "Transmutation"
	// RedeemLevelUp means the check-in pushed attendance across a tier threshold.
	RedeemLevelUp RedeemKind = "LevelUp"
	// RedeemAccessGranted means the check-in succeeded without a tier change.
	RedeemAccessGranted RedeemKind = "AccessGranted"
)

type RedeemResult struct {
	Kind            RedeemKind `json:"kind"`
	NewTier         int        `json:"new_tier"`
	AttendanceCount int        `json:"attendance_count"`
	CredentialRef   *string    `json:"credential_ref,omitempty"`
	EventID         *uint      `json:"event_id,omitempty"`
}
