package response

import "github.com/garomon/garo-vibe-api/internal/domain"

type CheckinResponse struct {
	Kind            domain.RedeemKind `json:"kind"`
	NewTier         int               `json:"new_tier"`
	AttendanceCount int               `json:"attendance_count"`
	CredentialRef   *string           `json:"credential_ref,omitempty"`
	EventID         *uint             `json:"event_id,omitempty"`
}

type IssueInvitationResponse struct {
	Invitation domain.Invitation `json:"invitation"`
	Created    bool              `json:"created"`
}

type AttendanceHistoryResponse struct {
	Records []domain.AttendanceRecord `json:"records"`
}
