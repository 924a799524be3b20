package response

import "github.com/garomon/garo-vibe-api/internal/domain"

type WalletLoginResponse struct {
	Token         string        `json:"token"`
	Member        domain.Member `json:"member"`
	IsNew         bool          `json:"is_new"`
	TicketGranted bool          `json:"ticket_granted"`
}

type StaffLoginResponse struct {
	Token string           `json:"token"`
	Staff domain.StaffUser `json:"staff"`
}
