package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type IssueInvitationRequest struct {
	Email   string `json:"email" binding:"required"`
	EventID *uint  `json:"event_id,omitempty"`
}

func (req *IssueInvitationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type CheckinRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	EventID       *uint  `json:"event_id,omitempty"`
}

func (req *CheckinRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.WalletAddress, validation.Required),
	)
}

type PurchasePointsRequest struct {
	Points          int    `json:"points" binding:"required,min=1"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

func (req *PurchasePointsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Points, validation.Required, validation.Min(1)),
		validation.Field(&req.PaymentMethodID, validation.Required),
	)
}
