package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/garomon/garo-vibe-api/internal/config"
)

// Price of one vibe point in euro cents.
const vibePointPriceCents = 50

var ErrPaymentNotCompleted = errors.New("payment was not completed")

type MarketplaceMemberRepository interface {
	AddVibePoints(ctx context.Context, id uint, amount int) error
}

type VibePointPurchase struct {
	Points          int    `json:"points"`
	AmountCents     int64  `json:"amount_cents"`
	PaymentIntentID string `json:"payment_intent_id"`
	Status          string `json:"status"`
}

// MarketplaceService sells vibe points, the virtual currency spent in the
// gated marketplace. Payment goes through Stripe; points are credited only
// after the payment intent succeeds.
type MarketplaceService struct {
	members MarketplaceMemberRepository
	stripe  *client.API
}

func NewMarketplaceService(members MarketplaceMemberRepository, conf *config.StripeConfig) *MarketplaceService {
	sc := &client.API{}
	sc.Init(conf.SecretKey, nil)

	return &MarketplaceService{
		members: members,
		stripe:  sc,
	}
}

func (s *MarketplaceService) PurchaseVibePoints(ctx context.Context, memberID uint, points int, paymentMethodID string) (VibePointPurchase, error) {
	amount := int64(points) * vibePointPriceCents

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(string(stripe.CurrencyEUR)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx

	intent, err := s.stripe.PaymentIntents.New(params)
	if err != nil {
		return VibePointPurchase{}, fmt.Errorf("s.stripe.PaymentIntents.New -> %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return VibePointPurchase{
			Points:          points,
			AmountCents:     amount,
			PaymentIntentID: intent.ID,
			Status:          string(intent.Status),
		}, ErrPaymentNotCompleted
	}

	if err = s.members.AddVibePoints(ctx, memberID, points); err != nil {
		return VibePointPurchase{}, fmt.Errorf("s.members.AddVibePoints -> %w", err)
	}

	return VibePointPurchase{
		Points:          points,
		AmountCents:     amount,
		PaymentIntentID: intent.ID,
		Status:          string(intent.Status),
	}, nil
}
