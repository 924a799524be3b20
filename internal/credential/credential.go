// Package credential talks to the external credential-issuing service that
// mints membership and proof-of-attendance artifacts for a wallet. The rest of
// the application depends only on the Issuer interface; mint failures are
// expected to be caught and logged by callers, never to roll back committed
// state.
package credential

import (
	"context"
	"errors"
)

var ErrMintingDisabled = errors.New("credential minting is disabled")

type Issuer interface {
	// MintMembershipCredential mints the one-time membership credential for a
	// wallet and returns an opaque reference to it.
	MintMembershipCredential(ctx context.Context, walletAddress string, tier int) (string, error)
	// MintEventCredential mints a proof-of-attendance credential for one event.
	MintEventCredential(ctx context.Context, walletAddress string, eventID uint, eventName string) (string, error)
	// RefreshMetadata asks the issuer to update the metadata of an existing
	// credential after a tier change.
	RefreshMetadata(ctx context.Context, credentialRef string, newTier int) error
}

// Disabled is an Issuer used when no minting service is configured. Every call
// fails with ErrMintingDisabled, which callers treat like any other mint
// failure: log and continue.
type Disabled struct{}

func NewDisabled() *Disabled {
	return &Disabled{}
}

func (Disabled) MintMembershipCredential(_ context.Context, _ string, _ int) (string, error) {
	return "", ErrMintingDisabled
}

func (Disabled) MintEventCredential(_ context.Context, _ string, _ uint, _ string) (string, error) {
	return "", ErrMintingDisabled
}

func (Disabled) RefreshMetadata(_ context.Context, _ string, _ int) error {
	return ErrMintingDisabled
}
