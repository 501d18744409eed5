package network

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"cardpolicy/internal/model"
)

// StripeClient relays decisions and card status changes to Stripe Issuing.
type StripeClient struct {
	api *client.API
}

// NewStripeClient creates a Stripe client. A nil backends uses Stripe's
// default API endpoints.
func NewStripeClient(secretKey string, backends *stripe.Backends) *StripeClient {
	return &StripeClient{api: client.New(secretKey, backends)}
}

// Approve approves a pending issuing authorization.
func (c *StripeClient) Approve(ctx context.Context, authorizationID string) error {
	params := &stripe.IssuingAuthorizationApproveParams{}
	params.Context = ctx
	if _, err := c.api.IssuingAuthorizations.Approve(authorizationID, params); err != nil {
		return fmt.Errorf("approve authorization %s: %w", authorizationID, err)
	}
	return nil
}

// Decline declines a pending issuing authorization.
func (c *StripeClient) Decline(ctx context.Context, authorizationID string) error {
	params := &stripe.IssuingAuthorizationDeclineParams{}
	params.Context = ctx
	if _, err := c.api.IssuingAuthorizations.Decline(authorizationID, params); err != nil {
		return fmt.Errorf("decline authorization %s: %w", authorizationID, err)
	}
	return nil
}

// SetCardStatus activates or deactivates an issuing card and returns the
// status Stripe reports afterwards.
func (c *StripeClient) SetCardStatus(ctx context.Context, networkID string, status model.CardStatus) (model.CardStatus, error) {
	params := &stripe.IssuingCardParams{Status: stripe.String(string(status))}
	params.Context = ctx
	card, err := c.api.IssuingCards.Update(networkID, params)
	if err != nil {
		return "", fmt.Errorf("update card %s status: %w", networkID, err)
	}
	return model.CardStatus(card.Status), nil
}
