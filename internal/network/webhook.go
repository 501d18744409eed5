package network

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/service"
)

// Stripe event types the authorization service acts on.
const (
	EventAuthorizationRequest = "issuing_authorization.request"
	EventAuthorizationCreated = "issuing_authorization.created"
)

// WebhookParser verifies Stripe webhook deliveries and decodes them into events.
type WebhookParser struct {
	secret string
}

// NewWebhookParser creates a parser for the endpoint signing secret.
func NewWebhookParser(secret string) *WebhookParser {
	return &WebhookParser{secret: secret}
}

// Parse verifies the Stripe-Signature header and decodes the payload.
// Event types other than issuing authorization request/created become
// service.UnknownEvent.
func (p *WebhookParser) Parse(payload []byte, signature string) (service.Event, error) {
	if signature == "" || p.secret == "" {
		return nil, errors.ErrInvalidSignature
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidSignature, err)
	}
	return decodeEvent(event, payload)
}

func decodeEvent(event stripe.Event, payload []byte) (service.Event, error) {
	eventType := string(event.Type)
	if eventType != EventAuthorizationRequest && eventType != EventAuthorizationCreated {
		return service.UnknownEvent{Type: eventType}, nil
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: %s has no data object", errors.ErrMalformedEvent, eventType)
	}

	var auth stripe.IssuingAuthorization
	if err := json.Unmarshal(event.Data.Raw, &auth); err != nil {
		return nil, fmt.Errorf("%w: decode authorization: %v", errors.ErrMalformedEvent, err)
	}

	// card arrives either as an id or as an expanded object; both decode into Card.ID.
	var cardID string
	if auth.Card != nil {
		cardID = auth.Card.ID
	}
	var merchant service.Merchant
	if auth.MerchantData != nil {
		merchant = service.Merchant{
			Name:         auth.MerchantData.Name,
			CategoryCode: auth.MerchantData.CategoryCode,
			NetworkID:    auth.MerchantData.NetworkID,
		}
	}

	if eventType == EventAuthorizationCreated {
		return service.AuthorizationSettled{
			EventID:           auth.ID,
			CardNetworkID:     cardID,
			Amount:            auth.Amount,
			Currency:          string(auth.Currency),
			MerchantNetworkID: merchant.NetworkID,
			Status:            string(auth.Status),
			Raw:               payload,
		}, nil
	}

	amount, currency := auth.Amount, string(auth.Currency)
	if auth.PendingRequest != nil {
		amount, currency = auth.PendingRequest.Amount, string(auth.PendingRequest.Currency)
	}
	return service.AuthorizationRequest{
		EventID:       auth.ID,
		CardNetworkID: cardID,
		Amount:        amount,
		Currency:      currency,
		Merchant:      merchant,
		Raw:           payload,
	}, nil
}
