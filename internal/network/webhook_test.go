package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	domainerrors "cardpolicy/internal/errors"
	"cardpolicy/internal/service"
)

const testSecret = "whsec_test"

// sign builds a Stripe-Signature header for payload.
func sign(payload []byte, secret string, at time.Time) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	}).Header
}

func TestWebhookParser_Request(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "issuing_authorization.request",
		"data": {"object": {
			"id": "iauth_1",
			"object": "issuing.authorization",
			"amount": 0,
			"currency": "usd",
			"card": {"id": "ic_1", "object": "issuing.card"},
			"merchant_data": {"name": "Amazon", "category_code": "5942", "network_id": "merch_amazon"},
			"pending_request": {"amount": 5000, "currency": "usd"},
			"status": "pending"
		}}
	}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)

	req, ok := event.(service.AuthorizationRequest)
	require.True(t, ok, "got %T", event)
	assert.Equal(t, "iauth_1", req.EventID)
	assert.Equal(t, "ic_1", req.CardNetworkID)
	assert.Equal(t, int64(5000), req.Amount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, service.Merchant{Name: "Amazon", CategoryCode: "5942", NetworkID: "merch_amazon"}, req.Merchant)
	assert.Equal(t, payload, req.Raw)
}

func TestWebhookParser_CreatedWithCardID(t *testing.T) {
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "issuing_authorization.created",
		"data": {"object": {
			"id": "iauth_2",
			"object": "issuing.authorization",
			"amount": 1200,
			"currency": "usd",
			"card": "ic_2",
			"merchant_data": {"network_id": "merch_cafe"},
			"status": "closed"
		}}
	}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)

	settled, ok := event.(service.AuthorizationSettled)
	require.True(t, ok, "got %T", event)
	assert.Equal(t, "iauth_2", settled.EventID)
	assert.Equal(t, "ic_2", settled.CardNetworkID)
	assert.Equal(t, int64(1200), settled.Amount)
	assert.Equal(t, "merch_cafe", settled.MerchantNetworkID)
	assert.Equal(t, "closed", settled.Status)
}

func TestWebhookParser_OtherEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_3","object":"event","type":"issuing_card.updated","data":{"object":{"id":"ic_3"}}}`)

	event, err := NewWebhookParser(testSecret).Parse(payload, sign(payload, testSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, service.UnknownEvent{Type: "issuing_card.updated"}, event)
}

func TestWebhookParser_BadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_4","object":"event","type":"issuing_authorization.request","data":{"object":{}}}`)
	parser := NewWebhookParser(testSecret)

	_, err := parser.Parse(payload, sign(payload, "whsec_other", time.Now()))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)

	_, err = parser.Parse(payload, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)

	_, err = parser.Parse(payload, sign(payload, testSecret, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSignature)
}
