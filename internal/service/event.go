package service

import (
	"fmt"

	"cardpolicy/internal/errors"
)

// Event is an inbound card network notification. The concrete type selects
// how the authorization service handles it.
type Event interface {
	isEvent()
}

// Merchant describes where a card was presented.
type Merchant struct {
	Name         string
	CategoryCode string
	NetworkID    string
}

// AuthorizationRequest asks for a real-time approve/decline verdict.
type AuthorizationRequest struct {
	EventID       string // authorization id; the network approves or declines by it
	CardNetworkID string
	Amount        int64
	Currency      string
	Merchant      Merchant
	Raw           []byte
}

// AuthorizationSettled reports an authorization the network has already decided.
type AuthorizationSettled struct {
	EventID           string
	CardNetworkID     string
	Amount            int64
	Currency          string
	MerchantNetworkID string
	Status            string
	Raw               []byte
}

// UnknownEvent is any notification type the service does not act on.
type UnknownEvent struct {
	Type string
}

func (AuthorizationRequest) isEvent() {}
func (AuthorizationSettled) isEvent() {}
func (UnknownEvent) isEvent()         {}

// Validate checks the fields needed to evaluate and record the request.
func (e AuthorizationRequest) Validate() error {
	switch {
	case e.EventID == "":
		return malformed("missing event id")
	case e.CardNetworkID == "":
		return malformed("missing card")
	case e.Amount < 0:
		return malformed("negative amount")
	case e.Currency == "":
		return malformed("missing currency")
	}
	return nil
}

// Transaction converts the request into evaluator input.
func (e AuthorizationRequest) Transaction() Transaction {
	return Transaction{
		EventID:      e.EventID,
		Amount:       e.Amount,
		Currency:     e.Currency,
		MerchantName: e.Merchant.Name,
		CategoryCode: e.Merchant.CategoryCode,
		MerchantID:   e.Merchant.NetworkID,
	}
}

// Validate checks the fields needed to record the settlement.
func (e AuthorizationSettled) Validate() error {
	switch {
	case e.EventID == "":
		return malformed("missing event id")
	case e.CardNetworkID == "":
		return malformed("missing card")
	case e.Amount < 0:
		return malformed("negative amount")
	case e.Currency == "":
		return malformed("missing currency")
	case e.Status == "":
		return malformed("missing status")
	}
	return nil
}

// Transaction converts the settlement into recorder input.
func (e AuthorizationSettled) Transaction() Transaction {
	return Transaction{
		EventID:    e.EventID,
		Amount:     e.Amount,
		Currency:   e.Currency,
		MerchantID: e.MerchantNetworkID,
	}
}

func malformed(msg string) error {
	return fmt.Errorf("%w: %s", errors.ErrMalformedEvent, msg)
}
