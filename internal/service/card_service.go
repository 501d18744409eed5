package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

// SpendView is approved spend in major currency units.
type SpendView struct {
	Daily    decimal.Decimal
	Monthly  decimal.Decimal
	Lifetime decimal.Decimal
}

// Activity feed page sizes.
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// Activity is one recorded decision and the card it was made for.
type Activity struct {
	Decision model.Decision
	Card     model.Card
}

// CardService handles cardholder-facing card operations.
type CardService interface {
	ListCards(ctx context.Context, cardholderID string) ([]model.Card, error)
	GetCard(ctx context.Context, cardholderID string, cardID uuid.UUID) (*model.Card, error)
	GetSpend(ctx context.Context, cardholderID string, cardID uuid.UUID) (*SpendView, error)
	SetFrozen(ctx context.Context, cardholderID string, cardID uuid.UUID, frozen bool) (*model.Card, error)
	// RecentActivity lists the newest decisions across the cardholder's cards.
	// A non-positive limit means DefaultActivityLimit; larger ones are capped at MaxActivityLimit.
	RecentActivity(ctx context.Context, cardholderID string, limit int) ([]Activity, error)
}

type cardService struct {
	cardRepo     repository.CardRepository
	decisionRepo repository.DecisionRepository
	spend        SpendAggregator
	network      NetworkClient
	cards        CardLookup
}

// NewCardService creates a new card service.
func NewCardService(cardRepo repository.CardRepository, decisionRepo repository.DecisionRepository, spend SpendAggregator, network NetworkClient, cards CardLookup) CardService {
	return &cardService{
		cardRepo:     cardRepo,
		decisionRepo: decisionRepo,
		spend:        spend,
		network:      network,
		cards:        cards,
	}
}

// ListCards lists the cardholder's cards.
func (s *cardService) ListCards(ctx context.Context, cardholderID string) ([]model.Card, error) {
	cards, err := s.cardRepo.FindByCardholderID(ctx, cardholderID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// GetCard loads a card with its rules and recent decisions.
// Cards owned by someone else are reported as not found.
func (s *cardService) GetCard(ctx context.Context, cardholderID string, cardID uuid.UUID) (*model.Card, error) {
	card, err := s.cardRepo.FindDetail(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.CardholderID != cardholderID {
		return nil, errors.ErrCardNotFound
	}
	return card, nil
}

// GetSpend returns approved spend per window.
func (s *cardService) GetSpend(ctx context.Context, cardholderID string, cardID uuid.UUID) (*SpendView, error) {
	card, err := s.owned(ctx, cardholderID, cardID)
	if err != nil {
		return nil, err
	}
	summary, err := s.spend.Summary(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("get spend: %w", err)
	}
	return &SpendView{
		Daily:    minorToMajor(summary.Daily),
		Monthly:  minorToMajor(summary.Monthly),
		Lifetime: minorToMajor(summary.Lifetime),
	}, nil
}

// SetFrozen deactivates or reactivates the card on the network, then
// stores the status the network reports.
func (s *cardService) SetFrozen(ctx context.Context, cardholderID string, cardID uuid.UUID, frozen bool) (*model.Card, error) {
	card, err := s.owned(ctx, cardholderID, cardID)
	if err != nil {
		return nil, err
	}

	want := model.CardStatusActive
	if frozen {
		want = model.CardStatusInactive
	}
	status, err := s.network.SetCardStatus(ctx, card.NetworkID, want)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrNetworkAction, err)
	}
	if err := s.cardRepo.UpdateStatus(ctx, card.ID, status); err != nil {
		return nil, fmt.Errorf("update card status: %w", err)
	}
	s.cards.Invalidate(ctx, card.NetworkID)

	card.Status = status
	return card, nil
}

// RecentActivity pairs each decision with its card.
func (s *cardService) RecentActivity(ctx context.Context, cardholderID string, limit int) ([]Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	decisions, err := s.decisionRepo.FindRecentByCardholder(ctx, cardholderID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	if len(decisions) == 0 {
		return []Activity{}, nil
	}
	cards, err := s.cardRepo.FindByCardholderID(ctx, cardholderID)
	if err != nil {
		return nil, fmt.Errorf("list activity cards: %w", err)
	}
	byID := make(map[uuid.UUID]model.Card, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}

	activity := make([]Activity, 0, len(decisions))
	for _, d := range decisions {
		activity = append(activity, Activity{Decision: d, Card: byID[d.CardID]})
	}
	return activity, nil
}

func (s *cardService) owned(ctx context.Context, cardholderID string, cardID uuid.UUID) (*model.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.CardholderID != cardholderID {
		return nil, errors.ErrCardNotFound
	}
	return card, nil
}

// minorToMajor converts cents to a two-decimal amount.
func minorToMajor(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
