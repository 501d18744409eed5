package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardpolicy/internal/cache"
	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

const cardCacheKeyPrefix = "card:network:"

// CardLookup resolves the card and rules behind an inbound event.
type CardLookup interface {
	FindByNetworkID(ctx context.Context, networkID string) (*model.Card, error)
	FindRules(ctx context.Context, cardID uuid.UUID) ([]model.Rule, error)
	// Invalidate drops any cached copy of the card.
	Invalidate(ctx context.Context, networkID string)
}

type cardLookup struct {
	cardRepo repository.CardRepository
	ruleRepo repository.RuleRepository
	cache    *cache.Client
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCardLookup creates a card lookup. Cards are cached by network id;
// rules always come from the database. A nil cache disables caching.
func NewCardLookup(cardRepo repository.CardRepository, ruleRepo repository.RuleRepository, c *cache.Client, ttl time.Duration, logger *zap.Logger) CardLookup {
	return &cardLookup{
		cardRepo: cardRepo,
		ruleRepo: ruleRepo,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

func (l *cardLookup) FindByNetworkID(ctx context.Context, networkID string) (*model.Card, error) {
	key := cardCacheKey(networkID)
	var cached model.Card
	if l.cache.GetJSON(ctx, key, &cached) {
		l.logger.Debug("card cache hit", zap.String("network_id", networkID))
		return &cached, nil
	}

	card, err := l.cardRepo.FindByNetworkID(ctx, networkID)
	if err != nil {
		return nil, err
	}
	l.cache.SetJSON(ctx, key, card, l.ttl)
	return card, nil
}

func (l *cardLookup) FindRules(ctx context.Context, cardID uuid.UUID) ([]model.Rule, error) {
	rules, err := l.ruleRepo.FindByCardID(ctx, cardID)
	if err != nil {
		return nil, fmt.Errorf("load rules for card %s: %w", cardID, err)
	}
	return rules, nil
}

func (l *cardLookup) Invalidate(ctx context.Context, networkID string) {
	l.cache.Delete(ctx, cardCacheKey(networkID))
}

func cardCacheKey(networkID string) string {
	return cardCacheKeyPrefix + networkID
}
