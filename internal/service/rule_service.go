package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

// RuleService manages the policy rules attached to a cardholder's cards.
type RuleService interface {
	CreateRule(ctx context.Context, cardholderID string, rule *model.Rule) error
	DeleteRule(ctx context.Context, cardholderID string, ruleID uuid.UUID) error
}

type ruleService struct {
	cardRepo repository.CardRepository
	ruleRepo repository.RuleRepository
}

// NewRuleService creates a new rule service.
func NewRuleService(cardRepo repository.CardRepository, ruleRepo repository.RuleRepository) RuleService {
	return &ruleService{
		cardRepo: cardRepo,
		ruleRepo: ruleRepo,
	}
}

// CreateRule validates the rule against its kind and attaches it to the card.
func (s *ruleService) CreateRule(ctx context.Context, cardholderID string, rule *model.Rule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRule, err)
	}
	if err := s.checkOwner(ctx, cardholderID, rule.CardID); err != nil {
		return err
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

// DeleteRule removes a rule from one of the cardholder's cards.
func (s *ruleService) DeleteRule(ctx context.Context, cardholderID string, ruleID uuid.UUID) error {
	rule, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return err
	}
	if err := s.checkOwner(ctx, cardholderID, rule.CardID); err != nil {
		if err == errors.ErrCardNotFound {
			return errors.ErrRuleNotFound
		}
		return err
	}
	return s.ruleRepo.Delete(ctx, ruleID)
}

func (s *ruleService) checkOwner(ctx context.Context, cardholderID string, cardID uuid.UUID) error {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return err
	}
	if card.CardholderID != cardholderID {
		return errors.ErrCardNotFound
	}
	return nil
}
