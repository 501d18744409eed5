package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"cardpolicy/internal/model"
	"cardpolicy/internal/service"
)

// MockEventParser is a mock implementation of EventParser.
type MockEventParser struct {
	mock.Mock
}

func (m *MockEventParser) Parse(payload []byte, signature string) (service.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.Event), args.Error(1)
}

// MockAuthorizationService is a mock implementation of AuthorizationService.
type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) Handle(ctx context.Context, event service.Event) (*service.Outcome, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Outcome), args.Error(1)
}

// MockCardService is a mock implementation of CardService.
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) ListCards(ctx context.Context, cardholderID string) ([]model.Card, error) {
	args := m.Called(ctx, cardholderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardService) GetCard(ctx context.Context, cardholderID string, cardID uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, cardholderID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardService) GetSpend(ctx context.Context, cardholderID string, cardID uuid.UUID) (*service.SpendView, error) {
	args := m.Called(ctx, cardholderID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SpendView), args.Error(1)
}

func (m *MockCardService) SetFrozen(ctx context.Context, cardholderID string, cardID uuid.UUID, frozen bool) (*model.Card, error) {
	args := m.Called(ctx, cardholderID, cardID, frozen)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardService) RecentActivity(ctx context.Context, cardholderID string, limit int) ([]service.Activity, error) {
	args := m.Called(ctx, cardholderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Activity), args.Error(1)
}

// MockRuleService is a mock implementation of RuleService.
type MockRuleService struct {
	mock.Mock
}

func (m *MockRuleService) CreateRule(ctx context.Context, cardholderID string, rule *model.Rule) error {
	args := m.Called(ctx, cardholderID, rule)
	return args.Error(0)
}

func (m *MockRuleService) DeleteRule(ctx context.Context, cardholderID string, ruleID uuid.UUID) error {
	args := m.Called(ctx, cardholderID, ruleID)
	return args.Error(0)
}
