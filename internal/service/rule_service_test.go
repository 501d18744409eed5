package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "cardpolicy/internal/errors"
	"cardpolicy/internal/model"
)

func TestRuleService_CreateRule(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_rules")
	svc := NewRuleService(env.cardRepo, env.ruleRepo)

	rule := spendLimit(card.ID, 5000, model.WindowDaily)
	require.NoError(t, svc.CreateRule(ctx, "ich_1", &rule))
	assert.NotEqual(t, uuid.Nil, rule.ID)

	rules, err := env.ruleRepo.FindByCardID(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestRuleService_CreateRuleRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_rules_bad")
	svc := NewRuleService(env.cardRepo, env.ruleRepo)

	mixed := model.Rule{CardID: card.ID, Kind: model.RuleKindSpendLimit, SpendLimitCents: ptr(int64(1)), SpendInterval: ptr(model.WindowDaily), AllowedHourStart: ptr(9)}
	assert.ErrorIs(t, svc.CreateRule(ctx, "ich_1", &mixed), domainerrors.ErrInvalidRule)

	badHour := model.Rule{CardID: card.ID, Kind: model.RuleKindTimeWindow, AllowedHourEnd: ptr(24)}
	assert.ErrorIs(t, svc.CreateRule(ctx, "ich_1", &badHour), domainerrors.ErrInvalidRule)

	foreign := spendLimit(card.ID, 1, model.WindowDaily)
	assert.ErrorIs(t, svc.CreateRule(ctx, "ich_other", &foreign), domainerrors.ErrCardNotFound)

	orphan := spendLimit(uuid.New(), 1, model.WindowDaily)
	assert.ErrorIs(t, svc.CreateRule(ctx, "ich_1", &orphan), domainerrors.ErrCardNotFound)

	rules, err := env.ruleRepo.FindByCardID(ctx, card.ID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRuleService_DeleteRule(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_rules_del")
	rule := env.addRule(t, spendLimit(card.ID, 5000, model.WindowDaily))
	svc := NewRuleService(env.cardRepo, env.ruleRepo)

	assert.ErrorIs(t, svc.DeleteRule(ctx, "ich_other", rule.ID), domainerrors.ErrRuleNotFound)
	require.NoError(t, svc.DeleteRule(ctx, "ich_1", rule.ID))
	assert.ErrorIs(t, svc.DeleteRule(ctx, "ich_1", rule.ID), domainerrors.ErrRuleNotFound)
}
