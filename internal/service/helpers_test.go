package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cardpolicy/internal/db"
	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

// MockNetworkClient is a mock implementation of NetworkClient.
type MockNetworkClient struct {
	mock.Mock
}

func (m *MockNetworkClient) Approve(ctx context.Context, authorizationID string) error {
	args := m.Called(ctx, authorizationID)
	return args.Error(0)
}

func (m *MockNetworkClient) Decline(ctx context.Context, authorizationID string) error {
	args := m.Called(ctx, authorizationID)
	return args.Error(0)
}

func (m *MockNetworkClient) SetCardStatus(ctx context.Context, networkID string, status model.CardStatus) (model.CardStatus, error) {
	args := m.Called(ctx, networkID, status)
	return args.Get(0).(model.CardStatus), args.Error(1)
}

// stubSpend is a SpendAggregator with fixed totals per window.
type stubSpend struct {
	totals map[model.Window]int64
	err    error
	calls  int
}

func (s *stubSpend) SumApproved(ctx context.Context, cardID uuid.UUID, window model.Window) (int64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.totals[window], nil
}

func (s *stubSpend) Summary(ctx context.Context, cardID uuid.UUID) (*SpendSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &SpendSummary{
		Daily:    s.totals[model.WindowDaily],
		Monthly:  s.totals[model.WindowMonthly],
		Lifetime: s.totals[model.WindowLifetime],
	}, nil
}

// testEnv wires the real engine over an in-memory database.
type testEnv struct {
	db        *gorm.DB
	cardRepo  repository.CardRepository
	ruleRepo  repository.RuleRepository
	decisions repository.DecisionRepository
	spend     SpendAggregator
	evaluator RuleEvaluator
	recorder  DecisionRecorder
	lookup    CardLookup
	network   *MockNetworkClient
	auth      AuthorizationService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: db.NowUTC,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func newTestEnv(t *testing.T, now func() time.Time) *testEnv {
	t.Helper()
	gormDB := setupTestDB(t)
	env := &testEnv{
		db:        gormDB,
		cardRepo:  repository.NewCardRepository(gormDB),
		ruleRepo:  repository.NewRuleRepository(gormDB),
		decisions: repository.NewDecisionRepository(gormDB),
		network:   new(MockNetworkClient),
	}
	env.spend = NewSpendAggregator(env.decisions, time.UTC, now)
	env.evaluator = NewRuleEvaluator(env.spend, time.UTC, now)
	env.recorder = NewDecisionRecorder(env.decisions, zap.NewNop())
	env.lookup = NewCardLookup(env.cardRepo, env.ruleRepo, nil, time.Minute, zap.NewNop())
	env.auth = NewAuthorizationService(env.lookup, env.evaluator, env.recorder, env.network, zap.NewNop())
	return env
}

func (env *testEnv) createCard(t *testing.T, networkID string) *model.Card {
	t.Helper()
	card := &model.Card{CardholderID: "ich_1", NetworkID: networkID, Status: model.CardStatusActive, Last4: "4242"}
	require.NoError(t, env.cardRepo.Create(context.Background(), card))
	return card
}

func (env *testEnv) addRule(t *testing.T, rule model.Rule) *model.Rule {
	t.Helper()
	require.NoError(t, rule.Validate())
	require.NoError(t, env.ruleRepo.Create(context.Background(), &rule))
	return &rule
}

// approved stores an approved decision at the given time.
func (env *testEnv) approved(t *testing.T, cardID uuid.UUID, amount int64, at time.Time) {
	t.Helper()
	require.NoError(t, env.db.Create(&model.Decision{
		EventID:     "iauth_" + uuid.NewString(),
		CardID:      cardID,
		AmountCents: amount,
		Currency:    "usd",
		Verdict:     model.VerdictApproved,
		CreatedAt:   at,
	}).Error)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr[T any](v T) *T {
	return &v
}

func spendLimit(cardID uuid.UUID, limit int64, window model.Window) model.Rule {
	return model.Rule{
		CardID:          cardID,
		Kind:            model.RuleKindSpendLimit,
		SpendLimitCents: ptr(limit),
		SpendInterval:   ptr(window),
	}
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
