package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cardpolicy/internal/auth"
	"cardpolicy/internal/config"
	"cardpolicy/internal/handler"
	"cardpolicy/internal/model"
	"cardpolicy/internal/service"
)

// cardsByHolder is a CardService that only lists cards.
type cardsByHolder map[string][]model.Card

func (f cardsByHolder) ListCards(ctx context.Context, cardholderID string) ([]model.Card, error) {
	return f[cardholderID], nil
}

func (f cardsByHolder) GetCard(ctx context.Context, cardholderID string, cardID uuid.UUID) (*model.Card, error) {
	return nil, nil
}

func (f cardsByHolder) GetSpend(ctx context.Context, cardholderID string, cardID uuid.UUID) (*service.SpendView, error) {
	return nil, nil
}

func (f cardsByHolder) SetFrozen(ctx context.Context, cardholderID string, cardID uuid.UUID, frozen bool) (*model.Card, error) {
	return nil, nil
}

func (f cardsByHolder) RecentActivity(ctx context.Context, cardholderID string, limit int) ([]service.Activity, error) {
	return nil, nil
}

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newTestServer(t *testing.T) (*echo.Echo, *config.Config) {
	t.Helper()
	cfg := &config.Config{JWTSecret: "router-secret"}
	cards := cardsByHolder{"ich_1": {{ID: uuid.New(), NetworkID: "ic_1", Last4: "4242"}}}

	e := echo.New()
	Register(e, cfg, zap.NewNop(), Handlers{
		Webhook: handler.NewWebhookHandler(nil, nil, zap.NewNop()),
		Card:    handler.NewCardHandler(cards),
		Rule:    handler.NewRuleHandler(nil),
		Health:  handler.NewHealthHandler(okPinger{}, nil, zap.NewNop()),
	})
	return e, cfg
}

func TestRegister_HealthIsPublic(t *testing.T) {
	e, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRegister_APIRequiresBearerToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cards", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_APIWithToken(t *testing.T) {
	e, cfg := newTestServer(t)
	token, err := auth.NewJWTService(cfg.JWTSecret).GenerateAccessToken("ich_1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cards", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "**** **** **** 4242")
}

func TestRegister_TransactionsRoute(t *testing.T) {
	e, cfg := newTestServer(t)
	token, err := auth.NewJWTService(cfg.JWTSecret).GenerateAccessToken("ich_1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?limit=10", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCustomValidator(t *testing.T) {
	e, _ := newTestServer(t)

	type payload struct {
		Name string `validate:"required"`
	}
	assert.Error(t, e.Validator.Validate(&payload{}))
	assert.NoError(t, e.Validator.Validate(&payload{Name: "x"}))
}
