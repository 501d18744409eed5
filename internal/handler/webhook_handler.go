package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/service"
)

// maxWebhookBody bounds the payload read from the card network.
const maxWebhookBody = 1 << 20

// EventParser verifies and decodes an inbound webhook delivery.
type EventParser interface {
	Parse(payload []byte, signature string) (service.Event, error)
}

// WebhookHandler receives card network events.
type WebhookHandler struct {
	parser  EventParser
	service service.AuthorizationService
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(parser EventParser, authService service.AuthorizationService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		parser:  parser,
		service: authService,
		logger:  logger,
	}
}

// DecisionResponse is returned for authorization requests.
type DecisionResponse struct {
	Decision string  `json:"decision"`
	Reason   *string `json:"reason"`
}

// ReceivedResponse acknowledges events that need no verdict.
type ReceivedResponse struct {
	Received bool `json:"received"`
}

// HandleStripe godoc
// @Summary Receive a Stripe Issuing webhook
// @Description Authorization requests are evaluated against the card's rules and approved or declined on Stripe.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe webhook signature"
// @Success 200 {object} DecisionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripe(c echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	event, err := h.parser.Parse(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.Warn("rejecting webhook", zap.Error(err))
		return mapError(err)
	}

	outcome, err := h.service.Handle(c.Request().Context(), event)
	if err != nil {
		return mapError(err)
	}

	if !outcome.Decided {
		return c.JSON(http.StatusOK, ReceivedResponse{Received: true})
	}
	resp := DecisionResponse{Decision: string(outcome.Verdict)}
	if outcome.Reason != "" {
		resp.Reason = &outcome.Reason
	}
	return c.JSON(http.StatusOK, resp)
}
