package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/service"
)

// CardHandler handles the cardholder's card endpoints.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CardResponse represents a card.
type CardResponse struct {
	ID          string    `json:"id"`
	NetworkID   string    `json:"network_id"`
	Status      string    `json:"status"`
	MaskedPAN   string    `json:"masked_pan"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CardDetailResponse is a card with its rules and recent decisions.
type CardDetailResponse struct {
	CardResponse
	Rules     []model.Rule     `json:"rules"`
	Decisions []model.Decision `json:"decisions"`
}

// SpendResponse is approved spend in major currency units.
type SpendResponse struct {
	Daily    string `json:"daily"`
	Monthly  string `json:"monthly"`
	Lifetime string `json:"lifetime"`
}

// TransactionCardResponse identifies the card a transaction was made on.
type TransactionCardResponse struct {
	ID          string  `json:"id"`
	Last4       string  `json:"last4"`
	Description *string `json:"description,omitempty"`
}

// TransactionResponse is a recorded decision with its card.
type TransactionResponse struct {
	model.Decision
	Card TransactionCardResponse `json:"card"`
}

// FreezeRequest represents a freeze or unfreeze request.
type FreezeRequest struct {
	Freeze *bool `json:"freeze" validate:"required"`
}

func toCardResponse(card *model.Card) CardResponse {
	return CardResponse{
		ID:          card.ID.String(),
		NetworkID:   card.NetworkID,
		Status:      string(card.Status),
		MaskedPAN:   card.MaskedPAN(),
		Description: card.Description,
		CreatedAt:   card.CreatedAt,
	}
}

// ListCards godoc
// @Summary List the cardholder's cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} CardResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/cards [get]
func (h *CardHandler) ListCards(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}

	cards, err := h.cardService.ListCards(c.Request().Context(), holder)
	if err != nil {
		return mapError(err)
	}

	resp := make([]CardResponse, 0, len(cards))
	for i := range cards {
		resp = append(resp, toCardResponse(&cards[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCard godoc
// @Summary Get a card with its rules and last ten decisions
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} CardDetailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/cards/{id} [get]
func (h *CardHandler) GetCard(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}
	cardID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	card, err := h.cardService.GetCard(c.Request().Context(), holder, cardID)
	if err != nil {
		return mapError(err)
	}

	resp := CardDetailResponse{
		CardResponse: toCardResponse(card),
		Rules:        card.Rules,
		Decisions:    card.Decisions,
	}
	if resp.Rules == nil {
		resp.Rules = []model.Rule{}
	}
	if resp.Decisions == nil {
		resp.Decisions = []model.Decision{}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSpend godoc
// @Summary Get approved spend for a card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} SpendResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/cards/{id}/spend [get]
func (h *CardHandler) GetSpend(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}
	cardID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	view, err := h.cardService.GetSpend(c.Request().Context(), holder, cardID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, SpendResponse{
		Daily:    view.Daily.StringFixed(2),
		Monthly:  view.Monthly.StringFixed(2),
		Lifetime: view.Lifetime.StringFixed(2),
	})
}

// Freeze godoc
// @Summary Freeze or unfreeze a card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param request body FreezeRequest true "Freeze flag"
// @Success 200 {object} CardResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/cards/{id}/freeze [patch]
func (h *CardHandler) Freeze(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}
	cardID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req FreezeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	card, err := h.cardService.SetFrozen(c.Request().Context(), holder, cardID, *req.Freeze)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

// ListTransactions godoc
// @Summary List recent transactions across the cardholder's cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 20, max 100)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/transactions [get]
func (h *CardHandler) ListTransactions(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  "INVALID_LIMIT",
			})
		}
	}

	activity, err := h.cardService.RecentActivity(c.Request().Context(), holder, limit)
	if err != nil {
		return mapError(err)
	}

	resp := make([]TransactionResponse, 0, len(activity))
	for _, a := range activity {
		resp = append(resp, TransactionResponse{
			Decision: a.Decision,
			Card: TransactionCardResponse{
				ID:          a.Card.ID.String(),
				Last4:       a.Card.Last4,
				Description: a.Card.Description,
			},
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func parseID(c echo.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + param,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}
