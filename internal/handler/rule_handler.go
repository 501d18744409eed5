package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/service"
)

// RuleHandler handles rule endpoints.
type RuleHandler struct {
	ruleService service.RuleService
}

// NewRuleHandler creates a new rule handler.
func NewRuleHandler(ruleService service.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// CreateRuleRequest represents a rule creation request. Only the fields of
// the chosen type may be set.
type CreateRuleRequest struct {
	CardID string `json:"card_id" validate:"required,uuid"`
	Type   string `json:"type" validate:"required,oneof=SPEND_LIMIT MERCHANT_CATEGORY TIME_WINDOW"`

	SpendLimitCents *int64  `json:"spend_limit_cents" validate:"omitempty,min=0"`
	SpendInterval   *string `json:"spend_interval" validate:"omitempty,oneof=DAILY MONTHLY LIFETIME"`

	MerchantAllowList *string `json:"merchant_allow_list"`
	MerchantBlockList *string `json:"merchant_block_list"`
	CategoryAllowList *string `json:"category_allow_list"`
	CategoryBlockList *string `json:"category_block_list"`

	AllowedWeekdays  *string `json:"allowed_weekdays"`
	AllowedHourStart *int    `json:"allowed_hour_start" validate:"omitempty,min=0,max=23"`
	AllowedHourEnd   *int    `json:"allowed_hour_end" validate:"omitempty,min=0,max=23"`
}

func (r CreateRuleRequest) toModel(cardID uuid.UUID) *model.Rule {
	rule := &model.Rule{
		CardID:            cardID,
		Kind:              model.RuleKind(r.Type),
		SpendLimitCents:   r.SpendLimitCents,
		MerchantAllowList: r.MerchantAllowList,
		MerchantBlockList: r.MerchantBlockList,
		CategoryAllowList: r.CategoryAllowList,
		CategoryBlockList: r.CategoryBlockList,
		AllowedWeekdays:   r.AllowedWeekdays,
		AllowedHourStart:  r.AllowedHourStart,
		AllowedHourEnd:    r.AllowedHourEnd,
	}
	if r.SpendInterval != nil {
		w := model.Window(*r.SpendInterval)
		rule.SpendInterval = &w
	}
	return rule
}

// CreateRule godoc
// @Summary Attach a rule to a card
// @Tags rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRuleRequest true "Rule"
// @Success 201 {object} model.Rule
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/rules [post]
func (h *RuleHandler) CreateRule(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}

	var req CreateRuleRequest
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

	rule := req.toModel(uuid.MustParse(req.CardID))
	if err := h.ruleService.CreateRule(c.Request().Context(), holder, rule); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, rule)
}

// DeleteRule godoc
// @Summary Delete a rule
// @Tags rules
// @Security BearerAuth
// @Param id path string true "Rule ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/rules/{id} [delete]
func (h *RuleHandler) DeleteRule(c echo.Context) error {
	holder, err := cardholderID(c)
	if err != nil {
		return err
	}
	ruleID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.ruleService.DeleteRule(c.Request().Context(), holder, ruleID); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
