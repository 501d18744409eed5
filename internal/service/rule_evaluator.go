package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/tracing"
)

// Decline reasons reported to the caller.
const (
	ReasonSpendLimitExceeded = "Spend limit exceeded"
	ReasonMerchantBlocked    = "Merchant blocked"
	ReasonCategoryBlocked    = "Category blocked"
	ReasonMerchantNotAllowed = "Merchant not allowed"
	ReasonCategoryNotAllowed = "Category not allowed"
	ReasonDayNotAllowed      = "Not allowed on this day"
	ReasonTooEarly           = "Too early"
	ReasonTooLate            = "Too late"
)

// Transaction is a candidate authorization being evaluated.
type Transaction struct {
	EventID      string
	Amount       int64 // minor units
	Currency     string
	MerchantName string
	CategoryCode string
	MerchantID   string // merchant network id
}

// Decision is the evaluator's verdict. Reason is empty when approved.
type Decision struct {
	Verdict model.Verdict
	Reason  string
}

func approve() Decision { return Decision{Verdict: model.VerdictApproved} }

func decline(reason string) Decision {
	return Decision{Verdict: model.VerdictDeclined, Reason: reason}
}

// RuleEvaluator decides whether a transaction satisfies a card's rules.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, card *model.Card, rules RuleSet, tx Transaction) (Decision, error)
}

type ruleEvaluator struct {
	spend SpendAggregator
	loc   *time.Location
	now   func() time.Time
}

// NewRuleEvaluator creates an evaluator. Time-window rules are checked
// against now() in loc.
func NewRuleEvaluator(spend SpendAggregator, loc *time.Location, now func() time.Time) RuleEvaluator {
	if now == nil {
		now = time.Now
	}
	return &ruleEvaluator{
		spend: spend,
		loc:   loc,
		now:   now,
	}
}

// Evaluate checks spend limits, then merchant/category rules, then time
// windows, each group in insertion order. The first violation wins.
// A failed spend read is returned as errors.ErrEvaluation, never as a verdict.
func (e *ruleEvaluator) Evaluate(ctx context.Context, card *model.Card, rules RuleSet, tx Transaction) (Decision, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "rules.evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("card.id", card.ID.String()),
		attribute.Int("rules.count", rules.Len()),
		attribute.Int64("tx.amount", tx.Amount),
	)

	decision, err := e.evaluate(ctx, card, rules, tx)
	if err != nil {
		span.RecordError(err)
		return Decision{}, err
	}
	span.SetAttributes(
		attribute.String("decision.verdict", string(decision.Verdict)),
		attribute.String("decision.reason", decision.Reason),
	)
	return decision, nil
}

func (e *ruleEvaluator) evaluate(ctx context.Context, card *model.Card, rules RuleSet, tx Transaction) (Decision, error) {
	for _, rule := range rules.SpendLimits {
		if rule.Limit == nil {
			continue
		}
		spent, err := e.spend.SumApproved(ctx, card.ID, rule.Window)
		if err != nil {
			return Decision{}, fmt.Errorf("%w: rule %s: %v", errors.ErrEvaluation, rule.ID, err)
		}
		if spent+tx.Amount > *rule.Limit {
			return decline(ReasonSpendLimitExceeded), nil
		}
	}

	for _, rule := range rules.MerchantCategory {
		if reason := checkMerchantCategory(rule, tx); reason != "" {
			return decline(reason), nil
		}
	}

	now := e.now().In(e.loc)
	for _, rule := range rules.TimeWindows {
		if reason := checkTimeWindow(rule, now); reason != "" {
			return decline(reason), nil
		}
	}

	return approve(), nil
}

// checkMerchantCategory returns a decline reason or "". Block sets are
// checked before allow sets.
func checkMerchantCategory(rule MerchantCategoryRule, tx Transaction) string {
	switch {
	case rule.MerchantBlock.Contains(tx.MerchantID):
		return ReasonMerchantBlocked
	case rule.CategoryBlock.Contains(tx.CategoryCode):
		return ReasonCategoryBlocked
	case len(rule.MerchantAllow) > 0 && !rule.MerchantAllow.Contains(tx.MerchantID):
		return ReasonMerchantNotAllowed
	case len(rule.CategoryAllow) > 0 && !rule.CategoryAllow.Contains(tx.CategoryCode):
		return ReasonCategoryNotAllowed
	}
	return ""
}

// checkTimeWindow returns a decline reason or "". The end hour is
// inclusive of its whole hour: end 17 admits 17:59.
func checkTimeWindow(rule TimeWindowRule, now time.Time) string {
	hour := now.Hour()
	switch {
	case len(rule.Weekdays) > 0 && !rule.Weekdays.Contains(now.Weekday().String()):
		return ReasonDayNotAllowed
	case rule.HourStart != nil && hour < *rule.HourStart:
		return ReasonTooEarly
	case rule.HourEnd != nil && hour > *rule.HourEnd:
		return ReasonTooLate
	}
	return ""
}
