package service

import (
	"github.com/google/uuid"

	"cardpolicy/internal/model"
)

// StringSet is a set of merchant IDs, category codes or weekday names.
type StringSet map[string]struct{}

// NewStringSet builds a set from items.
func NewStringSet(items ...string) StringSet {
	set := make(StringSet, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// parseList turns an optional comma-joined column into a set. Absent and
// blank columns yield an empty set, which imposes no constraint.
func parseList(s *string) StringSet {
	if s == nil {
		return nil
	}
	return NewStringSet(model.SplitList(*s)...)
}

// Contains reports membership.
func (s StringSet) Contains(item string) bool {
	_, ok := s[item]
	return ok
}

// SpendLimitRule caps approved spend within a window.
type SpendLimitRule struct {
	ID     uuid.UUID
	Limit  *int64
	Window model.Window
}

// MerchantCategoryRule allows or blocks merchants and category codes.
type MerchantCategoryRule struct {
	ID            uuid.UUID
	MerchantAllow StringSet
	MerchantBlock StringSet
	CategoryAllow StringSet
	CategoryBlock StringSet
}

// TimeWindowRule restricts the weekdays and hours at which the card may be used.
type TimeWindowRule struct {
	ID        uuid.UUID
	Weekdays  StringSet // English day names, as time.Weekday.String()
	HourStart *int
	HourEnd   *int
}

// RuleSet holds a card's rules grouped by kind, each group in insertion order.
type RuleSet struct {
	SpendLimits      []SpendLimitRule
	MerchantCategory []MerchantCategoryRule
	TimeWindows      []TimeWindowRule
}

// Len returns the total number of rules.
func (rs RuleSet) Len() int {
	return len(rs.SpendLimits) + len(rs.MerchantCategory) + len(rs.TimeWindows)
}

// BuildRuleSet parses stored rules once. The input must already be in
// insertion order; rows of unknown kind are skipped.
func BuildRuleSet(rules []model.Rule) RuleSet {
	var rs RuleSet
	for _, r := range rules {
		switch r.Kind {
		case model.RuleKindSpendLimit:
			window := model.WindowLifetime
			if r.SpendInterval != nil {
				window = *r.SpendInterval
			}
			rs.SpendLimits = append(rs.SpendLimits, SpendLimitRule{
				ID:     r.ID,
				Limit:  r.SpendLimitCents,
				Window: window,
			})
		case model.RuleKindMerchantCategory:
			rs.MerchantCategory = append(rs.MerchantCategory, MerchantCategoryRule{
				ID:            r.ID,
				MerchantAllow: parseList(r.MerchantAllowList),
				MerchantBlock: parseList(r.MerchantBlockList),
				CategoryAllow: parseList(r.CategoryAllowList),
				CategoryBlock: parseList(r.CategoryBlockList),
			})
		case model.RuleKindTimeWindow:
			rs.TimeWindows = append(rs.TimeWindows, TimeWindowRule{
				ID:        r.ID,
				Weekdays:  parseList(r.AllowedWeekdays),
				HourStart: r.AllowedHourStart,
				HourEnd:   r.AllowedHourEnd,
			})
		}
	}
	return rs
}
