package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleKind tags which policy constraint a rule carries.
type RuleKind string

const (
	RuleKindSpendLimit       RuleKind = "SPEND_LIMIT"
	RuleKindMerchantCategory RuleKind = "MERCHANT_CATEGORY"
	RuleKindTimeWindow       RuleKind = "TIME_WINDOW"
)

// Window is the period over which approved spend is accumulated.
type Window string

const (
	WindowDaily    Window = "DAILY"
	WindowMonthly  Window = "MONTHLY"
	WindowLifetime Window = "LIFETIME"
)

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	switch w {
	case WindowDaily, WindowMonthly, WindowLifetime:
		return true
	}
	return false
}

// Rule is one policy constraint attached to a card. Only the columns that
// belong to Kind are populated; list columns are comma-joined.
type Rule struct {
	ID     uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	CardID uuid.UUID `json:"card_id" gorm:"type:char(36);not null;uniqueIndex:idx_rules_card_position,priority:1"`
	Kind   RuleKind  `json:"type" gorm:"column:type;type:varchar(32);not null"`

	// Position is the 1-based insertion order within the card, assigned by the repository.
	Position int64 `json:"position" gorm:"not null;uniqueIndex:idx_rules_card_position,priority:2"`

	// SPEND_LIMIT
	SpendLimitCents *int64  `json:"spend_limit_cents,omitempty"`
	SpendInterval   *Window `json:"spend_interval,omitempty" gorm:"type:varchar(16)"`

	// MERCHANT_CATEGORY
	MerchantAllowList *string `json:"merchant_allow_list,omitempty" gorm:"type:text"`
	MerchantBlockList *string `json:"merchant_block_list,omitempty" gorm:"type:text"`
	CategoryAllowList *string `json:"category_allow_list,omitempty" gorm:"type:text"`
	CategoryBlockList *string `json:"category_block_list,omitempty" gorm:"type:text"`

	// TIME_WINDOW
	AllowedWeekdays  *string `json:"allowed_weekdays,omitempty" gorm:"size:128"`
	AllowedHourStart *int    `json:"allowed_hour_start,omitempty"`
	AllowedHourEnd   *int    `json:"allowed_hour_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Rule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Validate checks that the populated fields match the rule kind.
func (r *Rule) Validate() error {
	switch r.Kind {
	case RuleKindSpendLimit:
		if r.hasMerchantFields() || r.hasTimeFields() {
			return ErrRuleFieldsMismatch
		}
		if r.SpendInterval == nil || !r.SpendInterval.Valid() {
			return ErrRuleInterval
		}
		if r.SpendLimitCents != nil && *r.SpendLimitCents < 0 {
			return ErrRuleLimit
		}
	case RuleKindMerchantCategory:
		if r.hasSpendFields() || r.hasTimeFields() {
			return ErrRuleFieldsMismatch
		}
	case RuleKindTimeWindow:
		if r.hasSpendFields() || r.hasMerchantFields() {
			return ErrRuleFieldsMismatch
		}
		for _, h := range []*int{r.AllowedHourStart, r.AllowedHourEnd} {
			if h != nil && (*h < 0 || *h > 23) {
				return ErrRuleHour
			}
		}
		if r.AllowedWeekdays != nil {
			for _, day := range SplitList(*r.AllowedWeekdays) {
				if !isWeekday(day) {
					return ErrRuleWeekday
				}
			}
		}
	default:
		return ErrRuleKind
	}
	return nil
}

func (r *Rule) hasSpendFields() bool {
	return r.SpendLimitCents != nil || r.SpendInterval != nil
}

func (r *Rule) hasMerchantFields() bool {
	return r.MerchantAllowList != nil || r.MerchantBlockList != nil ||
		r.CategoryAllowList != nil || r.CategoryBlockList != nil
}

func (r *Rule) hasTimeFields() bool {
	return r.AllowedWeekdays != nil || r.AllowedHourStart != nil || r.AllowedHourEnd != nil
}

// SplitList splits a comma-joined list, trimming blanks and dropping empty items.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isWeekday(day string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == day {
			return true
		}
	}
	return false
}
