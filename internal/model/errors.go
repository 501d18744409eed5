package model

import "errors"

var (
	// ErrRuleKind is returned for an unknown rule type.
	ErrRuleKind = errors.New("unknown rule type")
	// ErrRuleFieldsMismatch is returned when a rule carries fields of another kind.
	ErrRuleFieldsMismatch = errors.New("rule fields do not match rule type")
	// ErrRuleInterval is returned when a spend limit has no valid interval.
	ErrRuleInterval = errors.New("spend interval must be DAILY, MONTHLY or LIFETIME")
	// ErrRuleLimit is returned for a negative spend limit.
	ErrRuleLimit = errors.New("spend limit must not be negative")
	// ErrRuleHour is returned when an hour bound is outside 0-23.
	ErrRuleHour = errors.New("hour bounds must be between 0 and 23")
	// ErrRuleWeekday is returned for a weekday name that is not recognised.
	ErrRuleWeekday = errors.New("allowed weekdays must be English day names")
)
