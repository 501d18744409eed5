package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Verdict is the outcome stored for an authorization.
type Verdict string

const (
	VerdictApproved Verdict = "APPROVED"
	VerdictDeclined Verdict = "DECLINED"
	VerdictPending  Verdict = "PENDING"
)

// VerdictFromStatus normalizes a network settlement status into a verdict.
// A closed authorization was captured, so it counts as approved spend.
func VerdictFromStatus(status string) Verdict {
	if status == "closed" {
		return VerdictApproved
	}
	return Verdict(strings.ToUpper(status))
}

// Decision is the durable outcome of one authorization event.
// EventID is the idempotency key: at most one row exists per network event.
type Decision struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	EventID     string         `json:"event_id" gorm:"size:64;not null;uniqueIndex"`
	CardID      uuid.UUID      `json:"card_id" gorm:"type:char(36);not null;index:idx_decisions_card_verdict_created,priority:1"`
	AmountCents int64          `json:"amount_cents" gorm:"not null"`
	Currency    string         `json:"currency" gorm:"size:3;not null"`
	Merchant    string         `json:"merchant" gorm:"size:255"`
	Verdict     Verdict        `json:"decision" gorm:"column:decision;type:varchar(20);not null;index:idx_decisions_card_verdict_created,priority:2"`
	Reason      *string        `json:"reason,omitempty" gorm:"size:255"`
	CreatedAt   time.Time      `json:"created_at" gorm:"index:idx_decisions_card_verdict_created,priority:3"`
	Raw         datatypes.JSON `json:"raw,omitempty"`
}

// BeforeCreate sets UUID before creating the record.
func (d *Decision) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
