package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardStatus is the status of a card as reported by the card network.
type CardStatus string

const (
	CardStatusActive   CardStatus = "active"
	CardStatusInactive CardStatus = "inactive"
)

// Card represents a virtual payment card provisioned on the card network.
type Card struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	CardholderID string     `json:"cardholder_id" gorm:"size:64;not null;index"`
	NetworkID    string     `json:"network_id" gorm:"size:64;not null;uniqueIndex"`
	Status       CardStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	Last4        string     `json:"last4" gorm:"size:4"`
	Description  *string    `json:"description,omitempty" gorm:"size:255"`
	CreatedAt    time.Time  `json:"created_at"`

	// Relations
	Rules     []Rule     `json:"rules,omitempty" gorm:"foreignKey:CardID"`
	Decisions []Decision `json:"decisions,omitempty" gorm:"foreignKey:CardID"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// MaskedPAN renders the card number for display, showing only the last four digits.
func (c *Card) MaskedPAN() string {
	if c.Last4 == "" {
		return "**** **** **** ????"
	}
	return "**** **** **** " + c.Last4
}
