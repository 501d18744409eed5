package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainerrors "cardpolicy/internal/errors"
	"cardpolicy/internal/model"
)

// recentDecisionLimit is how many decisions FindDetail preloads.
const recentDecisionLimit = 10

// CardRepository defines card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	FindByNetworkID(ctx context.Context, networkID string) (*model.Card, error)
	FindByCardholderID(ctx context.Context, cardholderID string) ([]model.Card, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Card, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.CardStatus) error
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

// Create creates a new card.
func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// FindByID finds a card by ID.
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, notFound(err, domainerrors.ErrCardNotFound)
	}
	return &card, nil
}

// FindByNetworkID finds a card by the card network's identifier.
func (r *cardRepository) FindByNetworkID(ctx context.Context, networkID string) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("network_id = ?", networkID).First(&card).Error; err != nil {
		return nil, notFound(err, domainerrors.ErrCardNotFound)
	}
	return &card, nil
}

// FindByCardholderID lists a cardholder's cards, newest first.
func (r *cardRepository) FindByCardholderID(ctx context.Context, cardholderID string) ([]model.Card, error) {
	var cards []model.Card
	if err := r.db.WithContext(ctx).Where("cardholder_id = ?", cardholderID).
		Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// FindDetail loads a card with its rules and its most recent decisions.
func (r *cardRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Decisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc").Limit(recentDecisionLimit)
		}).
		Where("id = ?", id).First(&card).Error
	if err != nil {
		return nil, notFound(err, domainerrors.ErrCardNotFound)
	}
	return &card, nil
}

// UpdateStatus sets the card status. Setting the status a card already has
// succeeds; MySQL reports zero affected rows for it, so a miss is confirmed
// with a count before reporting ErrCardNotFound.
func (r *cardRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.CardStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Card{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrCardNotFound
	}
	return nil
}

// notFound translates gorm's missing-record error into the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
