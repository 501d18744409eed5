package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainerrors "cardpolicy/internal/errors"
	"cardpolicy/internal/model"
)

// RuleRepository defines rule persistence operations.
type RuleRepository interface {
	Create(ctx context.Context, rule *model.Rule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rule, error)
	FindByCardID(ctx context.Context, cardID uuid.UUID) ([]model.Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

// Create appends a rule to its card. The card row is locked while the next
// position is read, so concurrent creates for one card get distinct positions.
func (r *ruleRepository) Create(ctx context.Context, rule *model.Rule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").Where("id = ?", rule.CardID).First(&card).Error; err != nil {
			return notFound(err, domainerrors.ErrCardNotFound)
		}

		var last int64
		if err := tx.Model(&model.Rule{}).Where("card_id = ?", rule.CardID).
			Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return err
		}
		rule.Position = last + 1
		return tx.Create(rule).Error
	})
}

// FindByID finds a rule by ID.
func (r *ruleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Rule, error) {
	var rule model.Rule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rule).Error; err != nil {
		return nil, notFound(err, domainerrors.ErrRuleNotFound)
	}
	return &rule, nil
}

// FindByCardID returns a card's rules in insertion order.
func (r *ruleRepository) FindByCardID(ctx context.Context, cardID uuid.UUID) ([]model.Rule, error) {
	var rules []model.Rule
	if err := r.db.WithContext(ctx).Where("card_id = ?", cardID).
		Order("position asc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Delete removes a rule.
func (r *ruleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Rule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrRuleNotFound
	}
	return nil
}
