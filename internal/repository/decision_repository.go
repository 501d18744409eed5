package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardpolicy/internal/model"
)

// DecisionRepository defines decision persistence operations.
type DecisionRepository interface {
	// CreateIfAbsent inserts the decision unless one already exists for its
	// event ID. It returns the stored row and whether this call created it.
	CreateIfAbsent(ctx context.Context, decision *model.Decision) (*model.Decision, bool, error)
	FindByEventID(ctx context.Context, eventID string) (*model.Decision, error)
	// ResolvePending replaces a PENDING verdict with a decided one and reports
	// whether a row changed. Rows that already hold a decided verdict are left alone.
	ResolvePending(ctx context.Context, eventID string, verdict model.Verdict, reason *string) (bool, error)
	// FindRecentByCardholder returns the newest decisions across all of a
	// cardholder's cards, at most limit rows.
	FindRecentByCardholder(ctx context.Context, cardholderID string, limit int) ([]model.Decision, error)
	// SumApproved totals approved amounts for a card created at or after since.
	// A nil since means no lower bound.
	SumApproved(ctx context.Context, cardID uuid.UUID, since *time.Time) (int64, error)
}

type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new decision repository.
func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

// CreateIfAbsent relies on the unique index on event_id; concurrent writers
// for the same event all converge on the first committed row.
func (r *decisionRepository) CreateIfAbsent(ctx context.Context, decision *model.Decision) (*model.Decision, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(decision)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return decision, true, nil
	}

	existing, err := r.FindByEventID(ctx, decision.EventID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// FindByEventID finds a decision by its external event identifier.
// It returns gorm.ErrRecordNotFound when none exists.
func (r *decisionRepository) FindByEventID(ctx context.Context, eventID string) (*model.Decision, error) {
	var decision model.Decision
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&decision).Error; err != nil {
		return nil, err
	}
	return &decision, nil
}

// ResolvePending updates only rows still marked PENDING, so concurrent
// resolvers race on the WHERE clause and exactly one wins.
func (r *decisionRepository) ResolvePending(ctx context.Context, eventID string, verdict model.Verdict, reason *string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Decision{}).
		Where("event_id = ? AND decision = ?", eventID, model.VerdictPending).
		Updates(map[string]any{"decision": verdict, "reason": reason})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindRecentByCardholder orders by creation time, newest first.
func (r *decisionRepository) FindRecentByCardholder(ctx context.Context, cardholderID string, limit int) ([]model.Decision, error) {
	var decisions []model.Decision
	err := r.db.WithContext(ctx).
		Select("decisions.*").
		Joins("JOIN cards ON cards.id = decisions.card_id").
		Where("cards.cardholder_id = ?", cardholderID).
		Order("decisions.created_at desc, decisions.id desc").
		Limit(limit).
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

// SumApproved totals approved spend for a card.
func (r *decisionRepository) SumApproved(ctx context.Context, cardID uuid.UUID, since *time.Time) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Decision{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("card_id = ? AND decision = ?", cardID, model.VerdictApproved)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
