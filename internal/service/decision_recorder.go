package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

// DecisionRecorder persists exactly one decision per external event, first
// decided write wins. A PENDING row only holds the event's place until a
// decided verdict arrives.
type DecisionRecorder interface {
	// Record stores the outcome unless one already exists for tx.EventID.
	// An existing PENDING row is upgraded to a decided verdict. It returns
	// the stored record and whether this call wrote its verdict.
	Record(ctx context.Context, cardID uuid.UUID, tx Transaction, verdict model.Verdict, reason string, raw []byte) (*model.Decision, bool, error)
	// Lookup returns the stored decision for an event, or nil if none exists.
	Lookup(ctx context.Context, eventID string) (*model.Decision, error)
}

type decisionRecorder struct {
	decisionRepo repository.DecisionRepository
	logger       *zap.Logger
}

// NewDecisionRecorder creates a new decision recorder.
func NewDecisionRecorder(decisionRepo repository.DecisionRepository, logger *zap.Logger) DecisionRecorder {
	return &decisionRecorder{
		decisionRepo: decisionRepo,
		logger:       logger,
	}
}

func (r *decisionRecorder) Record(ctx context.Context, cardID uuid.UUID, tx Transaction, verdict model.Verdict, reason string, raw []byte) (*model.Decision, bool, error) {
	decision := &model.Decision{
		EventID:     tx.EventID,
		CardID:      cardID,
		AmountCents: tx.Amount,
		Currency:    tx.Currency,
		Merchant:    tx.MerchantID,
		Verdict:     verdict,
	}
	if reason != "" {
		decision.Reason = &reason
	}
	if len(raw) > 0 {
		decision.Raw = datatypes.JSON(raw)
	}

	stored, created, err := r.decisionRepo.CreateIfAbsent(ctx, decision)
	if err != nil {
		return nil, false, fmt.Errorf("record decision %s: %w", tx.EventID, err)
	}
	if created {
		return stored, true, nil
	}

	if stored.Verdict == model.VerdictPending && verdict != model.VerdictPending {
		resolved, err := r.decisionRepo.ResolvePending(ctx, tx.EventID, verdict, decision.Reason)
		if err != nil {
			return nil, false, fmt.Errorf("resolve pending decision %s: %w", tx.EventID, err)
		}
		if resolved {
			stored.Verdict = verdict
			stored.Reason = decision.Reason
			r.logger.Info("resolved pending decision",
				zap.String("event_id", tx.EventID),
				zap.String("verdict", string(verdict)),
			)
			return stored, true, nil
		}
		// Another writer resolved it first.
		if stored, err = r.decisionRepo.FindByEventID(ctx, tx.EventID); err != nil {
			return nil, false, fmt.Errorf("reload decision %s: %w", tx.EventID, err)
		}
	}

	r.logger.Info("duplicate event, keeping first decision",
		zap.String("event_id", tx.EventID),
		zap.String("stored_verdict", string(stored.Verdict)),
		zap.String("ignored_verdict", string(verdict)),
	)
	return stored, false, nil
}

func (r *decisionRecorder) Lookup(ctx context.Context, eventID string) (*model.Decision, error) {
	decision, err := r.decisionRepo.FindByEventID(ctx, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup decision %s: %w", eventID, err)
	}
	return decision, nil
}
