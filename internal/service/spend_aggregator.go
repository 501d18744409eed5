package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardpolicy/internal/model"
	"cardpolicy/internal/repository"
)

// SpendAggregator answers how much a card has spent, approved only, within a window.
type SpendAggregator interface {
	SumApproved(ctx context.Context, cardID uuid.UUID, window model.Window) (int64, error)
	Summary(ctx context.Context, cardID uuid.UUID) (*SpendSummary, error)
}

// SpendSummary is a card's approved spend per window, in minor units.
type SpendSummary struct {
	Daily    int64
	Monthly  int64
	Lifetime int64
}

type spendAggregator struct {
	decisionRepo repository.DecisionRepository
	loc          *time.Location
	now          func() time.Time
}

// NewSpendAggregator creates a spend aggregator whose DAILY and MONTHLY
// windows start at midnight in loc.
func NewSpendAggregator(decisionRepo repository.DecisionRepository, loc *time.Location, now func() time.Time) SpendAggregator {
	if now == nil {
		now = time.Now
	}
	return &spendAggregator{
		decisionRepo: decisionRepo,
		loc:          loc,
		now:          now,
	}
}

// WindowStart returns the first instant of window containing now, in loc.
// The bool is false for LIFETIME, which has no lower bound.
func WindowStart(window model.Window, now time.Time, loc *time.Location) (time.Time, bool) {
	local := now.In(loc)
	switch window {
	case model.WindowDaily:
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), true
	case model.WindowMonthly:
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// SumApproved sums approved decision amounts for the card within window.
func (a *spendAggregator) SumApproved(ctx context.Context, cardID uuid.UUID, window model.Window) (int64, error) {
	if !window.Valid() {
		return 0, fmt.Errorf("unknown spend window %q", window)
	}
	var since *time.Time
	if start, ok := WindowStart(window, a.now(), a.loc); ok {
		since = &start
	}
	total, err := a.decisionRepo.SumApproved(ctx, cardID, since)
	if err != nil {
		return 0, fmt.Errorf("sum approved %s spend: %w", window, err)
	}
	return total, nil
}

// Summary returns approved spend for all three windows.
func (a *spendAggregator) Summary(ctx context.Context, cardID uuid.UUID) (*SpendSummary, error) {
	var summary SpendSummary
	for _, w := range []struct {
		window model.Window
		dst    *int64
	}{
		{model.WindowDaily, &summary.Daily},
		{model.WindowMonthly, &summary.Monthly},
		{model.WindowLifetime, &summary.Lifetime},
	} {
		total, err := a.SumApproved(ctx, cardID, w.window)
		if err != nil {
			return nil, err
		}
		*w.dst = total
	}
	return &summary, nil
}
