package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"cardpolicy/internal/errors"
	"cardpolicy/internal/model"
	"cardpolicy/internal/tracing"
)

// NetworkClient is the card network collaborator.
type NetworkClient interface {
	Approve(ctx context.Context, authorizationID string) error
	Decline(ctx context.Context, authorizationID string) error
	// SetCardStatus changes the card's status on the network and returns the
	// status the network reports back.
	SetCardStatus(ctx context.Context, networkID string, status model.CardStatus) (model.CardStatus, error)
}

// Outcome is the result of handling one event.
type Outcome struct {
	// Decided is true for authorization requests; Verdict and Reason are set.
	Decided bool
	Verdict model.Verdict
	Reason  string
	// Duplicate is true when a decision for the event was already stored.
	Duplicate bool
	Decision  *model.Decision
}

// AuthorizationService handles card network authorization events.
type AuthorizationService interface {
	Handle(ctx context.Context, event Event) (*Outcome, error)
}

type authorizationService struct {
	cards     CardLookup
	evaluator RuleEvaluator
	recorder  DecisionRecorder
	network   NetworkClient
	logger    *zap.Logger

	// inflight collapses concurrent deliveries of one request event.
	inflight singleflight.Group
}

// NewAuthorizationService creates a new authorization service.
func NewAuthorizationService(
	cards CardLookup,
	evaluator RuleEvaluator,
	recorder DecisionRecorder,
	network NetworkClient,
	logger *zap.Logger,
) AuthorizationService {
	return &authorizationService{
		cards:     cards,
		evaluator: evaluator,
		recorder:  recorder,
		network:   network,
		logger:    logger,
	}
}

// Handle dispatches on the event variant. Unknown events are acknowledged
// without action.
func (s *authorizationService) Handle(ctx context.Context, event Event) (*Outcome, error) {
	switch e := event.(type) {
	case AuthorizationRequest:
		return s.handleRequest(ctx, e)
	case AuthorizationSettled:
		return s.handleSettled(ctx, e)
	case UnknownEvent:
		s.logger.Debug("ignoring event", zap.String("type", e.Type))
	}
	return &Outcome{}, nil
}

// handleRequest decides a request once per event id. Concurrent deliveries
// of the same event wait for the first and share its outcome as a duplicate.
func (s *authorizationService) handleRequest(ctx context.Context, e AuthorizationRequest) (*Outcome, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	leader := false
	v, err, _ := s.inflight.Do(e.EventID, func() (any, error) {
		leader = true
		return s.decide(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	outcome := v.(*Outcome)
	if leader {
		return outcome, nil
	}
	s.logger.Info("concurrent delivery joined in-flight decision", zap.String("event_id", e.EventID))
	shared := *outcome
	shared.Duplicate = true
	return &shared, nil
}

// decide evaluates, relays the verdict to the network, then records it.
// Nothing is recorded when the relay fails.
func (s *authorizationService) decide(ctx context.Context, e AuthorizationRequest) (*Outcome, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "authorization.request")
	defer span.End()
	span.SetAttributes(attribute.String("event.id", e.EventID))

	existing, err := s.recorder.Lookup(ctx, e.EventID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Verdict != model.VerdictPending {
		s.logger.Info("authorization already decided", zap.String("event_id", e.EventID))
		return storedOutcome(existing), nil
	}

	card, err := s.findCard(ctx, e.CardNetworkID, e.EventID)
	if err != nil {
		return nil, err
	}
	rules, err := s.cards.FindRules(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrEvaluation, err)
	}

	tx := e.Transaction()
	decision, err := s.evaluator.Evaluate(ctx, card, BuildRuleSet(rules), tx)
	if err != nil {
		s.logger.Error("rule evaluation failed", zap.String("event_id", e.EventID), zap.Error(err))
		return nil, err
	}

	if err := s.relay(ctx, e.EventID, decision.Verdict); err != nil {
		// Another instance may have decided and relayed this event meanwhile.
		if stored, lookupErr := s.recorder.Lookup(ctx, e.EventID); lookupErr == nil && stored != nil && stored.Verdict != model.VerdictPending {
			s.logger.Info("relay rejected, event decided elsewhere",
				zap.String("event_id", e.EventID),
				zap.Error(err),
			)
			return storedOutcome(stored), nil
		}
		s.logger.Error("relaying verdict to card network failed",
			zap.String("event_id", e.EventID),
			zap.String("verdict", string(decision.Verdict)),
			zap.Error(err),
		)
		return nil, err
	}

	stored, created, err := s.recorder.Record(ctx, card.ID, tx, decision.Verdict, decision.Reason, e.Raw)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{
		Decided:   true,
		Verdict:   decision.Verdict,
		Reason:    decision.Reason,
		Duplicate: !created,
		Decision:  stored,
	}
	if !created {
		// The network already has this verdict, so it is what the caller gets.
		if stored.Verdict != decision.Verdict {
			s.logger.Warn("stored decision differs from relayed verdict",
				zap.String("event_id", e.EventID),
				zap.String("relayed_verdict", string(decision.Verdict)),
				zap.String("stored_verdict", string(stored.Verdict)),
			)
		}
		return outcome, nil
	}
	s.logger.Info("authorization decided",
		zap.String("event_id", e.EventID),
		zap.String("card_id", card.ID.String()),
		zap.String("verdict", string(decision.Verdict)),
		zap.String("reason", decision.Reason),
	)
	return outcome, nil
}

// handleSettled records a decision the network already made.
func (s *authorizationService) handleSettled(ctx context.Context, e AuthorizationSettled) (*Outcome, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	card, err := s.findCard(ctx, e.CardNetworkID, e.EventID)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.recorder.Record(ctx, card.ID, e.Transaction(), model.VerdictFromStatus(e.Status), "", e.Raw)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Verdict:   stored.Verdict,
		Duplicate: !created,
		Decision:  stored,
	}, nil
}

func (s *authorizationService) findCard(ctx context.Context, networkID, eventID string) (*model.Card, error) {
	card, err := s.cards.FindByNetworkID(ctx, networkID)
	if err != nil {
		if stderrors.Is(err, errors.ErrCardNotFound) {
			s.logger.Warn("card not found in DB",
				zap.String("card_network_id", networkID),
				zap.String("event_id", eventID),
			)
		}
		return nil, err
	}
	return card, nil
}

func (s *authorizationService) relay(ctx context.Context, eventID string, verdict model.Verdict) error {
	var err error
	if verdict == model.VerdictApproved {
		err = s.network.Approve(ctx, eventID)
	} else {
		err = s.network.Decline(ctx, eventID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrNetworkAction, err)
	}
	return nil
}

func storedOutcome(d *model.Decision) *Outcome {
	outcome := &Outcome{
		Decided:   true,
		Verdict:   d.Verdict,
		Duplicate: true,
		Decision:  d,
	}
	if d.Reason != nil {
		outcome.Reason = *d.Reason
	}
	return outcome
}
