package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// StateProcessor reconciles a promotion's lifecycle state with its current
// eligibility. State is driven, never set directly: the processor asks the
// transition resolver which single transition is legal and applies it.
type StateProcessor struct {
	promotions  domain.CatalogPromotionRepository
	eligibility domain.CatalogPromotionEligibilityChecker
	resolver    domain.TransitionResolver
}

// NewStateProcessor creates the state-machine core.
func NewStateProcessor(
	promotions domain.CatalogPromotionRepository,
	eligibility domain.CatalogPromotionEligibilityChecker,
	resolver domain.TransitionResolver,
) *StateProcessor {
	return &StateProcessor{
		promotions:  promotions,
		eligibility: eligibility,
		resolver:    resolver,
	}
}

// Process applies at most one transition to the promotion, chosen from
// (eligibility, current state):
//
//  1. eligible and process is legal   -> process
//  2. eligible and activate is legal  -> activate
//  3. not eligible, deactivate legal  -> deactivate
//
// Eligibility is computed once per invocation and reused for all three
// checks. The transition graph makes the checks mutually exclusive, so if
// none is legal the promotion is already in the correct state and the call
// is a silent no-op.
func (p *StateProcessor) Process(ctx context.Context, promotion *domain.CatalogPromotion) error {
	eligible := p.eligibility.IsEligible(*promotion)

	event, ok := p.nextTransition(promotion.State, eligible)
	if !ok {
		return nil
	}

	next, err := p.resolver.Apply(ctx, promotion.State, event)
	if err != nil {
		return fmt.Errorf("applying transition %q to promotion %q: %w", event, promotion.Code, err)
	}

	slog.InfoContext(ctx, "promotion state transition",
		"code", promotion.Code,
		"transition", string(event),
		"from", string(promotion.State),
		"to", string(next),
	)

	promotion.State = next
	if err := p.promotions.Update(ctx, *promotion); err != nil {
		return fmt.Errorf("persisting state of promotion %q: %w", promotion.Code, err)
	}
	return nil
}

// nextTransition picks the single legal transition for the pair, or none.
// The can-check always precedes the apply so an illegal transition never
// surfaces as a failure.
func (p *StateProcessor) nextTransition(current domain.State, eligible bool) (domain.TransitionEvent, bool) {
	if eligible && p.resolver.Can(current, domain.EventProcess) {
		return domain.EventProcess, true
	}
	if eligible && p.resolver.Can(current, domain.EventActivate) {
		return domain.EventActivate, true
	}
	if !eligible && p.resolver.Can(current, domain.EventDeactivate) {
		return domain.EventDeactivate, true
	}
	return "", false
}
