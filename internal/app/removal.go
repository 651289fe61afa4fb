package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// RemovalAnnouncer sequences a promotion's removal as discrete, inspectable
// commands on the async transport: settle state, disable if needed, then
// remove. The remove handler re-validates at delivery time, so the sequence
// tolerates interleaving with other triggers.
type RemovalAnnouncer struct {
	dispatcher domain.MessageDispatcher
}

// NewRemovalAnnouncer creates the removal announcer.
func NewRemovalAnnouncer(dispatcher domain.MessageDispatcher) *RemovalAnnouncer {
	return &RemovalAnnouncer{dispatcher: dispatcher}
}

// DispatchRemoval emits [UpdateState, Remove], inserting a Disable between
// them only when the promotion is currently enabled. Disabling an
// already-disabled promotion would be correct but wastes a full
// catalog-wide recomputation, so it is skipped.
func (a *RemovalAnnouncer) DispatchRemoval(ctx context.Context, promotion domain.CatalogPromotion) error {
	if err := a.dispatcher.Dispatch(ctx, domain.UpdateCatalogPromotionState{Code: promotion.Code}); err != nil {
		return fmt.Errorf("dispatching state update for %q: %w", promotion.Code, err)
	}

	if promotion.Enabled {
		if err := a.dispatcher.Dispatch(ctx, domain.DisableCatalogPromotion{Code: promotion.Code}); err != nil {
			return fmt.Errorf("dispatching disable for %q: %w", promotion.Code, err)
		}
	}

	if err := a.dispatcher.Dispatch(ctx, domain.RemoveCatalogPromotion{Code: promotion.Code}); err != nil {
		return fmt.Errorf("dispatching removal for %q: %w", promotion.Code, err)
	}
	return nil
}

// RemovalProcessor validates that a promotion may be removed and delegates
// the actual sequencing to the RemovalAnnouncer.
type RemovalProcessor struct {
	promotions domain.CatalogPromotionRepository
	announcer  *RemovalAnnouncer
}

// NewRemovalProcessor creates the removal processor.
func NewRemovalProcessor(promotions domain.CatalogPromotionRepository, announcer *RemovalAnnouncer) *RemovalProcessor {
	return &RemovalProcessor{promotions: promotions, announcer: announcer}
}

// RemoveCatalogPromotion validates the promotion's state before announcing
// removal. A missing promotion is rejected here (the caller asked for it
// explicitly), mid-reconciliation promotions must settle first, and an
// unrecognized state string means corrupted storage.
func (p *RemovalProcessor) RemoveCatalogPromotion(ctx context.Context, code string) error {
	promotion, err := p.promotions.FindOneByCode(ctx, code)
	if err != nil {
		return err
	}

	if promotion.State == domain.StateProcessing {
		return &domain.InvalidStateError{Code: code, State: promotion.State}
	}
	if !domain.KnownState(promotion.State) {
		return &domain.UnknownStateError{Code: code, State: promotion.State}
	}

	return p.announcer.DispatchRemoval(ctx, promotion)
}
