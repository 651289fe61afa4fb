package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// UpdateCatalogPromotionStateHandler reconciles one promotion's state with
// its eligibility. A promotion that vanished before the command was
// delivered is a tolerated no-op: the triggering fact no longer exists.
type UpdateCatalogPromotionStateHandler struct {
	promotions domain.CatalogPromotionRepository
	states     *StateProcessor
}

// NewUpdateCatalogPromotionStateHandler creates the update-state handler.
func NewUpdateCatalogPromotionStateHandler(promotions domain.CatalogPromotionRepository, states *StateProcessor) *UpdateCatalogPromotionStateHandler {
	return &UpdateCatalogPromotionStateHandler{promotions: promotions, states: states}
}

// Handle looks the promotion up by code and runs the state processor.
func (h *UpdateCatalogPromotionStateHandler) Handle(ctx context.Context, cmd domain.UpdateCatalogPromotionState) error {
	promotion, err := h.promotions.FindOneByCode(ctx, cmd.Code)
	if errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding promotion %q: %w", cmd.Code, err)
	}

	return h.states.Process(ctx, &promotion)
}

// DisableCatalogPromotionHandler turns a promotion off, settles its state,
// and triggers the catalog-wide recomputation that disabling implies.
type DisableCatalogPromotionHandler struct {
	promotions  domain.CatalogPromotionRepository
	states      *StateProcessor
	allVariants *AllProductVariantsProcessor
}

// NewDisableCatalogPromotionHandler creates the disable handler.
func NewDisableCatalogPromotionHandler(
	promotions domain.CatalogPromotionRepository,
	states *StateProcessor,
	allVariants *AllProductVariantsProcessor,
) *DisableCatalogPromotionHandler {
	return &DisableCatalogPromotionHandler{promotions: promotions, states: states, allVariants: allVariants}
}

// Handle disables the promotion, deactivates it through the state
// processor, and recomputes the full catalog. Absent promotions are a
// tolerated no-op.
func (h *DisableCatalogPromotionHandler) Handle(ctx context.Context, cmd domain.DisableCatalogPromotion) error {
	promotion, err := h.promotions.FindOneByCode(ctx, cmd.Code)
	if errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding promotion %q: %w", cmd.Code, err)
	}

	if promotion.Enabled {
		promotion.Enabled = false
		if err := h.promotions.Update(ctx, promotion); err != nil {
			return fmt.Errorf("disabling promotion %q: %w", cmd.Code, err)
		}
	}

	if err := h.states.Process(ctx, &promotion); err != nil {
		return err
	}

	return h.allVariants.Process(ctx)
}

// RemoveCatalogPromotionHandler deletes a promotion once the preceding
// update-state and disable commands have settled it, then recomputes the
// catalog so no stale discount survives the removal.
type RemoveCatalogPromotionHandler struct {
	promotions  domain.CatalogPromotionRepository
	allVariants *AllProductVariantsProcessor
}

// NewRemoveCatalogPromotionHandler creates the remove handler.
func NewRemoveCatalogPromotionHandler(promotions domain.CatalogPromotionRepository, allVariants *AllProductVariantsProcessor) *RemoveCatalogPromotionHandler {
	return &RemoveCatalogPromotionHandler{promotions: promotions, allVariants: allVariants}
}

// Handle re-validates the promotion's state at the moment of removal: the
// world may have changed since the removal was announced, so the handler
// trusts only what it reads now. Deletion requires the quiescent inactive
// state that the prior commands in the removal sequence drive the
// promotion into; anything else raises an InvalidStateError.
func (h *RemoveCatalogPromotionHandler) Handle(ctx context.Context, cmd domain.RemoveCatalogPromotion) error {
	promotion, err := h.promotions.FindOneByCode(ctx, cmd.Code)
	if errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding promotion %q: %w", cmd.Code, err)
	}

	if promotion.State != domain.StateInactive {
		return &domain.InvalidStateError{Code: promotion.Code, State: promotion.State}
	}

	if err := h.promotions.Delete(ctx, cmd.Code); err != nil {
		return fmt.Errorf("deleting promotion %q: %w", cmd.Code, err)
	}

	slog.InfoContext(ctx, "catalog promotion removed", "code", cmd.Code)

	return h.allVariants.Process(ctx)
}
