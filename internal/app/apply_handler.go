package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// ApplyCatalogPromotionsOnVariantsHandler recomputes the price impact of
// all eligible promotions on a batch of variants. It is idempotent:
// replaying the same batch against the same eligible set converges to the
// same price state, which delivery being at-least-once requires.
type ApplyCatalogPromotionsOnVariantsHandler struct {
	variants   domain.ProductVariantRepository
	provider   domain.EligibleCatalogPromotionsProvider
	clearer    *Clearer
	applicator domain.CatalogPromotionApplicator
}

// NewApplyCatalogPromotionsOnVariantsHandler creates the batch apply handler.
func NewApplyCatalogPromotionsOnVariantsHandler(
	variants domain.ProductVariantRepository,
	provider domain.EligibleCatalogPromotionsProvider,
	clearer *Clearer,
	applicator domain.CatalogPromotionApplicator,
) *ApplyCatalogPromotionsOnVariantsHandler {
	return &ApplyCatalogPromotionsOnVariantsHandler{
		variants:   variants,
		provider:   provider,
		clearer:    clearer,
		applicator: applicator,
	}
}

// Handle clears and reapplies all eligible promotions on each named
// variant. The eligible set is fetched once per batch, not per variant:
// eligibility is treated as stable for the duration of one batch. Codes
// with no matching variant are skipped silently; the variant may have been
// deleted between dispatch and handling. An empty eligible set degrades to
// clear-only, which is correct: no promotions means no discounts.
func (h *ApplyCatalogPromotionsOnVariantsHandler) Handle(ctx context.Context, cmd domain.ApplyCatalogPromotionsOnVariants) error {
	eligible, err := h.provider.Provide(ctx)
	if err != nil {
		return fmt.Errorf("providing eligible promotions: %w", err)
	}

	resolved, err := h.variants.FindByCodes(ctx, cmd.VariantCodes)
	if err != nil {
		return fmt.Errorf("resolving variant codes: %w", err)
	}

	if len(resolved) < len(cmd.VariantCodes) {
		slog.DebugContext(ctx, "skipping missing variants",
			"batch_id", cmd.BatchID,
			"requested", len(cmd.VariantCodes),
			"resolved", len(resolved),
		)
	}

	for i := range resolved {
		variant := &resolved[i]

		h.clearer.ClearVariant(variant)
		for _, promotion := range eligible {
			if err := h.applicator.ApplyOnVariant(ctx, variant, promotion); err != nil {
				return err
			}
		}

		if err := h.variants.Save(ctx, *variant); err != nil {
			return fmt.Errorf("saving variant %q: %w", variant.Code, err)
		}
	}

	return nil
}
