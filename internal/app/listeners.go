package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// lifecycleReaction is the shared reaction of the Created/Updated/Ended
// listeners: look the promotion up (absent means it was removed before the
// scheduled event fired, a tolerated no-op), synchronously update its state
// through the command bus, then recompute the whole catalog. The ordering
// is strict: by the time prices are recomputed the promotion's state
// already reflects reality. A failed state dispatch propagates; silently
// continuing would recompute prices against a stale state.
type lifecycleReaction struct {
	promotions  domain.CatalogPromotionRepository
	bus         domain.CommandBus
	allVariants *AllProductVariantsProcessor
}

func (r lifecycleReaction) react(ctx context.Context, code string) error {
	_, err := r.promotions.FindOneByCode(ctx, code)
	if errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding promotion %q: %w", code, err)
	}

	if err := r.bus.Dispatch(ctx, domain.UpdateCatalogPromotionState{Code: code}); err != nil {
		return fmt.Errorf("updating state of promotion %q: %w", code, err)
	}

	return r.allVariants.Process(ctx)
}

// CatalogPromotionCreatedListener reacts to the (possibly delayed) Created
// event by settling state and recomputing the catalog.
type CatalogPromotionCreatedListener struct {
	lifecycleReaction
}

// NewCatalogPromotionCreatedListener creates the Created event listener.
func NewCatalogPromotionCreatedListener(promotions domain.CatalogPromotionRepository, bus domain.CommandBus, allVariants *AllProductVariantsProcessor) *CatalogPromotionCreatedListener {
	return &CatalogPromotionCreatedListener{lifecycleReaction{promotions: promotions, bus: bus, allVariants: allVariants}}
}

// Handle processes one Created event.
func (l *CatalogPromotionCreatedListener) Handle(ctx context.Context, event domain.CatalogPromotionCreated) error {
	return l.react(ctx, event.Code)
}

// CatalogPromotionUpdatedListener reacts to the Updated event.
type CatalogPromotionUpdatedListener struct {
	lifecycleReaction
}

// NewCatalogPromotionUpdatedListener creates the Updated event listener.
func NewCatalogPromotionUpdatedListener(promotions domain.CatalogPromotionRepository, bus domain.CommandBus, allVariants *AllProductVariantsProcessor) *CatalogPromotionUpdatedListener {
	return &CatalogPromotionUpdatedListener{lifecycleReaction{promotions: promotions, bus: bus, allVariants: allVariants}}
}

// Handle processes one Updated event.
func (l *CatalogPromotionUpdatedListener) Handle(ctx context.Context, event domain.CatalogPromotionUpdated) error {
	return l.react(ctx, event.Code)
}

// CatalogPromotionEndedListener reacts to the delayed Ended event.
type CatalogPromotionEndedListener struct {
	lifecycleReaction
}

// NewCatalogPromotionEndedListener creates the Ended event listener.
func NewCatalogPromotionEndedListener(promotions domain.CatalogPromotionRepository, bus domain.CommandBus, allVariants *AllProductVariantsProcessor) *CatalogPromotionEndedListener {
	return &CatalogPromotionEndedListener{lifecycleReaction{promotions: promotions, bus: bus, allVariants: allVariants}}
}

// Handle processes one Ended event.
func (l *CatalogPromotionEndedListener) Handle(ctx context.Context, event domain.CatalogPromotionEnded) error {
	return l.react(ctx, event.Code)
}

// CatalogPromotionStateChangedListener is the fan-in listener: it runs
// before the heavier lifecycle listeners on every Created/Updated/Ended
// event and fires a single state update, so a transient promotion picks up
// its processing marker before the full reaction settles and recomputes.
type CatalogPromotionStateChangedListener struct {
	bus domain.CommandBus
}

// NewCatalogPromotionStateChangedListener creates the fan-in listener.
func NewCatalogPromotionStateChangedListener(bus domain.CommandBus) *CatalogPromotionStateChangedListener {
	return &CatalogPromotionStateChangedListener{bus: bus}
}

// Handle dispatches a state update for the promotion the event names.
func (l *CatalogPromotionStateChangedListener) Handle(ctx context.Context, code string) error {
	return l.bus.Dispatch(ctx, domain.UpdateCatalogPromotionState{Code: code})
}

// ProductCreatedListener reacts to a new product by recomputing promotions
// on its variants.
type ProductCreatedListener struct {
	products  domain.ProductRepository
	processor *ProductProcessor
}

// NewProductCreatedListener creates the product-created listener.
func NewProductCreatedListener(products domain.ProductRepository, processor *ProductProcessor) *ProductCreatedListener {
	return &ProductCreatedListener{products: products, processor: processor}
}

// Handle processes one ProductCreated event. An absent product is a
// tolerated no-op.
func (l *ProductCreatedListener) Handle(ctx context.Context, event domain.ProductCreated) error {
	product, err := l.products.FindOneByCode(ctx, event.Code)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding product %q: %w", event.Code, err)
	}

	return l.processor.Process(ctx, product)
}

// ProductVariantUpdatedListener reacts to a changed variant by recomputing
// its prices.
type ProductVariantUpdatedListener struct {
	variants  domain.ProductVariantRepository
	processor *ProductVariantProcessor
}

// NewProductVariantUpdatedListener creates the variant-updated listener.
func NewProductVariantUpdatedListener(variants domain.ProductVariantRepository, processor *ProductVariantProcessor) *ProductVariantUpdatedListener {
	return &ProductVariantUpdatedListener{variants: variants, processor: processor}
}

// Handle processes one ProductVariantUpdated event. An absent variant is a
// tolerated no-op.
func (l *ProductVariantUpdatedListener) Handle(ctx context.Context, event domain.ProductVariantUpdated) error {
	variant, err := l.variants.FindOneByCode(ctx, event.Code)
	if errors.Is(err, domain.ErrProductVariantNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("finding variant %q: %w", event.Code, err)
	}

	return l.processor.Process(ctx, variant)
}
