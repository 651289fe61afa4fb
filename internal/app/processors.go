package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// DefaultBatchSize bounds how many variant codes one apply command carries,
// which in turn bounds the handler's transaction size.
const DefaultBatchSize = 100

// batchDispatcher splits a code set into batches of at most batchSize and
// dispatches one apply command per batch. All three processors share it.
// Ordering of codes within and across batches does not affect correctness
// because the apply handler is idempotent.
type batchDispatcher struct {
	dispatcher domain.MessageDispatcher
	batchSize  int
}

func newBatchDispatcher(dispatcher domain.MessageDispatcher, batchSize int) batchDispatcher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return batchDispatcher{dispatcher: dispatcher, batchSize: batchSize}
}

func (b batchDispatcher) dispatch(ctx context.Context, codes []string) error {
	batchID := uuid.NewString()

	for start := 0; start < len(codes); start += b.batchSize {
		end := start + b.batchSize
		if end > len(codes) {
			end = len(codes)
		}

		cmd := domain.ApplyCatalogPromotionsOnVariants{
			BatchID:      batchID,
			VariantCodes: codes[start:end],
		}
		if err := b.dispatcher.Dispatch(ctx, cmd); err != nil {
			return fmt.Errorf("dispatching apply batch: %w", err)
		}
	}
	return nil
}

// AllProductVariantsProcessor triggers recomputation across the entire
// catalog. Used whenever a change can affect every variant: a promotion was
// created, updated, ended, or disabled.
type AllProductVariantsProcessor struct {
	variants domain.ProductVariantRepository
	batches  batchDispatcher
}

// NewAllProductVariantsProcessor creates the catalog-wide processor.
func NewAllProductVariantsProcessor(variants domain.ProductVariantRepository, dispatcher domain.MessageDispatcher, batchSize int) *AllProductVariantsProcessor {
	return &AllProductVariantsProcessor{
		variants: variants,
		batches:  newBatchDispatcher(dispatcher, batchSize),
	}
}

// Process dispatches apply commands covering every variant in the catalog.
func (p *AllProductVariantsProcessor) Process(ctx context.Context) error {
	codes, err := p.variants.CodesOfAllVariants(ctx)
	if err != nil {
		return fmt.Errorf("fetching all variant codes: %w", err)
	}
	if len(codes) == 0 {
		return nil
	}
	return p.batches.dispatch(ctx, codes)
}

// ProductProcessor triggers recomputation for a single product's variants.
// Used when a product is created.
type ProductProcessor struct {
	variants domain.ProductVariantRepository
	batches  batchDispatcher
}

// NewProductProcessor creates the per-product processor.
func NewProductProcessor(variants domain.ProductVariantRepository, dispatcher domain.MessageDispatcher, batchSize int) *ProductProcessor {
	return &ProductProcessor{
		variants: variants,
		batches:  newBatchDispatcher(dispatcher, batchSize),
	}
}

// Process dispatches apply commands covering the product's variants.
func (p *ProductProcessor) Process(ctx context.Context, product domain.Product) error {
	codes, err := p.variants.CodesByProductCode(ctx, product.Code)
	if err != nil {
		return fmt.Errorf("fetching variant codes of product %q: %w", product.Code, err)
	}
	if len(codes) == 0 {
		return nil
	}
	return p.batches.dispatch(ctx, codes)
}

// ProductVariantProcessor triggers recomputation for one variant. Used when
// a single variant is updated.
type ProductVariantProcessor struct {
	batches batchDispatcher
}

// NewProductVariantProcessor creates the per-variant processor.
func NewProductVariantProcessor(dispatcher domain.MessageDispatcher, batchSize int) *ProductVariantProcessor {
	return &ProductVariantProcessor{batches: newBatchDispatcher(dispatcher, batchSize)}
}

// Process dispatches an apply command covering exactly the given variant.
func (p *ProductVariantProcessor) Process(ctx context.Context, variant domain.ProductVariant) error {
	return p.batches.dispatch(ctx, []string{variant.Code})
}
