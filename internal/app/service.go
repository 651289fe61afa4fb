package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// CatalogPromotionService orchestrates the promotion write surface: persist
// the change, then announce it so the scheduled lifecycle machinery takes
// over. State is never written by this service beyond the initial inactive.
type CatalogPromotionService struct {
	promotions domain.CatalogPromotionRepository
	announcer  *Announcer
	removal    *RemovalProcessor
}

// NewCatalogPromotionService creates the promotion service.
func NewCatalogPromotionService(promotions domain.CatalogPromotionRepository, announcer *Announcer, removal *RemovalProcessor) *CatalogPromotionService {
	return &CatalogPromotionService{promotions: promotions, announcer: announcer, removal: removal}
}

// Create persists a new promotion and schedules its lifecycle events.
func (s *CatalogPromotionService) Create(ctx context.Context, code, name string, start, end *time.Time, enabled bool, priority int, exclusive bool, action domain.PromotionAction) (domain.CatalogPromotion, error) {
	if _, err := s.promotions.FindOneByCode(ctx, code); err == nil {
		return domain.CatalogPromotion{}, &domain.CodeConflictError{Code: code}
	} else if !errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		return domain.CatalogPromotion{}, fmt.Errorf("checking code %q: %w", code, err)
	}

	promotion := domain.NewCatalogPromotion(code, name, start, end, enabled, priority, exclusive, action)

	if err := s.promotions.Create(ctx, promotion); err != nil {
		return domain.CatalogPromotion{}, fmt.Errorf("creating promotion: %w", err)
	}

	if err := s.announcer.DispatchCreated(ctx, promotion); err != nil {
		return domain.CatalogPromotion{}, err
	}

	return promotion, nil
}

// Update edits a promotion's campaign attributes and re-announces it. The
// lifecycle state is left untouched; the announced events drive it.
func (s *CatalogPromotionService) Update(ctx context.Context, code, name string, start, end *time.Time, enabled bool, priority int, exclusive bool, action domain.PromotionAction) (domain.CatalogPromotion, error) {
	promotion, err := s.promotions.FindOneByCode(ctx, code)
	if err != nil {
		return domain.CatalogPromotion{}, err
	}

	promotion.Name = name
	promotion.StartDate = start
	promotion.EndDate = end
	promotion.Enabled = enabled
	promotion.Priority = priority
	promotion.Exclusive = exclusive
	promotion.Action = action
	promotion.UpdatedAt = time.Now().UTC()

	if err := s.promotions.Update(ctx, promotion); err != nil {
		return domain.CatalogPromotion{}, fmt.Errorf("updating promotion %q: %w", code, err)
	}

	if err := s.announcer.DispatchUpdated(ctx, promotion); err != nil {
		return domain.CatalogPromotion{}, err
	}

	return promotion, nil
}

// GetByCode returns a promotion by its unique code.
func (s *CatalogPromotionService) GetByCode(ctx context.Context, code string) (domain.CatalogPromotion, error) {
	return s.promotions.FindOneByCode(ctx, code)
}

// List returns promotions matching the given filter.
func (s *CatalogPromotionService) List(ctx context.Context, filter domain.ListFilter) ([]domain.CatalogPromotion, error) {
	return s.promotions.List(ctx, filter)
}

// Remove validates and announces a promotion's removal.
func (s *CatalogPromotionService) Remove(ctx context.Context, code string) error {
	return s.removal.RemoveCatalogPromotion(ctx, code)
}

// CatalogService is the product/variant write surface. Writes dispatch the
// domain events that trigger targeted price recomputation.
type CatalogService struct {
	products   domain.ProductRepository
	variants   domain.ProductVariantRepository
	dispatcher domain.MessageDispatcher
}

// NewCatalogService creates the catalog service.
func NewCatalogService(products domain.ProductRepository, variants domain.ProductVariantRepository, dispatcher domain.MessageDispatcher) *CatalogService {
	return &CatalogService{products: products, variants: variants, dispatcher: dispatcher}
}

// CreateProduct persists a product with its variants and announces it.
func (s *CatalogService) CreateProduct(ctx context.Context, product domain.Product, variants []domain.ProductVariant) error {
	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("creating product %q: %w", product.Code, err)
	}

	for _, variant := range variants {
		variant.ProductCode = product.Code
		if err := s.variants.Create(ctx, variant); err != nil {
			return fmt.Errorf("creating variant %q: %w", variant.Code, err)
		}
	}

	if err := s.dispatcher.Dispatch(ctx, domain.ProductCreated{Code: product.Code}); err != nil {
		return fmt.Errorf("announcing product %q: %w", product.Code, err)
	}
	return nil
}

// UpdateVariant edits a variant's base prices and announces the change.
// Incoming prices are undiscounted; the triggered recomputation reapplies
// whatever promotions are active.
func (s *CatalogService) UpdateVariant(ctx context.Context, code, name string, prices map[string]int64) (domain.ProductVariant, error) {
	variant, err := s.variants.FindOneByCode(ctx, code)
	if err != nil {
		return domain.ProductVariant{}, err
	}

	if name != "" {
		variant.Name = name
	}
	for i := range variant.ChannelPricings {
		cp := &variant.ChannelPricings[i]
		price, ok := prices[cp.ChannelCode]
		if !ok {
			continue
		}
		cp.Price = price
		cp.OriginalPrice = nil
		cp.AppliedPromotions = nil
	}

	if err := s.variants.Save(ctx, variant); err != nil {
		return domain.ProductVariant{}, fmt.Errorf("saving variant %q: %w", code, err)
	}

	if err := s.dispatcher.Dispatch(ctx, domain.ProductVariantUpdated{Code: code}); err != nil {
		return domain.ProductVariant{}, fmt.Errorf("announcing variant %q: %w", code, err)
	}
	return variant, nil
}

// GetVariant returns a variant with its current channel pricing.
func (s *CatalogService) GetVariant(ctx context.Context, code string) (domain.ProductVariant, error) {
	return s.variants.FindOneByCode(ctx, code)
}
