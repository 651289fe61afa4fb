package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/neomorfeo/promotiq/internal/clock"
	"github.com/neomorfeo/promotiq/internal/domain"
)

// Compile-time checks: the default collaborators satisfy their ports.
var (
	_ domain.CatalogPromotionApplicator         = (*DiscountApplicator)(nil)
	_ domain.EligibleCatalogPromotionsProvider  = (*ActiveCatalogPromotionsProvider)(nil)
	_ domain.CatalogPromotionEligibilityChecker = (*TimeWindowEligibilityChecker)(nil)
	_ domain.DelayStampCalculator               = (*IntervalDelayCalculator)(nil)
)

// DiscountApplicator applies a promotion's action to every channel pricing
// of a variant. It preserves the pricing invariant: the first discount
// snapshots the original price, attribution is appended per promotion, and
// the price never goes below zero.
type DiscountApplicator struct{}

// NewDiscountApplicator creates the default applicator.
func NewDiscountApplicator() *DiscountApplicator {
	return &DiscountApplicator{}
}

// ApplyOnVariant discounts all channel pricings of the variant by the
// promotion's action and records the promotion in the attribution set.
func (a *DiscountApplicator) ApplyOnVariant(_ context.Context, variant *domain.ProductVariant, promotion domain.CatalogPromotion) error {
	for i := range variant.ChannelPricings {
		cp := &variant.ChannelPricings[i]

		discounted, err := discount(cp.Price, promotion.Action)
		if err != nil {
			return fmt.Errorf("applying promotion %q on variant %q: %w", promotion.Code, variant.Code, err)
		}

		if cp.OriginalPrice == nil {
			original := cp.Price
			cp.OriginalPrice = &original
		}
		cp.Price = discounted
		cp.AppliedPromotions = append(cp.AppliedPromotions, promotion.Code)
	}
	return nil
}

func discount(price int64, action domain.PromotionAction) (int64, error) {
	var reduced int64
	switch action.Type {
	case domain.ActionPercentage:
		if action.Amount < 0 || action.Amount > 100 {
			return 0, fmt.Errorf("percentage %d is out of range", action.Amount)
		}
		reduced = price - price*action.Amount/100
	case domain.ActionFixedAmount:
		if action.Amount < 0 {
			return 0, fmt.Errorf("fixed amount %d is negative", action.Amount)
		}
		reduced = price - action.Amount
	default:
		return 0, fmt.Errorf("unknown action type %q", action.Type)
	}

	if reduced < 0 {
		reduced = 0
	}
	return reduced, nil
}

// ActiveCatalogPromotionsProvider returns enabled, active-state promotions
// ordered by descending priority. When exclusive promotions are present,
// only the highest-priority exclusive one applies.
type ActiveCatalogPromotionsProvider struct {
	promotions domain.CatalogPromotionRepository
}

// NewActiveCatalogPromotionsProvider creates the default provider.
func NewActiveCatalogPromotionsProvider(promotions domain.CatalogPromotionRepository) *ActiveCatalogPromotionsProvider {
	return &ActiveCatalogPromotionsProvider{promotions: promotions}
}

// Provide returns the ordered set of promotions eligible for application.
func (p *ActiveCatalogPromotionsProvider) Provide(ctx context.Context) ([]domain.CatalogPromotion, error) {
	enabled := true
	state := domain.StateActive
	active, err := p.promotions.List(ctx, domain.ListFilter{State: &state, Enabled: &enabled})
	if err != nil {
		return nil, fmt.Errorf("listing active promotions: %w", err)
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Priority > active[j].Priority
	})

	for _, promotion := range active {
		if promotion.Exclusive {
			return []domain.CatalogPromotion{promotion}, nil
		}
	}

	return active, nil
}

// TimeWindowEligibilityChecker judges eligibility from the enabled flag and
// the promotion's date window against the injected clock. It deliberately
// ignores the lifecycle state: eligibility drives the state, not the other
// way around.
type TimeWindowEligibilityChecker struct {
	clock clock.Clock
}

// NewTimeWindowEligibilityChecker creates the default eligibility checker.
func NewTimeWindowEligibilityChecker(c clock.Clock) *TimeWindowEligibilityChecker {
	return &TimeWindowEligibilityChecker{clock: c}
}

// IsEligible reports whether the promotion currently qualifies for
// application. A nil start date means "started"; a nil end date means the
// promotion runs until manually disabled.
func (c *TimeWindowEligibilityChecker) IsEligible(promotion domain.CatalogPromotion) bool {
	if !promotion.Enabled {
		return false
	}

	now := c.clock.Now()
	if promotion.StartDate != nil && promotion.StartDate.After(now) {
		return false
	}
	if promotion.EndDate != nil && !promotion.EndDate.After(now) {
		return false
	}
	return true
}

// IntervalDelayCalculator computes delivery delays as the interval between
// now and the target instant, collapsing past targets to zero so they
// deliver immediately.
type IntervalDelayCalculator struct{}

// NewIntervalDelayCalculator creates the default delay stamp calculator.
func NewIntervalDelayCalculator() *IntervalDelayCalculator {
	return &IntervalDelayCalculator{}
}

// Calculate returns the non-negative delay from now until target.
func (IntervalDelayCalculator) Calculate(now, target time.Time) time.Duration {
	delay := target.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}
