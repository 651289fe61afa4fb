package app

import "github.com/neomorfeo/promotiq/internal/domain"

// Clearer resets a variant's prices to their pre-promotion values and
// discards promotion attribution. It is the only sanctioned way to undo a
// promotion's effect: the engine never subtracts individual discounts,
// because compounding subtraction drifts under rounding. Clear-then-reapply
// is the idempotence strategy.
type Clearer struct{}

// NewClearer creates a catalog promotion clearer.
func NewClearer() *Clearer {
	return &Clearer{}
}

// ClearVariant restores every discounted channel pricing on the variant to
// its original price and empties the applied-promotion attribution.
// Pricings with no applied promotions are left untouched.
func (c *Clearer) ClearVariant(variant *domain.ProductVariant) {
	for i := range variant.ChannelPricings {
		cp := &variant.ChannelPricings[i]
		if !cp.HasAppliedPromotions() {
			continue
		}
		if cp.OriginalPrice != nil {
			cp.Price = *cp.OriginalPrice
		}
		cp.OriginalPrice = nil
		cp.AppliedPromotions = nil
	}
}
