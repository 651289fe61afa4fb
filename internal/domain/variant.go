package domain

// Product groups the variants that a single product-level trigger affects.
type Product struct {
	Code string
	Name string
}

// ChannelPricing is the price of one variant in one sales channel.
//
// Invariant: if AppliedPromotions is non-empty, OriginalPrice is non-nil and
// Price <= *OriginalPrice. If AppliedPromotions is empty, OriginalPrice is
// nil and Price is the undiscounted price. The clearer and the applicator
// jointly maintain this; nothing else mutates price state.
type ChannelPricing struct {
	ChannelCode       string
	Price             int64
	OriginalPrice     *int64
	AppliedPromotions []string
}

// HasAppliedPromotions reports whether any promotion currently discounts
// this pricing.
func (cp *ChannelPricing) HasAppliedPromotions() bool {
	return len(cp.AppliedPromotions) > 0
}

// ProductVariant is the unit prices are recomputed for, identified by a
// unique code. It owns one ChannelPricing per sales channel.
type ProductVariant struct {
	Code            string
	ProductCode     string
	Name            string
	ChannelPricings []ChannelPricing
}
