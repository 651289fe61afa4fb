package domain

// Message is a command or event exchanged between engine components.
// Messages are immutable, code-addressed value objects so they survive
// asynchronous delivery and out-of-order arrival.
type Message interface {
	MessageName() string
}

// Message names, used for transport routing and sync-bus registration.
const (
	NameApplyCatalogPromotionsOnVariants = "catalog_promotion.apply_on_variants"
	NameUpdateCatalogPromotionState      = "catalog_promotion.update_state"
	NameDisableCatalogPromotion          = "catalog_promotion.disable"
	NameRemoveCatalogPromotion           = "catalog_promotion.remove"
	NameCatalogPromotionCreated          = "catalog_promotion.created"
	NameCatalogPromotionUpdated          = "catalog_promotion.updated"
	NameCatalogPromotionEnded            = "catalog_promotion.ended"
	NameProductCreated                   = "product.created"
	NameProductVariantUpdated            = "product_variant.updated"
)

// --- Commands ---

// ApplyCatalogPromotionsOnVariants asks for a clear-then-reapply of all
// eligible promotions on the named variants. BatchID correlates the
// batches one processor run fans out into.
type ApplyCatalogPromotionsOnVariants struct {
	BatchID      string
	VariantCodes []string
}

func (ApplyCatalogPromotionsOnVariants) MessageName() string {
	return NameApplyCatalogPromotionsOnVariants
}

// UpdateCatalogPromotionState asks the state processor to reconcile the
// promotion's state with its current eligibility.
type UpdateCatalogPromotionState struct {
	Code string
}

func (UpdateCatalogPromotionState) MessageName() string { return NameUpdateCatalogPromotionState }

// DisableCatalogPromotion turns a promotion off and triggers the catalog
// recomputation that disabling implies.
type DisableCatalogPromotion struct {
	Code string
}

func (DisableCatalogPromotion) MessageName() string { return NameDisableCatalogPromotion }

// RemoveCatalogPromotion deletes a promotion once it has settled.
type RemoveCatalogPromotion struct {
	Code string
}

func (RemoveCatalogPromotion) MessageName() string { return NameRemoveCatalogPromotion }

// --- Events ---

// CatalogPromotionCreated announces a newly created promotion; delivery is
// delayed until its start date.
type CatalogPromotionCreated struct {
	Code string
}

func (CatalogPromotionCreated) MessageName() string { return NameCatalogPromotionCreated }

// CatalogPromotionUpdated announces an edited promotion.
type CatalogPromotionUpdated struct {
	Code string
}

func (CatalogPromotionUpdated) MessageName() string { return NameCatalogPromotionUpdated }

// CatalogPromotionEnded announces that a promotion's end date has passed.
type CatalogPromotionEnded struct {
	Code string
}

func (CatalogPromotionEnded) MessageName() string { return NameCatalogPromotionEnded }

// ProductCreated announces a new product whose variants need promotions
// applied.
type ProductCreated struct {
	Code string
}

func (ProductCreated) MessageName() string { return NameProductCreated }

// ProductVariantUpdated announces a changed variant whose prices need
// recomputation.
type ProductVariantUpdated struct {
	Code string
}

func (ProductVariantUpdated) MessageName() string { return NameProductVariantUpdated }
