package river

import (
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// Job argument types for every engine message. River serializes these as
// JSON into its job queue table; they are code-addressed snapshots, never
// entity references, so they survive delayed and out-of-order delivery.

// ApplyOnVariantsArgs carries one batch of variant codes to recompute.
type ApplyOnVariantsArgs struct {
	BatchID      string   `json:"batch_id"`
	VariantCodes []string `json:"variant_codes"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (ApplyOnVariantsArgs) Kind() string { return domain.NameApplyCatalogPromotionsOnVariants }

// UpdateStateArgs asks for a state reconciliation of one promotion.
type UpdateStateArgs struct {
	Code string `json:"code"`
}

func (UpdateStateArgs) Kind() string { return domain.NameUpdateCatalogPromotionState }

// DisableArgs turns one promotion off.
type DisableArgs struct {
	Code string `json:"code"`
}

func (DisableArgs) Kind() string { return domain.NameDisableCatalogPromotion }

// RemoveArgs deletes one settled promotion.
type RemoveArgs struct {
	Code string `json:"code"`
}

func (RemoveArgs) Kind() string { return domain.NameRemoveCatalogPromotion }

// CreatedArgs announces a created promotion, delivered at its start date.
type CreatedArgs struct {
	Code string `json:"code"`
}

func (CreatedArgs) Kind() string { return domain.NameCatalogPromotionCreated }

// UpdatedArgs announces an updated promotion.
type UpdatedArgs struct {
	Code string `json:"code"`
}

func (UpdatedArgs) Kind() string { return domain.NameCatalogPromotionUpdated }

// EndedArgs announces a promotion whose end date passed.
type EndedArgs struct {
	Code string `json:"code"`
}

func (EndedArgs) Kind() string { return domain.NameCatalogPromotionEnded }

// ProductCreatedArgs announces a new product.
type ProductCreatedArgs struct {
	Code string `json:"code"`
}

func (ProductCreatedArgs) Kind() string { return domain.NameProductCreated }

// VariantUpdatedArgs announces a changed variant.
type VariantUpdatedArgs struct {
	Code string `json:"code"`
}

func (VariantUpdatedArgs) Kind() string { return domain.NameProductVariantUpdated }

// toJobArgs converts a domain message into its River job args.
func toJobArgs(msg domain.Message) (river.JobArgs, error) {
	switch m := msg.(type) {
	case domain.ApplyCatalogPromotionsOnVariants:
		return ApplyOnVariantsArgs{BatchID: m.BatchID, VariantCodes: m.VariantCodes}, nil
	case domain.UpdateCatalogPromotionState:
		return UpdateStateArgs{Code: m.Code}, nil
	case domain.DisableCatalogPromotion:
		return DisableArgs{Code: m.Code}, nil
	case domain.RemoveCatalogPromotion:
		return RemoveArgs{Code: m.Code}, nil
	case domain.CatalogPromotionCreated:
		return CreatedArgs{Code: m.Code}, nil
	case domain.CatalogPromotionUpdated:
		return UpdatedArgs{Code: m.Code}, nil
	case domain.CatalogPromotionEnded:
		return EndedArgs{Code: m.Code}, nil
	case domain.ProductCreated:
		return ProductCreatedArgs{Code: m.Code}, nil
	case domain.ProductVariantUpdated:
		return VariantUpdatedArgs{Code: m.Code}, nil
	default:
		return nil, fmt.Errorf("no job mapping for message %q", msg.MessageName())
	}
}
