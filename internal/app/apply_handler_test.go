package app_test

import (
	"context"
	"testing"

	"github.com/neomorfeo/promotiq/internal/app"
	"github.com/neomorfeo/promotiq/internal/domain"
)

func newApplyHandler(variants *mockVariantRepo, provider *stubProvider) *app.ApplyCatalogPromotionsOnVariantsHandler {
	return app.NewApplyCatalogPromotionsOnVariantsHandler(
		variants,
		provider,
		app.NewClearer(),
		app.NewDiscountApplicator(),
	)
}

func TestApplyHandler_AppliesEligiblePromotions(t *testing.T) {
	variants := newMockVariantRepo()
	variants.Create(context.Background(), domain.ProductVariant{
		Code:            "MUG_BLUE",
		ChannelPricings: []domain.ChannelPricing{{ChannelCode: "WEB", Price: 1000}},
	})
	provider := &stubProvider{promotions: []domain.CatalogPromotion{
		{Code: "SALE", Action: domain.PromotionAction{Type: domain.ActionPercentage, Amount: 20}},
	}}
	handler := newApplyHandler(variants, provider)

	cmd := domain.ApplyCatalogPromotionsOnVariants{BatchID: "b1", VariantCodes: []string{"MUG_BLUE"}}
	if err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	saved := variants.variants["MUG_BLUE"].ChannelPricings[0]
	if saved.Price != 800 {
		t.Errorf("Price = %d, want 800", saved.Price)
	}
	if saved.OriginalPrice == nil || *saved.OriginalPrice != 1000 {
		t.Errorf("OriginalPrice = %v, want 1000", saved.OriginalPrice)
	}
	if len(saved.AppliedPromotions) != 1 || saved.AppliedPromotions[0] != "SALE" {
		t.Errorf("AppliedPromotions = %v, want [SALE]", saved.AppliedPromotions)
	}
}

func TestApplyHandler_Idempotent(t *testing.T) {
	variants := newMockVariantRepo()
	variants.Create(context.Background(), domain.ProductVariant{
		Code:            "MUG_BLUE",
		ChannelPricings: []domain.ChannelPricing{{ChannelCode: "WEB", Price: 1000}},
	})
	provider := &stubProvider{promotions: []domain.CatalogPromotion{
		{Code: "SALE", Action: domain.PromotionAction{Type: domain.ActionPercentage, Amount: 20}},
	}}
	handler := newApplyHandler(variants, provider)

	cmd := domain.ApplyCatalogPromotionsOnVariants{BatchID: "b1", VariantCodes: []string{"MUG_BLUE"}}
	for i := 0; i < 3; i++ {
		if err := handler.Handle(context.Background(), cmd); err != nil {
			t.Fatalf("Handle iteration %d failed: %v", i, err)
		}
	}

	saved := variants.variants["MUG_BLUE"].ChannelPricings[0]
	if saved.Price != 800 {
		t.Errorf("Price after replay = %d, want 800 (not compounded)", saved.Price)
	}
	if len(saved.AppliedPromotions) != 1 {
		t.Errorf("AppliedPromotions = %v, want exactly one entry", saved.AppliedPromotions)
	}
}

func TestApplyHandler_EmptyEligibleSetClearsOnly(t *testing.T) {
	variants := newMockVariantRepo()
	original := int64(1000)
	variants.Create(context.Background(), domain.ProductVariant{
		Code: "MUG_BLUE",
		ChannelPricings: []domain.ChannelPricing{
			{ChannelCode: "WEB", Price: 800, OriginalPrice: &original, AppliedPromotions: []string{"OLD_SALE"}},
		},
	})
	handler := newApplyHandler(variants, &stubProvider{})

	cmd := domain.ApplyCatalogPromotionsOnVariants{BatchID: "b1", VariantCodes: []string{"MUG_BLUE"}}
	if err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	saved := variants.variants["MUG_BLUE"].ChannelPricings[0]
	if saved.Price != 1000 {
		t.Errorf("Price = %d, want 1000 restored", saved.Price)
	}
	if saved.OriginalPrice != nil || len(saved.AppliedPromotions) != 0 {
		t.Errorf("pricing not cleared: %+v", saved)
	}
}

func TestApplyHandler_SkipsMissingVariants(t *testing.T) {
	variants := newMockVariantRepo()
	variants.Create(context.Background(), domain.ProductVariant{
		Code:            "EXISTS",
		ChannelPricings: []domain.ChannelPricing{{ChannelCode: "WEB", Price: 1000}},
	})
	handler := newApplyHandler(variants, &stubProvider{})

	cmd := domain.ApplyCatalogPromotionsOnVariants{BatchID: "b1", VariantCodes: []string{"EXISTS", "GONE"}}
	if err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("Handle failed for batch with a missing variant: %v", err)
	}
	if variants.saves != 1 {
		t.Errorf("saves = %d, want 1", variants.saves)
	}
}

func TestApplyHandler_FetchesEligibleSetOncePerBatch(t *testing.T) {
	variants := newMockVariantRepo()
	for _, code := range []string{"A", "B", "C"} {
		variants.Create(context.Background(), domain.ProductVariant{
			Code:            code,
			ChannelPricings: []domain.ChannelPricing{{ChannelCode: "WEB", Price: 1000}},
		})
	}
	provider := &stubProvider{}
	handler := newApplyHandler(variants, provider)

	cmd := domain.ApplyCatalogPromotionsOnVariants{BatchID: "b1", VariantCodes: []string{"A", "B", "C"}}
	if err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
}
