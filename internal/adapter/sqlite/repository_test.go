package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/neomorfeo/promotiq/internal/adapter/sqlite"
	"github.com/neomorfeo/promotiq/internal/domain"
)

// newTestDB creates an in-memory SQLite database for testing.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreatePromotion(t *testing.T, repo *sqlite.CatalogPromotionRepository, p domain.CatalogPromotion) {
	t.Helper()
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("mustCreatePromotion failed: %v", err)
	}
}

func mustCreateProduct(t *testing.T, db *sql.DB, code string) {
	t.Helper()
	repo := sqlite.NewProductRepository(db)
	if err := repo.Create(context.Background(), domain.Product{Code: code, Name: code}); err != nil {
		t.Fatalf("mustCreateProduct failed: %v", err)
	}
}

func mustCreateVariant(t *testing.T, repo *sqlite.ProductVariantRepository, v domain.ProductVariant) {
	t.Helper()
	if err := repo.Create(context.Background(), v); err != nil {
		t.Fatalf("mustCreateVariant failed: %v", err)
	}
}

func TestPromotionCreate_And_FindOneByCode(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	promotion := domain.NewCatalogPromotion("SALE", "Summer Sale", &start, &end, true, 5, true,
		domain.PromotionAction{Type: domain.ActionPercentage, Amount: 20})
	mustCreatePromotion(t, repo, promotion)

	got, err := repo.FindOneByCode(ctx, "SALE")
	if err != nil {
		t.Fatalf("FindOneByCode failed: %v", err)
	}

	if got.Code != "SALE" {
		t.Errorf("Code = %q, want %q", got.Code, "SALE")
	}
	if got.Name != "Summer Sale" {
		t.Errorf("Name = %q, want %q", got.Name, "Summer Sale")
	}
	if got.State != domain.StateInactive {
		t.Errorf("State = %q, want %q", got.State, domain.StateInactive)
	}
	if !got.Enabled || got.Priority != 5 || !got.Exclusive {
		t.Errorf("Enabled/Priority/Exclusive = %v/%d/%v, want true/5/true", got.Enabled, got.Priority, got.Exclusive)
	}
	if got.Action.Type != domain.ActionPercentage || got.Action.Amount != 20 {
		t.Errorf("Action = %+v, want percentage 20", got.Action)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, start)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("EndDate = %v, want %v", got.EndDate, end)
	}
}

func TestPromotionCreate_NilDatesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)

	promotion := domain.NewCatalogPromotion("OPEN", "Open Ended", nil, nil, true, 0, false,
		domain.PromotionAction{Type: domain.ActionFixedAmount, Amount: 100})
	mustCreatePromotion(t, repo, promotion)

	got, err := repo.FindOneByCode(context.Background(), "OPEN")
	if err != nil {
		t.Fatalf("FindOneByCode failed: %v", err)
	}
	if got.StartDate != nil || got.EndDate != nil {
		t.Errorf("dates = %v/%v, want nil/nil", got.StartDate, got.EndDate)
	}
}

func TestPromotionCreate_DuplicateCode(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)

	promotion := domain.NewCatalogPromotion("SALE", "First", nil, nil, true, 0, false,
		domain.PromotionAction{Type: domain.ActionPercentage, Amount: 10})
	mustCreatePromotion(t, repo, promotion)

	err := repo.Create(context.Background(), promotion)
	var conflict *domain.CodeConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error type = %T, want *domain.CodeConflictError", err)
	}
	if conflict.Code != "SALE" {
		t.Errorf("Code = %q, want %q", conflict.Code, "SALE")
	}
}

func TestPromotionFindOneByCode_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)

	_, err := repo.FindOneByCode(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		t.Errorf("error = %v, want ErrCatalogPromotionNotFound", err)
	}
}

func TestPromotionList_FiltersAndOrders(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)
	ctx := context.Background()

	for _, p := range []struct {
		code     string
		enabled  bool
		state    domain.State
		priority int
	}{
		{"LOW", true, domain.StateActive, 1},
		{"HIGH", true, domain.StateActive, 9},
		{"OFF", false, domain.StateActive, 5},
		{"IDLE", true, domain.StateInactive, 5},
	} {
		promo := domain.NewCatalogPromotion(p.code, p.code, nil, nil, p.enabled, p.priority, false,
			domain.PromotionAction{Type: domain.ActionPercentage, Amount: 10})
		promo.State = p.state
		mustCreatePromotion(t, repo, promo)
	}

	enabled := true
	state := domain.StateActive
	got, err := repo.List(ctx, domain.ListFilter{State: &state, Enabled: &enabled})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"HIGH", "LOW"}
	if len(got) != len(want) {
		t.Fatalf("got %d promotions, want %d", len(got), len(want))
	}
	for i, code := range want {
		if got[i].Code != code {
			t.Errorf("position %d = %q, want %q", i, got[i].Code, code)
		}
	}
}

func TestPromotionList_LimitOffset(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)

	for _, code := range []string{"A", "B", "C"} {
		mustCreatePromotion(t, repo, domain.NewCatalogPromotion(code, code, nil, nil, true, 0, false,
			domain.PromotionAction{Type: domain.ActionPercentage, Amount: 10}))
	}

	got, err := repo.List(context.Background(), domain.ListFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 || got[0].Code != "B" || got[1].Code != "C" {
		codes := make([]string, len(got))
		for i, p := range got {
			codes[i] = p.Code
		}
		t.Errorf("codes = %v, want [B C]", codes)
	}
}

func TestPromotionUpdate_PersistsState(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)
	ctx := context.Background()

	promotion := domain.NewCatalogPromotion("SALE", "Sale", nil, nil, true, 0, false,
		domain.PromotionAction{Type: domain.ActionPercentage, Amount: 10})
	mustCreatePromotion(t, repo, promotion)

	promotion.State = domain.StateActive
	promotion.Enabled = false
	if err := repo.Update(ctx, promotion); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.FindOneByCode(ctx, "SALE")
	if err != nil {
		t.Fatalf("FindOneByCode failed: %v", err)
	}
	if got.State != domain.StateActive {
		t.Errorf("State = %q, want %q", got.State, domain.StateActive)
	}
	if got.Enabled {
		t.Error("Enabled = true, want false")
	}
}

func TestPromotionUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)

	err := repo.Update(context.Background(), domain.CatalogPromotion{Code: "missing"})
	if !errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		t.Errorf("error = %v, want ErrCatalogPromotionNotFound", err)
	}
}

func TestPromotionDelete(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewCatalogPromotionRepository(db)
	ctx := context.Background()

	mustCreatePromotion(t, repo, domain.NewCatalogPromotion("SALE", "Sale", nil, nil, true, 0, false,
		domain.PromotionAction{Type: domain.ActionPercentage, Amount: 10}))

	if err := repo.Delete(ctx, "SALE"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindOneByCode(ctx, "SALE"); !errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		t.Errorf("lookup after delete = %v, want ErrCatalogPromotionNotFound", err)
	}
	if err := repo.Delete(ctx, "SALE"); !errors.Is(err, domain.ErrCatalogPromotionNotFound) {
		t.Errorf("second delete = %v, want ErrCatalogPromotionNotFound", err)
	}
}

func TestVariantCreate_And_FindByCodes(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductVariantRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "MUG")
	original := int64(1000)
	mustCreateVariant(t, repo, domain.ProductVariant{
		Code:        "MUG_BLUE",
		ProductCode: "MUG",
		Name:        "Blue Mug",
		ChannelPricings: []domain.ChannelPricing{
			{ChannelCode: "WEB", Price: 800, OriginalPrice: &original, AppliedPromotions: []string{"SALE", "EXTRA"}},
			{ChannelCode: "POS", Price: 1100},
		},
	})
	mustCreateVariant(t, repo, domain.ProductVariant{Code: "MUG_RED", ProductCode: "MUG", Name: "Red Mug"})

	variants, err := repo.FindByCodes(ctx, []string{"MUG_BLUE", "MUG_RED", "GONE"})
	if err != nil {
		t.Fatalf("FindByCodes failed: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2 (missing codes skipped)", len(variants))
	}

	blue := variants[0]
	if blue.Code != "MUG_BLUE" || blue.ProductCode != "MUG" {
		t.Errorf("variant = %q/%q, want MUG_BLUE/MUG", blue.Code, blue.ProductCode)
	}
	if len(blue.ChannelPricings) != 2 {
		t.Fatalf("got %d pricings, want 2", len(blue.ChannelPricings))
	}

	pos, web := blue.ChannelPricings[0], blue.ChannelPricings[1]
	if pos.ChannelCode != "POS" || pos.Price != 1100 || pos.OriginalPrice != nil {
		t.Errorf("POS pricing = %+v, want undiscounted 1100", pos)
	}
	if web.Price != 800 || web.OriginalPrice == nil || *web.OriginalPrice != 1000 {
		t.Errorf("WEB pricing = %+v, want 800 with original 1000", web)
	}
	if len(web.AppliedPromotions) != 2 || web.AppliedPromotions[0] != "SALE" || web.AppliedPromotions[1] != "EXTRA" {
		t.Errorf("AppliedPromotions = %v, want [SALE EXTRA] in application order", web.AppliedPromotions)
	}
}

func TestVariantFindByCodes_Empty(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductVariantRepository(db)

	variants, err := repo.FindByCodes(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindByCodes failed: %v", err)
	}
	if len(variants) != 0 {
		t.Errorf("got %d variants, want 0", len(variants))
	}
}

func TestVariantSave_RewritesPricings(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductVariantRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "MUG")
	mustCreateVariant(t, repo, domain.ProductVariant{
		Code:        "MUG_BLUE",
		ProductCode: "MUG",
		Name:        "Blue Mug",
		ChannelPricings: []domain.ChannelPricing{
			{ChannelCode: "WEB", Price: 1000},
		},
	})

	variant, err := repo.FindOneByCode(ctx, "MUG_BLUE")
	if err != nil {
		t.Fatalf("FindOneByCode failed: %v", err)
	}

	original := int64(1000)
	variant.ChannelPricings[0].Price = 800
	variant.ChannelPricings[0].OriginalPrice = &original
	variant.ChannelPricings[0].AppliedPromotions = []string{"SALE"}
	if err := repo.Save(ctx, variant); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.FindOneByCode(ctx, "MUG_BLUE")
	if err != nil {
		t.Fatalf("FindOneByCode after save failed: %v", err)
	}
	cp := got.ChannelPricings[0]
	if cp.Price != 800 || cp.OriginalPrice == nil || *cp.OriginalPrice != 1000 {
		t.Errorf("pricing = %+v, want 800 with original 1000", cp)
	}
	if len(cp.AppliedPromotions) != 1 || cp.AppliedPromotions[0] != "SALE" {
		t.Errorf("AppliedPromotions = %v, want [SALE]", cp.AppliedPromotions)
	}
}

func TestVariantSave_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductVariantRepository(db)

	err := repo.Save(context.Background(), domain.ProductVariant{Code: "missing"})
	if !errors.Is(err, domain.ErrProductVariantNotFound) {
		t.Errorf("error = %v, want ErrProductVariantNotFound", err)
	}
}

func TestVariantCodeQueries(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductVariantRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "MUG")
	mustCreateProduct(t, db, "CAP")
	mustCreateVariant(t, repo, domain.ProductVariant{Code: "MUG_BLUE", ProductCode: "MUG", Name: "Blue"})
	mustCreateVariant(t, repo, domain.ProductVariant{Code: "MUG_RED", ProductCode: "MUG", Name: "Red"})
	mustCreateVariant(t, repo, domain.ProductVariant{Code: "CAP_ONE", ProductCode: "CAP", Name: "One"})

	all, err := repo.CodesOfAllVariants(ctx)
	if err != nil {
		t.Fatalf("CodesOfAllVariants failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d codes, want 3", len(all))
	}

	mug, err := repo.CodesByProductCode(ctx, "MUG")
	if err != nil {
		t.Fatalf("CodesByProductCode failed: %v", err)
	}
	if len(mug) != 2 || mug[0] != "MUG_BLUE" || mug[1] != "MUG_RED" {
		t.Errorf("codes = %v, want [MUG_BLUE MUG_RED]", mug)
	}
}

func TestProductRepository(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewProductRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.Product{Code: "MUG", Name: "Mug"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.FindOneByCode(ctx, "MUG")
	if err != nil {
		t.Fatalf("FindOneByCode failed: %v", err)
	}
	if got.Name != "Mug" {
		t.Errorf("Name = %q, want %q", got.Name, "Mug")
	}

	if _, err := repo.FindOneByCode(ctx, "missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("error = %v, want ErrProductNotFound", err)
	}

	err = repo.Create(ctx, domain.Product{Code: "MUG", Name: "Again"})
	var conflict *domain.CodeConflictError
	if !errors.As(err, &conflict) {
		t.Errorf("error type = %T, want *domain.CodeConflictError", err)
	}
}
