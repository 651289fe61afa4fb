package app_test

import (
	"context"
	"time"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// --- Mocks shared across the package tests ---

type mockPromotionRepo struct {
	promotions map[string]domain.CatalogPromotion
	updates    int
	deletes    []string
}

func newMockPromotionRepo() *mockPromotionRepo {
	return &mockPromotionRepo{promotions: make(map[string]domain.CatalogPromotion)}
}

func (m *mockPromotionRepo) Create(_ context.Context, p domain.CatalogPromotion) error {
	if _, exists := m.promotions[p.Code]; exists {
		return &domain.CodeConflictError{Code: p.Code}
	}
	m.promotions[p.Code] = p
	return nil
}

func (m *mockPromotionRepo) FindOneByCode(_ context.Context, code string) (domain.CatalogPromotion, error) {
	p, ok := m.promotions[code]
	if !ok {
		return domain.CatalogPromotion{}, domain.ErrCatalogPromotionNotFound
	}
	return p, nil
}

func (m *mockPromotionRepo) List(_ context.Context, filter domain.ListFilter) ([]domain.CatalogPromotion, error) {
	out := make([]domain.CatalogPromotion, 0, len(m.promotions))
	for _, p := range m.promotions {
		if filter.State != nil && p.State != *filter.State {
			continue
		}
		if filter.Enabled != nil && p.Enabled != *filter.Enabled {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPromotionRepo) Update(_ context.Context, p domain.CatalogPromotion) error {
	if _, ok := m.promotions[p.Code]; !ok {
		return domain.ErrCatalogPromotionNotFound
	}
	m.promotions[p.Code] = p
	m.updates++
	return nil
}

func (m *mockPromotionRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.promotions[code]; !ok {
		return domain.ErrCatalogPromotionNotFound
	}
	delete(m.promotions, code)
	m.deletes = append(m.deletes, code)
	return nil
}

type mockVariantRepo struct {
	variants map[string]domain.ProductVariant
	order    []string
	saves    int
}

func newMockVariantRepo() *mockVariantRepo {
	return &mockVariantRepo{variants: make(map[string]domain.ProductVariant)}
}

func (m *mockVariantRepo) Create(_ context.Context, v domain.ProductVariant) error {
	if _, exists := m.variants[v.Code]; !exists {
		m.order = append(m.order, v.Code)
	}
	m.variants[v.Code] = v
	return nil
}

func (m *mockVariantRepo) FindOneByCode(_ context.Context, code string) (domain.ProductVariant, error) {
	v, ok := m.variants[code]
	if !ok {
		return domain.ProductVariant{}, domain.ErrProductVariantNotFound
	}
	return v, nil
}

func (m *mockVariantRepo) FindByCodes(_ context.Context, codes []string) ([]domain.ProductVariant, error) {
	out := make([]domain.ProductVariant, 0, len(codes))
	for _, code := range codes {
		if v, ok := m.variants[code]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVariantRepo) CodesOfAllVariants(_ context.Context) ([]string, error) {
	return append([]string(nil), m.order...), nil
}

func (m *mockVariantRepo) CodesByProductCode(_ context.Context, productCode string) ([]string, error) {
	out := make([]string, 0)
	for _, code := range m.order {
		if m.variants[code].ProductCode == productCode {
			out = append(out, code)
		}
	}
	return out, nil
}

func (m *mockVariantRepo) Save(_ context.Context, v domain.ProductVariant) error {
	if _, ok := m.variants[v.Code]; !ok {
		return domain.ErrProductVariantNotFound
	}
	m.variants[v.Code] = v
	m.saves++
	return nil
}

type mockProductRepo struct {
	products map[string]domain.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[string]domain.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, p domain.Product) error {
	m.products[p.Code] = p
	return nil
}

func (m *mockProductRepo) FindOneByCode(_ context.Context, code string) (domain.Product, error) {
	p, ok := m.products[code]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// recordingDispatcher captures every dispatched message with its delay.
type recordingDispatcher struct {
	dispatched []dispatchedMessage
	err        error
}

type dispatchedMessage struct {
	msg     domain.Message
	delay   time.Duration
	delayed bool
}

func (d *recordingDispatcher) Dispatch(_ context.Context, msg domain.Message) error {
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, dispatchedMessage{msg: msg})
	return nil
}

func (d *recordingDispatcher) DispatchAfter(_ context.Context, msg domain.Message, delay time.Duration) error {
	if d.err != nil {
		return d.err
	}
	d.dispatched = append(d.dispatched, dispatchedMessage{msg: msg, delay: delay, delayed: true})
	return nil
}

func (d *recordingDispatcher) names() []string {
	out := make([]string, 0, len(d.dispatched))
	for _, m := range d.dispatched {
		out = append(out, m.msg.MessageName())
	}
	return out
}

// stubProvider serves a fixed eligible set.
type stubProvider struct {
	promotions []domain.CatalogPromotion
	calls      int
}

func (p *stubProvider) Provide(_ context.Context) ([]domain.CatalogPromotion, error) {
	p.calls++
	return p.promotions, nil
}

// stubEligibility reports a fixed eligibility verdict.
type stubEligibility struct {
	eligible bool
}

func (s stubEligibility) IsEligible(domain.CatalogPromotion) bool { return s.eligible }
