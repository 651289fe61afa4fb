package domain

import (
	"context"
	"time"
)

// CatalogPromotionRepository defines the persistence contract for promotions.
type CatalogPromotionRepository interface {
	Create(ctx context.Context, promotion CatalogPromotion) error
	FindOneByCode(ctx context.Context, code string) (CatalogPromotion, error)
	List(ctx context.Context, filter ListFilter) ([]CatalogPromotion, error)
	Update(ctx context.Context, promotion CatalogPromotion) error
	Delete(ctx context.Context, code string) error
}

// ListFilter holds optional criteria for listing promotions.
type ListFilter struct {
	State   *State
	Enabled *bool
	Limit   int
	Offset  int
}

// ProductVariantRepository defines the persistence contract for variants and
// their channel pricings.
type ProductVariantRepository interface {
	Create(ctx context.Context, variant ProductVariant) error
	FindOneByCode(ctx context.Context, code string) (ProductVariant, error)
	FindByCodes(ctx context.Context, codes []string) ([]ProductVariant, error)
	CodesOfAllVariants(ctx context.Context) ([]string, error)
	CodesByProductCode(ctx context.Context, productCode string) ([]string, error)
	Save(ctx context.Context, variant ProductVariant) error
}

// ProductRepository defines the persistence contract for products.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	FindOneByCode(ctx context.Context, code string) (Product, error)
}

// EligibleCatalogPromotionsProvider returns the promotions currently
// eligible to be applied, in application order. Safe to call once per
// handler invocation; the result is treated as stable for one batch.
type EligibleCatalogPromotionsProvider interface {
	Provide(ctx context.Context) ([]CatalogPromotion, error)
}

// CatalogPromotionApplicator applies one promotion's discount to one
// variant's prices, mutating price state and attribution. Safe to call on
// an already-cleared variant.
type CatalogPromotionApplicator interface {
	ApplyOnVariant(ctx context.Context, variant *ProductVariant, promotion CatalogPromotion) error
}

// CatalogPromotionEligibilityChecker judges whether a single promotion
// currently qualifies for application.
type CatalogPromotionEligibilityChecker interface {
	IsEligible(promotion CatalogPromotion) bool
}

// DelayStampCalculator computes the delivery delay from now until target.
// A target in the past yields zero, meaning immediate delivery.
type DelayStampCalculator interface {
	Calculate(now, target time.Time) time.Duration
}

// MessageDispatcher is the durable, at-least-once asynchronous transport.
// DispatchAfter defers delivery by at least the given delay; the delay is a
// property of the message, consumed by the transport.
type MessageDispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
	DispatchAfter(ctx context.Context, msg Message, delay time.Duration) error
}

// CommandBus dispatches a command synchronously to its registered handler.
// Dispatching a message with no registered handler returns an
// UnhandledCommandError; callers that require a handled acknowledgment must
// propagate it rather than swallow it.
type CommandBus interface {
	Dispatch(ctx context.Context, msg Message) error
}

// TransitionResolver answers "can event fire from this state" and applies
// the transition, backed by the lifecycle state machine.
type TransitionResolver interface {
	Can(current State, event TransitionEvent) bool
	Apply(ctx context.Context, current State, event TransitionEvent) (State, error)
}
