package domain

import "time"

// State represents the lifecycle state of a catalog promotion.
type State string

const (
	StateInactive   State = "inactive"
	StateProcessing State = "processing"
	StateActive     State = "active"
)

// KnownState reports whether s is one of the recognized lifecycle states.
// Anything else indicates corrupted state storage and is rejected by the
// removal processor.
func KnownState(s State) bool {
	switch s {
	case StateInactive, StateProcessing, StateActive:
		return true
	}
	return false
}

// TransitionEvent represents an action that moves a promotion between states.
type TransitionEvent string

const (
	EventProcess    TransitionEvent = "process"
	EventActivate   TransitionEvent = "activate"
	EventDeactivate TransitionEvent = "deactivate"
)

// Transition defines a valid state change: an event moves a promotion from Src to Dst.
type Transition struct {
	Event TransitionEvent
	Src   State
	Dst   State
}

// Transitions defines all valid state changes in the promotion lifecycle.
// The graph is constructed so that for any (eligibility, state) pair at most
// one of process/activate/deactivate is legal. This is domain knowledge
// consumed by the FSM adapter.
var Transitions = []Transition{
	{Event: EventProcess, Src: StateInactive, Dst: StateProcessing},
	{Event: EventActivate, Src: StateProcessing, Dst: StateActive},
	{Event: EventDeactivate, Src: StateActive, Dst: StateInactive},
	{Event: EventDeactivate, Src: StateProcessing, Dst: StateInactive},
}

// ActionType identifies how a promotion discounts a price.
type ActionType string

const (
	ActionPercentage  ActionType = "percentage"
	ActionFixedAmount ActionType = "fixed"
)

// PromotionAction describes the discount a promotion applies.
// For ActionPercentage, Amount is a percentage in the range 0-100.
// For ActionFixedAmount, Amount is an absolute reduction in minor units.
type PromotionAction struct {
	Type   ActionType
	Amount int64
}

// CatalogPromotion is a time-bounded promotional campaign identified by a
// unique code. State is driven by the state processor from (enabled,
// eligibility, now) and must never be set arbitrarily by client code.
type CatalogPromotion struct {
	Code      string
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Enabled   bool
	State     State
	Priority  int
	Exclusive bool
	Action    PromotionAction
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCatalogPromotion creates a promotion in the initial "inactive" state.
func NewCatalogPromotion(code, name string, start, end *time.Time, enabled bool, priority int, exclusive bool, action PromotionAction) CatalogPromotion {
	now := time.Now().UTC()
	return CatalogPromotion{
		Code:      code,
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Enabled:   enabled,
		State:     StateInactive,
		Priority:  priority,
		Exclusive: exclusive,
		Action:    action,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
