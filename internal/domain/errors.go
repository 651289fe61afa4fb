package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrCatalogPromotionNotFound = errors.New("catalog promotion not found")
	ErrProductNotFound          = errors.New("product not found")
	ErrProductVariantNotFound   = errors.New("product variant not found")
)

// CodeConflictError is returned when a code is already in use.
type CodeConflictError struct {
	Code string
}

func (e *CodeConflictError) Error() string {
	return fmt.Sprintf("code %q is already in use", e.Code)
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   TransitionEvent
	Current State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %q is not valid from state %q", e.Event, e.Current)
}

// InvalidStateError is returned when an operation is refused because of the
// promotion's current state, e.g. removing a promotion mid-reconciliation.
// Retrying does not help; the state has to settle first.
type InvalidStateError struct {
	Code  string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("catalog promotion %q cannot be processed in state %q", e.Code, e.State)
}

// UnknownStateError is returned when a stored state string is not one of
// the recognized lifecycle states, which indicates storage corruption.
type UnknownStateError struct {
	Code  string
	State State
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("catalog promotion %q has unrecognized state %q", e.Code, e.State)
}

// UnhandledCommandError is returned when a synchronous dispatch finds no
// registered handler. It signals a wiring defect and must not be swallowed:
// continuing would recompute prices against a stale state.
type UnhandledCommandError struct {
	Name string
}

func (e *UnhandledCommandError) Error() string {
	return fmt.Sprintf("no handler registered for command %q", e.Name)
}
