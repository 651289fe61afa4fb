package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/promotiq/internal/domain"
)

// Compile-time check: Resolver implements domain.TransitionResolver.
var _ domain.TransitionResolver = (*Resolver)(nil)

// events converts domain.Transitions into looplab/fsm EventDesc format.
// It consolidates transitions with the same event+destination into a single
// EventDesc with multiple source states (e.g., EventDeactivate from "active"
// and "processing" both go to "inactive").
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range domain.Transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Resolver implements domain.TransitionResolver using looplab/fsm.
// It creates a short-lived FSM instance per call, initialized with the
// promotion's current state. This is necessary because looplab/fsm is
// stateful (it tracks the current state internally).
type Resolver struct{}

// New creates a new FSM-backed transition resolver.
func New() *Resolver {
	return &Resolver{}
}

// Can reports whether the given event may fire from the current state.
// The state processor always asks Can before Apply so an illegal
// transition is a no-op decision, not a failure.
func (r *Resolver) Can(current domain.State, event domain.TransitionEvent) bool {
	machine := loopfsm.NewFSM(string(current), events, nil)
	return machine.Can(string(event))
}

// Apply fires the given event from the current state and returns the
// destination state. Returns a domain.TransitionError if the transition is
// not allowed.
func (r *Resolver) Apply(ctx context.Context, current domain.State, event domain.TransitionEvent) (domain.State, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Event:   event,
				Current: current,
			}
		}
		return "", err
	}

	return domain.State(machine.Current()), nil
}
