package return_order

import (
	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
)

// State is the lifecycle state of a settlement draft.
type State string

const (
	StateDraft      State = "draft"
	StateEdited     State = "edited"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateFailed     State = "failed"
)

// committed has no outgoing edge: settlements are append-only.
var transitions = map[State][]State{
	StateDraft:      {StateEdited},
	StateEdited:     {StateEdited, StateCommitting},
	StateCommitting: {StateCommitted, StateFailed},
	StateFailed:     {StateEdited},
}

// CanTransitionTo reports whether the state machine allows s -> to.
func (s State) CanTransitionTo(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further transitions are possible.
func (s State) IsFinal() bool {
	return len(transitions[s]) == 0
}

func (d *Draft) transition(to State) error {
	if !d.State.CanTransitionTo(to) {
		return apperror.NewInvalidState(string(d.State), string(to))
	}
	d.State = to
	return nil
}
