package reconcile

import "fmt"

// State is a step of one reconciliation run.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAwaitingInterpretation
	StateAggregating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAwaitingInterpretation:
		return "awaiting_interpretation"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Observer is notified of every state change of a run.
type Observer func(runID string, from, to State)

var transitions = map[State][]State{
	StateIdle:                   {StateValidating},
	StateValidating:             {StateAwaitingInterpretation, StateDone, StateFailed},
	StateAwaitingInterpretation: {StateAggregating, StateFailed},
	StateAggregating:            {StateDone},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// run tracks the state of a single call. It is never shared between calls.
type run struct {
	id       string
	state    State
	observer Observer
}

func (r *run) to(next State) {
	if !canTransition(r.state, next) {
		panic(fmt.Sprintf("reconcile: illegal transition %s -> %s", r.state, next))
	}
	prev := r.state
	r.state = next
	if r.observer != nil {
		r.observer(r.id, prev, next)
	}
}
