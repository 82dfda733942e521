package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_Transitions(t *testing.T) {
	var seen []string
	r := &run{id: "r1", observer: func(id string, from, to State) {
		seen = append(seen, id+":"+from.String()+"->"+to.String())
	}}

	r.to(StateValidating)
	r.to(StateAwaitingInterpretation)
	r.to(StateAggregating)
	r.to(StateDone)

	assert.Equal(t, []string{
		"r1:idle->validating",
		"r1:validating->awaiting_interpretation",
		"r1:awaiting_interpretation->aggregating",
		"r1:aggregating->done",
	}, seen)
}

func TestRun_IllegalTransitionPanics(t *testing.T) {
	assert.Panics(t, func() {
		r := &run{}
		r.to(StateAggregating)
	})
	assert.Panics(t, func() {
		r := &run{state: StateAggregating}
		r.to(StateFailed)
	})
	assert.Equal(t, "state(42)", State(42).String())
}
