package questionnaire

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/m3rciful/applybot/core/telegram/state"
)

// Events of the transition graph.
const (
	EventBegin  = "begin"
	EventAnswer = "answer"
	EventReject = "reject"
	EventCancel = "cancel"
)

// Transition is one edge of the questionnaire graph.
type Transition struct {
	From  state.State
	Event string
	To    state.State
}

// buildTransitions derives the graph from the question table.
func buildTransitions(qs []Question) []Transition {
	ts := []Transition{{StepStart, EventBegin, qs[0].Step}}
	for i, q := range qs {
		next := StepEnd
		if i+1 < len(qs) {
			next = qs[i+1].Step
		}
		ts = append(ts, Transition{q.Step, EventAnswer, next})
		if q.Kind == KindRegion {
			ts = append(ts, Transition{q.Step, EventReject, StepEnd})
		}
		ts = append(ts, Transition{q.Step, EventCancel, StepCancelled})
	}
	return ts
}

func toEvents(ts []Transition) fsm.Events {
	events := make(fsm.Events, 0, len(ts))
	for _, t := range ts {
		events = append(events, fsm.EventDesc{Name: t.Event, Src: []string{string(t.From)}, Dst: string(t.To)})
	}
	return events
}

// graph wraps the looplab event table; a fresh FSM positioned at the
// session's step resolves each transition.
type graph struct {
	transitions []Transition
	events      fsm.Events
}

func newGraph(qs []Question) graph {
	ts := buildTransitions(qs)
	return graph{transitions: ts, events: toEvents(ts)}
}

func (g graph) fire(ctx context.Context, from state.State, event string) (state.State, error) {
	f := fsm.NewFSM(string(from), g.events, nil)
	if err := f.Event(ctx, event); err != nil {
		return from, fmt.Errorf("questionnaire: %s from %s: %w", event, from, err)
	}
	return state.State(f.Current()), nil
}

func (g graph) visualize() string {
	return fsm.Visualize(fsm.NewFSM(string(StepStart), g.events, nil))
}
