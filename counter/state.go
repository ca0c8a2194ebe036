// Package counter is a small application sharing one store across a widget
// tree: a counter, a child and grandchild reading the same count, and an
// inspector showing the whole state.
package counter

import (
	"github.com/odvcencio/furry-store/state"
)

// State is the application state. Writes replace it wholesale.
type State struct {
	Count int `json:"count"`
	Step  int `json:"step"`
}

// Scope is where the counter store is provided for the widget tree.
var Scope = state.NewScope[State]("counter")

// NewStore creates the application store.
func NewStore(initial State, opts ...state.Option) *state.Store[State] {
	if initial.Step == 0 {
		initial.Step = 1
	}
	opts = append([]state.Option{state.WithName("counter")}, opts...)
	return state.NewStore(initial, opts...)
}

// Increment adds Step to Count.
func Increment(s State) State {
	s.Count += s.Step
	return s
}

// Decrement subtracts Step from Count.
func Decrement(s State) State {
	s.Count -= s.Step
	return s
}

// Reset zeroes Count and keeps Step.
func Reset(s State) State {
	s.Count = 0
	return s
}

// WithStep returns an updater that sets Step. Non-positive steps are ignored.
func WithStep(step int) func(State) State {
	return func(s State) State {
		if step > 0 {
			s.Step = step
		}
		return s
	}
}

// Parity describes whether Count is even or odd.
func Parity(s State) string {
	if s.Count%2 == 0 {
		return "even"
	}
	return "odd"
}
