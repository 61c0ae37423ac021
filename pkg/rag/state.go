package rag

import "time"

// State is a step of the pipeline state machine.
//
//	VALIDATING -> SEARCHING -> COMPLETING -> [FILTERING] -> [IMAGING] -> DONE
//
// FAILED is absorbing and reachable from every state before IMAGING.
type State string

const (
	StateValidating State = "VALIDATING"
	StateSearching  State = "SEARCHING"
	StateCompleting State = "COMPLETING"
	StateFiltering  State = "FILTERING"
	StateImaging    State = "IMAGING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

func (s State) String() string {
	return string(s)
}

// Step is one visited state and the time spent in it.
type Step struct {
	State    State
	Duration time.Duration
}

// Trace is the ordered list of states a run visited.
type Trace struct {
	RunID string
	Steps []Step
}

func (t Trace) States() []State {
	out := make([]State, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.State
	}
	return out
}

// Final returns the last visited state.
func (t Trace) Final() State {
	if len(t.Steps) == 0 {
		return ""
	}
	return t.Steps[len(t.Steps)-1].State
}
