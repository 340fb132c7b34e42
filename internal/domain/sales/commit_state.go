package sales

import "fmt"

// CommitState is a stage of committing one transaction request
type CommitState string

const (
	StateValidating CommitState = "VALIDATING"
	StateComputing  CommitState = "COMPUTING"
	StateCommitting CommitState = "COMMITTING"
	StateCommitted  CommitState = "COMMITTED"
	StateRejected   CommitState = "REJECTED"
)

// Committing may fall back to Computing when the generated number collides
var commitTransitions = map[CommitState][]CommitState{
	StateValidating: {StateComputing, StateRejected},
	StateComputing:  {StateCommitting, StateRejected},
	StateCommitting: {StateCommitted, StateRejected, StateComputing},
}

// CanTransitionTo reports whether next may follow s
func (s CommitState) CanTransitionTo(next CommitState) bool {
	for _, allowed := range commitTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s CommitState) IsTerminal() bool {
	return s == StateCommitted || s == StateRejected
}

// CommitFlow tracks the state of a single commit attempt
type CommitFlow struct {
	state   CommitState
	history []CommitState
}

// NewCommitFlow starts a flow in Validating
func NewCommitFlow() *CommitFlow {
	return &CommitFlow{
		state:   StateValidating,
		history: []CommitState{StateValidating},
	}
}

// State returns the current state
func (f *CommitFlow) State() CommitState {
	return f.state
}

// History returns every state visited, in order
func (f *CommitFlow) History() []CommitState {
	out := make([]CommitState, len(f.history))
	copy(out, f.history)
	return out
}

// Advance moves to next, refusing illegal transitions
func (f *CommitFlow) Advance(next CommitState) error {
	if !f.state.CanTransitionTo(next) {
		return fmt.Errorf("illegal commit transition %s -> %s", f.state, next)
	}
	f.state = next
	f.history = append(f.history, next)
	return nil
}

// Reject moves to Rejected from any non-terminal state
func (f *CommitFlow) Reject() {
	if f.state.IsTerminal() {
		return
	}
	f.state = StateRejected
	f.history = append(f.history, StateRejected)
}
