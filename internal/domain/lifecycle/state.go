package lifecycle

// State represents a step state in the execution lifecycle
type State string

const (
	StatePending    State = "pending"
	StateReady      State = "ready"
	StateAuthorized State = "authorized"
	StateDone       State = "done"
	StateSkipped    State = "skipped"
)

var validStates = map[State]bool{
	StatePending:    true,
	StateReady:      true,
	StateAuthorized: true,
	StateDone:       true,
	StateSkipped:    true,
}

var terminalStates = map[State]bool{
	StateDone:    true,
	StateSkipped: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// AwaitingAuthorization returns true for the initial states a planner may
// assign; both are treated identically by the authorization flow.
func (s State) AwaitingAuthorization() bool {
	return s == StatePending || s == StateReady
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid step state
func (s State) IsValid() bool {
	return validStates[s]
}
