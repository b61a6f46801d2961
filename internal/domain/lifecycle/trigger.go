package lifecycle

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerAuthorize Trigger = "AUTHORIZE"
	TriggerExecute   Trigger = "EXECUTE"
	TriggerReject    Trigger = "REJECT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
