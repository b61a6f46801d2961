package lifecycle

// NewStepMachine builds the step lifecycle machine.
//
//	pending/ready --AUTHORIZE--> authorized
//	authorized    --EXECUTE-->   done
//	any non-terminal --REJECT--> skipped
//
// A "blocked" state is deliberately absent: dependency blockage is derived at
// execution time from sibling step status, never stored. Re-authorizing a
// done step is handled as an idempotent no-op by the caller, not the machine.
func NewStepMachine(initial State) StateMachine {
	builder := NewBuilder()

	builder.Configure(StatePending).
		Permit(TriggerAuthorize, StateAuthorized).
		Permit(TriggerReject, StateSkipped)

	builder.Configure(StateReady).
		Permit(TriggerAuthorize, StateAuthorized).
		Permit(TriggerReject, StateSkipped)

	builder.Configure(StateAuthorized).
		Permit(TriggerExecute, StateDone).
		Permit(TriggerReject, StateSkipped)

	if !initial.IsValid() {
		initial = StatePending
	}

	return builder.Build(initial)
}
