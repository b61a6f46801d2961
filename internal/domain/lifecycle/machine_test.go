package lifecycle

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateReady, false},
		{StateAuthorized, false},
		{StateDone, true},
		{StateSkipped, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"done", StateDone, true},
		{"unknown state", State("blocked"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_AwaitingAuthorization(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, true},
		{StateReady, true},
		{StateAuthorized, false},
		{StateDone, false},
		{StateSkipped, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.AwaitingAuthorization(); got != tt.expected {
				t.Errorf("State.AwaitingAuthorization() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_Build_IndependentMachines(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).Permit(TriggerAuthorize, StateAuthorized)

	m1 := builder.Build(StatePending)
	m2 := builder.Build(StatePending)

	if err := m1.Fire(context.Background(), TriggerAuthorize); err != nil {
		t.Fatalf("Fire() error = %v", err)
	}

	if m1.State() != StateAuthorized {
		t.Errorf("m1.State() = %v, want %v", m1.State(), StateAuthorized)
	}
	if m2.State() != StatePending {
		t.Errorf("m2.State() = %v, want %v (machines must not share state)", m2.State(), StatePending)
	}
}

func TestStateMachine_Fire_InvalidTransition(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).Permit(TriggerAuthorize, StateAuthorized)

	machine := builder.Build(StatePending)

	err := machine.Fire(context.Background(), TriggerExecute)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
	}
	if machine.State() != StatePending {
		t.Errorf("State() = %v, want unchanged %v", machine.State(), StatePending)
	}
}

func TestStateMachine_Fire_GuardFailed(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateAuthorized).PermitIf(TriggerExecute, StateDone, func(ctx context.Context) bool {
		return false
	})

	machine := builder.Build(StateAuthorized)

	err := machine.Fire(context.Background(), TriggerExecute)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire() error = %v, want ErrGuardFailed", err)
	}
	if machine.State() != StateAuthorized {
		t.Errorf("State() = %v, want unchanged %v", machine.State(), StateAuthorized)
	}
}

func TestStateMachine_CanFire(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).Permit(TriggerAuthorize, StateAuthorized)

	machine := builder.Build(StatePending)

	if !machine.CanFire(TriggerAuthorize) {
		t.Error("CanFire(AUTHORIZE) = false, want true")
	}
	if machine.CanFire(TriggerExecute) {
		t.Error("CanFire(EXECUTE) = true, want false")
	}
}

func TestStateMachine_PermittedTriggers(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePending).
		Permit(TriggerAuthorize, StateAuthorized).
		Permit(TriggerReject, StateSkipped)

	machine := builder.Build(StatePending)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 2 {
		t.Fatalf("PermittedTriggers() returned %d triggers, want 2", len(triggers))
	}

	seen := make(map[Trigger]bool)
	for _, trigger := range triggers {
		seen[trigger] = true
	}
	if !seen[TriggerAuthorize] || !seen[TriggerReject] {
		t.Errorf("PermittedTriggers() = %v, want AUTHORIZE and REJECT", triggers)
	}
}
