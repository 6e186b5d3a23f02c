package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestStateMachine_PermitAndFire(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(PhaseDraft).
		Permit(TriggerSubmit, PhasePending)
	builder.Configure(PhasePending).
		Permit(TriggerReject, PhaseRejected)

	machine := builder.Build(PhaseDraft)

	if !machine.CanFire(TriggerSubmit) {
		t.Fatal("CanFire(SUBMIT) = false, want true")
	}
	if machine.CanFire(TriggerReject) {
		t.Fatal("CanFire(REJECT) from DRAFT = true, want false")
	}

	if err := machine.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Fatalf("Fire(SUBMIT) unexpected error: %v", err)
	}
	if machine.Phase() != PhasePending {
		t.Errorf("Phase() = %v, want %v", machine.Phase(), PhasePending)
	}

	if err := machine.Fire(context.Background(), TriggerReject); err != nil {
		t.Fatalf("Fire(REJECT) unexpected error: %v", err)
	}
	if machine.Phase() != PhaseRejected {
		t.Errorf("Phase() = %v, want %v", machine.Phase(), PhaseRejected)
	}
}

func TestStateMachine_IllegalTransition(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(PhaseDraft).
		Permit(TriggerSubmit, PhasePending)

	machine := builder.Build(PhaseDraft)

	err := machine.Fire(context.Background(), TriggerDisburse)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Fire(DISBURSE) error = %v, want ErrIllegalTransition", err)
	}
	if machine.Phase() != PhaseDraft {
		t.Errorf("phase changed on failed fire: %v", machine.Phase())
	}

	// Terminal phase with no configuration at all.
	terminal := builder.Build(PhaseRejected)
	err = terminal.Fire(context.Background(), TriggerSubmit)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Fire from terminal phase error = %v, want ErrIllegalTransition", err)
	}
}

func TestStateMachine_GuardedTransitions(t *testing.T) {
	tests := []struct {
		name      string
		firstPass bool
		wantPhase Phase
	}{
		{"first guard passes", true, PhaseApproved},
		{"first guard fails, second passes", false, PhasePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder()
			builder.Configure(PhasePending).
				PermitIf(TriggerApprove, PhaseApproved, func(_ context.Context) bool {
					return tt.firstPass
				}).
				PermitIf(TriggerApprove, PhasePending, func(_ context.Context) bool {
					return !tt.firstPass
				})

			machine := builder.Build(PhasePending)
			if err := machine.Fire(context.Background(), TriggerApprove); err != nil {
				t.Fatalf("Fire(APPROVE) unexpected error: %v", err)
			}
			if machine.Phase() != tt.wantPhase {
				t.Errorf("Phase() = %v, want %v", machine.Phase(), tt.wantPhase)
			}
		})
	}
}

func TestStateMachine_AllGuardsFail(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(PhasePending).
		PermitIf(TriggerApprove, PhaseApproved, func(_ context.Context) bool { return false })

	machine := builder.Build(PhasePending)

	err := machine.Fire(context.Background(), TriggerApprove)
	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire with failing guard error = %v, want ErrGuardFailed", err)
	}
	if machine.Phase() != PhasePending {
		t.Errorf("phase changed on guard failure: %v", machine.Phase())
	}
}

func TestStateMachine_BuildIsolation(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(PhaseDraft).
		Permit(TriggerSubmit, PhasePending)

	first := builder.Build(PhaseDraft)

	// Configuring the builder after Build must not affect the built machine.
	builder.Configure(PhaseDraft).
		Permit(TriggerReject, PhaseRejected)

	if first.CanFire(TriggerReject) {
		t.Error("machine built before extra configuration can fire the new trigger")
	}

	second := builder.Build(PhaseDraft)
	if !second.CanFire(TriggerReject) {
		t.Error("machine built after extra configuration cannot fire the new trigger")
	}
}

func TestStateMachine_PermittedTriggers(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(PhasePending).
		Permit(TriggerApprove, PhaseApproved).
		Permit(TriggerReject, PhaseRejected).
		Permit(TriggerSendBack, PhaseSentBack)

	machine := builder.Build(PhasePending)

	triggers := machine.PermittedTriggers()
	if len(triggers) != 3 {
		t.Fatalf("PermittedTriggers() returned %d triggers, want 3", len(triggers))
	}

	seen := make(map[Trigger]bool)
	for _, tr := range triggers {
		seen[tr] = true
	}
	for _, want := range []Trigger{TriggerApprove, TriggerReject, TriggerSendBack} {
		if !seen[want] {
			t.Errorf("PermittedTriggers() missing %v", want)
		}
	}
}
