package service

import (
	"context"
	"testing"

	"github.com/finverge/payflow/internal/domain/workflow"
)

func TestBuildPaymentMachine_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		initial   workflow.Phase
		guards    transitionGuards
		trigger   workflow.Trigger
		wantPhase workflow.Phase
		wantErr   bool
	}{
		{"draft submit", workflow.PhaseDraft, transitionGuards{}, workflow.TriggerSubmit, workflow.PhasePending, false},
		{"submitted submit", workflow.PhaseSubmitted, transitionGuards{}, workflow.TriggerSubmit, workflow.PhasePending, false},
		{"approve mid ladder", workflow.PhasePending, transitionGuards{}, workflow.TriggerApprove, workflow.PhasePending, false},
		{"approve at terminal level", workflow.PhasePending, transitionGuards{atTerminalLevel: true}, workflow.TriggerApprove, workflow.PhaseApproved, false},
		{"reject", workflow.PhasePending, transitionGuards{}, workflow.TriggerReject, workflow.PhaseRejected, false},
		{"send back", workflow.PhasePending, transitionGuards{}, workflow.TriggerSendBack, workflow.PhaseSentBack, false},
		{"resubmit within ceiling", workflow.PhaseSentBack, transitionGuards{}, workflow.TriggerResubmit, workflow.PhasePending, false},
		{"resubmit over ceiling stays parked", workflow.PhaseSentBack, transitionGuards{ceilingExceeded: true}, workflow.TriggerResubmit, workflow.PhaseSentBack, false},
		{"release review", workflow.PhaseSentBack, transitionGuards{}, workflow.TriggerReleaseReview, workflow.PhasePending, false},
		{"disburse approved", workflow.PhaseApproved, transitionGuards{}, workflow.TriggerDisburse, workflow.PhaseDisbursed, false},
		{"draft cannot disburse", workflow.PhaseDraft, transitionGuards{}, workflow.TriggerDisburse, workflow.PhaseDraft, true},
		{"pending cannot disburse", workflow.PhasePending, transitionGuards{}, workflow.TriggerDisburse, workflow.PhasePending, true},
		{"approved cannot be rejected", workflow.PhaseApproved, transitionGuards{}, workflow.TriggerReject, workflow.PhaseApproved, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := buildPaymentMachine(tt.initial, tt.guards)

			err := machine.Fire(context.Background(), tt.trigger)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fire(%s) error = %v, wantErr %v", tt.trigger, err, tt.wantErr)
			}
			if machine.Phase() != tt.wantPhase {
				t.Errorf("Phase() = %v, want %v", machine.Phase(), tt.wantPhase)
			}
		})
	}
}

func TestBuildPaymentMachine_TerminalPhases(t *testing.T) {
	triggers := []workflow.Trigger{
		workflow.TriggerSubmit,
		workflow.TriggerApprove,
		workflow.TriggerReject,
		workflow.TriggerSendBack,
		workflow.TriggerResubmit,
		workflow.TriggerReleaseReview,
		workflow.TriggerDisburse,
	}

	for _, phase := range []workflow.Phase{workflow.PhaseRejected, workflow.PhaseDisbursed} {
		machine := buildPaymentMachine(phase, transitionGuards{})
		for _, trigger := range triggers {
			if machine.CanFire(trigger) {
				t.Errorf("CanFire(%s) from %s = true, want false", trigger, phase)
			}
		}
	}
}
