package service

import (
	"context"

	"github.com/finverge/payflow/internal/domain/workflow"
)

// transitionGuards carries the per-request facts the phase machine cannot see
// on its own: whether the pending level is the ladder's last rung and whether
// the resubmission ceiling has been exceeded.
type transitionGuards struct {
	atTerminalLevel bool
	ceilingExceeded bool
}

// buildPaymentMachine configures the phase machine for payment requests.
// Level routing stays with the ladder; the machine only rules on which phase
// changes are legal.
func buildPaymentMachine(initial workflow.Phase, guards transitionGuards) workflow.StateMachine {
	builder := workflow.NewBuilder()

	builder.Configure(workflow.PhaseDraft).
		Permit(workflow.TriggerSubmit, workflow.PhasePending)

	builder.Configure(workflow.PhaseSubmitted).
		Permit(workflow.TriggerSubmit, workflow.PhasePending)

	builder.Configure(workflow.PhasePending).
		PermitIf(workflow.TriggerApprove, workflow.PhaseApproved, func(_ context.Context) bool {
			return guards.atTerminalLevel
		}).
		PermitIf(workflow.TriggerApprove, workflow.PhasePending, func(_ context.Context) bool {
			return !guards.atTerminalLevel
		}).
		Permit(workflow.TriggerReject, workflow.PhaseRejected).
		Permit(workflow.TriggerSendBack, workflow.PhaseSentBack)

	builder.Configure(workflow.PhaseSentBack).
		// Over the resubmission ceiling the request stays parked in SENT_BACK
		// with the admin-review flag raised; only RELEASE_REVIEW re-enters the
		// ladder after that.
		PermitIf(workflow.TriggerResubmit, workflow.PhaseSentBack, func(_ context.Context) bool {
			return guards.ceilingExceeded
		}).
		PermitIf(workflow.TriggerResubmit, workflow.PhasePending, func(_ context.Context) bool {
			return !guards.ceilingExceeded
		}).
		Permit(workflow.TriggerReleaseReview, workflow.PhasePending)

	builder.Configure(workflow.PhaseApproved).
		Permit(workflow.TriggerDisburse, workflow.PhaseDisbursed)

	// REJECTED and DISBURSED are terminal, no outgoing transitions.

	return builder.Build(initial)
}
