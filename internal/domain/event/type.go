package event

// Type identifies a domain event emitted by the workflow.
type Type string

const (
	// TypeRequestSubmitted fires when a request enters the first ladder level,
	// whether from DRAFT/SUBMITTED or via resubmission release.
	TypeRequestSubmitted Type = "request.submitted"

	// TypeDecisionRecorded fires for every approve/reject/send-back decision.
	TypeDecisionRecorded Type = "request.decision"

	// TypeRequestResubmitted fires when a sent-back request is resubmitted,
	// including over-ceiling resubmissions routed to admin review.
	TypeRequestResubmitted Type = "request.resubmitted"

	// TypeRequestDisbursed fires when payment is finalized.
	TypeRequestDisbursed Type = "request.disbursed"

	// TypeSLABreachDetected fires when the sweeper logs a new breach.
	TypeSLABreachDetected Type = "sla.breach"
)

// String returns the string representation of the event type.
func (t Type) String() string {
	return string(t)
}
