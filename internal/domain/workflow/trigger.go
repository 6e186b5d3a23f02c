package workflow

// Trigger represents an event that can cause a phase transition.
type Trigger string

const (
	TriggerSubmit        Trigger = "SUBMIT"
	TriggerApprove       Trigger = "APPROVE"
	TriggerReject        Trigger = "REJECT"
	TriggerSendBack      Trigger = "SEND_BACK"
	TriggerResubmit      Trigger = "RESUBMIT"
	TriggerDisburse      Trigger = "DISBURSE"
	TriggerReleaseReview Trigger = "RELEASE_REVIEW"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
