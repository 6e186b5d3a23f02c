package entity

import "time"

// Notification kinds dispatched by the workflow.
const (
	NotifySubmitted       = "SUBMITTED"
	NotifyPendingApproval = "PENDING_APPROVAL"
	NotifyDecision        = "DECISION"
	NotifyResubmitted     = "RESUBMITTED"
	NotifyDisbursed       = "DISBURSED"
	NotifySLABreach       = "SLA_BREACH"
)

// Notification delivery statuses.
const (
	NotificationPending = "PENDING"
	NotificationSent    = "SENT"
	NotificationFailed  = "FAILED"
)

// Notification is one persisted in-app alert per recipient per dispatch.
// Delivery is best-effort: a failed notification never rolls back the
// transition that produced it.
type Notification struct {
	ID           int64      `json:"id"`
	DedupeKey    string     `json:"dedupe_key"`
	RecipientID  string     `json:"recipient_id"`
	Kind         string     `json:"kind"`
	RequestRef   string     `json:"request_ref"`
	Subject      string     `json:"subject"`
	Body         string     `json:"body"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
