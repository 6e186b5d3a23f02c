package entity

import "time"

// Decisions recorded in the action log.
const (
	DecisionSubmitted   = "SUBMITTED"
	DecisionApproved    = "APPROVED"
	DecisionRejected    = "REJECTED"
	DecisionSentBack    = "SENT_BACK"
	DecisionResubmitted = "RESUBMITTED"
	DecisionDisbursed   = "DISBURSED"
)

// ApprovalAction is one immutable audit log entry per decision ever made on a
// request. Append-only: actions are never mutated or deleted, independent of
// the mutable step status. This is the system of record for what happened.
type ApprovalAction struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	Level     string    `json:"level,omitempty"`
	Decision  string    `json:"decision"`
	ActorID   string    `json:"actor_id"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
