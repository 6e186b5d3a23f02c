package entity

import "time"

// Step statuses. The decision that closed a step is recorded separately on the
// step and in the action log.
const (
	StepStatusPending   = "PENDING"
	StepStatusCompleted = "COMPLETED"
)

// ApprovalStep records a request's presence at one ladder level. Created
// lazily when the request first reaches the level; completed exactly once by
// the decision that leaves it.
type ApprovalStep struct {
	ID        int64  `json:"id"`
	RequestID int64  `json:"request_id"`
	Level     string `json:"level"`
	Status    string `json:"status"`

	// SLAHours is stamped from the SLA policy when the step is created and
	// never changes afterwards, even if the policy does.
	SLAHours int `json:"sla_hours"`

	Decision     string     `json:"decision,omitempty"`
	ApproverID   string     `json:"approver_id,omitempty"`
	ApproverName string     `json:"approver_name,omitempty"`
	Comments     string     `json:"comments,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Deadline returns the instant the step's SLA budget runs out.
func (s *ApprovalStep) Deadline() time.Time {
	return s.CreatedAt.Add(time.Duration(s.SLAHours) * time.Hour)
}

// IsOverdue reports whether the step is still pending past its deadline.
func (s *ApprovalStep) IsOverdue(now time.Time) bool {
	return s.Status == StepStatusPending && now.After(s.Deadline())
}

// HoursOverdue returns how many hours past the deadline the step is at the
// given instant. Zero when not overdue.
func (s *ApprovalStep) HoursOverdue(now time.Time) float64 {
	if !s.IsOverdue(now) {
		return 0
	}
	return now.Sub(s.Deadline()).Hours()
}
