package workflow

// ResubmissionGuard enforces the ceiling on how many times a sent-back request
// may restart the ladder before an administrator must sign off.
type ResubmissionGuard struct {
	maxResubmissions int
}

// NewResubmissionGuard creates a guard with the given ceiling. A non-positive
// ceiling falls back to the default of 2.
func NewResubmissionGuard(maxResubmissions int) *ResubmissionGuard {
	if maxResubmissions <= 0 {
		maxResubmissions = 2
	}
	return &ResubmissionGuard{maxResubmissions: maxResubmissions}
}

// Max returns the configured ceiling.
func (g *ResubmissionGuard) Max() int {
	return g.maxResubmissions
}

// Exceeded reports whether a resubmission bringing the counter to newCount
// must be routed to mandatory admin review instead of re-entering the ladder.
// The counter is never decremented here; only an explicit administrative
// release lets an over-ceiling request back into the ladder.
func (g *ResubmissionGuard) Exceeded(newCount int) bool {
	return newCount > g.maxResubmissions
}
