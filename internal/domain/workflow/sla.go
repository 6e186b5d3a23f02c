package workflow

import "fmt"

// SLABudget is the response-time budget for one (level, criticality) cell.
type SLABudget struct {
	CriticalHours    int
	NonCriticalHours int
}

// SLAPolicy maps an approval level and a request's criticality to the hours
// an approver has before the step is overdue. The table is fully general: every
// level carries both a critical and a non-critical budget, even where the
// shipped configuration keeps them equal.
//
// The policy is consulted exactly once, when a step is created; the resulting
// hours are frozen onto the step and later policy changes never touch in-flight
// steps.
type SLAPolicy struct {
	budgets      map[Level]SLABudget
	defaultHours int
}

// NewSLAPolicy builds a policy from per-level budgets. defaultHours applies to
// any level missing from the table and must be positive.
func NewSLAPolicy(budgets map[Level]SLABudget, defaultHours int) (*SLAPolicy, error) {
	if defaultHours <= 0 {
		return nil, fmt.Errorf("sla default hours must be positive, got %d", defaultHours)
	}
	for level, b := range budgets {
		if b.CriticalHours <= 0 || b.NonCriticalHours <= 0 {
			return nil, fmt.Errorf("sla budget for level %s must be positive", level)
		}
	}

	copied := make(map[Level]SLABudget, len(budgets))
	for level, b := range budgets {
		copied[level] = b
	}
	return &SLAPolicy{budgets: copied, defaultHours: defaultHours}, nil
}

// DefaultSLAPolicy returns the standard policy: 24h for critical and 48h for
// non-critical requests at the vetting level, a flat 24h everywhere else.
func DefaultSLAPolicy(ladder *Ladder) *SLAPolicy {
	budgets := make(map[Level]SLABudget)
	for _, level := range ladder.Levels() {
		budgets[level] = SLABudget{CriticalHours: 24, NonCriticalHours: 24}
	}
	budgets[ladder.First()] = SLABudget{CriticalHours: 24, NonCriticalHours: 48}

	policy, err := NewSLAPolicy(budgets, 24)
	if err != nil {
		panic(err)
	}
	return policy
}

// HoursFor returns the response budget in hours for the given level and
// criticality.
func (p *SLAPolicy) HoursFor(level Level, isCritical bool) int {
	budget, ok := p.budgets[level]
	if !ok {
		return p.defaultHours
	}
	if isCritical {
		return budget.CriticalHours
	}
	return budget.NonCriticalHours
}
