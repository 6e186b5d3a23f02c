package entity

import "time"

// SLABreach marks that a (request, level) pair was detected overdue. At most
// one open breach exists per pair; the open breach dedupes repeat sweeps and is
// resolved when the step completes or the request leaves the level.
type SLABreach struct {
	ID           int64      `json:"id"`
	RequestID    int64      `json:"request_id"`
	Level        string     `json:"level"`
	HoursOverdue float64    `json:"hours_overdue"`
	NotifiedAt   time.Time  `json:"notified_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// IsOpen reports whether the breach still suppresses further alerts.
func (b *SLABreach) IsOpen() bool {
	return b.ResolvedAt == nil
}
