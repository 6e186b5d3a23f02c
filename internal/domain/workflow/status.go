package workflow

import (
	"fmt"
	"strings"
)

// Phase represents the top-level lifecycle phase of a payment request.
// A request pending at an approval level is modelled as PhasePending plus a
// Level, so adding a ladder level never adds a new phase.
type Phase string

const (
	PhaseDraft     Phase = "DRAFT"
	PhaseSubmitted Phase = "SUBMITTED"
	PhasePending   Phase = "PENDING"
	PhaseApproved  Phase = "APPROVED"
	PhaseDisbursed Phase = "DISBURSED"
	PhaseRejected  Phase = "REJECTED"
	PhaseSentBack  Phase = "SENT_BACK"
)

var validPhases = map[Phase]bool{
	PhaseDraft:     true,
	PhaseSubmitted: true,
	PhasePending:   true,
	PhaseApproved:  true,
	PhaseDisbursed: true,
	PhaseRejected:  true,
	PhaseSentBack:  true,
}

var terminalPhases = map[Phase]bool{
	PhaseDisbursed: true,
	PhaseRejected:  true,
}

// IsValid returns true if the phase is a known lifecycle phase.
func (p Phase) IsValid() bool {
	return validPhases[p]
}

// IsTerminal returns true if no further transitions are allowed from the phase.
func (p Phase) IsTerminal() bool {
	return terminalPhases[p]
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Level identifies one approval authority in the ladder.
type Level string

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// Status is the full position of a request in its lifecycle: a phase plus,
// while pending, the ladder level holding the request.
type Status struct {
	Phase Phase
	Level Level
}

// Pending returns a pending status at the given level.
func Pending(level Level) Status {
	return Status{Phase: PhasePending, Level: level}
}

// StatusOf returns a status for a non-pending phase.
func StatusOf(phase Phase) Status {
	return Status{Phase: phase}
}

// IsPending returns true if the request currently sits at an approval level.
func (s Status) IsPending() bool {
	return s.Phase == PhasePending
}

// IsPendingAt returns true if the request is pending at exactly the given level.
func (s Status) IsPendingAt(level Level) bool {
	return s.Phase == PhasePending && s.Level == level
}

// IsTerminal returns true if the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s.Phase.IsTerminal()
}

// Encode renders the status as its wire/storage form, e.g. "PENDING_FINANCE_VETTING".
func (s Status) Encode() string {
	if s.Phase == PhasePending {
		return fmt.Sprintf("%s_%s", PhasePending, s.Level)
	}
	return string(s.Phase)
}

// String returns the encoded form.
func (s Status) String() string {
	return s.Encode()
}

// ParseStatus decodes a stored status string back into a Status. Pending
// statuses carry their level suffix; the level itself is validated against the
// ladder by the caller, not here.
func ParseStatus(raw string) (Status, error) {
	if rest, ok := strings.CutPrefix(raw, string(PhasePending)+"_"); ok {
		if rest == "" {
			return Status{}, fmt.Errorf("%w: pending status without level: %q", ErrInvalidStatus, raw)
		}
		return Pending(Level(rest)), nil
	}

	phase := Phase(raw)
	if !phase.IsValid() || phase == PhasePending {
		return Status{}, fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return StatusOf(phase), nil
}
