package workflow

import "fmt"

// Default ladder levels. The ladder itself is configuration; these constants
// only name the levels the default configuration ships with.
const (
	LevelFinanceVetting    Level = "FINANCE_VETTING"
	LevelFinancePlanner    Level = "FINANCE_PLANNER"
	LevelFinanceController Level = "FINANCE_CONTROLLER"
	LevelDirector          Level = "DIRECTOR"
	LevelMD                Level = "MD"
)

// Ladder is the fixed, ordered sequence of approval levels a request must
// traverse. Immutable once built.
type Ladder struct {
	levels []Level
	index  map[Level]int
}

// NewLadder builds a ladder from an ordered level list.
func NewLadder(levels []Level) (*Ladder, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("ladder requires at least one level")
	}

	index := make(map[Level]int, len(levels))
	for i, level := range levels {
		if level == "" {
			return nil, fmt.Errorf("ladder level %d is empty", i)
		}
		if _, dup := index[level]; dup {
			return nil, fmt.Errorf("duplicate ladder level: %s", level)
		}
		index[level] = i
	}

	return &Ladder{levels: append([]Level(nil), levels...), index: index}, nil
}

// DefaultLadder returns the standard five-level ladder.
func DefaultLadder() *Ladder {
	ladder, err := NewLadder([]Level{
		LevelFinanceVetting,
		LevelFinancePlanner,
		LevelFinanceController,
		LevelDirector,
		LevelMD,
	})
	if err != nil {
		panic(err)
	}
	return ladder
}

// First returns the entry level of the ladder.
func (l *Ladder) First() Level {
	return l.levels[0]
}

// Next returns the level following the given one, or "" if the level is
// terminal. Unknown levels return ErrUnknownLevel.
func (l *Ladder) Next(level Level) (Level, error) {
	i, ok := l.index[level]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLevel, level)
	}
	if i == len(l.levels)-1 {
		return "", nil
	}
	return l.levels[i+1], nil
}

// IsTerminal returns true if the level is the last rung of the ladder.
func (l *Ladder) IsTerminal(level Level) bool {
	i, ok := l.index[level]
	return ok && i == len(l.levels)-1
}

// Contains returns true if the level is part of the ladder.
func (l *Ladder) Contains(level Level) bool {
	_, ok := l.index[level]
	return ok
}

// Position returns the zero-based rank of the level in the ladder, or -1 if
// the level is unknown.
func (l *Ladder) Position(level Level) int {
	i, ok := l.index[level]
	if !ok {
		return -1
	}
	return i
}

// Levels returns a copy of the ordered level list.
func (l *Ladder) Levels() []Level {
	return append([]Level(nil), l.levels...)
}
