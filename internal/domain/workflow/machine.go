package workflow

import "context"

// StateMachine tracks the current phase of a request and validates transitions.
type StateMachine interface {
	// Phase returns the current phase
	Phase() Phase

	// CanFire returns true if the trigger is permitted in the current phase
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new phase if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current phase
	PermittedTriggers() []Trigger
}
