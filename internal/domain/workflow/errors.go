package workflow

import "errors"

var (
	// ErrIllegalTransition is returned when a decision or transition is not
	// allowed from the request's current status.
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrInvalidStatus is returned when a stored status string cannot be decoded.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrValidation is returned when required input is missing or malformed,
	// e.g. a non-approve decision without comments or disbursement proof
	// fields left empty.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when the actor lacks the capability required
	// for the level or action.
	ErrUnauthorized = errors.New("actor not authorized")

	// ErrForbidden is returned when the action is structurally disallowed for
	// the actor, e.g. cross-entity disbursement or deleting a non-draft request.
	ErrForbidden = errors.New("action forbidden")

	// ErrGuardFailed is returned when every guarded transition for a trigger
	// rejects the attempt.
	ErrGuardFailed = errors.New("guard condition failed")

	// ErrUnknownLevel is returned when a level is not part of the configured ladder.
	ErrUnknownLevel = errors.New("unknown approval level")
)
