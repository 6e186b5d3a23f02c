package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition should be allowed.
type GuardFunc func(ctx context.Context) bool

// StateMachineBuilder builds a configured state machine.
type StateMachineBuilder interface {
	// Configure returns a phase configuration for the given phase
	Configure(phase Phase) PhaseConfiguration

	// Build creates a new state machine instance with the given initial phase
	Build(initial Phase) StateMachine
}

// PhaseConfiguration configures transitions out of a specific phase.
type PhaseConfiguration interface {
	// Permit allows a trigger to transition to the target phase
	Permit(trigger Trigger, to Phase) PhaseConfiguration

	// PermitIf allows a trigger to transition to the target phase if the guard passes
	PermitIf(trigger Trigger, to Phase, guard GuardFunc) PhaseConfiguration
}

// transition represents a phase transition with optional guard
type transition struct {
	to    Phase
	guard GuardFunc
}

type phaseConfig struct {
	from        Phase
	transitions map[Trigger][]transition
}

type stateMachineBuilder struct {
	configurations map[Phase]*phaseConfig
}

type stateMachine struct {
	current        Phase
	configurations map[Phase]*phaseConfig
}

// NewBuilder creates a new state machine builder.
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[Phase]*phaseConfig),
	}
}

// Configure returns a phase configuration for the given phase.
func (b *stateMachineBuilder) Configure(phase Phase) PhaseConfiguration {
	if !phase.IsValid() {
		panic(fmt.Sprintf("invalid phase: %s", phase))
	}

	config, exists := b.configurations[phase]
	if !exists {
		config = &phaseConfig{
			from:        phase,
			transitions: make(map[Trigger][]transition),
		}
		b.configurations[phase] = config
	}

	return config
}

// Build creates a new state machine instance with the given initial phase.
func (b *stateMachineBuilder) Build(initial Phase) StateMachine {
	if !initial.IsValid() {
		panic(fmt.Sprintf("invalid initial phase: %s", initial))
	}

	// Deep copy configurations so later builder use cannot mutate the machine
	configsCopy := make(map[Phase]*phaseConfig, len(b.configurations))
	for phase, config := range b.configurations {
		transitionsCopy := make(map[Trigger][]transition, len(config.transitions))
		for trigger, transitions := range config.transitions {
			transitionsCopy[trigger] = append([]transition{}, transitions...)
		}
		configsCopy[phase] = &phaseConfig{
			from:        phase,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		current:        initial,
		configurations: configsCopy,
	}
}

// Permit allows a trigger to transition to the target phase.
func (c *phaseConfig) Permit(trigger Trigger, to Phase) PhaseConfiguration {
	return c.PermitIf(trigger, to, nil)
}

// PermitIf allows a trigger to transition to the target phase if the guard passes.
func (c *phaseConfig) PermitIf(trigger Trigger, to Phase, guard GuardFunc) PhaseConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target phase: %s", to))
	}

	c.transitions[trigger] = append(c.transitions[trigger], transition{
		to:    to,
		guard: guard,
	})

	return c
}

// Phase returns the current phase.
func (m *stateMachine) Phase() Phase {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current phase.
// Guards need a context to evaluate, so any configured transition counts here.
func (m *stateMachine) CanFire(trigger Trigger) bool {
	config, exists := m.configurations[m.current]
	if !exists {
		return false
	}

	transitions, exists := config.transitions[trigger]
	return exists && len(transitions) > 0
}

// Fire attempts to execute the trigger, transitioning to the new phase if allowed.
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	config, exists := m.configurations[m.current]
	if !exists {
		return fmt.Errorf("%w: cannot fire trigger %s from phase %s (no configuration)", ErrIllegalTransition, trigger, m.current)
	}

	transitions, exists := config.transitions[trigger]
	if !exists || len(transitions) == 0 {
		return fmt.Errorf("%w: cannot fire trigger %s from phase %s", ErrIllegalTransition, trigger, m.current)
	}

	// Try each transition in order until one succeeds
	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx) {
			m.current = t.to
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from phase %s", ErrGuardFailed, trigger, m.current)
}

// PermittedTriggers returns all triggers that can be fired in the current phase.
func (m *stateMachine) PermittedTriggers() []Trigger {
	config, exists := m.configurations[m.current]
	if !exists {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(config.transitions))
	for trigger := range config.transitions {
		triggers = append(triggers, trigger)
	}

	return triggers
}
