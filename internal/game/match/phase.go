package match

import (
	"fmt"
	"time"
)

// Phase represents the current phase of a match
type Phase int

const (
	// PhaseSetup - map generation, unit deployment, AI creation
	PhaseSetup Phase = iota

	// PhaseRunning - players take turns
	PhaseRunning

	// PhaseEnded - a win condition fired
	PhaseEnded

	// PhaseError - the match was aborted
	PhaseError
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p Phase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveCommands returns true if players may act in this phase
func (p Phase) CanReceiveCommands() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseSetup:
		return []Phase{PhaseRunning, PhaseError}
	case PhaseRunning:
		return []Phase{PhaseEnded, PhaseError}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// Transition records one phase change
type Transition struct {
	From      Phase
	To        Phase
	Timestamp time.Time
	Reason    string
}
