package states

import "fmt"

// MatchPhase is where a match sits in its turn cycle
type MatchPhase int

const (
	// PhaseLobby waits for both seats to be taken
	PhaseLobby MatchPhase = iota
	// PhasePlanning accepts and withdraws orders
	PhasePlanning
	// PhaseResolving runs the engine over both order buffers
	PhaseResolving
	// PhaseEnded is final; a winner or a draw was recorded
	PhaseEnded
	// PhaseError is final; resolution failed
	PhaseError
)

var phaseNames = map[MatchPhase]string{
	PhaseLobby:     "Lobby",
	PhasePlanning:  "Planning",
	PhaseResolving: "Resolving",
	PhaseEnded:     "Ended",
	PhaseError:     "Error",
}

func (p MatchPhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(p))
}

// IsTerminal returns true for phases no transition leaves
func (p MatchPhase) IsTerminal() bool {
	return p == PhaseEnded || p == PhaseError
}

// CanReceiveOrders returns true while players may queue or withdraw orders
func (p MatchPhase) CanReceiveOrders() bool {
	return p == PhasePlanning
}

// CanAddPlayers returns true while seats can still be claimed
func (p MatchPhase) CanAddPlayers() bool {
	return p == PhaseLobby
}

// AllowedTransitions returns the phases reachable from p
func (p MatchPhase) AllowedTransitions() []MatchPhase {
	switch p {
	case PhaseLobby:
		return []MatchPhase{PhasePlanning, PhaseError}
	case PhasePlanning:
		return []MatchPhase{PhaseResolving, PhaseEnded, PhaseError}
	case PhaseResolving:
		return []MatchPhase{PhasePlanning, PhaseEnded, PhaseError}
	default:
		return []MatchPhase{}
	}
}

func (p MatchPhase) CanTransitionTo(target MatchPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a phase name back to a phase
func ParsePhase(s string) (MatchPhase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return PhaseLobby, fmt.Errorf("unknown phase %q", s)
}
