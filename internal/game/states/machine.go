package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

// State is one phase's lifecycle hooks
type State interface {
	Phase() MatchPhase
	Enter(ctx *MatchContext) error
	Exit(ctx *MatchContext) error
	// Validate is checked before the machine enters the state
	Validate(ctx *MatchContext) error
}

// Transition is one entry of the machine's history
type Transition struct {
	From      MatchPhase
	To        MatchPhase
	Timestamp time.Time
	Reason    string
}

// StateMachine moves a match between phases
type StateMachine struct {
	mu             sync.RWMutex
	currentPhase   MatchPhase
	states         map[MatchPhase]State
	context        *MatchContext
	history        []Transition
	maxHistorySize int
	eventBus       events.Publisher
}

// NewStateMachine starts in PhaseLobby. eventBus may be nil.
func NewStateMachine(ctx *MatchContext, eventBus events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase:   PhaseLobby,
		states:         make(map[MatchPhase]State),
		context:        ctx,
		history:        make([]Transition, 0, 16),
		maxHistorySize: 1000,
		eventBus:       eventBus,
	}

	sm.RegisterState(&LobbyState{})
	sm.RegisterState(&PlanningState{})
	sm.RegisterState(&ResolvingState{})
	sm.RegisterState(&EndedState{})
	sm.RegisterState(&ErrorState{})

	return sm
}

// RegisterState installs or replaces the hooks for a phase
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

func (sm *StateMachine) CurrentPhase() MatchPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo moves to targetPhase. An Enter failure rolls the phase back.
func (sm *StateMachine) TransitionTo(targetPhase MatchPhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]
	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase
	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	if sm.eventBus != nil {
		sm.eventBus.Publish(events.NewStateTransitionEvent(
			sm.context.MatchID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	sm.context.Logger.Debug().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// History returns a copy of the recorded transitions
func (sm *StateMachine) History() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

func (sm *StateMachine) Context() *MatchContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

func (sm *StateMachine) CanTransitionTo(targetPhase MatchPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
