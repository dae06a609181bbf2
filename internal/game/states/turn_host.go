package states

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
)

var (
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrSeatTaken          = errors.New("seat already taken")
	ErrPlanningIncomplete = errors.New("both players have not finished planning")
)

// TurnHost drives the planning/resolving cycle of one match. Each owner
// marks planning done; once both have, the turn may be resolved.
type TurnHost struct {
	mu      sync.Mutex
	machine *StateMachine
	done    [core.Players]bool
}

// NewTurnHost creates a host in the lobby
func NewTurnHost(matchID string, logger zerolog.Logger, bus events.Publisher) *TurnHost {
	ctx := NewMatchContext(matchID, logger.With().Str("component", "TurnHost").Logger())
	return &TurnHost{machine: NewStateMachine(ctx, bus)}
}

func (h *TurnHost) Machine() *StateMachine { return h.machine }

func (h *TurnHost) Phase() MatchPhase { return h.machine.CurrentPhase() }

// Seat claims an owner's seat. Taking the second seat opens planning.
func (h *TurnHost) Seat(owner int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !core.ValidOwner(owner) {
		return fmt.Errorf("seat %d: %w", owner, core.ErrInvalidPlayer)
	}
	if phase := h.machine.CurrentPhase(); !phase.CanAddPlayers() {
		return fmt.Errorf("seat %d in %s: %w", owner, phase, ErrWrongPhase)
	}
	ctx := h.machine.Context()
	if ctx.Seated[owner] {
		return fmt.Errorf("seat %d: %w", owner, ErrSeatTaken)
	}
	ctx.Seated[owner] = true
	if ctx.IsReady() {
		return h.machine.TransitionTo(PhasePlanning, "both players seated")
	}
	return nil
}

// MarkPlanningDone records that owner has submitted everything for this
// turn and reports whether both owners are now done
func (h *TurnHost) MarkPlanningDone(owner int) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkPlanning(owner); err != nil {
		return false, err
	}
	h.done[owner] = true
	return h.bothDone(), nil
}

// ReopenPlanning lets an owner change their orders again
func (h *TurnHost) ReopenPlanning(owner int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.checkPlanning(owner); err != nil {
		return err
	}
	h.done[owner] = false
	return nil
}

// IsPlanningDone reports one owner's flag
func (h *TurnHost) IsPlanningDone(owner int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return core.ValidOwner(owner) && h.done[owner]
}

// BothPlanningComplete reports whether every owner has marked planning done
func (h *TurnHost) BothPlanningComplete() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.bothDone()
}

// ResetPlanning clears every owner's flag
func (h *TurnHost) ResetPlanning() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.done = [core.Players]bool{}
}

// BeginResolution moves to PhaseResolving once both owners are done
func (h *TurnHost) BeginResolution() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.bothDone() {
		return ErrPlanningIncomplete
	}
	return h.machine.TransitionTo(PhaseResolving, "both players finished planning")
}

// FinishResolution opens the next planning phase, or ends the match when
// over is set. winner is NoWinner for a draw.
func (h *TurnHost) FinishResolution(over bool, winner int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.done = [core.Players]bool{}
	if over {
		h.machine.Context().Winner = winner
		return h.machine.TransitionTo(PhaseEnded, "score to win reached")
	}
	return h.machine.TransitionTo(PhasePlanning, "turn resolved")
}

// Fail parks the match in PhaseError
func (h *TurnHost) Fail(cause error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cause == nil {
		cause = errors.New("unspecified failure")
	}
	h.machine.Context().Error = cause
	return h.machine.TransitionTo(PhaseError, cause.Error())
}

func (h *TurnHost) checkPlanning(owner int) error {
	if !core.ValidOwner(owner) {
		return fmt.Errorf("player %d: %w", owner, core.ErrInvalidPlayer)
	}
	if phase := h.machine.CurrentPhase(); !phase.CanReceiveOrders() {
		return fmt.Errorf("planning in %s: %w", phase, ErrWrongPhase)
	}
	return nil
}

func (h *TurnHost) bothDone() bool {
	for _, d := range h.done {
		if !d {
			return false
		}
	}
	return true
}
