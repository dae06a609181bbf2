package states

import (
	"errors"
	"time"
)

// LobbyState waits for seats
type LobbyState struct{}

func (s *LobbyState) Phase() MatchPhase { return PhaseLobby }

func (s *LobbyState) Enter(ctx *MatchContext) error {
	ctx.Logger.Info().Msg("Match lobby opened, waiting for players")
	return nil
}

func (s *LobbyState) Exit(ctx *MatchContext) error {
	ctx.Logger.Info().Msg("Closing lobby, match starting")
	return nil
}

func (s *LobbyState) Validate(ctx *MatchContext) error { return nil }

// PlanningState accepts orders for the current turn
type PlanningState struct{}

func (s *PlanningState) Phase() MatchPhase { return PhasePlanning }

func (s *PlanningState) Enter(ctx *MatchContext) error {
	if ctx.StartTime.IsZero() {
		ctx.StartTime = time.Now()
	}
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Planning opened")
	return nil
}

func (s *PlanningState) Exit(ctx *MatchContext) error { return nil }

func (s *PlanningState) Validate(ctx *MatchContext) error {
	if !ctx.IsReady() {
		return errors.New("both players must be seated before planning")
	}
	return nil
}

// ResolvingState is held while the engine resolves a turn
type ResolvingState struct{}

func (s *ResolvingState) Phase() MatchPhase { return PhaseResolving }

func (s *ResolvingState) Enter(ctx *MatchContext) error {
	ctx.Logger.Debug().Int("turn", ctx.Turn).Msg("Resolving turn")
	return nil
}

func (s *ResolvingState) Exit(ctx *MatchContext) error {
	ctx.Turn++
	return nil
}

func (s *ResolvingState) Validate(ctx *MatchContext) error { return nil }

// EndedState records the result
type EndedState struct{}

func (s *EndedState) Phase() MatchPhase { return PhaseEnded }

func (s *EndedState) Enter(ctx *MatchContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Info().
		Int("winner", ctx.Winner).
		Int("turns", ctx.Turn).
		Dur("match_duration", ctx.ElapsedTime()).
		Msg("Match ended")
	return nil
}

func (s *EndedState) Exit(ctx *MatchContext) error { return nil }

func (s *EndedState) Validate(ctx *MatchContext) error { return nil }

// ErrorState parks a match whose resolution failed
type ErrorState struct{}

func (s *ErrorState) Phase() MatchPhase { return PhaseError }

func (s *ErrorState) Enter(ctx *MatchContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Error().Err(ctx.Error).Msg("Match entered error state")
	return nil
}

func (s *ErrorState) Exit(ctx *MatchContext) error { return nil }

func (s *ErrorState) Validate(ctx *MatchContext) error {
	if ctx.Error == nil {
		return errors.New("error state requires an error in context")
	}
	return nil
}
