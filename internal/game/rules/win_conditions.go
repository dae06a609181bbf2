package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// NoWinner is returned as the winner when the game continues or ends in a draw
const NoWinner = -1

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger     zerolog.Logger
	scoreToWin int
}

// NewWinConditionChecker creates a checker for a score threshold
func NewWinConditionChecker(logger zerolog.Logger, scoreToWin int) *WinConditionChecker {
	return &WinConditionChecker{
		logger:     logger.With().Str("component", "WinConditionChecker").Logger(),
		scoreToWin: scoreToWin,
	}
}

// CheckGameOver reports whether an owner reached the threshold.
// Returns (isGameOver, winnerID). When both owners cross it on the same turn
// the higher score wins and equal scores are a draw.
func (wc *WinConditionChecker) CheckGameOver(score [core.Players]int) (bool, int) {
	if wc.scoreToWin <= 0 {
		return false, NoWinner
	}

	reached := 0
	for owner := 0; owner < core.Players; owner++ {
		if score[owner] >= wc.scoreToWin {
			reached++
		}
	}
	if reached == 0 {
		wc.logger.Debug().Ints("score", score[:]).Msg("No owner at score threshold")
		return false, NoWinner
	}

	winner := NoWinner
	switch {
	case score[0] > score[1]:
		winner = 0
	case score[1] > score[0]:
		winner = 1
	}

	if winner == NoWinner {
		wc.logger.Info().Ints("score", score[:]).Msg("Both owners reached the threshold with equal score, draw")
	} else {
		wc.logger.Info().Int("winner_player_id", winner).Ints("score", score[:]).Msg("Winner determined")
	}
	return true, winner
}
