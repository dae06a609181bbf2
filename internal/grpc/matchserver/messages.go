package matchserver

import (
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// Error codes carried by SubmitOrderResponse
const (
	ErrorCodeIllegalOrder   = "ILLEGAL_ORDER"
	ErrorCodeNotOwner       = "NOT_OWNER"
	ErrorCodeUnknownPiece   = "UNKNOWN_PIECE"
	ErrorCodeDuplicateOrder = "DUPLICATE_ORDER"
	ErrorCodeWrongPhase     = "WRONG_PHASE"
	ErrorCodeGameOver       = "GAME_OVER"
	ErrorCodeInvalidOrder   = "INVALID_ORDER"
	ErrorCodeUnspecified    = "UNSPECIFIED"
)

type CreateMatchRequest struct {
	// Rules overrides the server's default rules when set
	Rules  *RulesDTO `json:"rules,omitempty"`
	Layout string    `json:"layout,omitempty"`
	// Seed fixes the match's random draws; zero picks one
	Seed int64 `json:"seed,omitempty"`
}

type CreateMatchResponse struct {
	MatchID string   `json:"matchId"`
	Rules   RulesDTO `json:"rules"`
}

type JoinMatchRequest struct {
	MatchID    string `json:"matchId"`
	PlayerName string `json:"playerName"`
}

type JoinMatchResponse struct {
	PlayerID    int       `json:"playerId"`
	PlayerToken string    `json:"playerToken"`
	State       *StateDTO `json:"state"`
}

type SubmitOrderRequest struct {
	MatchID        string         `json:"matchId"`
	PlayerID       int            `json:"playerId"`
	PlayerToken    string         `json:"playerToken"`
	Order          core.OrderSpec `json:"order"`
	IdempotencyKey string         `json:"idempotencyKey,omitempty"`
}

// SubmitOrderResponse reports rule violations in-band; transport and
// credential problems are returned as status errors instead
type SubmitOrderResponse struct {
	Success      bool   `json:"success"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Turn         int    `json:"turn"`
	Pending      int    `json:"pending"`
}

type WithdrawOrderRequest struct {
	MatchID     string `json:"matchId"`
	PlayerID    int    `json:"playerId"`
	PlayerToken string `json:"playerToken"`
	// PieceID selects the order to withdraw; nil withdraws the most recent
	PieceID *int `json:"pieceId,omitempty"`
}

type WithdrawOrderResponse struct {
	Order   core.OrderSpec `json:"order"`
	Pending int            `json:"pending"`
}

type EndPlanningRequest struct {
	MatchID     string `json:"matchId"`
	PlayerID    int    `json:"playerId"`
	PlayerToken string `json:"playerToken"`
	// Reopen clears the player's done flag instead of setting it
	Reopen bool `json:"reopen,omitempty"`
}

type EndPlanningResponse struct {
	// Resolved is set when this call completed planning for both players
	// and the turn was resolved
	Resolved bool        `json:"resolved"`
	Summary  *SummaryDTO `json:"summary,omitempty"`
	State    *StateDTO   `json:"state"`
}

type GetStateRequest struct {
	MatchID string `json:"matchId"`
	// PlayerID is -1 for a spectator, who needs no token
	PlayerID    int    `json:"playerId"`
	PlayerToken string `json:"playerToken,omitempty"`
}

type GetStateResponse struct {
	State *StateDTO `json:"state"`
}
