package matchserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/zugzwang/internal/game"
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/states"
)

// Server implements the MatchService gRPC server
type Server struct {
	matches *MatchManager
	logger  zerolog.Logger
}

// NewServer creates a server on top of a match manager
func NewServer(matches *MatchManager, logger zerolog.Logger) *Server {
	return &Server{
		matches: matches,
		logger:  logger.With().Str("component", "MatchServer").Logger(),
	}
}

// Matches returns the manager hosting the server's matches
func (s *Server) Matches() *MatchManager { return s.matches }

// CreateMatch creates a new match in the lobby
func (s *Server) CreateMatch(ctx context.Context, req *CreateMatchRequest) (*CreateMatchResponse, error) {
	var rules *core.MatchConfig
	if req.Rules != nil {
		r := rulesFromDTO(*req.Rules)
		rules = &r
	}

	m, err := s.matches.CreateMatch(ctx, rules, req.Layout, req.Seed)
	switch {
	case errors.Is(err, ErrAtCapacity):
		return nil, status.Errorf(codes.ResourceExhausted, "failed to create match: %v", err)
	case err != nil:
		return nil, status.Errorf(codes.InvalidArgument, "failed to create match: %v", err)
	}

	return &CreateMatchResponse{
		MatchID: m.id,
		Rules:   rulesToDTO(m.engine.Config()),
	}, nil
}

// JoinMatch seats a player. Joining again under the same name returns the
// existing seat.
func (s *Server) JoinMatch(ctx context.Context, req *JoinMatchRequest) (*JoinMatchResponse, error) {
	if req.PlayerName == "" {
		return nil, status.Error(codes.InvalidArgument, "player name is required")
	}
	m, ok := s.matches.GetMatch(req.MatchID)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "match %s not found: request from player %s", req.MatchID, req.PlayerName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	playerID, token, err := m.seat(req.PlayerName)
	switch {
	case errors.Is(err, ErrMatchFull):
		return nil, status.Errorf(codes.ResourceExhausted, "match %s is full", req.MatchID)
	case errors.Is(err, states.ErrWrongPhase):
		return nil, status.Errorf(codes.FailedPrecondition, "cannot join match %s: %v", req.MatchID, err)
	case err != nil:
		return nil, status.Errorf(codes.Internal, "failed to seat player in match %s: %v", req.MatchID, err)
	}

	s.logger.Info().
		Str("match_id", req.MatchID).
		Str("player_name", req.PlayerName).
		Int("player_id", playerID).
		Str("phase", m.host.Phase().String()).
		Msg("Player joined match")

	return &JoinMatchResponse{
		PlayerID:    playerID,
		PlayerToken: token,
		State:       m.view(playerID),
	}, nil
}

// SubmitOrder buffers one order for the coming turn. Rule violations are
// reported in the response and cached under the idempotency key like
// successes.
func (s *Server) SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*SubmitOrderResponse, error) {
	m, err := s.authorize(req.MatchID, req.PlayerID, req.PlayerToken)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cached := m.idempotency.Check(req.PlayerID, req.IdempotencyKey); cached != nil {
		s.logger.Debug().
			Str("match_id", req.MatchID).
			Int("player_id", req.PlayerID).
			Str("idempotency_key", req.IdempotencyKey).
			Msg("Returning cached order response")
		return cached, nil
	}

	resp := s.submitLocked(m, req)
	m.idempotency.Store(req.PlayerID, req.IdempotencyKey, resp)
	return resp, nil
}

func (s *Server) submitLocked(m *matchInstance, req *SubmitOrderRequest) *SubmitOrderResponse {
	turn := m.engine.Turn()
	reject := func(code string, err error) *SubmitOrderResponse {
		return &SubmitOrderResponse{
			Success:      false,
			ErrorCode:    code,
			ErrorMessage: err.Error(),
			Turn:         turn,
			Pending:      len(m.engine.Orders(req.PlayerID)),
		}
	}

	if phase := m.host.Phase(); !phase.CanReceiveOrders() {
		return reject(ErrorCodeWrongPhase, fmt.Errorf("match %s is in %s: %w", m.id, phase, states.ErrWrongPhase))
	}
	if m.host.IsPlanningDone(req.PlayerID) {
		return reject(ErrorCodeWrongPhase, fmt.Errorf("planning already ended for player %d: %w", req.PlayerID, states.ErrWrongPhase))
	}

	order, err := orderFromSpec(req.Order, req.PlayerID)
	if err != nil {
		return reject(ErrorCodeInvalidOrder, err)
	}
	if err := m.engine.SubmitOrder(req.PlayerID, order); err != nil {
		return reject(errorCodeFor(err), err)
	}

	m.lastActivity = time.Now()
	return &SubmitOrderResponse{
		Success: true,
		Turn:    turn,
		Pending: len(m.engine.Orders(req.PlayerID)),
	}
}

// WithdrawOrder removes one of the player's buffered orders
func (s *Server) WithdrawOrder(ctx context.Context, req *WithdrawOrderRequest) (*WithdrawOrderResponse, error) {
	m, err := s.authorize(req.MatchID, req.PlayerID, req.PlayerToken)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if phase := m.host.Phase(); !phase.CanReceiveOrders() || m.host.IsPlanningDone(req.PlayerID) {
		return nil, status.Errorf(codes.FailedPrecondition, "cannot withdraw orders in match %s: planning is closed", req.MatchID)
	}

	var order core.Order
	if req.PieceID == nil {
		order, err = m.engine.WithdrawLastOrder(req.PlayerID)
	} else {
		if !ownsOrderFor(m.engine.Orders(req.PlayerID), *req.PieceID) {
			return nil, status.Errorf(codes.NotFound, "player %d has no order for piece %d", req.PlayerID, *req.PieceID)
		}
		order, err = m.engine.WithdrawOrder(*req.PieceID)
	}
	if err != nil {
		return nil, statusFor(err)
	}

	m.lastActivity = time.Now()
	return &WithdrawOrderResponse{
		Order:   core.SpecOf(order),
		Pending: len(m.engine.Orders(req.PlayerID)),
	}, nil
}

func ownsOrderFor(orders []core.Order, pieceID int) bool {
	for _, o := range orders {
		if o.PieceID() == pieceID {
			return true
		}
	}
	return false
}

// EndPlanning marks the player done, or reopens planning. The call that
// completes planning for both players resolves the turn.
func (s *Server) EndPlanning(ctx context.Context, req *EndPlanningRequest) (*EndPlanningResponse, error) {
	m, err := s.authorize(req.MatchID, req.PlayerID, req.PlayerToken)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()

	if req.Reopen {
		if err := m.host.ReopenPlanning(req.PlayerID); err != nil {
			return nil, statusFor(err)
		}
		return &EndPlanningResponse{State: m.view(req.PlayerID)}, nil
	}

	both, err := m.host.MarkPlanningDone(req.PlayerID)
	if err != nil {
		return nil, statusFor(err)
	}
	if !both {
		return &EndPlanningResponse{State: m.view(req.PlayerID)}, nil
	}

	// resolution must not be cut short by the caller going away
	summary, err := m.resolve(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Error().Err(err).
			Str("match_id", req.MatchID).
			Int("turn", m.engine.Turn()).
			Msg("Failed to resolve turn")
		return nil, status.Errorf(codes.Internal, "failed to resolve turn for match %s: %v", req.MatchID, err)
	}

	s.logger.Info().
		Str("match_id", req.MatchID).
		Int("turn", summary.Turn).
		Ints("score", summary.Score[:]).
		Bool("game_over", summary.GameOver).
		Msg("Turn resolved")

	return &EndPlanningResponse{
		Resolved: true,
		Summary:  summaryToDTO(summary),
		State:    m.view(req.PlayerID),
	}, nil
}

// GetState returns the requesting player's view, or the spectator view
// for PlayerID -1
func (s *Server) GetState(ctx context.Context, req *GetStateRequest) (*GetStateResponse, error) {
	if req.PlayerID == game.Spectator {
		m, ok := s.matches.GetMatch(req.MatchID)
		if !ok {
			return nil, status.Errorf(codes.NotFound, "match %s not found", req.MatchID)
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		return &GetStateResponse{State: m.view(game.Spectator)}, nil
	}

	m, err := s.authorize(req.MatchID, req.PlayerID, req.PlayerToken)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return &GetStateResponse{State: m.view(req.PlayerID)}, nil
}

// authorize finds the match and checks the player's credentials
func (s *Server) authorize(matchID string, playerID int, token string) (*matchInstance, error) {
	m, ok := s.matches.GetMatch(matchID)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "match %s not found: requested by player %d", matchID, playerID)
	}
	m.mu.Lock()
	valid := m.authenticate(playerID, token)
	m.mu.Unlock()
	if !valid {
		return nil, status.Errorf(codes.PermissionDenied, "invalid player credentials for match %s: player %d", matchID, playerID)
	}
	return m, nil
}
