package matchserver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/states"
)

func TestErrorCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{core.WrapOrderError(nil, core.ErrIllegalOrder), ErrorCodeIllegalOrder},
		{fmt.Errorf("x: %w", core.ErrNotOwner), ErrorCodeNotOwner},
		{core.ErrInvalidPlayer, ErrorCodeNotOwner},
		{core.ErrUnknownPiece, ErrorCodeUnknownPiece},
		{core.ErrDuplicateOrder, ErrorCodeDuplicateOrder},
		{core.WrapGameStateError(3, "submit", core.ErrGameOver), ErrorCodeGameOver},
		{states.ErrWrongPhase, ErrorCodeWrongPhase},
		{errors.New("boom"), ErrorCodeUnspecified},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, errorCodeFor(tt.err))
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, codes.NotFound, status.Code(statusFor(core.ErrNoOrders)))
	assert.Equal(t, codes.FailedPrecondition, status.Code(statusFor(fmt.Errorf("x: %w", states.ErrWrongPhase))))
	assert.Equal(t, codes.PermissionDenied, status.Code(statusFor(core.ErrInvalidPlayer)))
	assert.Equal(t, codes.Internal, status.Code(statusFor(errors.New("boom"))))
}

func TestOrderFromSpec_UsesAuthenticatedOwner(t *testing.T) {
	spec := core.OrderSpec{Type: "attack", SourcePieceID: 5, ToTarget: core.Coordinate{X: 1, Y: -1}, Owner: 0}
	order, err := orderFromSpec(spec, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, order.Owner())
	assert.Equal(t, core.KindAttack, order.Kind())

	place, err := orderFromSpec(core.OrderSpec{Type: "place", SourcePieceID: 3, ToTarget: core.Coordinate{X: 2, Y: 3}}, 1)
	require.NoError(t, err)
	assert.Equal(t, core.NoPiece, place.PieceID())
}

func TestStateToDTO(t *testing.T) {
	gs := core.NewGameState(core.DefaultMatchConfig())
	gs.Orders[0] = []core.Order{core.DefendOrder{SourcePieceID: 0, OwnerID: 0}}
	gs.History = [][]core.Snapshot{{core.TakeSnapshot(gs, core.PhaseStep, gs.Orders[0], nil)}}

	dto := stateToDTO("m-1", states.PhasePlanning, gs, [core.Players]bool{true, false}, false, -1)
	assert.Equal(t, "m-1", dto.MatchID)
	assert.Equal(t, "Planning", dto.Phase)
	assert.Equal(t, core.Coordinate{X: 4, Y: 4}, dto.Board)
	require.Len(t, dto.Orders[0], 1)
	assert.Equal(t, "defend", dto.Orders[0][0].Type)
	require.Len(t, dto.History, 1)
	assert.Equal(t, "defend", dto.History[0][0].Orders[0].Type)
	assert.Equal(t, -1, dto.Winner)
}
