package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapOrderError(t *testing.T) {
	tests := []struct {
		name     string
		order    Order
		err      error
		expected string
		isNil    bool
	}{
		{
			name:  "nil error returns nil",
			order: MoveOrder{SourcePieceID: 1, OwnerID: 0, ToTarget: Coordinate{0, 1}},
			err:   nil,
			isNil: true,
		},
		{
			name:     "move order names the piece",
			order:    MoveOrder{SourcePieceID: 5, OwnerID: 1, ToTarget: Coordinate{0, -1}},
			err:      ErrNotOwner,
			expected: "player 1: move-straight piece 5 by (0,-1): piece not owned by player",
		},
		{
			name:     "place order names the square",
			order:    PlaceOrder{OwnerID: 0, Target: Coordinate{2, 0}},
			err:      ErrCellOccupied,
			expected: "player 0: place at (2,0): cell occupied",
		},
		{
			name:     "generic fallback",
			order:    nil,
			err:      ErrGameOver,
			expected: "player order: game is over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapOrderError(tt.order, tt.err)
			if tt.isNil {
				assert.Nil(t, wrapped)
				return
			}
			require.NotNil(t, wrapped)
			assert.Equal(t, tt.expected, wrapped.Error())
			assert.True(t, errors.Is(wrapped, tt.err))
		})
	}
}

func TestWrapGameStateError(t *testing.T) {
	assert.Nil(t, WrapGameStateError(3, "resolution", nil))

	wrapped := WrapGameStateError(7, "pairing", ErrPrioritySlotCollision)
	require.NotNil(t, wrapped)
	assert.Equal(t, "turn 7, pairing: two orders claim the same priority slot", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrPrioritySlotCollision)
}
