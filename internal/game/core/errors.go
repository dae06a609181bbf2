package core

import (
	"errors"
	"fmt"
)

var (
	// Validation failures. The order is rejected and no state is touched.
	ErrIllegalOrder   = errors.New("order shape not allowed")
	ErrNotOwner       = errors.New("piece not owned by player")
	ErrUnknownPiece   = errors.New("piece does not exist")
	ErrDuplicateOrder = errors.New("piece already has an order this turn")
	ErrInvalidPlayer  = errors.New("invalid player ID")
	ErrCellOccupied   = errors.New("cell occupied")
	ErrOutOfBounds    = errors.New("coordinates out of bounds")
	ErrNoOrders       = errors.New("no orders to withdraw")

	// Resource exhaustion.
	ErrNoIdsAvailable = errors.New("no piece ids available")

	// Configuration errors.
	ErrPrioritySlotCollision  = errors.New("two orders claim the same priority slot")
	ErrInvalidPushRestriction = errors.New("invalid push restriction")
	ErrPriorityPoolTooSmall   = errors.New("priority pool smaller than piece pool")
	ErrInvalidBoard           = errors.New("invalid board shape")
	ErrInvalidPriorityMode    = errors.New("invalid priority mode")
	ErrInvalidOutOfBoundsMode = errors.New("invalid out of bounds mode")

	ErrGameOver = errors.New("game is over")
)

// WrapOrderError adds the order's owner, kind and piece to an error
func WrapOrderError(order Order, err error) error {
	if err == nil {
		return nil
	}
	if order == nil {
		return fmt.Errorf("player order: %w", err)
	}
	if order.PieceID() == NoPiece {
		return fmt.Errorf("player %d: %s at %s: %w", order.Owner(), order.Kind(), order.Vector(), err)
	}
	return fmt.Errorf("player %d: %s piece %d by %s: %w", order.Owner(), order.Kind(), order.PieceID(), order.Vector(), err)
}

// WrapGameStateError adds the turn and phase an error happened in
func WrapGameStateError(turn int, phase string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("turn %d, %s: %w", turn, phase, err)
}
