package core

import "fmt"

// Index sentinels returned by ToIndex for coordinates that fall off the board.
// They never collide with a real cell index.
const (
	NegativeSentinel = -999
	OverflowSentinel = 999
)

// Coordinate represents a position on the game board, or a displacement
// between two positions. Board shapes are expressed as coordinates too
// (X = width, Y = height).
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// ToIndex converts the coordinate to a cell index using row-major ordering.
// Coordinates below zero map to NegativeSentinel, coordinates at or past the
// shape map to OverflowSentinel.
func (c Coordinate) ToIndex(shape Coordinate) int {
	if c.X < 0 || c.Y < 0 {
		return NegativeSentinel
	}
	if c.X >= shape.X || c.Y >= shape.Y {
		return OverflowSentinel
	}
	return shape.X*c.Y + c.X
}

// FromIndex creates a coordinate from a cell index. Only defined for indexes
// inside the shape.
func FromIndex(idx int, shape Coordinate) Coordinate {
	return Coordinate{
		X: idx % shape.X,
		Y: idx / shape.X,
	}
}

// IsValid checks if the coordinate is within the given shape
func (c Coordinate) IsValid(shape Coordinate) bool {
	return c.X >= 0 && c.X < shape.X && c.Y >= 0 && c.Y < shape.Y
}

// Add returns the coordinate displaced by the given vector
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Delta returns the vector leading from c to the target coordinate
func (c Coordinate) Delta(to Coordinate) Coordinate {
	return Coordinate{
		X: to.X - c.X,
		Y: to.Y - c.Y,
	}
}

// Neg returns the opposite vector
func (c Coordinate) Neg() Coordinate {
	return Coordinate{X: -c.X, Y: -c.Y}
}

// IsZero reports whether both components are zero
func (c Coordinate) IsZero() bool {
	return c.X == 0 && c.Y == 0
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// IsStraight reports whether exactly one axis of the vector is non-zero
func (c Coordinate) IsStraight() bool {
	return (c.X != 0) != (c.Y != 0)
}

// IsDiagonal reports whether both axes of the vector are exactly ±1
func (c Coordinate) IsDiagonal() bool {
	return (c.X == 1 || c.X == -1) && (c.Y == 1 || c.Y == -1)
}

// IsOpposite reports whether two non-zero vectors point in exactly opposite
// directions with the same magnitude.
func (c Coordinate) IsOpposite(other Coordinate) bool {
	if c.IsZero() {
		return false
	}
	return c.Equal(other.Neg())
}

// Mirror flips the y axis for owner 1 so that vectors can be written
// relative to the owner's forward direction. Owner 0 moves toward
// increasing y, owner 1 toward decreasing y.
func (c Coordinate) Mirror(owner int) Coordinate {
	if owner == 1 {
		return Coordinate{X: c.X, Y: -c.Y}
	}
	return c
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
