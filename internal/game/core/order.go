package core

import "fmt"

// NoPiece is the source piece id carried by orders that act on no existing piece
const NoPiece = -1

// OrderKind identifies the variant of an order
type OrderKind int

const (
	KindMoveStraight OrderKind = iota
	KindMoveDiagonal
	KindPushStraight
	KindPushDiagonal
	KindAttack
	KindPlace
	KindDefend
)

var orderKindNames = map[OrderKind]string{
	KindMoveStraight: "move-straight",
	KindMoveDiagonal: "move-diagonal",
	KindPushStraight: "push-straight",
	KindPushDiagonal: "push-diagonal",
	KindAttack:       "attack",
	KindPlace:        "place",
	KindDefend:       "defend",
}

// String returns the wire name of the kind
func (k OrderKind) String() string {
	if name, ok := orderKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// ParseOrderKind converts a wire name back to a kind
func ParseOrderKind(s string) (OrderKind, error) {
	for k, name := range orderKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown order type %q: %w", s, ErrIllegalOrder)
}

// Priority is the intrinsic rank of the kind. Lower resolves first and kinds
// sharing a rank resolve together.
func (k OrderKind) Priority() int {
	switch k {
	case KindDefend:
		return 0
	case KindAttack:
		return 1
	case KindPushStraight, KindPushDiagonal:
		return 2
	case KindMoveStraight, KindMoveDiagonal:
		return 3
	case KindPlace:
		return 4
	default:
		return 99
	}
}

func (k OrderKind) IsMove() bool { return k == KindMoveStraight || k == KindMoveDiagonal }
func (k OrderKind) IsPush() bool { return k == KindPushStraight || k == KindPushDiagonal }

// Order is a single action a player queues for the planning phase.
// Implementations are immutable values.
type Order interface {
	Kind() OrderKind
	Owner() int
	// PieceID is the acting piece, or NoPiece for place orders
	PieceID() int
	// Vector is the displacement relative to the acting piece. For place
	// orders it is the absolute target measured from the board origin.
	Vector() Coordinate
	Priority() int
}

// MoveOrder moves a piece one step, straight or diagonally
type MoveOrder struct {
	SourcePieceID int
	OwnerID       int
	ToTarget      Coordinate
	Diagonal      bool
}

func (o MoveOrder) Kind() OrderKind {
	if o.Diagonal {
		return KindMoveDiagonal
	}
	return KindMoveStraight
}
func (o MoveOrder) Owner() int         { return o.OwnerID }
func (o MoveOrder) PieceID() int       { return o.SourcePieceID }
func (o MoveOrder) Vector() Coordinate { return o.ToTarget }
func (o MoveOrder) Priority() int      { return o.Kind().Priority() }

// PushOrder displaces the pieces in front of the acting piece, which itself
// stays put
type PushOrder struct {
	SourcePieceID int
	OwnerID       int
	ToTarget      Coordinate
	Diagonal      bool
}

func (o PushOrder) Kind() OrderKind {
	if o.Diagonal {
		return KindPushDiagonal
	}
	return KindPushStraight
}
func (o PushOrder) Owner() int         { return o.OwnerID }
func (o PushOrder) PieceID() int       { return o.SourcePieceID }
func (o PushOrder) Vector() Coordinate { return o.ToTarget }
func (o PushOrder) Priority() int      { return o.Kind().Priority() }

// AttackOrder destroys the piece on the targeted square unless it defends
type AttackOrder struct {
	SourcePieceID int
	OwnerID       int
	ToTarget      Coordinate
}

func (o AttackOrder) Kind() OrderKind    { return KindAttack }
func (o AttackOrder) Owner() int         { return o.OwnerID }
func (o AttackOrder) PieceID() int       { return o.SourcePieceID }
func (o AttackOrder) Vector() Coordinate { return o.ToTarget }
func (o AttackOrder) Priority() int      { return KindAttack.Priority() }

// PlaceOrder creates a new piece on the owner's home rank
type PlaceOrder struct {
	OwnerID int
	Target  Coordinate
}

func (o PlaceOrder) Kind() OrderKind    { return KindPlace }
func (o PlaceOrder) Owner() int         { return o.OwnerID }
func (o PlaceOrder) PieceID() int       { return NoPiece }
func (o PlaceOrder) Vector() Coordinate { return o.Target }
func (o PlaceOrder) Priority() int      { return KindPlace.Priority() }

// DefendOrder makes a piece immune to attacks until the end of the turn
type DefendOrder struct {
	SourcePieceID int
	OwnerID       int
}

func (o DefendOrder) Kind() OrderKind    { return KindDefend }
func (o DefendOrder) Owner() int         { return o.OwnerID }
func (o DefendOrder) PieceID() int       { return o.SourcePieceID }
func (o DefendOrder) Vector() Coordinate { return Coordinate{} }
func (o DefendOrder) Priority() int      { return KindDefend.Priority() }

// NewOrder builds the variant matching kind
func NewOrder(kind OrderKind, owner, pieceID int, target Coordinate) (Order, error) {
	switch kind {
	case KindMoveStraight, KindMoveDiagonal:
		return MoveOrder{SourcePieceID: pieceID, OwnerID: owner, ToTarget: target, Diagonal: kind == KindMoveDiagonal}, nil
	case KindPushStraight, KindPushDiagonal:
		return PushOrder{SourcePieceID: pieceID, OwnerID: owner, ToTarget: target, Diagonal: kind == KindPushDiagonal}, nil
	case KindAttack:
		return AttackOrder{SourcePieceID: pieceID, OwnerID: owner, ToTarget: target}, nil
	case KindPlace:
		return PlaceOrder{OwnerID: owner, Target: target}, nil
	case KindDefend:
		return DefendOrder{SourcePieceID: pieceID, OwnerID: owner}, nil
	default:
		return nil, fmt.Errorf("order kind %d: %w", int(kind), ErrIllegalOrder)
	}
}

// OrderSpec is the flat serialisable form of an order used on the wire and
// in archived history.
type OrderSpec struct {
	Type          string     `json:"type"`
	SourcePieceID int        `json:"sourcePieceId"`
	ToTarget      Coordinate `json:"toTarget"`
	Owner         int        `json:"owner"`
	Priority      int        `json:"priority"`
}

// SpecOf flattens an order
func SpecOf(o Order) OrderSpec {
	return OrderSpec{
		Type:          o.Kind().String(),
		SourcePieceID: o.PieceID(),
		ToTarget:      o.Vector(),
		Owner:         o.Owner(),
		Priority:      o.Priority(),
	}
}

// Order rebuilds the typed order. The priority field is ignored: it is
// always derived from the kind.
func (s OrderSpec) Order() (Order, error) {
	kind, err := ParseOrderKind(s.Type)
	if err != nil {
		return nil, err
	}
	pieceID := s.SourcePieceID
	if kind == KindPlace {
		pieceID = NoPiece
	}
	return NewOrder(kind, s.Owner, pieceID, s.ToTarget)
}
