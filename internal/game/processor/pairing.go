package processor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
)

// OrderPair is one resolution step: at most one order per owner, indexed by
// owner. A nil entry means that owner has nothing to resolve in this step.
type OrderPair [core.Players]core.Order

// Present returns the non-nil orders of the pair, owner 0 first
func (p OrderPair) Present() []core.Order {
	orders := make([]core.Order, 0, core.Players)
	for _, o := range p {
		if o != nil {
			orders = append(orders, o)
		}
	}
	return orders
}

// Concurrent reports whether both orders resolve together. That is the case
// when both owners have an order and the orders share an intrinsic priority.
func (p OrderPair) Concurrent() bool {
	return p[0] != nil && p[1] != nil && p[0].Priority() == p[1].Priority()
}

// SlotCollisionError reports orders dropped because their pieces share a
// priority slot with an earlier order of the same owner
type SlotCollisionError struct {
	Dropped []core.Order
}

func (e *SlotCollisionError) Error() string {
	parts := make([]string, len(e.Dropped))
	for i, o := range e.Dropped {
		parts[i] = fmt.Sprintf("player %d %s piece %d", o.Owner(), o.Kind(), o.PieceID())
	}
	return fmt.Sprintf("%s: dropped %s", core.ErrPrioritySlotCollision, strings.Join(parts, ", "))
}

func (e *SlotCollisionError) Unwrap() error { return core.ErrPrioritySlotCollision }

// keyedOrder carries the sort keys of an order in piece-priority mode
type keyedOrder struct {
	order         core.Order
	piecePriority int
	hasPiece      bool
}

// compare implements the two-level ordering: piece priority first, the
// order's intrinsic priority when piece priorities tie or either side has no
// piece. Zero means the orders resolve together.
func (k keyedOrder) compare(other keyedOrder) int {
	if k.hasPiece && other.hasPiece && k.piecePriority != other.piecePriority {
		return compareInts(k.piecePriority, other.piecePriority)
	}
	return compareInts(k.order.Priority(), other.order.Priority())
}

func keyOrder(gs *core.GameState, o core.Order) keyedOrder {
	if o.Kind() == core.KindPlace {
		return keyedOrder{order: o}
	}
	piece := gs.FindPiece(o.PieceID())
	if piece == nil {
		return keyedOrder{order: o, piecePriority: core.NoPriority, hasPiece: true}
	}
	return keyedOrder{order: o, piecePriority: piece.Priority, hasPiece: true}
}

// CompareOrders orders two orders by the pairing rules. It returns a
// negative number when a resolves first, positive when b does and zero
// when they resolve together.
func CompareOrders(gs *core.GameState, a, b core.Order) int {
	return keyOrder(gs, a).compare(keyOrder(gs, b))
}

// ArrangeOrders sorts one owner's orders for piece-priority mode. Each order
// takes the slot of its piece's priority within the pool. Orders whose piece
// priority is outside the pool (including NoPriority) follow the slotted
// ones, and place orders come last by intrinsic priority. A second order
// claiming an occupied slot is dropped and reported.
func ArrangeOrders(gs *core.GameState, orders []core.Order) ([]core.Order, []core.Order) {
	ranks := sortedPool(gs.Config.PriorityPool)
	slots := make([]core.Order, len(ranks))

	var overflow []keyedOrder
	var places []core.Order
	var dropped []core.Order

	for _, o := range orders {
		if o == nil {
			continue
		}
		if o.Kind() == core.KindPlace {
			places = append(places, o)
			continue
		}
		key := keyOrder(gs, o)
		rank := sort.SearchInts(ranks, key.piecePriority)
		if rank >= len(ranks) || ranks[rank] != key.piecePriority {
			overflow = append(overflow, key)
			continue
		}
		if slots[rank] != nil {
			dropped = append(dropped, o)
			continue
		}
		slots[rank] = o
	}

	sort.SliceStable(overflow, func(i, j int) bool {
		return overflow[i].piecePriority < overflow[j].piecePriority
	})
	sort.SliceStable(places, func(i, j int) bool {
		return places[i].Priority() < places[j].Priority()
	})

	arranged := make([]core.Order, 0, len(orders))
	for _, o := range slots {
		if o != nil {
			arranged = append(arranged, o)
		}
	}
	for _, k := range overflow {
		arranged = append(arranged, k.order)
	}
	arranged = append(arranged, places...)
	return arranged, dropped
}

// ArrangeOrderPairs interleaves both owners' orders into resolution steps.
// In submission mode the lists are zipped by position. In piece mode each
// list is arranged by priority slot and the two are merged with the
// two-level comparison. A *SlotCollisionError is returned alongside the
// pairs when orders had to be dropped.
func ArrangeOrderPairs(gs *core.GameState, orders0, orders1 []core.Order) ([]OrderPair, error) {
	if gs.Config.PriorityMode == core.PriorityModeSubmission {
		return zipPairs(compact(orders0), compact(orders1)), nil
	}

	arranged0, dropped0 := ArrangeOrders(gs, orders0)
	arranged1, dropped1 := ArrangeOrders(gs, orders1)

	pairs := mergePairs(gs, arranged0, arranged1)

	if dropped := append(dropped0, dropped1...); len(dropped) > 0 {
		return pairs, &SlotCollisionError{Dropped: dropped}
	}
	return pairs, nil
}

func zipPairs(orders0, orders1 []core.Order) []OrderPair {
	n := len(orders0)
	if len(orders1) > n {
		n = len(orders1)
	}
	pairs := make([]OrderPair, n)
	for i := 0; i < n; i++ {
		if i < len(orders0) {
			pairs[i][0] = orders0[i]
		}
		if i < len(orders1) {
			pairs[i][1] = orders1[i]
		}
	}
	return pairs
}

func mergePairs(gs *core.GameState, orders0, orders1 []core.Order) []OrderPair {
	pairs := make([]OrderPair, 0, len(orders0)+len(orders1))
	i, j := 0, 0
	for i < len(orders0) || j < len(orders1) {
		switch {
		case j >= len(orders1):
			pairs = append(pairs, OrderPair{orders0[i], nil})
			i++
		case i >= len(orders0):
			pairs = append(pairs, OrderPair{nil, orders1[j]})
			j++
		default:
			switch cmp := CompareOrders(gs, orders0[i], orders1[j]); {
			case cmp < 0:
				pairs = append(pairs, OrderPair{orders0[i], nil})
				i++
			case cmp > 0:
				pairs = append(pairs, OrderPair{nil, orders1[j]})
				j++
			default:
				pairs = append(pairs, OrderPair{orders0[i], orders1[j]})
				i++
				j++
			}
		}
	}
	return pairs
}

func sortedPool(pool []int) []int {
	seen := make(map[int]bool, len(pool))
	ranks := make([]int, 0, len(pool))
	for _, p := range pool {
		if !seen[p] {
			seen[p] = true
			ranks = append(ranks, p)
		}
	}
	sort.Ints(ranks)
	return ranks
}

func compact(orders []core.Order) []core.Order {
	out := make([]core.Order, 0, len(orders))
	for _, o := range orders {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
