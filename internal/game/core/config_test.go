package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushRestriction_Allows(t *testing.T) {
	tests := []struct {
		restriction PushRestriction
		pusher      int
		occupant    int
		expected    bool
	}{
		{PushRestriction{Comparator: ComparatorGT, Multiply: 1}, 1, 1, false},
		{PushRestriction{Comparator: ComparatorGTE, Multiply: 1}, 1, 1, true},
		{PushRestriction{Comparator: ComparatorGT, Multiply: 1, Add: 1}, 1, 2, false},
		{PushRestriction{Comparator: ComparatorGT, Multiply: 1, Add: 2}, 1, 2, true},
		{PushRestriction{Comparator: ComparatorGT, Multiply: 2}, 1, 2, false},
		{PushRestriction{Comparator: ComparatorGT, Multiply: 2}, 2, 3, true},
		{PushRestriction{Comparator: ComparatorGT, Multiply: 2, Add: 1}, 1, 3, false},
		{PushRestriction{Comparator: ComparatorGTE, Multiply: 2, Add: 1}, 1, 3, true},
		{PushRestriction{Comparator: ComparatorGT, Multiply: 2, Add: 1}, 2, 4, true},
	}

	for _, tt := range tests {
		r := tt.restriction
		r.Enabled = true
		name := fmt.Sprintf("%s*%d+%d %d vs %d", r.Comparator, r.Multiply, r.Add, tt.pusher, tt.occupant)
		t.Run(name, func(t *testing.T) {
			got := r.Allows(Piece{Priority: tt.pusher}, Piece{Priority: tt.occupant})
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPushRestriction_Disabled(t *testing.T) {
	r := PushRestriction{Comparator: ComparatorGT, Multiply: 1}
	assert.True(t, r.Allows(Piece{Priority: 1}, Piece{Priority: 6}))
}

func TestMatchConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultMatchConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*MatchConfig)
		err    error
	}{
		{"narrow board", func(c *MatchConfig) { c.Board = Coordinate{X: 0, Y: 4} }, ErrInvalidBoard},
		{"single rank", func(c *MatchConfig) { c.Board = Coordinate{X: 4, Y: 1} }, ErrInvalidBoard},
		{"unknown priority mode", func(c *MatchConfig) { c.PriorityMode = "random" }, ErrInvalidPriorityMode},
		{"unknown bounds mode", func(c *MatchConfig) { c.OutOfBoundsMode = "never" }, ErrInvalidOutOfBoundsMode},
		{"bad comparator", func(c *MatchConfig) {
			c.PushRestriction = PushRestriction{Enabled: true, Comparator: "lt", Multiply: 1}
		}, ErrInvalidPushRestriction},
		{"zero multiplier", func(c *MatchConfig) {
			c.PushRestriction = PushRestriction{Enabled: true, Comparator: ComparatorGT}
		}, ErrInvalidPushRestriction},
		{"duplicate pool value", func(c *MatchConfig) { c.PriorityPool = []int{1, 2, 2, 3, 4} }, ErrPrioritySlotCollision},
		{"reserved pool value", func(c *MatchConfig) { c.PriorityPool = []int{1, 2, 3, NoPriority} }, ErrPrioritySlotCollision},
		{"pool smaller than id pool", func(c *MatchConfig) { c.PriorityPool = []int{1, 2, 3} }, ErrPriorityPoolTooSmall},
		{"empty pool", func(c *MatchConfig) {
			c.PriorityPool = nil
			c.AllowDuplicatePriorities = true
		}, ErrPriorityPoolTooSmall},
		{"too many starting pieces", func(c *MatchConfig) { c.StartingPieces = 5 }, ErrNoIdsAvailable},
		{"starting pieces wider than board", func(c *MatchConfig) {
			c.Board = Coordinate{X: 2, Y: 4}
			c.StartingPieces = 3
		}, ErrNoIdsAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMatchConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}

func TestMatchConfig_ValidateRelaxations(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.AllowDuplicatePriorities = true
	cfg.PriorityPool = []int{1}
	assert.NoError(t, cfg.Validate(), "a short pool is fine when duplicates are allowed")

	cfg = DefaultMatchConfig()
	cfg.PriorityMode = PriorityModeSubmission
	cfg.PriorityPool = nil
	assert.NoError(t, cfg.Validate(), "submission mode ignores the pool")
}

func TestMatchConfig_Ranks(t *testing.T) {
	cfg := DefaultMatchConfig()
	cfg.Board = Coordinate{X: 3, Y: 6}
	assert.Equal(t, 0, cfg.HomeRank(0))
	assert.Equal(t, 5, cfg.HomeRank(1))
	assert.Equal(t, 5, cfg.GoalRank(0))
	assert.Equal(t, 0, cfg.GoalRank(1))
}
