package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWinConditionChecker(t *testing.T) {
	checker := NewWinConditionChecker(zerolog.Nop(), 3)

	tests := []struct {
		name     string
		score    [2]int
		over     bool
		expected int
	}{
		{"nobody scored", [2]int{0, 0}, false, NoWinner},
		{"below threshold", [2]int{2, 2}, false, NoWinner},
		{"owner 0 wins", [2]int{3, 1}, true, 0},
		{"owner 1 wins", [2]int{0, 4}, true, 1},
		{"both cross, higher wins", [2]int{3, 4}, true, 1},
		{"both cross, equal is a draw", [2]int{3, 3}, true, NoWinner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over, winner := checker.CheckGameOver(tt.score)
			assert.Equal(t, tt.over, over)
			assert.Equal(t, tt.expected, winner)
		})
	}
}

func TestWinConditionChecker_Disabled(t *testing.T) {
	checker := NewWinConditionChecker(zerolog.Nop(), 0)
	over, winner := checker.CheckGameOver([2]int{10, 0})
	assert.False(t, over)
	assert.Equal(t, NoWinner, winner)
}
