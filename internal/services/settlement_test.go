package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

func TestGradeResult(t *testing.T) {
	tests := []struct {
		actual float64
		line   float64
		side   nfl.Side
		want   string
	}{
		{75, 60.5, nfl.SideOver, ResultWin},
		{40, 60.5, nfl.SideOver, ResultLoss},
		{40, 60.5, nfl.SideUnder, ResultWin},
		{75, 60.5, nfl.SideUnder, ResultLoss},
		// Whole-number lines push on the exact number, regardless of side
		{5, 5, nfl.SideOver, ResultPush},
		{5, 5, nfl.SideUnder, ResultPush},
	}

	for _, tt := range tests {
		got := gradeResult(tt.actual, tt.line, tt.side)
		assert.Equal(t, tt.want, got, "%v %s %v", tt.actual, tt.side, tt.line)
	}
}

func TestWeekGame(t *testing.T) {
	logs := []nfl.GameLog{
		{Week: 1, RecYds: 80},
		{Week: 3, RecYds: 120},
	}

	g, ok := weekGame(logs, 3)
	require.True(t, ok)
	assert.Equal(t, 120.0, g.RecYds)

	// Bye or missed week
	_, ok = weekGame(logs, 2)
	assert.False(t, ok)
}
