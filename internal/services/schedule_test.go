package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

func weekOneGames() []nfl.Game {
	return []nfl.Game{
		{Week: 1, Home: "KC", Away: "BUF", Matchup: "BUF @ KC"},
		{Week: 1, Home: "PHI", Away: "DAL", Matchup: "DAL @ PHI"},
		{Week: 1, Home: "SF", Away: "SEA", Matchup: "SEA @ SF"},
	}
}

func TestFindGame(t *testing.T) {
	games := weekOneGames()

	home := FindGame("KC", games)
	require.NotNil(t, home)
	assert.Equal(t, "BUF @ KC", home.Matchup)

	away := FindGame("DAL", games)
	require.NotNil(t, away)
	assert.Equal(t, "DAL @ PHI", away.Matchup)

	assert.Nil(t, FindGame("NYJ", games))
}

func TestOpponent(t *testing.T) {
	tests := []struct {
		team    string
		matchup string
		want    string
	}{
		{"BUF", "BUF @ KC", "KC"},
		{"KC", "BUF @ KC", "BUF"},
		{"KC", "KC vs. BUF", "BUF"},
		{"KC", "KC vs BUF", "BUF"},
		{"SEA", "BUF @ KC", ""},
		{"KC", "garbage", ""},
		{"KC", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Opponent(tt.team, tt.matchup), "%s in %q", tt.team, tt.matchup)
	}
}

func TestFallbackGame(t *testing.T) {
	g := fallbackGame(7)
	assert.Equal(t, 7, g.Week)
	assert.Equal(t, "KC", g.Home)
	assert.Equal(t, "BUF", g.Away)
	// Matchup must be parseable by Opponent so downstream stages still work
	assert.Equal(t, "KC", Opponent("BUF", g.Matchup))
}
