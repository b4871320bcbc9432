package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

func TestPropKey(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"Passing Yards", nfl.StatPassYds, true},
		{"pass yds", nfl.StatPassYds, true},
		{"  PASS   YDS  ", nfl.StatPassYds, true},
		{"Receiving Yards", nfl.StatRecYds, true},
		{"Catches", nfl.StatReceptions, true},
		{"Anytime Touchdown", nfl.StatAnytimeTD, true},
		{"TD Scorer", nfl.StatAnytimeTD, true},
		{"Rush+Rec Yds", nfl.StatRushRecYds, true},
		{"Rush + Rec Yards", nfl.StatRushRecYds, true},
		{"Rushing + Receiving Yards", nfl.StatRushRecYds, true},
		{"Pass + Rush Yds", nfl.StatPassRushYds, true},
		{"Longest Completion", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := PropKey(tt.label)
		assert.Equal(t, tt.ok, ok, "label %q", tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

func TestComponents(t *testing.T) {
	parts, ok := Components(nfl.StatRushRecYds)
	require.True(t, ok)
	assert.Equal(t, []string{nfl.StatRushYds, nfl.StatRecYds}, parts)

	parts, ok = Components(nfl.StatPassRushYds)
	require.True(t, ok)
	assert.Equal(t, []string{nfl.StatPassYds, nfl.StatRushYds}, parts)

	// Simple keys have no components
	_, ok = Components(nfl.StatPassYds)
	assert.False(t, ok)
	_, ok = Components("nonsense")
	assert.False(t, ok)
}

func TestTeamAbbr(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Kansas City Chiefs", "KC"},
		{"chiefs", "KC"},
		{"KC", "KC"},
		{"kc", "KC"},
		{"San Francisco 49ers", "SF"},
		{"Los Angeles Chargers", "LAC"},
		{"Los Angeles Rams", "LAR"},
		{"Washington Commanders", "WAS"},
		// Unknown names degrade to a 3-letter truncation
		{"London Monarchs", "LON"},
		{"XY", "XY"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TeamAbbr(tt.name), "name %q", tt.name)
	}
}

func TestPlayerKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Josh Allen", "josh allen"},
		{"  Josh   Allen  ", "josh allen"},
		{"A.J. Brown", "aj brown"},
		{"AJ Brown", "aj brown"},
		{"Odell Beckham Jr.", "odell beckham"},
		{"Patrick Mahomes II", "patrick mahomes"},
		{"Ja'Marr Chase", "jamarr chase"},
		{"Amon-Ra St. Brown", "amon ra st brown"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PlayerKey(tt.name), "name %q", tt.name)
	}
}

func TestPlayerKeyCollisions(t *testing.T) {
	// The whole point of the key: source-name drift maps to one identity.
	assert.Equal(t, PlayerKey("A.J. Brown"), PlayerKey("AJ Brown"))
	assert.Equal(t, PlayerKey("Odell Beckham Jr."), PlayerKey("Odell Beckham"))
	assert.Equal(t, PlayerKey("D'Andre Swift"), PlayerKey("DAndre Swift"))
}
