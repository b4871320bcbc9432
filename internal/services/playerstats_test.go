package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

func receiverLogs() []nfl.GameLog {
	return []nfl.GameLog{
		{Week: 1, RecYds: 80, Receptions: 6, RushYds: 10, RushAtts: 2},
		{Week: 2, RecYds: 55, Receptions: 4, RecTDs: 1},
		{Week: 3, RecYds: 120, Receptions: 9, RushYds: 5, RushAtts: 1},
		{Week: 4, RecYds: 40, Receptions: 3},
		{Week: 5, RecYds: 999, Receptions: 20}, // current week, must never leak in
	}
}

func TestExtractStat(t *testing.T) {
	g := nfl.GameLog{PassYds: 280, RushYds: 35, RecYds: 12, Receptions: 2}

	v, ok := ExtractStat(g, nfl.StatPassYds)
	require.True(t, ok)
	assert.Equal(t, 280.0, v)

	v, ok = ExtractStat(g, nfl.StatRushRecYds)
	require.True(t, ok)
	assert.Equal(t, 47.0, v)

	v, ok = ExtractStat(g, nfl.StatPassRushYds)
	require.True(t, ok)
	assert.Equal(t, 315.0, v)

	_, ok = ExtractStat(g, "made up stat")
	assert.False(t, ok)
}

func TestExtractStatAnytimeTD(t *testing.T) {
	scored := nfl.GameLog{RushAtts: 12, RushTDs: 1}
	v, ok := ExtractStat(scored, nfl.StatAnytimeTD)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	// Passing touchdowns don't count as the player scoring
	threw := nfl.GameLog{PassAtts: 30, PassTDs: 3}
	v, ok = ExtractStat(threw, nfl.StatAnytimeTD)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestCalculateAvg(t *testing.T) {
	avg := CalculateAvg(receiverLogs(), nfl.StatRecYds, 5)
	require.NotNil(t, avg)
	// (80 + 55 + 120 + 40) / 4 = 73.75 -> 73.8
	assert.Equal(t, 73.8, *avg)
}

func TestCalculateAvgNoLookahead(t *testing.T) {
	logs := receiverLogs()

	// Week 3 as-of averages only see weeks 1-2, including week 3's own game
	// would be lookahead.
	avg := CalculateAvg(logs, nfl.StatRecYds, 3)
	require.NotNil(t, avg)
	assert.Equal(t, 67.5, *avg)

	// Appending future games must not change any as-of aggregate.
	extended := append(logs, nfl.GameLog{Week: 6, RecYds: 300, Receptions: 15})
	again := CalculateAvg(extended, nfl.StatRecYds, 3)
	require.NotNil(t, again)
	assert.Equal(t, *avg, *again)
}

func TestCalculateAvgNoPriorGames(t *testing.T) {
	assert.Nil(t, CalculateAvg(receiverLogs(), nfl.StatRecYds, 1))
	assert.Nil(t, CalculateAvg(nil, nfl.StatRecYds, 10))
}

func TestCalculateAvgComposite(t *testing.T) {
	logs := receiverLogs()

	// Composite average is the sum of the independently rounded component
	// averages, not the average of per-game sums.
	rush := CalculateAvg(logs, nfl.StatRushYds, 5)
	rec := CalculateAvg(logs, nfl.StatRecYds, 5)
	require.NotNil(t, rush)
	require.NotNil(t, rec)

	combined := CalculateAvg(logs, nfl.StatRushRecYds, 5)
	require.NotNil(t, combined)
	assert.InDelta(t, *rush+*rec, *combined, 1e-9)
}

func TestCalculateAvgAnytimeTDDenominator(t *testing.T) {
	logs := []nfl.GameLog{
		{Week: 1, RushAtts: 10, RushTDs: 1},
		{Week: 2, RushAtts: 8},
		{Week: 3}, // inactive, no touches: excluded from the denominator
		{Week: 4, Receptions: 5, RecTDs: 1},
	}

	avg := CalculateAvg(logs, nfl.StatAnytimeTD, 5)
	require.NotNil(t, avg)
	// 2 scoring games out of 3 with a touch -> 0.666... -> 0.7
	assert.Equal(t, 0.7, *avg)
}

func TestCalculateHitPct(t *testing.T) {
	logs := receiverLogs()

	// Over 60.5 rec yds before week 5: hits in weeks 1 and 3 of 4 games
	pct := CalculateHitPct(logs, nfl.StatRecYds, 60.5, nfl.SideOver, 5)
	require.NotNil(t, pct)
	assert.InDelta(t, 0.5, *pct, 1e-9)

	under := CalculateHitPct(logs, nfl.StatRecYds, 60.5, nfl.SideUnder, 5)
	require.NotNil(t, under)
	assert.InDelta(t, 0.5, *under, 1e-9)
}

func TestCalculateHitPctMinimumSample(t *testing.T) {
	logs := receiverLogs()

	// Only 2 games before week 3: below the 3-game floor
	assert.Nil(t, CalculateHitPct(logs, nfl.StatRecYds, 60.5, nfl.SideOver, 3))

	// 3 games before week 4 clears it
	pct := CalculateHitPct(logs, nfl.StatRecYds, 60.5, nfl.SideOver, 4)
	require.NotNil(t, pct)
	assert.InDelta(t, 2.0/3.0, *pct, 1e-9)
}

func TestCalculateHitPctPushNotAHit(t *testing.T) {
	logs := []nfl.GameLog{
		{Week: 1, Receptions: 5},
		{Week: 2, Receptions: 5},
		{Week: 3, Receptions: 7},
	}

	// Whole-number line: landing exactly on it counts for neither side.
	over := CalculateHitPct(logs, nfl.StatReceptions, 5, nfl.SideOver, 4)
	require.NotNil(t, over)
	assert.InDelta(t, 1.0/3.0, *over, 1e-9)

	under := CalculateHitPct(logs, nfl.StatReceptions, 5, nfl.SideUnder, 4)
	require.NotNil(t, under)
	assert.InDelta(t, 0.0, *under, 1e-9)
}

func TestCalculateHitPctComposite(t *testing.T) {
	logs := receiverLogs()

	// Per-game rush+rec sums: 90, 55, 125, 40. Over 60.5 hits twice.
	pct := CalculateHitPct(logs, nfl.StatRushRecYds, 60.5, nfl.SideOver, 5)
	require.NotNil(t, pct)
	assert.InDelta(t, 0.5, *pct, 1e-9)
}
