package providers

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

func testLinesProvider() *LinesProvider {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewLinesProvider(nil, nil, logger, "", "", "")
}

func TestParsePicksBareArray(t *testing.T) {
	p := testLinesProvider()
	body := []byte(`[
		{"player_name": "Josh Allen", "market": "Passing Yards", "line": 249.5, "side": "over", "odds": -115},
		{"player_name": "Saquon Barkley", "market": "Rushing Yards", "line": 89.5, "side": "Under", "odds": 105}
	]`)

	lines, err := p.parsePicks(body, "test")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, nfl.RawLine{
		Player: "Josh Allen",
		Prop:   nfl.StatPassYds,
		Line:   249.5,
		Side:   nfl.SideOver,
		Odds:   -115,
		Source: "test",
	}, lines[0])
	assert.Equal(t, nfl.SideUnder, lines[1].Side)
	assert.Equal(t, 105, lines[1].Odds)
}

func TestParsePicksWrappedObject(t *testing.T) {
	p := testLinesProvider()
	body := []byte(`{"meta": {"week": 5}, "picks": [
		{"name": "CeeDee Lamb", "category": "Receiving Yards", "value": 74.5}
	]}`)

	lines, err := p.parsePicks(body, "test")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "CeeDee Lamb", lines[0].Player)
	assert.Equal(t, nfl.StatRecYds, lines[0].Prop)
	assert.Equal(t, 74.5, lines[0].Line)
	// No side field defaults to Over, no odds field to 0
	assert.Equal(t, nfl.SideOver, lines[0].Side)
	assert.Zero(t, lines[0].Odds)
}

func TestParsePicksNestedPlayerAndStringNumbers(t *testing.T) {
	p := testLinesProvider()
	body := []byte(`{"data": [
		{"player": {"full_name": "Josh Allen"}, "stat_type": "pass tds", "threshold": "1.5", "price": "-130"}
	]}`)

	lines, err := p.parsePicks(body, "test")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Josh Allen", lines[0].Player)
	assert.Equal(t, nfl.StatPassTDs, lines[0].Prop)
	assert.Equal(t, 1.5, lines[0].Line)
	assert.Equal(t, -130, lines[0].Odds)
}

func TestParsePicksSkipsUnusableEntries(t *testing.T) {
	p := testLinesProvider()
	body := []byte(`[
		{"market": "Passing Yards", "line": 249.5},
		{"player_name": "Josh Allen", "market": "Longest Completion", "line": 39.5},
		{"player_name": "Josh Allen", "market": "Passing Yards"},
		{"player_name": "Josh Allen", "market": "Passing Yards", "line": 249.5}
	]`)

	lines, err := p.parsePicks(body, "test")
	require.NoError(t, err)
	// No player, unmapped prop, and no line each drop the entry
	require.Len(t, lines, 1)
}

func TestParsePicksGarbage(t *testing.T) {
	p := testLinesProvider()
	_, err := p.parsePicks([]byte(`not json`), "test")
	assert.Error(t, err)

	lines, err := p.parsePicks([]byte(`{"unrelated": true}`), "test")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestExtractJSONArray(t *testing.T) {
	script := `window.__DATA__ = {"picks": [{"name": "A [b]", "note": "quoted \" bracket ]"}], "other": []};`
	got := extractJSONArray(script, `"picks"`)
	assert.Equal(t, `[{"name": "A [b]", "note": "quoted \" bracket ]"}]`, got)
}

func TestExtractJSONArrayNested(t *testing.T) {
	script := `{"props": [[1, 2], [3]]}`
	got := extractJSONArray(script, `"props"`)
	assert.Equal(t, `[[1, 2], [3]]`, got)
}

func TestExtractJSONArrayMissing(t *testing.T) {
	assert.Empty(t, extractJSONArray(`no marker here`, `"picks"`))
	assert.Empty(t, extractJSONArray(`"picks": {"not": "array"}`, `"missing"`))
	// Unbalanced array never closes
	assert.Empty(t, extractJSONArray(`"picks": [1, 2`, `"picks"`))
}

func TestSampleLines(t *testing.T) {
	lines := sampleLines()
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.NotEmpty(t, line.Player)
		assert.NotEmpty(t, line.Prop)
		assert.NotZero(t, line.Odds)
		assert.Equal(t, "sample", line.Source)
	}
}
