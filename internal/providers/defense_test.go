package providers

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defenseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseDefenseTable(t *testing.T) {
	doc := defenseDoc(t, `<table>
<thead><tr><th>Rank</th><th>Team</th><th>2024</th><th>Last 3</th><th>2025</th></tr></thead>
<tbody>
<tr><td>1</td><td>San Francisco 49ers</td><td>198.2</td><td>185.0</td><td>190.4</td></tr>
<tr><td>28</td><td>Kansas City Chiefs</td><td>240.0</td><td>256.7</td><td>251.3</td></tr>
<tr><td>33</td><td>League Average</td><td>220.0</td><td>221.0</td><td>222.0</td></tr>
</tbody>
</table>`)

	entries := ParseDefenseTable(doc)
	require.Len(t, entries, 2)

	sf, ok := entries["SF"]
	require.True(t, ok)
	assert.Equal(t, 1, sf.Rank)
	// The per-game average is the last numeric column
	assert.InDelta(t, 190.4, sf.Avg, 1e-9)

	kc, ok := entries["KC"]
	require.True(t, ok)
	assert.Equal(t, 28, kc.Rank)
	assert.InDelta(t, 251.3, kc.Avg, 1e-9)
}

func TestParseDefenseTableNoRankColumn(t *testing.T) {
	// No leading rank cell: row position supplies the rank.
	doc := defenseDoc(t, `<table><tbody>
<tr><td>Buffalo Bills</td><td>289.5</td></tr>
<tr><td>Dallas Cowboys</td><td>301.2</td></tr>
</tbody></table>`)

	entries := ParseDefenseTable(doc)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries["BUF"].Rank)
	assert.Equal(t, 2, entries["DAL"].Rank)
	assert.InDelta(t, 301.2, entries["DAL"].Avg, 1e-9)
}

func TestParseDefenseTableSkipsBadRows(t *testing.T) {
	doc := defenseDoc(t, `<table><tbody>
<tr class="thead"><td>Rank</td><td>Team</td><td>Avg</td></tr>
<tr><td>1</td><td>Buffalo Bills</td><td>n/a</td></tr>
<tr><td>2</td><td>Dallas Cowboys</td><td>301.2</td></tr>
<tr><td>lonely</td></tr>
</tbody></table>`)

	entries := ParseDefenseTable(doc)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries["DAL"].Rank)
}

func TestParseDefenseTableEmpty(t *testing.T) {
	doc := defenseDoc(t, `<p>no table</p>`)
	assert.Empty(t, ParseDefenseTable(doc))
}
