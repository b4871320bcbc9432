package providers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/normalize"
)

// categorySlugs maps canonical stat keys to the rankings-site page slugs.
// Composite keys have no slug; their entries are derived, never scraped.
var categorySlugs = map[string]string{
	nfl.StatPassYds:       "passing-yards-allowed",
	nfl.StatPassTDs:       "passing-touchdowns-allowed",
	nfl.StatPassAtts:      "pass-attempts-allowed",
	nfl.StatCompletions:   "completions-allowed",
	nfl.StatInterceptions: "interceptions-forced",
	nfl.StatRushYds:       "rushing-yards-allowed",
	nfl.StatRushAtts:      "rush-attempts-allowed",
	nfl.StatRushTDs:       "rushing-touchdowns-allowed",
	nfl.StatRecYds:        "receiving-yards-allowed",
	nfl.StatReceptions:    "receptions-allowed",
	nfl.StatRecTDs:        "receiving-touchdowns-allowed",
	nfl.StatAnytimeTD:     "touchdowns-allowed",
}

// DefenseProvider scrapes the per-category opponent rankings pages: one
// 32-team table of per-game averages allowed per stat category.
type DefenseProvider struct {
	client  *Client
	cache   nfl.CacheProvider
	logger  *logrus.Logger
	baseURL string
}

func NewDefenseProvider(client *Client, cache nfl.CacheProvider, logger *logrus.Logger, baseURL string) *DefenseProvider {
	return &DefenseProvider{
		client:  client,
		cache:   cache,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchCategory fetches the ranked table for one stat category, keyed by
// team abbreviation.
func (p *DefenseProvider) FetchCategory(ctx context.Context, statKey string, season int) (map[string]nfl.DefenseEntry, error) {
	slug, ok := categorySlugs[statKey]
	if !ok {
		return nil, fmt.Errorf("no rankings page for stat %q", statKey)
	}

	cacheKey := DefenseCacheKey(statKey, season)
	if p.cache != nil {
		var cached map[string]nfl.DefenseEntry
		if err := p.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	pageURL := fmt.Sprintf("%s/%d/%s", p.baseURL, season, slug)
	doc, err := p.client.GetDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	entries := ParseDefenseTable(doc)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no defense rows parsed for %q", statKey)
	}

	if p.cache != nil {
		p.cache.SetSimple(cacheKey, entries, 12*time.Hour)
	}
	return entries, nil
}

// ParseDefenseTable reads a ranked defense table: rank, team name, and the
// per-game average in the last numeric column. Rows with a rank outside
// [1, 32] are discarded.
func ParseDefenseTable(doc *goquery.Document) map[string]nfl.DefenseEntry {
	entries := make(map[string]nfl.DefenseEntry)

	doc.Find("table tbody tr").Each(func(i int, tr *goquery.Selection) {
		if strings.Contains(tr.AttrOr("class", ""), "thead") {
			return
		}

		cells := tr.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		var texts []string
		cells.Each(func(_ int, c *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(c.Text()))
		})

		rank := i + 1
		teamIdx := 0
		if n, err := strconv.Atoi(texts[0]); err == nil {
			rank = n
			teamIdx = 1
		}
		if rank < 1 || rank > 32 || teamIdx >= len(texts) {
			return
		}

		team := normalize.TeamAbbr(texts[teamIdx])
		if team == "" {
			return
		}

		avg := math.NaN()
		for j := len(texts) - 1; j > teamIdx; j-- {
			if f, err := strconv.ParseFloat(strings.ReplaceAll(texts[j], ",", ""), 64); err == nil {
				avg = f
				break
			}
		}
		if math.IsNaN(avg) {
			return
		}

		entries[team] = nfl.DefenseEntry{Rank: rank, Avg: avg}
	})

	return entries
}
