package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/normalize"
)

var (
	playerHrefRe = regexp.MustCompile(`/players/[A-Z]/([A-Za-z0-9'.]+)\.htm`)
	commentRe    = regexp.MustCompile(`(?s)<!--(.*?)-->`)
)

// StatsProvider scrapes the public stats site for per-game player logs and
// resolves player identifiers through its search endpoint.
type StatsProvider struct {
	client  *Client
	cache   nfl.CacheProvider
	logger  *logrus.Logger
	baseURL string
}

func NewStatsProvider(client *Client, cache nfl.CacheProvider, logger *logrus.Logger, baseURL string) *StatsProvider {
	return &StatsProvider{
		client:  client,
		cache:   cache,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchPlayerID resolves a player name to a stats-site identifier via the
// search endpoint. Returns "" with a nil error when the search comes back
// empty; the caller treats that as skip-this-player.
func (p *StatsProvider) SearchPlayerID(ctx context.Context, name string) (string, error) {
	cacheKey := PlayerIDCacheKey(normalize.PlayerKey(name))
	if p.cache != nil {
		var cached string
		if err := p.cache.GetSimple(cacheKey, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	searchURL := fmt.Sprintf("%s/search/search.fcgi?search=%s", p.baseURL, url.QueryEscape(name))

	body, err := p.client.Get(ctx, searchURL)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return "", nil
		}
		return "", err
	}

	// An exact hit redirects straight to the player page; a partial hit
	// renders a result list. Either way the first player href carries the ID.
	if m := playerHrefRe.FindStringSubmatch(string(body)); m != nil {
		if p.cache != nil {
			p.cache.SetSimple(cacheKey, m[1], 24*time.Hour)
		}
		return m[1], nil
	}
	return "", nil
}

// FetchGameLog fetches and parses one player-season's per-game log. The site
// wraps its stat tables in HTML comments to frustrate naive scrapers, so
// comment blocks are searched first and the live DOM is only a fallback; the
// two representations are mutually exclusive in practice.
func (p *StatsProvider) FetchGameLog(ctx context.Context, statsID string, season int) ([]nfl.GameLog, error) {
	cacheKey := GameLogCacheKey(statsID, season)
	if p.cache != nil {
		var cached []nfl.GameLog
		if err := p.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	logURL := fmt.Sprintf("%s/players/%s/%s/gamelog/%d/", p.baseURL, strings.ToUpper(statsID[:1]), statsID, season)
	body, err := p.client.Get(ctx, logURL)
	if err != nil {
		return nil, err
	}

	logs, err := ParseGameLogHTML(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse game log for %s: %w", statsID, err)
	}

	if p.cache != nil && len(logs) > 0 {
		p.cache.SetSimple(cacheKey, logs, 6*time.Hour)
	}
	return logs, nil
}

// ParseGameLogHTML extracts per-game rows from a game-log page. Exported so
// settlement and tests can parse stored or fixture pages.
func ParseGameLogHTML(html string) ([]nfl.GameLog, error) {
	// Comment blocks first
	for _, m := range commentRe.FindAllStringSubmatch(html, -1) {
		fragment := m[1]
		if !strings.Contains(fragment, "<table") || !strings.Contains(fragment, "week_num") {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}
		if logs := parseGameLogRows(doc); len(logs) > 0 {
			return logs, nil
		}
	}

	// Direct table fallback
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return parseGameLogRows(doc), nil
}

func parseGameLogRows(doc *goquery.Document) []nfl.GameLog {
	var logs []nfl.GameLog

	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if strings.Contains(tr.AttrOr("class", ""), "thead") {
			return
		}

		// Rows without a resolvable week number (bye weeks, summary rows)
		// are discarded.
		week, ok := cellInt(tr, "week_num")
		if !ok || week <= 0 {
			return
		}

		game := nfl.GameLog{Week: week}
		if dateStr := cellText(tr, "game_date"); dateStr != "" {
			if d, err := time.Parse("2006-01-02", dateStr); err == nil {
				game.Date = d
			}
		}

		game.PassYds = cellFloat(tr, "pass_yds")
		game.PassAtts = cellFloat(tr, "pass_att")
		game.Completions = cellFloat(tr, "pass_cmp")
		game.PassTDs = cellFloat(tr, "pass_td")
		game.Interceptions = cellFloat(tr, "pass_int")
		game.RushYds = cellFloat(tr, "rush_yds")
		game.RushAtts = cellFloat(tr, "rush_att")
		game.RushTDs = cellFloat(tr, "rush_td")
		game.RecYds = cellFloat(tr, "rec_yds")
		game.Receptions = cellFloat(tr, "rec")
		game.RecTDs = cellFloat(tr, "rec_td")

		logs = append(logs, game)
	})

	return logs
}

func cellText(tr *goquery.Selection, stat string) string {
	sel := fmt.Sprintf(`th[data-stat=%q], td[data-stat=%q]`, stat, stat)
	return strings.TrimSpace(tr.Find(sel).First().Text())
}

func cellInt(tr *goquery.Selection, stat string) (int, bool) {
	n, err := strconv.Atoi(cellText(tr, stat))
	if err != nil {
		return 0, false
	}
	return n, true
}

func cellFloat(tr *goquery.Selection, stat string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(cellText(tr, stat), ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
