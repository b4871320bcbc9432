package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/normalize"
)

// LinesProvider fetches the weekly slate of player props. Sources are tried
// in order until one yields lines: primary JSON endpoint, secondary JSON
// endpoint, an embedded-JSON scrape of the rendered page, and finally a
// built-in sample so the rest of the pipeline stays exercisable when every
// source is down.
type LinesProvider struct {
	client       *Client
	cache        nfl.CacheProvider
	logger       *logrus.Logger
	primaryURL   string
	secondaryURL string
	pageURL      string
}

func NewLinesProvider(client *Client, cache nfl.CacheProvider, logger *logrus.Logger, primaryURL, secondaryURL, pageURL string) *LinesProvider {
	return &LinesProvider{
		client:       client,
		cache:        cache,
		logger:       logger,
		primaryURL:   primaryURL,
		secondaryURL: secondaryURL,
		pageURL:      pageURL,
	}
}

// lineSource is one strategy in the fallback chain.
type lineSource struct {
	name  string
	fetch func(ctx context.Context, season, week int) ([]nfl.RawLine, error)
}

// FetchLines returns the raw lines for a week along with the name of the
// source that produced them.
func (p *LinesProvider) FetchLines(ctx context.Context, season, week int) ([]nfl.RawLine, string, error) {
	cacheKey := LinesCacheKey(season, week)
	if p.cache != nil {
		var cached []nfl.RawLine
		if err := p.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, "cache", nil
		}
	}

	sources := []lineSource{
		{"primary", p.fetchJSON(p.primaryURL)},
		{"secondary", p.fetchJSON(p.secondaryURL)},
		{"page", p.fetchPage},
	}

	for _, src := range sources {
		lines, err := src.fetch(ctx, season, week)
		if err != nil {
			p.logger.Warnf("Lines source %s failed: %v", src.name, err)
			continue
		}
		if len(lines) == 0 {
			p.logger.Warnf("Lines source %s returned no usable lines", src.name)
			continue
		}
		if p.cache != nil {
			p.cache.SetSimple(cacheKey, lines, 10*time.Minute)
		}
		return lines, src.name, nil
	}

	p.logger.Warn("All line sources exhausted, using built-in sample")
	return sampleLines(), "sample", nil
}

// fetchJSON builds a chain step hitting a JSON endpoint.
func (p *LinesProvider) fetchJSON(endpoint string) func(ctx context.Context, season, week int) ([]nfl.RawLine, error) {
	return func(ctx context.Context, season, week int) ([]nfl.RawLine, error) {
		if endpoint == "" {
			return nil, fmt.Errorf("endpoint not configured")
		}
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("bad endpoint: %w", err)
		}
		q := u.Query()
		q.Set("season", fmt.Sprintf("%d", season))
		q.Set("week", fmt.Sprintf("%d", week))
		u.RawQuery = q.Encode()

		body, err := p.client.Get(ctx, u.String())
		if err != nil {
			return nil, err
		}
		return p.parsePicks(body, u.Host)
	}
}

// fetchPage scrapes the embedded JSON payload out of the rendered HTML page.
func (p *LinesProvider) fetchPage(ctx context.Context, season, week int) ([]nfl.RawLine, error) {
	if p.pageURL == "" {
		return nil, fmt.Errorf("page URL not configured")
	}

	body, err := p.client.Get(ctx, p.pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var lines []nfl.RawLine
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		payload := extractJSONArray(text, `"picks"`)
		if payload == "" {
			payload = extractJSONArray(text, `"props"`)
		}
		if payload == "" {
			return true
		}
		parsed, err := p.parsePicks([]byte(payload), "page")
		if err != nil || len(parsed) == 0 {
			return true
		}
		lines = parsed
		return false
	})

	if len(lines) == 0 {
		return nil, fmt.Errorf("no embedded pick payload found")
	}
	return lines, nil
}

// parsePicks decodes a pick payload that may be a bare array or an object
// wrapping one, then maps each pick through the ordered-field extractor.
func (p *LinesProvider) parsePicks(body []byte, source string) ([]nfl.RawLine, error) {
	var picks []map[string]interface{}
	if err := json.Unmarshal(body, &picks); err != nil {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("unrecognized picks payload: %w", err)
		}
		for _, field := range []string{"picks", "props", "data", "results"} {
			raw, ok := wrapper[field]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &picks); err == nil {
				break
			}
		}
	}
	if len(picks) == 0 {
		return nil, nil
	}

	lines := make([]nfl.RawLine, 0, len(picks))
	for _, pick := range picks {
		line, ok := p.mapPick(pick, source)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// mapPick converts one heterogeneous pick object into a RawLine. Every
// source names its fields differently, so each field is pulled through an
// ordered fallback list.
func (p *LinesProvider) mapPick(pick map[string]interface{}, source string) (nfl.RawLine, bool) {
	player, ok := stringField(pick, "player.full_name", "player.name", "player_name", "name")
	if !ok || player == "" {
		return nfl.RawLine{}, false
	}

	label, ok := stringField(pick, "market", "category", "prop", "stat_type")
	if !ok {
		return nfl.RawLine{}, false
	}
	propKey, ok := normalize.PropKey(label)
	if !ok {
		p.logger.Debugf("Skipping unmapped prop label %q for %s", label, player)
		return nfl.RawLine{}, false
	}

	lineVal, ok := floatField(pick, "line", "value", "threshold")
	if !ok {
		return nfl.RawLine{}, false
	}

	side := nfl.SideOver
	if s, ok := stringField(pick, "side", "selection", "over_under"); ok {
		if strings.EqualFold(strings.TrimSpace(s), "under") {
			side = nfl.SideUnder
		}
	}

	odds := 0
	if o, ok := floatField(pick, "odds", "price", "american_odds"); ok {
		odds = int(o)
	}

	return nfl.RawLine{
		Player: player,
		Prop:   propKey,
		Line:   lineVal,
		Side:   side,
		Odds:   odds,
		Source: source,
	}, true
}

// stringField walks the ordered dot-separated paths and returns the first
// string hit.
func stringField(m map[string]interface{}, paths ...string) (string, bool) {
	for _, path := range paths {
		if v, ok := lookupPath(m, path); ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// floatField walks the ordered paths and returns the first numeric hit,
// accepting numbers serialized as strings.
func floatField(m map[string]interface{}, paths ...string) (float64, bool) {
	for _, path := range paths {
		v, ok := lookupPath(m, path)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			var f float64
			if _, err := fmt.Sscanf(strings.TrimSpace(n), "%f", &f); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func lookupPath(m map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var cur interface{} = m
	for _, part := range parts {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// extractJSONArray finds marker ("picks": [...]) in a script body and
// returns the balanced JSON array that follows it.
func extractJSONArray(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	start := strings.Index(text[idx:], "[")
	if start < 0 {
		return ""
	}
	start += idx

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// sampleLines is the last rung of the chain: a small fixed slate so the
// pipeline stays testable and demo-able offline.
func sampleLines() []nfl.RawLine {
	return []nfl.RawLine{
		{Player: "Josh Allen", Prop: nfl.StatPassYds, Line: 249.5, Side: nfl.SideOver, Odds: -115, Source: "sample"},
		{Player: "Josh Allen", Prop: nfl.StatPassTDs, Line: 1.5, Side: nfl.SideOver, Odds: 105, Source: "sample"},
		{Player: "Saquon Barkley", Prop: nfl.StatRushYds, Line: 89.5, Side: nfl.SideOver, Odds: -110, Source: "sample"},
		{Player: "Saquon Barkley", Prop: nfl.StatRushRecYds, Line: 109.5, Side: nfl.SideUnder, Odds: -105, Source: "sample"},
		{Player: "CeeDee Lamb", Prop: nfl.StatRecYds, Line: 74.5, Side: nfl.SideOver, Odds: -120, Source: "sample"},
		{Player: "CeeDee Lamb", Prop: nfl.StatReceptions, Line: 6.5, Side: nfl.SideUnder, Odds: 100, Source: "sample"},
		{Player: "Christian McCaffrey", Prop: nfl.StatAnytimeTD, Line: 0.5, Side: nfl.SideOver, Odds: -140, Source: "sample"},
	}
}
