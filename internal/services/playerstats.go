package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/jstittsworth/prop-sheet/internal/models"
	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/normalize"
	"github.com/jstittsworth/prop-sheet/internal/providers"
	"github.com/jstittsworth/prop-sheet/pkg/database"
)

// PlayerStatsService resolves player identifiers and serves per-game logs
// from a run-scoped cache: each (identifier, season) is fetched at most once
// per run regardless of how many props reference the player. The service is
// constructed per run and discarded with it, so repeated runs never share
// stale state.
type PlayerStatsService struct {
	db       *database.DB
	provider *providers.StatsProvider
	logger   *logrus.Logger

	mu       sync.Mutex
	logCache map[string][]nfl.GameLog
	idCache  map[string]string
}

func NewPlayerStatsService(db *database.DB, provider *providers.StatsProvider, logger *logrus.Logger) *PlayerStatsService {
	return &PlayerStatsService{
		db:       db,
		provider: provider,
		logger:   logger,
		logCache: make(map[string][]nfl.GameLog),
		idCache:  make(map[string]string),
	}
}

// ResolvePlayerID maps a player name to the stats-site identifier: exact
// match on the identifier table, then a last-name substring match, then the
// site's search endpoint. Search hits are written back to the table so the
// next run skips the network. Returns "" when nothing resolves, which skips
// the player for this run.
func (s *PlayerStatsService) ResolvePlayerID(ctx context.Context, name string) (string, error) {
	key := normalize.PlayerKey(name)
	if key == "" {
		return "", nil
	}

	s.mu.Lock()
	if id, ok := s.idCache[key]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	var ident models.PlayerIdentifier
	err := s.db.DB.Where("player_key = ?", key).First(&ident).Error
	if err == nil {
		s.remember(key, ident.StatsID)
		return ident.StatsID, nil
	}

	// Last-name substring: catches suffix and nickname drift between the
	// odds source and the identifier table.
	parts := strings.Fields(key)
	if len(parts) > 1 {
		lastName := parts[len(parts)-1]
		err = s.db.DB.Where("player_key LIKE ?", "%"+lastName+"%").First(&ident).Error
		if err == nil {
			s.remember(key, ident.StatsID)
			return ident.StatsID, nil
		}
	}

	statsID, err := s.provider.SearchPlayerID(ctx, name)
	if err != nil {
		return "", fmt.Errorf("player search failed for %s: %w", name, err)
	}
	if statsID == "" {
		return "", nil
	}

	// Persist the discovered ID for future runs
	record := models.PlayerIdentifier{PlayerKey: key, StatsID: statsID}
	if err := s.db.DB.Create(&record).Error; err != nil {
		s.logger.Warnf("Failed to store identifier for %s: %v", name, err)
	}
	s.remember(key, statsID)
	return statsID, nil
}

func (s *PlayerStatsService) remember(key, id string) {
	s.mu.Lock()
	s.idCache[key] = id
	s.mu.Unlock()
}

// GetGameLog returns the player's season log, fetching it at most once per
// run. A persisted snapshot from an earlier run warms the cache before any
// network fetch.
func (s *PlayerStatsService) GetGameLog(ctx context.Context, statsID string, season int) ([]nfl.GameLog, error) {
	cacheKey := fmt.Sprintf("%s:%d", statsID, season)

	s.mu.Lock()
	if logs, ok := s.logCache[cacheKey]; ok {
		s.mu.Unlock()
		return logs, nil
	}
	s.mu.Unlock()

	if logs := s.loadSnapshot(statsID, season); logs != nil {
		s.mu.Lock()
		s.logCache[cacheKey] = logs
		s.mu.Unlock()
		return logs, nil
	}

	logs, err := s.provider.FetchGameLog(ctx, statsID, season)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.logCache[cacheKey] = logs
	s.mu.Unlock()

	s.storeSnapshot(statsID, season, logs)
	return logs, nil
}

func (s *PlayerStatsService) loadSnapshot(statsID string, season int) []nfl.GameLog {
	var snap models.GameLogSnapshot
	err := s.db.DB.Where("stats_id = ? AND season = ?", statsID, season).First(&snap).Error
	if err != nil {
		return nil
	}
	// Stale snapshots would violate the fetch-once-per-run freshness window.
	if time.Since(snap.FetchedAt) > 6*time.Hour {
		return nil
	}
	var logs []nfl.GameLog
	if err := json.Unmarshal(snap.Raw, &logs); err != nil {
		return nil
	}
	return logs
}

func (s *PlayerStatsService) storeSnapshot(statsID string, season int, logs []nfl.GameLog) {
	raw, err := json.Marshal(logs)
	if err != nil {
		return
	}
	snap := models.GameLogSnapshot{
		StatsID:   statsID,
		Season:    season,
		Raw:       datatypes.JSON(raw),
		FetchedAt: time.Now().UTC(),
	}
	var existing models.GameLogSnapshot
	if err := s.db.DB.Where("stats_id = ? AND season = ?", statsID, season).First(&existing).Error; err == nil {
		existing.Raw = snap.Raw
		existing.FetchedAt = snap.FetchedAt
		s.db.DB.Save(&existing)
		return
	}
	if err := s.db.DB.Create(&snap).Error; err != nil {
		s.logger.Warnf("Failed to store game log snapshot for %s: %v", statsID, err)
	}
}

// ExtractStat returns a game's value for a canonical key, summing component
// stats for composite keys. ok is false for unknown keys.
func ExtractStat(g nfl.GameLog, key string) (float64, bool) {
	if components, ok := normalize.Components(key); ok {
		total := 0.0
		for _, c := range components {
			v, valid := g.Stat(c)
			if !valid {
				return 0, false
			}
			total += v
		}
		return total, true
	}
	return g.Stat(key)
}

// CalculateAvg averages a stat across games played strictly before
// beforeWeek, rounded to one decimal. Composite keys sum their components'
// independently computed averages. For the binary anytime-TD key only games
// with an offensive touch count toward the denominator. Returns nil with no
// eligible games; aggregates "as of week N" must never see week N itself.
func CalculateAvg(logs []nfl.GameLog, statKey string, beforeWeek int) *float64 {
	if components, ok := normalize.Components(statKey); ok {
		total := 0.0
		for _, c := range components {
			avg := CalculateAvg(logs, c, beforeWeek)
			if avg == nil {
				return nil
			}
			total += *avg
		}
		total = round1(total)
		return &total
	}

	sum := 0.0
	count := 0
	for _, g := range logs {
		if g.Week >= beforeWeek {
			continue
		}
		if statKey == nfl.StatAnytimeTD && !g.HadTouch() {
			continue
		}
		v, ok := g.Stat(statKey)
		if !ok {
			return nil
		}
		sum += v
		count++
	}
	if count == 0 {
		return nil
	}
	avg := round1(sum / float64(count))
	return &avg
}

// CalculateHitPct is the fraction of prior games (week < excludeWeek) where
// the stat beat the line on the given side. A push never counts as a hit.
// Returns nil with fewer than 3 qualifying games: a two-game "100% hit rate"
// is noise, not signal.
func CalculateHitPct(logs []nfl.GameLog, statKey string, line float64, side nfl.Side, excludeWeek int) *float64 {
	hits := 0
	count := 0
	for _, g := range logs {
		if g.Week >= excludeWeek {
			continue
		}
		if statKey == nfl.StatAnytimeTD && !g.HadTouch() {
			continue
		}
		v, ok := ExtractStat(g, statKey)
		if !ok {
			return nil
		}
		count++
		if (side == nfl.SideOver && v > line) || (side == nfl.SideUnder && v < line) {
			hits++
		}
	}
	if count < 3 {
		return nil
	}
	pct := float64(hits) / float64(count)
	return &pct
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
