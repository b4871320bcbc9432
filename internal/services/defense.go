package services

import (
	"context"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/normalize"
	"github.com/jstittsworth/prop-sheet/internal/providers"
)

// DefenseStatsService serves opponent-allowed rankings from a run-scoped
// cache: one network fetch per stat category per run. Like the player log
// cache it is built per run and thrown away with it.
type DefenseStatsService struct {
	provider *providers.DefenseProvider
	logger   *logrus.Logger

	mu    sync.Mutex
	cache map[string]map[string]nfl.DefenseEntry
}

func NewDefenseStatsService(provider *providers.DefenseProvider, logger *logrus.Logger) *DefenseStatsService {
	return &DefenseStatsService{
		provider: provider,
		logger:   logger,
		cache:    make(map[string]map[string]nfl.DefenseEntry),
	}
}

// GetEntry returns a team's rank and per-game average allowed for a stat
// category. Composite categories derive their entry from the components:
// ceiling-averaged rank, summed average. Returns nil when the category or
// any composite component is missing, never a zero entry.
func (s *DefenseStatsService) GetEntry(ctx context.Context, statKey, team string, season int) (*nfl.DefenseEntry, error) {
	if components, ok := normalize.Components(statKey); ok {
		return s.compositeEntry(ctx, components, team, season)
	}

	table, err := s.category(ctx, statKey, season)
	if err != nil {
		return nil, err
	}
	entry, ok := table[team]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *DefenseStatsService) compositeEntry(ctx context.Context, components []string, team string, season int) (*nfl.DefenseEntry, error) {
	rankSum := 0
	avgSum := 0.0
	for _, c := range components {
		entry, err := s.GetEntry(ctx, c, team, season)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, nil
		}
		rankSum += entry.Rank
		avgSum += entry.Avg
	}
	return &nfl.DefenseEntry{
		Rank: int(math.Ceil(float64(rankSum) / float64(len(components)))),
		Avg:  avgSum,
	}, nil
}

func (s *DefenseStatsService) category(ctx context.Context, statKey string, season int) (map[string]nfl.DefenseEntry, error) {
	s.mu.Lock()
	if table, ok := s.cache[statKey]; ok {
		s.mu.Unlock()
		return table, nil
	}
	s.mu.Unlock()

	table, err := s.provider.FetchCategory(ctx, statKey, season)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[statKey] = table
	s.mu.Unlock()

	s.logger.Debugf("Cached defense table for %q (%d teams)", statKey, len(table))
	return table, nil
}
