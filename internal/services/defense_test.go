package services

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

// seededDefenseService returns a service with the given tables pre-cached so
// the provider is never hit.
func seededDefenseService(tables map[string]map[string]nfl.DefenseEntry) *DefenseStatsService {
	svc := NewDefenseStatsService(nil, logrus.New())
	for key, table := range tables {
		svc.cache[key] = table
	}
	return svc
}

func TestGetEntrySimple(t *testing.T) {
	svc := seededDefenseService(map[string]map[string]nfl.DefenseEntry{
		nfl.StatRecYds: {
			"KC":  {Rank: 28, Avg: 65.0},
			"BUF": {Rank: 3, Avg: 41.2},
		},
	})

	entry, err := svc.GetEntry(context.Background(), nfl.StatRecYds, "KC", 2025)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 28, entry.Rank)
	assert.Equal(t, 65.0, entry.Avg)
}

func TestGetEntryUnknownTeam(t *testing.T) {
	svc := seededDefenseService(map[string]map[string]nfl.DefenseEntry{
		nfl.StatRecYds: {"KC": {Rank: 28, Avg: 65.0}},
	})

	entry, err := svc.GetEntry(context.Background(), nfl.StatRecYds, "SEA", 2025)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestGetEntryComposite(t *testing.T) {
	svc := seededDefenseService(map[string]map[string]nfl.DefenseEntry{
		nfl.StatRushYds: {"KC": {Rank: 11, Avg: 112.4}},
		nfl.StatRecYds:  {"KC": {Rank: 28, Avg: 230.1}},
	})

	entry, err := svc.GetEntry(context.Background(), nfl.StatRushRecYds, "KC", 2025)
	require.NoError(t, err)
	require.NotNil(t, entry)
	// rank = ceil((11 + 28) / 2) = 20, avg = 112.4 + 230.1
	assert.Equal(t, 20, entry.Rank)
	assert.InDelta(t, 342.5, entry.Avg, 1e-9)
}

func TestGetEntryCompositeMissingComponent(t *testing.T) {
	// Team missing from one component table: no partial entry.
	svc := seededDefenseService(map[string]map[string]nfl.DefenseEntry{
		nfl.StatRushYds: {"KC": {Rank: 11, Avg: 112.4}},
		nfl.StatRecYds:  {"BUF": {Rank: 3, Avg: 180.0}},
	})

	entry, err := svc.GetEntry(context.Background(), nfl.StatRushRecYds, "KC", 2025)
	require.NoError(t, err)
	assert.Nil(t, entry)
}
