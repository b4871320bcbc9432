package providers

import "fmt"

// Cache key generators for the cross-run response cache. Defined here so
// every provider names its keys the same way.
func GameLogCacheKey(statsID string, season int) string {
	return fmt.Sprintf("gamelog:%s:%d", statsID, season)
}

func DefenseCacheKey(statKey string, season int) string {
	return fmt.Sprintf("defense:%s:%d", statKey, season)
}

func LinesCacheKey(season, week int) string {
	return fmt.Sprintf("lines:%d:%d", season, week)
}

func PlayerIDCacheKey(playerKey string) string {
	return fmt.Sprintf("playerid:%s", playerKey)
}
