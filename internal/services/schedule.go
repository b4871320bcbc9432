package services

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/models"
	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/pkg/database"
)

// ScheduleService resolves a week's slate and each team's opponent from the
// schedule collection.
type ScheduleService struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewScheduleService(db *database.DB, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{
		db:     db,
		logger: logger,
	}
}

// WeekGames returns the slate for a week. An empty week yields one synthetic
// fallback game instead of failing the run: downstream stages treat "no
// opponent" as skip-scoring, not as a fatal error.
func (s *ScheduleService) WeekGames(season, week int) ([]nfl.Game, error) {
	var entries []models.ScheduleEntry
	err := s.db.DB.Where("season = ? AND week = ?", season, week).Find(&entries).Error
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		s.logger.Warnf("No schedule entries for season %d week %d, using fallback game", season, week)
		return []nfl.Game{fallbackGame(week)}, nil
	}

	games := make([]nfl.Game, 0, len(entries))
	for _, e := range entries {
		games = append(games, nfl.Game{
			Week:    e.Week,
			Kickoff: e.Kickoff,
			Home:    e.HomeTeam,
			Away:    e.AwayTeam,
			Matchup: e.Matchup,
		})
	}
	return games, nil
}

// FindGame returns the game a team plays in, matching home, then away, then
// matchup substring, or nil when the team has no game that week.
func FindGame(team string, games []nfl.Game) *nfl.Game {
	for i := range games {
		if games[i].Home == team {
			return &games[i]
		}
	}
	for i := range games {
		if games[i].Away == team {
			return &games[i]
		}
	}
	for i := range games {
		if strings.Contains(games[i].Matchup, team) {
			return &games[i]
		}
	}
	return nil
}

// Opponent extracts the other side of a matchup string. "vs" variants are
// normalized to "@" before splitting.
func Opponent(team, matchup string) string {
	normalized := strings.ReplaceAll(matchup, " vs. ", " @ ")
	normalized = strings.ReplaceAll(normalized, " vs ", " @ ")
	parts := strings.Split(normalized, "@")
	if len(parts) != 2 {
		return ""
	}
	away := strings.TrimSpace(parts[0])
	home := strings.TrimSpace(parts[1])
	switch team {
	case away:
		return home
	case home:
		return away
	}
	return ""
}

// fallbackGame keeps the pipeline exercisable when the schedule collection
// is missing a week.
func fallbackGame(week int) nfl.Game {
	return nfl.Game{
		Week:    week,
		Kickoff: time.Now().UTC(),
		Home:    "KC",
		Away:    "BUF",
		Matchup: "BUF @ KC",
	}
}
