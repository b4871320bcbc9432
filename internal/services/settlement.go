package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/models"
	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/pkg/database"
)

// Settlement results.
const (
	ResultWin  = "Win"
	ResultLoss = "Loss"
	ResultPush = "Push"
)

// SettlementReport summarizes a post-event settlement pass.
type SettlementReport struct {
	Season  int      `json:"season"`
	Week    int      `json:"week"`
	Settled int      `json:"settled"`
	Wins    int      `json:"wins"`
	Losses  int      `json:"losses"`
	Pushes  int      `json:"pushes"`
	Skipped []string `json:"skipped,omitempty"`
}

// SettlementService scores stored predictions against what actually
// happened: it re-fetches each player's game log through the same run-scoped
// cache the enrichment pass uses, pulls the week's actual stat with the same
// canonical-key extractor, and grades Win/Loss/Push. It is the only writer
// of post-event fields, and it writes them in a single pass.
type SettlementService struct {
	db     *database.DB
	stats  *PlayerStatsService
	logger *logrus.Logger
}

func NewSettlementService(db *database.DB, stats *PlayerStatsService, logger *logrus.Logger) *SettlementService {
	return &SettlementService{
		db:     db,
		stats:  stats,
		logger: logger,
	}
}

// SettleWeek settles every unsettled prop for a week. Players with no
// resolvable identifier or no game that week are skipped and reported,
// never treated as pipeline failures.
func (s *SettlementService) SettleWeek(ctx context.Context, season, week int) (*SettlementReport, error) {
	var props []models.EnrichedProp
	err := s.db.DB.
		Where("season = ? AND week = ? AND actual_result IS NULL", season, week).
		Find(&props).Error
	if err != nil {
		return nil, err
	}

	report := &SettlementReport{Season: season, Week: week}
	skippedPlayers := make(map[string]bool)

	for i := range props {
		prop := &props[i]

		statsID, err := s.stats.ResolvePlayerID(ctx, prop.Player)
		if err != nil || statsID == "" {
			if err != nil {
				s.logger.Warnf("Settlement: identifier lookup failed for %s: %v", prop.Player, err)
			}
			skippedPlayers[prop.Player] = true
			continue
		}

		logs, err := s.stats.GetGameLog(ctx, statsID, season)
		if err != nil {
			s.logger.Warnf("Settlement: game log fetch failed for %s: %v", prop.Player, err)
			skippedPlayers[prop.Player] = true
			continue
		}

		game, ok := weekGame(logs, week)
		if !ok {
			skippedPlayers[prop.Player] = true
			continue
		}

		actual, ok := ExtractStat(game, prop.Prop)
		if !ok {
			skippedPlayers[prop.Player] = true
			continue
		}

		result := gradeResult(actual, prop.Line, nfl.Side(prop.Side))
		prop.ActualStat = &actual
		prop.ActualResult = &result

		if prop.BetAmount != nil && prop.Odds != 0 {
			pl := SettleProfit(result, *prop.BetAmount, prop.Odds)
			prop.ProfitLoss = &pl
		}

		updates := map[string]interface{}{
			"actual_stat":   prop.ActualStat,
			"actual_result": prop.ActualResult,
			"profit_loss":   prop.ProfitLoss,
		}
		if err := s.db.DB.Model(prop).Updates(updates).Error; err != nil {
			s.logger.Errorf("Settlement: failed to update prop %d: %v", prop.ID, err)
			continue
		}

		report.Settled++
		switch result {
		case ResultWin:
			report.Wins++
		case ResultLoss:
			report.Losses++
		case ResultPush:
			report.Pushes++
		}
	}

	for player := range skippedPlayers {
		report.Skipped = append(report.Skipped, player)
	}

	s.logger.Infof("Settled week %d: %d settled (%d W / %d L / %d P), %d players skipped",
		week, report.Settled, report.Wins, report.Losses, report.Pushes, len(report.Skipped))
	return report, nil
}

func weekGame(logs []nfl.GameLog, week int) (nfl.GameLog, bool) {
	for _, g := range logs {
		if g.Week == week {
			return g, true
		}
	}
	return nfl.GameLog{}, false
}

// gradeResult compares the actual stat against the stored line and side:
// exactly on the line is a Push regardless of side.
func gradeResult(actual, line float64, side nfl.Side) string {
	if actual == line {
		return ResultPush
	}
	if (side == nfl.SideOver && actual > line) || (side == nfl.SideUnder && actual < line) {
		return ResultWin
	}
	return ResultLoss
}
