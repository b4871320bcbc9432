package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/models"
	"github.com/jstittsworth/prop-sheet/internal/nfl"
	"github.com/jstittsworth/prop-sheet/internal/normalize"
	"github.com/jstittsworth/prop-sheet/internal/providers"
	"github.com/jstittsworth/prop-sheet/pkg/database"
)

// RunOptions selects what a pipeline run does.
type RunOptions struct {
	Week     int
	Season   int
	DryRun   bool
	PostGame bool
}

// RunReport is the per-stage accounting a run emits. The pipeline always
// runs to completion and reports counts even when individual records are
// incomplete; partial data loss in a record is never a run failure.
type RunReport struct {
	RunID      string             `json:"run_id"`
	Season     int                `json:"season"`
	Week       int                `json:"week"`
	DryRun     bool               `json:"dry_run"`
	Source     string             `json:"source,omitempty"`
	Fetched    int                `json:"fetched"`
	Enriched   int                `json:"enriched"`
	Skipped    int                `json:"skipped"`
	SkipReasons map[string]int    `json:"skip_reasons,omitempty"`
	Written    int                `json:"written"`
	Duplicates int                `json:"duplicates"`
	Alerted    int                `json:"alerted"`
	StartedAt  time.Time          `json:"started_at"`
	Duration   time.Duration      `json:"duration"`
	Settlement *SettlementReport  `json:"settlement,omitempty"`
}

// Pipeline wires the enrichment stages together. Every cache it touches is
// owned by the services passed in, all of which are built per run, so two
// runs never share state.
type Pipeline struct {
	db         *database.DB
	lines      *providers.LinesProvider
	stats      *PlayerStatsService
	defense    *DefenseStatsService
	schedule   *ScheduleService
	store      *PropStoreService
	settlement *SettlementService
	notifier   *PickNotifier
	logger     *logrus.Logger
}

func NewPipeline(
	db *database.DB,
	lines *providers.LinesProvider,
	stats *PlayerStatsService,
	defense *DefenseStatsService,
	schedule *ScheduleService,
	store *PropStoreService,
	settlement *SettlementService,
	notifier *PickNotifier,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		db:         db,
		lines:      lines,
		stats:      stats,
		defense:    defense,
		schedule:   schedule,
		store:      store,
		settlement: settlement,
		notifier:   notifier,
		logger:     logger,
	}
}

// Run executes one batch pass: enrichment by default, settlement with
// PostGame set.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	if opts.Week <= 0 {
		return nil, fmt.Errorf("week is required")
	}

	report := &RunReport{
		RunID:       uuid.NewString(),
		Season:      opts.Season,
		Week:        opts.Week,
		DryRun:      opts.DryRun,
		SkipReasons: make(map[string]int),
		StartedAt:   time.Now().UTC(),
	}
	log := p.logger.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"season": opts.Season,
		"week":   opts.Week,
	})

	if opts.PostGame {
		log.Info("Starting settlement run")
		settled, err := p.settlement.SettleWeek(ctx, opts.Season, opts.Week)
		if err != nil {
			return nil, fmt.Errorf("settlement failed: %w", err)
		}
		report.Settlement = settled
		report.Duration = time.Since(report.StartedAt)
		return report, nil
	}

	log.Info("Starting enrichment run")

	rawLines, source, err := p.lines.FetchLines(ctx, opts.Season, opts.Week)
	if err != nil {
		return nil, fmt.Errorf("line ingestion failed: %w", err)
	}
	report.Source = source
	report.Fetched = len(rawLines)
	log.Infof("Fetched %d lines from %s", len(rawLines), source)

	games, err := p.schedule.WeekGames(opts.Season, opts.Week)
	if err != nil {
		return nil, fmt.Errorf("schedule lookup failed: %w", err)
	}

	var enriched []models.EnrichedProp
	for _, raw := range rawLines {
		prop, reason := p.enrichLine(ctx, raw, games, opts, report.RunID)
		if reason != "" {
			report.Skipped++
			report.SkipReasons[reason]++
			continue
		}
		enriched = append(enriched, *prop)
	}
	report.Enriched = len(enriched)

	if opts.DryRun {
		log.Infof("Dry run: %d fetched, %d enriched, %d skipped, nothing written",
			report.Fetched, report.Enriched, report.Skipped)
		report.Duration = time.Since(report.StartedAt)
		return report, nil
	}

	written, duplicates, err := p.store.SaveProps(enriched, opts.Season, opts.Week)
	if err != nil {
		return nil, fmt.Errorf("persistence failed: %w", err)
	}
	report.Written = written
	report.Duplicates = duplicates

	if p.notifier != nil {
		report.Alerted = p.notifier.NotifyStrongPicks(enriched)
	}

	report.Duration = time.Since(report.StartedAt)
	log.Infof("Run complete: %d fetched, %d enriched, %d skipped, %d written, %d duplicates (%s)",
		report.Fetched, report.Enriched, report.Skipped, report.Written, report.Duplicates, report.Duration.Round(time.Millisecond))
	return report, nil
}

// enrichLine turns one raw line into an enriched prop. A non-empty reason
// drops the record (unresolvable player); otherwise missing context leaves
// the corresponding fields nil and the record goes through partial. A
// missing score must never present as a zero-edge recommendation.
func (p *Pipeline) enrichLine(ctx context.Context, raw nfl.RawLine, games []nfl.Game, opts RunOptions, runID string) (*models.EnrichedProp, string) {
	playerKey := normalize.PlayerKey(raw.Player)
	if playerKey == "" {
		return nil, "empty_player"
	}

	prop := &models.EnrichedProp{
		RunID:     runID,
		Season:    opts.Season,
		Week:      opts.Week,
		Player:    raw.Player,
		PlayerKey: playerKey,
		Prop:      raw.Prop,
		Line:      raw.Line,
		Side:      string(raw.Side),
		Odds:      raw.Odds,
		Source:    raw.Source,
	}

	statsID, err := p.stats.ResolvePlayerID(ctx, raw.Player)
	if err != nil {
		p.logger.Warnf("Identifier lookup failed for %s: %v", raw.Player, err)
		return nil, "identifier_error"
	}
	if statsID == "" {
		p.logger.Infof("No identifier for %s, skipping", raw.Player)
		return nil, "no_identifier"
	}

	// Matchup context: missing team or opponent skips scoring, not the record.
	var team models.PlayerTeam
	if err := p.db.DB.Where("player_key = ?", playerKey).First(&team).Error; err == nil {
		prop.Team = team.Team
		if game := FindGame(team.Team, games); game != nil {
			prop.Matchup = game.Matchup
			gameDate := game.Kickoff
			prop.GameDate = &gameDate
			prop.Opponent = Opponent(team.Team, game.Matchup)
		}
	} else {
		p.logger.Debugf("No team mapping for %s", raw.Player)
	}

	logs, err := p.stats.GetGameLog(ctx, statsID, opts.Season)
	if err != nil {
		p.logger.Warnf("Game log fetch failed for %s: %v", raw.Player, err)
		logs = nil
	}

	if len(logs) > 0 {
		prop.PlayerAvg = CalculateAvg(logs, raw.Prop, opts.Week)
		prop.SeasonHitPct = CalculateHitPct(logs, raw.Prop, raw.Line, raw.Side, opts.Week)
	}

	if prop.Opponent != "" {
		entry, err := p.defense.GetEntry(ctx, raw.Prop, prop.Opponent, opts.Season)
		if err != nil {
			p.logger.Warnf("Defense lookup failed for %s vs %s: %v", raw.Prop, prop.Opponent, err)
		} else if entry != nil {
			rank := entry.Rank
			avg := entry.Avg
			prop.OppRank = &rank
			prop.OppAvg = &avg
		}
	}

	// Run 1 requires every projection input; anything missing leaves the
	// scoring fields unset.
	if prop.PlayerAvg == nil || prop.OppRank == nil || prop.OppAvg == nil {
		return prop, ""
	}

	proj := ScoreProjection(*prop.PlayerAvg, *prop.OppRank, *prop.OppAvg, raw.Line)
	prop.YardsScore = &proj.YardsScore
	prop.RankScore = &proj.RankScore
	prop.TotalScore = &proj.TotalScore
	prop.ScoreDiff = &proj.ScoreDiff
	prop.ScalingFactor = &proj.ScalingFactor
	prop.WinProbability = &proj.WinProbability
	if proj.RecommendedSide != nil {
		side := string(*proj.RecommendedSide)
		prop.RecommendedSide = &side
		prop.ProjWinPct = &proj.ProjWinPct
	}

	// Run 2 only with a completed run 1 and a usable price.
	if prop.ProjWinPct == nil || raw.Odds == 0 {
		return prop, ""
	}

	market, err := ScoreMarket(*prop.ProjWinPct, prop.SeasonHitPct, raw.Odds, raw.Prop)
	if err != nil {
		return prop, ""
	}
	prop.AvgWinProb = &market.AvgWinProb
	prop.ImpliedProb = &market.ImpliedProb
	prop.EdgePct = &market.EdgePct
	prop.ExpectedValue = &market.ExpectedValue
	prop.KellyPct = market.KellyPct
	prop.ValueTag = &market.ValueTag
	prop.ConfidenceScore = market.ConfidenceScore

	return prop, ""
}
