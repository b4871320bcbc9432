package models

import (
	"time"
)

// EnrichedProp is the terminal record of an enrichment pass: the raw line
// plus matchup context, trailing averages, both scoring runs, and (after the
// game) the settlement fields. One row per (season, week, player, prop, side).
//
// Optional fields are pointers: a missing score must read as NULL downstream,
// never as a zero-edge recommendation.
type EnrichedProp struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	RunID  string `gorm:"index" json:"run_id"`
	Season int    `gorm:"not null;index:idx_props_week" json:"season"`
	Week   int    `gorm:"not null;index:idx_props_week" json:"week"`

	// Raw line
	Player    string  `gorm:"not null" json:"player"`
	PlayerKey string  `gorm:"not null;index" json:"player_key"`
	Prop      string  `gorm:"not null" json:"prop"` // canonical key
	Line      float64 `json:"line"`
	Side      string  `json:"side"`
	Odds      int     `json:"odds"` // American
	Source    string  `json:"source"`

	// Matchup context
	Team     string     `json:"team"`
	Opponent string     `json:"opponent"`
	Matchup  string     `json:"matchup"`
	GameDate *time.Time `json:"game_date,omitempty"`

	// Inputs
	PlayerAvg    *float64 `json:"player_avg,omitempty"`
	OppRank      *int     `json:"opp_rank,omitempty"`
	OppAvg       *float64 `json:"opp_avg,omitempty"`
	SeasonHitPct *float64 `json:"season_hit_pct,omitempty"`

	// Run 1 — projection
	YardsScore      *float64 `json:"yards_score,omitempty"`
	RankScore       *float64 `json:"rank_score,omitempty"`
	TotalScore      *float64 `json:"total_score,omitempty"`
	ScoreDiff       *float64 `json:"score_diff,omitempty"`
	ScalingFactor   *float64 `json:"scaling_factor,omitempty"`
	WinProbability  *float64 `json:"win_probability,omitempty"`
	RecommendedSide *string  `json:"recommended_side,omitempty"`
	ProjWinPct      *float64 `json:"proj_win_pct,omitempty"`

	// Run 2 — market comparison (additive; never overwrites run 1)
	AvgWinProb      *float64 `json:"avg_win_prob,omitempty"`
	ImpliedProb     *float64 `json:"implied_prob,omitempty"`
	EdgePct         *float64 `json:"edge_pct,omitempty"`
	ExpectedValue   *float64 `json:"expected_value,omitempty"`
	KellyPct        *float64 `json:"kelly_pct,omitempty"`
	ValueTag        *string  `json:"value_tag,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`

	// Settlement — written only by the post-event pass
	BetAmount    *float64 `json:"bet_amount,omitempty"`
	ActualStat   *float64 `json:"actual_stat,omitempty"`
	ActualResult *string  `json:"actual_result,omitempty"` // "Win", "Loss", "Push"
	ProfitLoss   *float64 `json:"profit_loss,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (EnrichedProp) TableName() string {
	return "enriched_props"
}
