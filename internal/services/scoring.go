package services

import (
	"fmt"
	"math"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

// Value tags bucket the market edge for downstream display and alerting.
const (
	ValueStrong   = "strong"
	ValueModerate = "moderate"
	ValueWeak     = "weak"
)

// Projection is the run-1 output: a deterministic model score for a single
// line, turned into a probability for the recommended side.
type Projection struct {
	YardsScore     float64
	RankScore      float64
	TotalScore     float64
	ScoreDiff      float64
	ScalingFactor  float64
	WinProbability float64
	// RecommendedSide is nil when the model score lands exactly on the line.
	RecommendedSide *nfl.Side
	ProjWinPct      float64
}

// MarketScore is the run-2 output: the model probability measured against
// the market price. Run-2 fields are additive and never overwrite run-1.
type MarketScore struct {
	AvgWinProb    float64
	ImpliedProb   float64
	EdgePct       float64
	ExpectedValue float64
	// KellyPct is nil when there is no positive edge to stake.
	KellyPct *float64
	ValueTag string
	// ConfidenceScore is nil without a season hit rate to blend.
	ConfidenceScore *float64
}

// ScoreProjection runs the projection formula. The opponent rank (1-32) is
// rescaled onto 0-10 so it is commensurable with yardage-scale adjustments,
// and the logistic turns the unbounded score differential into a proper
// probability. ProjWinPct is always the probability of the recommended
// outcome, never "probability of Over".
func ScoreProjection(playerAvg float64, oppRank int, oppAvg float64, line float64) Projection {
	proj := Projection{
		YardsScore: playerAvg + oppAvg/100,
		RankScore:  float64(oppRank) / 32 * 10,
	}
	proj.TotalScore = proj.YardsScore - proj.RankScore
	proj.ScoreDiff = proj.TotalScore - line
	proj.ScalingFactor = proj.ScoreDiff / 10
	proj.WinProbability = 1 / (1 + math.Exp(-proj.ScalingFactor))

	switch {
	case proj.ScoreDiff > 0:
		side := nfl.SideOver
		proj.RecommendedSide = &side
		proj.ProjWinPct = proj.WinProbability
	case proj.ScoreDiff < 0:
		side := nfl.SideUnder
		proj.RecommendedSide = &side
		proj.ProjWinPct = 1 - proj.WinProbability
	}

	return proj
}

// ScoreMarket runs the market-comparison formulas. odds must be a usable
// American price; callers with no price skip run-2 entirely rather than
// defaulting anything to zero.
func ScoreMarket(projWinPct float64, seasonHitPct *float64, odds int, propKey string) (MarketScore, error) {
	if odds == 0 {
		return MarketScore{}, fmt.Errorf("no usable price")
	}

	avgWinProb := projWinPct
	if seasonHitPct != nil {
		avgWinProb = (projWinPct + *seasonHitPct) / 2
	}

	implied := ImpliedProbability(odds)
	edge := avgWinProb - implied
	b := NetPayoutOdds(odds)

	score := MarketScore{
		AvgWinProb:  avgWinProb,
		ImpliedProb: implied,
		EdgePct:     edge,
		// Clamped at 200% return so degenerate longshot prices can't produce
		// unbounded recommendations.
		ExpectedValue: math.Min(avgWinProb*b-(1-avgWinProb), 2),
		ValueTag:      valueTag(edge),
	}

	if edge > 0 {
		kelly := (b*avgWinProb - (1 - avgWinProb)) / b
		kelly = math.Min(math.Max(kelly, 0), KellyCap(propKey))
		score.KellyPct = &kelly
	}

	if seasonHitPct != nil {
		confidence := 0.5*projWinPct + 0.3**seasonHitPct + 0.2*avgWinProb
		score.ConfidenceScore = &confidence
	}

	return score, nil
}

// ImpliedProbability converts an American price into the market's implied
// win probability.
func ImpliedProbability(odds int) float64 {
	if odds > 0 {
		return 100 / (float64(odds) + 100)
	}
	abs := math.Abs(float64(odds))
	return abs / (abs + 100)
}

// NetPayoutOdds converts an American price into net payout odds b
// (profit per unit staked).
func NetPayoutOdds(odds int) float64 {
	if odds > 0 {
		return float64(odds) / 100
	}
	return 100 / math.Abs(float64(odds))
}

// KellyCap returns the per-category stake ceiling. A hand-tuned volatility
// guard, not derived from the Kelly formula: binary touchdown markets swing
// hardest, passing touchdowns next.
func KellyCap(propKey string) float64 {
	switch propKey {
	case nfl.StatAnytimeTD:
		return 0.02
	case nfl.StatPassTDs:
		return 0.05
	default:
		return 0.10
	}
}

func valueTag(edge float64) string {
	switch {
	case edge > 0.10:
		return ValueStrong
	case edge > 0.05:
		return ValueModerate
	default:
		return ValueWeak
	}
}

// SettleProfit computes realized profit/loss for a settled bet from the
// American-odds payout formula: full net payout on a Win, the stake lost on
// a Loss, zero on a Push.
func SettleProfit(result string, stake float64, odds int) float64 {
	switch result {
	case "Win":
		return math.Round(stake*NetPayoutOdds(odds)*100) / 100
	case "Loss":
		return -stake
	default:
		return 0
	}
}
