package nfl

import (
	"time"
)

// Side is the over/under direction of a proposition.
type Side string

const (
	SideOver  Side = "Over"
	SideUnder Side = "Under"
)

// Canonical prop/stat keys. Every stage joins on these, never on the raw
// labels the odds sources emit.
const (
	StatPassYds     = "pass yds"
	StatPassTDs     = "pass tds"
	StatPassAtts    = "pass attempts"
	StatCompletions = "completions"
	StatInterceptions = "interceptions"
	StatRushYds     = "rush yds"
	StatRushAtts    = "rush attempts"
	StatRushTDs     = "rush tds"
	StatRecYds      = "rec yds"
	StatReceptions  = "receptions"
	StatRecTDs      = "rec tds"
	StatAnytimeTD   = "anytime td"
	StatRushRecYds  = "rush+rec yds"
	StatPassRushYds = "pass+rush yds"
)

// StatKeys lists every simple (non-composite) canonical key. The defense
// fetcher pulls one ranking table per entry.
var StatKeys = []string{
	StatPassYds,
	StatPassTDs,
	StatPassAtts,
	StatCompletions,
	StatInterceptions,
	StatRushYds,
	StatRushAtts,
	StatRushTDs,
	StatRecYds,
	StatReceptions,
	StatRecTDs,
	StatAnytimeTD,
}

// RawLine is one scraped proposition. It lives only for the duration of an
// enrichment pass and is never persisted directly.
type RawLine struct {
	Player string  `json:"player"`
	Prop   string  `json:"prop"` // canonical key
	Line   float64 `json:"line"`
	Side   Side    `json:"side"`
	Odds   int     `json:"odds"` // American
	Source string  `json:"source"`
}

// GameLog is one completed game's boxscore for a player. Immutable once the
// game has occurred.
type GameLog struct {
	Week        int       `json:"week"`
	Date        time.Time `json:"date"`
	PassYds     float64   `json:"pass_yds"`
	PassAtts    float64   `json:"pass_atts"`
	Completions float64   `json:"completions"`
	PassTDs     float64   `json:"pass_tds"`
	Interceptions float64 `json:"interceptions"`
	RushYds     float64   `json:"rush_yds"`
	RushAtts    float64   `json:"rush_atts"`
	RushTDs     float64   `json:"rush_tds"`
	RecYds      float64   `json:"rec_yds"`
	Receptions  float64   `json:"receptions"`
	RecTDs      float64   `json:"rec_tds"`
}

// Stat returns the value of a simple canonical key for this game. For the
// binary anytime-TD key the value is 1 when the player found the end zone on
// the ground or through the air, 0 otherwise.
func (g GameLog) Stat(key string) (float64, bool) {
	switch key {
	case StatPassYds:
		return g.PassYds, true
	case StatPassTDs:
		return g.PassTDs, true
	case StatPassAtts:
		return g.PassAtts, true
	case StatCompletions:
		return g.Completions, true
	case StatInterceptions:
		return g.Interceptions, true
	case StatRushYds:
		return g.RushYds, true
	case StatRushAtts:
		return g.RushAtts, true
	case StatRushTDs:
		return g.RushTDs, true
	case StatRecYds:
		return g.RecYds, true
	case StatReceptions:
		return g.Receptions, true
	case StatRecTDs:
		return g.RecTDs, true
	case StatAnytimeTD:
		if g.RushTDs > 0 || g.RecTDs > 0 {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// HadTouch reports whether the player recorded any offensive touch. Touchless
// games are excluded from the anytime-TD denominator.
func (g GameLog) HadTouch() bool {
	return g.PassAtts > 0 || g.RushAtts > 0 || g.Receptions > 0
}

// DefenseEntry is a team's rank and per-game average allowed for one stat
// category. Rank is always within [1, 32] for scraped entries; composite
// entries are derived, never scraped.
type DefenseEntry struct {
	Rank int     `json:"rank"`
	Avg  float64 `json:"avg"`
}

// Game is one schedule entry for a week.
type Game struct {
	Week    int       `json:"week"`
	Kickoff time.Time `json:"kickoff"`
	Home    string    `json:"home"`
	Away    string    `json:"away"`
	Matchup string    `json:"matchup"` // "AWAY @ HOME", the canonical opponent source
}

// CacheProvider is the cross-run response cache providers write through.
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
