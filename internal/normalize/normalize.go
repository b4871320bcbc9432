package normalize

import (
	"regexp"
	"strings"

	"github.com/jstittsworth/prop-sheet/internal/nfl"
)

// propAliases maps cleaned-up source labels to canonical keys. Sources are
// wildly inconsistent ("Receiving Yards", "rec yds", "REC+RUSH YARDS"), so
// everything is lowercased and whitespace-collapsed before lookup.
var propAliases = map[string]string{
	"pass yds":            nfl.StatPassYds,
	"passing yards":       nfl.StatPassYds,
	"pass yards":          nfl.StatPassYds,
	"pass tds":            nfl.StatPassTDs,
	"passing touchdowns":  nfl.StatPassTDs,
	"passing tds":         nfl.StatPassTDs,
	"pass touchdowns":     nfl.StatPassTDs,
	"pass attempts":       nfl.StatPassAtts,
	"passing attempts":    nfl.StatPassAtts,
	"completions":         nfl.StatCompletions,
	"pass completions":    nfl.StatCompletions,
	"interceptions":       nfl.StatInterceptions,
	"ints":                nfl.StatInterceptions,
	"rush yds":            nfl.StatRushYds,
	"rushing yards":       nfl.StatRushYds,
	"rush yards":          nfl.StatRushYds,
	"rush attempts":       nfl.StatRushAtts,
	"rushing attempts":    nfl.StatRushAtts,
	"carries":             nfl.StatRushAtts,
	"rush tds":            nfl.StatRushTDs,
	"rushing touchdowns":  nfl.StatRushTDs,
	"rec yds":             nfl.StatRecYds,
	"receiving yards":     nfl.StatRecYds,
	"rec yards":           nfl.StatRecYds,
	"receptions":          nfl.StatReceptions,
	"catches":             nfl.StatReceptions,
	"rec tds":             nfl.StatRecTDs,
	"receiving touchdowns": nfl.StatRecTDs,
	"anytime td":          nfl.StatAnytimeTD,
	"anytime touchdown":   nfl.StatAnytimeTD,
	"td scorer":           nfl.StatAnytimeTD,
	"rush+rec yds":        nfl.StatRushRecYds,
	"rush+rec yards":      nfl.StatRushRecYds,
	"rec+rush yds":        nfl.StatRushRecYds,
	"rec+rush yards":      nfl.StatRushRecYds,
	// Lookup happens after " + " collapses to "+"
	"rushing+receiving yards": nfl.StatRushRecYds,
	"pass+rush yds":           nfl.StatPassRushYds,
	"pass+rush yards":         nfl.StatPassRushYds,
	"passing+rushing yards":   nfl.StatPassRushYds,
}

// compositeComponents maps each composite canonical key to its ordered
// component keys.
var compositeComponents = map[string][]string{
	nfl.StatRushRecYds:  {nfl.StatRushYds, nfl.StatRecYds},
	nfl.StatPassRushYds: {nfl.StatPassYds, nfl.StatRushYds},
}

// teamAbbrs maps full names, nicknames, and cities to the abbreviation every
// downstream stage keys on.
var teamAbbrs = map[string]string{
	"arizona cardinals":    "ARI",
	"cardinals":            "ARI",
	"atlanta falcons":      "ATL",
	"falcons":              "ATL",
	"baltimore ravens":     "BAL",
	"ravens":               "BAL",
	"buffalo bills":        "BUF",
	"bills":                "BUF",
	"carolina panthers":    "CAR",
	"panthers":             "CAR",
	"chicago bears":        "CHI",
	"bears":                "CHI",
	"cincinnati bengals":   "CIN",
	"bengals":              "CIN",
	"cleveland browns":     "CLE",
	"browns":               "CLE",
	"dallas cowboys":       "DAL",
	"cowboys":              "DAL",
	"denver broncos":       "DEN",
	"broncos":              "DEN",
	"detroit lions":        "DET",
	"lions":                "DET",
	"green bay packers":    "GB",
	"packers":              "GB",
	"houston texans":       "HOU",
	"texans":               "HOU",
	"indianapolis colts":   "IND",
	"colts":                "IND",
	"jacksonville jaguars": "JAX",
	"jaguars":              "JAX",
	"kansas city chiefs":   "KC",
	"chiefs":               "KC",
	"las vegas raiders":    "LV",
	"raiders":              "LV",
	"los angeles chargers": "LAC",
	"chargers":             "LAC",
	"los angeles rams":     "LAR",
	"rams":                 "LAR",
	"miami dolphins":       "MIA",
	"dolphins":             "MIA",
	"minnesota vikings":    "MIN",
	"vikings":              "MIN",
	"new england patriots": "NE",
	"patriots":             "NE",
	"new orleans saints":   "NO",
	"saints":               "NO",
	"new york giants":      "NYG",
	"giants":               "NYG",
	"new york jets":        "NYJ",
	"jets":                 "NYJ",
	"philadelphia eagles":  "PHI",
	"eagles":               "PHI",
	"pittsburgh steelers":  "PIT",
	"steelers":             "PIT",
	"san francisco 49ers":  "SF",
	"49ers":                "SF",
	"seattle seahawks":     "SEA",
	"seahawks":             "SEA",
	"tampa bay buccaneers": "TB",
	"buccaneers":           "TB",
	"tennessee titans":     "TEN",
	"titans":               "TEN",
	"washington commanders": "WAS",
	"commanders":           "WAS",
}

// knownAbbrs is the reverse check so existing abbreviations pass through.
var knownAbbrs = func() map[string]bool {
	m := make(map[string]bool, 32)
	for _, abbr := range teamAbbrs {
		m[abbr] = true
	}
	return m
}()

var (
	suffixRe = regexp.MustCompile(`\b(jr|sr|ii|iii|iv|v)\.?$`)
	punctRe  = regexp.MustCompile(`[.'’,]`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// PropKey canonicalizes a free-text prop label. ok is false when the label
// maps to nothing we score.
func PropKey(label string) (string, bool) {
	cleaned := spaceRe.ReplaceAllString(strings.TrimSpace(strings.ToLower(label)), " ")
	cleaned = strings.ReplaceAll(cleaned, " + ", "+")
	if key, ok := propAliases[cleaned]; ok {
		return key, true
	}
	return "", false
}

// Components decomposes a composite canonical key into its ordered component
// keys. ok is false for simple keys and for composites with any unmapped
// member, so callers skip the composite path instead of mis-scoring it.
func Components(key string) ([]string, bool) {
	parts, ok := compositeComponents[key]
	if !ok {
		return nil, false
	}
	for _, p := range parts {
		if _, valid := (nfl.GameLog{}).Stat(p); !valid {
			return nil, false
		}
	}
	return parts, true
}

// TeamAbbr resolves a free-text team name to its abbreviation. Unknown names
// degrade to an uppercase 3-letter truncation rather than failing, so one
// oddball label never drops a record on the floor.
func TeamAbbr(name string) string {
	trimmed := strings.TrimSpace(name)
	upper := strings.ToUpper(trimmed)
	if knownAbbrs[upper] {
		return upper
	}
	if abbr, ok := teamAbbrs[strings.ToLower(trimmed)]; ok {
		return abbr
	}
	cleaned := strings.ReplaceAll(upper, " ", "")
	if len(cleaned) > 3 {
		cleaned = cleaned[:3]
	}
	return cleaned
}

// PlayerKey normalizes a full player name into the lowercase join key used
// across the schedule, identifier, and stats stages. Suffixes, punctuation,
// and hyphens are stripped so "A.J. Brown" and "AJ Brown" collide.
func PlayerKey(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = punctRe.ReplaceAllString(key, "")
	key = strings.ReplaceAll(key, "-", " ")
	key = spaceRe.ReplaceAllString(key, " ")
	key = suffixRe.ReplaceAllString(strings.TrimSpace(key), "")
	return strings.TrimSpace(key)
}
