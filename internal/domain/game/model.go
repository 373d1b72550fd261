package game

import (
	"sort"
	"strings"
	"time"
)

// SeasonType is the categorical phase of a game.
type SeasonType string

const (
	SeasonTypeUnknown SeasonType = ""
	SeasonTypeRegular SeasonType = "REG"
	SeasonTypePre     SeasonType = "PRE"
	SeasonTypePost    SeasonType = "POST"
	SeasonTypePlayIn  SeasonType = "PLAYIN"
	SeasonTypeAllStar SeasonType = "ALLSTAR"
)

var seasonTypeSynonyms = map[string]SeasonType{
	"reg":            SeasonTypeRegular,
	"regular":        SeasonTypeRegular,
	"regular season": SeasonTypeRegular,
	"pre":            SeasonTypePre,
	"preseason":      SeasonTypePre,
	"pre season":     SeasonTypePre,
	"pre-season":     SeasonTypePre,
	"post":           SeasonTypePost,
	"playoffs":       SeasonTypePost,
	"playoff":        SeasonTypePost,
	"postseason":     SeasonTypePost,
	"playin":         SeasonTypePlayIn,
	"play-in":        SeasonTypePlayIn,
	"play in":        SeasonTypePlayIn,
	"playin tournament": SeasonTypePlayIn,
	"allstar":        SeasonTypeAllStar,
	"all-star":       SeasonTypeAllStar,
	"all star":       SeasonTypeAllStar,
}

// ParseSeasonType canonicalizes a feed-reported season phase label.
// Unknown labels map to SeasonTypeUnknown rather than failing.
func ParseSeasonType(raw string) SeasonType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if st, ok := seasonTypeSynonyms[key]; ok {
		return st
	}
	return SeasonTypeUnknown
}

// SeasonYear returns the season label for a game date. Games from August
// onward belong to the season starting that calendar year.
func SeasonYear(d time.Time) int {
	if d.Month() >= time.August {
		return d.Year()
	}
	return d.Year() - 1
}

// AllowedInMonth reports whether a resolved season type is consistent with
// the calendar month: regular-season games cannot fall in May-July and
// playoff games cannot fall in September-October.
func (st SeasonType) AllowedInMonth(m time.Month) bool {
	switch st {
	case SeasonTypeRegular:
		return m != time.May && m != time.June && m != time.July
	case SeasonTypePost:
		return m != time.September && m != time.October
	default:
		return true
	}
}

// SeasonTypeForMonth is the tie-break heuristic when contributing sources
// disagree: May-July implies playoffs, September-October implies preseason,
// anything else implies regular season.
func SeasonTypeForMonth(m time.Month) SeasonType {
	switch m {
	case time.May, time.June, time.July:
		return SeasonTypePost
	case time.September, time.October:
		return SeasonTypePre
	default:
		return SeasonTypeRegular
	}
}

// Game is the canonical identity of one real event.
type Game struct {
	GameID     string
	GameDate   time.Time
	Season     int
	SeasonType SeasonType
	HomeTeamID string
	AwayTeamID string
}

// TeamPair is an unordered pair of team identifiers, the only join key that
// is reliable across identifier eras.
type TeamPair struct {
	Low  string
	High string
}

func NewTeamPair(a, b string) TeamPair {
	if a > b {
		a, b = b, a
	}
	return TeamPair{Low: a, High: b}
}

// BridgeStatus tags a legacy identifier's resolution outcome. Unresolved
// states are explicit so callers cannot mistake them for a resolved match.
type BridgeStatus string

const (
	BridgeResolved  BridgeStatus = "resolved"
	BridgeAmbiguous BridgeStatus = "ambiguous"
	BridgeUnmatched BridgeStatus = "unmatched"
)

// BridgeEntry maps one legacy-era identifier to at most one canonical game.
type BridgeEntry struct {
	LegacyID       string
	GameID         string
	Status         BridgeStatus
	CandidateCount int
}

// Override is a manually curated home/away correction. Ground truth: it
// takes precedence over every inferred side assignment.
type Override struct {
	GameID       string
	GameDate     *time.Time
	Season       *int
	TeamIDHome   string
	TeamIDAway   string
	HomeOverride bool
	AwayOverride bool
	Source       string
	UpdatedAt    time.Time
}

// SortGames orders games by id so repeated runs over an unchanged snapshot
// produce byte-identical output.
func SortGames(games []Game) {
	sort.Slice(games, func(i, j int) bool { return games[i].GameID < games[j].GameID })
}
