package feed

import "time"

// Vendor tags the raw shape a row arrived in. Each vendor gets its own
// variant with an explicit mapping into the normalized shape; the engine
// never relies on column names coinciding across feeds.
type Vendor string

const (
	VendorGameLog  Vendor = "game_log"
	VendorBoxScore Vendor = "box_score_team"
	VendorLegacy   Vendor = "legacy_log"
)

// GameLogRow is one (game, team) line from the modern game-log feed. Every
// field is the feed's own text representation; nothing is trusted yet.
type GameLogRow struct {
	SeasonID   string
	GameID     string
	TeamID     string
	TeamAbbr   string
	GameDate   string
	Matchup    string
	WinLoss    string
	SeasonType string
	Minutes    string
	Pts        string
	Fgm        string
	Fga        string
	Fg3m       string
	Fg3a       string
	Ftm        string
	Fta        string
	Reb        string
	Ast        string
	Stl        string
	Blk        string
	Tov        string
	Pf         string
}

// BoxScoreTeamRow is one (game, team) line from the authoritative box-score
// feed. It carries a structured side marker and an independent point total.
type BoxScoreTeamRow struct {
	GameID    string
	TeamID    string
	Side      string // "home" or "away" as reported
	GameDate  string
	Minutes   string // "240:00" style or decimal text
	Pts       string
	OtPeriods string
}

// LegacyGameRow is one (game, team) line from the legacy-era feed. Its
// identifier space is disjoint from the modern one; only the date and the
// unordered team pair bridge the eras.
type LegacyGameRow struct {
	LegacyID   string
	GameDate   string
	TeamID     string
	OpponentID string
	SeasonType string
	WinLoss    string
	Matchup    string
	Minutes    string
	Pts        string
	Fgm        string
	Fga        string
	Ftm        string
	Fta        string
	Reb        string
	Ast        string
	Pf         string
}

// Side is the structured home/away marker carried by the box-score vendor.
type Side int

const (
	SideUnknown Side = iota
	SideHome
	SideAway
)

// TeamGameRow is the normalized (game, team) relation produced by the
// Source Normalizer: fixed columns, fixed types, missing values explicit.
type TeamGameRow struct {
	Vendor     Vendor
	GameID     string
	LegacyID   string
	TeamID     string
	OpponentID string
	GameDate   time.Time
	HasDate    bool
	SeasonType string // canonical label text, "" when unknown
	Matchup    string
	WinLoss    string
	SideHint   Side
	Minutes    *float64
	OtPeriods  *int
	Stats      map[string]*float64
}

// Stat returns the normalized value for a canonical stat field, nil when
// missing or never reported by this vendor.
func (r TeamGameRow) Stat(field string) *float64 {
	if r.Stats == nil {
		return nil
	}
	return r.Stats[field]
}

// Snapshot is the fully materialized output of the Source Normalizer. Later
// stages consume it as an immutable input.
type Snapshot struct {
	TeamRows []TeamGameRow
}
