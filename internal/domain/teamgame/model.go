package teamgame

import (
	"sort"
	"time"

	"github.com/courtledger/courtledger/internal/domain/game"
)

// Side is the resolved home/away state of one team row. SideUnresolved is a
// first-class state, not a default to be guessed over.
type Side int

const (
	SideUnresolved Side = iota
	SideHome
	SideAway
)

func (s Side) String() string {
	switch s {
	case SideHome:
		return "home"
	case SideAway:
		return "away"
	default:
		return "unresolved"
	}
}

// SideSource names the signal that resolved a side assignment.
type SideSource string

const (
	SideSourceNone     SideSource = ""
	SideSourceOverride SideSource = "override"
	SideSourceBoxScore SideSource = "box_score"
	SideSourceMatchup  SideSource = "matchup"
)

// PtsSource names the estimate selected as pts by the reconciler.
type PtsSource string

const (
	PtsSourceNone     PtsSource = ""
	PtsSourceBoxScore PtsSource = "box_score"
	PtsSourceFormula  PtsSource = "formula"
	PtsSourceReported PtsSource = "reported"
	PtsSourceImputed  PtsSource = "imputed"
)

// StatFields lists the canonical numeric box-score fields in column order.
// Minutes is validated, not imputed, so it is not part of this list.
var StatFields = []string{
	"pts", "fgm", "fga", "fg3m", "fg3a", "ftm", "fta",
	"reb", "ast", "stl", "blk", "tov", "pf",
}

// TeamGame is the reconciled statistical line for one (game, team).
type TeamGame struct {
	GameID     string
	TeamID     string
	Season     int
	SeasonType game.SeasonType
	GameDate   time.Time

	Side       Side
	SideSource SideSource
	WinLoss    string

	Minutes        *float64
	MinutesInvalid bool
	OtPeriods      int

	PtsReported *float64
	PtsFormula  *float64
	PtsBox      *float64
	PtsSource   PtsSource
	PtsMismatch bool

	FgPct  *float64
	Fg3Pct *float64
	FtPct  *float64

	Stats   map[string]*float64
	Imputed map[string]bool
}

// Stat returns the reconciled value for a canonical stat field.
func (tg *TeamGame) Stat(field string) *float64 {
	if tg.Stats == nil {
		return nil
	}
	return tg.Stats[field]
}

// SetStat records a value for a canonical stat field.
func (tg *TeamGame) SetStat(field string, v *float64) {
	if tg.Stats == nil {
		tg.Stats = make(map[string]*float64, len(StatFields))
	}
	tg.Stats[field] = v
}

// MarkImputed flags a field as substituted rather than observed.
func (tg *TeamGame) MarkImputed(field string) {
	if tg.Imputed == nil {
		tg.Imputed = make(map[string]bool)
	}
	tg.Imputed[field] = true
}

// WasImputed reports the provenance flag for a field.
func (tg *TeamGame) WasImputed(field string) bool {
	return tg.Imputed[field]
}

// Sort orders rows by (game_id, team_id) for deterministic output.
func Sort(rows []TeamGame) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].GameID != rows[j].GameID {
			return rows[i].GameID < rows[j].GameID
		}
		return rows[i].TeamID < rows[j].TeamID
	})
}
