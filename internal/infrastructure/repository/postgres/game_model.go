package postgres

import (
	"database/sql"
	"time"
)

type canonicalGameTableModel struct {
	GameID     string    `db:"game_id"`
	GameDate   time.Time `db:"game_date"`
	Season     int       `db:"season"`
	SeasonType string    `db:"season_type"`
	HomeTeamID string    `db:"home_team_id"`
	AwayTeamID string    `db:"away_team_id"`
	Published  bool      `db:"published"`
}

type identityBridgeTableModel struct {
	LegacyID       string         `db:"legacy_game_id"`
	GameID         sql.NullString `db:"game_id"`
	Status         string         `db:"status"`
	CandidateCount int            `db:"candidate_count"`
}

type homeAwayOverrideTableModel struct {
	GameID       string     `db:"game_id"`
	GameDate     *time.Time `db:"game_date"`
	Season       *int       `db:"season"`
	TeamIDHome   string     `db:"team_id_home"`
	TeamIDAway   string     `db:"team_id_away"`
	HomeOverride bool       `db:"home_override"`
	AwayOverride bool       `db:"away_override"`
	Source       string     `db:"source"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
