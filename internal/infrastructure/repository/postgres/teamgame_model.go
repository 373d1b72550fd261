package postgres

import "time"

type canonicalTeamGameTableModel struct {
	GameID         string    `db:"game_id"`
	TeamID         string    `db:"team_id"`
	Season         int       `db:"season"`
	SeasonType     string    `db:"season_type"`
	GameDate       time.Time `db:"game_date"`
	Side           string    `db:"side"`
	SideSource     string    `db:"side_source"`
	WinLoss        string    `db:"wl"`
	Minutes        *float64  `db:"min"`
	MinutesInvalid bool      `db:"min_invalid"`
	OtPeriods      int       `db:"ot_periods"`
	PtsReported    *float64  `db:"pts_reported"`
	PtsFormula     *float64  `db:"pts_formula"`
	PtsBox         *float64  `db:"pts_box"`
	PtsSource      string    `db:"pts_source"`
	PtsMismatch    bool      `db:"pts_mismatch"`
	FgPct          *float64  `db:"fg_pct"`
	Fg3Pct         *float64  `db:"fg3_pct"`
	FtPct          *float64  `db:"ft_pct"`
	Stats          []byte    `db:"stats"`
	Imputed        []byte    `db:"imputed"`
	Published      bool      `db:"published"`
}
