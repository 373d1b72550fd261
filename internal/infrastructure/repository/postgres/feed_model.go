package postgres

// Raw feed tables keep every cell as delivered text. Casting happens in the
// normalizer, never in SQL, so malformed cells stay inspectable.

type rawGameLogTableModel struct {
	SeasonID   string `db:"season_id"`
	GameID     string `db:"game_id"`
	TeamID     string `db:"team_id"`
	TeamAbbr   string `db:"team_abbreviation"`
	GameDate   string `db:"game_date"`
	Matchup    string `db:"matchup"`
	WinLoss    string `db:"wl"`
	SeasonType string `db:"season_type"`
	Minutes    string `db:"min"`
	Pts        string `db:"pts"`
	Fgm        string `db:"fgm"`
	Fga        string `db:"fga"`
	Fg3m       string `db:"fg3m"`
	Fg3a       string `db:"fg3a"`
	Ftm        string `db:"ftm"`
	Fta        string `db:"fta"`
	Reb        string `db:"reb"`
	Ast        string `db:"ast"`
	Stl        string `db:"stl"`
	Blk        string `db:"blk"`
	Tov        string `db:"tov"`
	Pf         string `db:"pf"`
}

type rawBoxScoreTeamTableModel struct {
	GameID    string `db:"game_id"`
	TeamID    string `db:"team_id"`
	Side      string `db:"side"`
	GameDate  string `db:"game_date"`
	Minutes   string `db:"min"`
	Pts       string `db:"pts"`
	OtPeriods string `db:"ot_periods"`
}

type legacyGameLogTableModel struct {
	LegacyID   string `db:"legacy_game_id"`
	GameDate   string `db:"game_date"`
	TeamID     string `db:"team_id"`
	OpponentID string `db:"opponent_team_id"`
	SeasonType string `db:"season_type"`
	WinLoss    string `db:"wl"`
	Matchup    string `db:"matchup"`
	Minutes    string `db:"min"`
	Pts        string `db:"pts"`
	Fgm        string `db:"fgm"`
	Fga        string `db:"fga"`
	Ftm        string `db:"ftm"`
	Fta        string `db:"fta"`
	Reb        string `db:"reb"`
	Ast        string `db:"ast"`
	Pf         string `db:"pf"`
}
