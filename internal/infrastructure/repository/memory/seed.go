package memory

import (
	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
)

// Seed data for local runs without a database: two modern games from both
// vendors, one legacy game bridging onto the first, and one manual
// home/away correction.

func SeedGameLogRows() []feed.GameLogRow {
	return []feed.GameLogRow{
		{
			SeasonID: "22023", GameID: "0022300451", TeamID: "1610612738", TeamAbbr: "BOS",
			GameDate: "2024-01-15", Matchup: "BOS vs. NYK", WinLoss: "W", SeasonType: "Regular Season",
			Minutes: "240", Pts: "118", Fgm: "44", Fga: "92", Fg3m: "15", Fg3a: "40",
			Ftm: "15", Fta: "19", Reb: "46", Ast: "28", Stl: "8", Blk: "6", Tov: "12", Pf: "17",
		},
		{
			SeasonID: "22023", GameID: "0022300451", TeamID: "1610612752", TeamAbbr: "NYK",
			GameDate: "2024-01-15", Matchup: "NYK @ BOS", WinLoss: "L", SeasonType: "Regular Season",
			Minutes: "240", Pts: "105", Fgm: "39", Fga: "88", Fg3m: "11", Fg3a: "33",
			Ftm: "16", Fta: "22", Reb: "41", Ast: "22", Stl: "6", Blk: "3", Tov: "14", Pf: "19",
		},
		{
			SeasonID: "22023", GameID: "0022300452", TeamID: "1610612747", TeamAbbr: "LAL",
			GameDate: "2024-01-16", Matchup: "LAL vs. GSW", WinLoss: "W", SeasonType: "Regular Season",
			Minutes: "265", Pts: "124", Fgm: "46", Fga: "95", Fg3m: "13", Fg3a: "36",
			Ftm: "19", Fta: "24", Reb: "48", Ast: "27", Stl: "7", Blk: "4", Tov: "13", Pf: "20",
		},
		{
			SeasonID: "22023", GameID: "0022300452", TeamID: "1610612744", TeamAbbr: "GSW",
			GameDate: "2024-01-16", Matchup: "GSW @ LAL", WinLoss: "L", SeasonType: "Regular Season",
			Minutes: "265", Pts: "120", Fgm: "45", Fga: "97", Fg3m: "16", Fg3a: "44",
			Ftm: "14", Fta: "17", Reb: "43", Ast: "30", Stl: "9", Blk: "5", Tov: "15", Pf: "21",
		},
	}
}

func SeedBoxScoreTeamRows() []feed.BoxScoreTeamRow {
	return []feed.BoxScoreTeamRow{
		{GameID: "0022300451", TeamID: "1610612738", Side: "home", GameDate: "2024-01-15", Minutes: "240:00", Pts: "118", OtPeriods: "0"},
		{GameID: "0022300451", TeamID: "1610612752", Side: "away", GameDate: "2024-01-15", Minutes: "240:00", Pts: "105", OtPeriods: "0"},
		{GameID: "0022300452", TeamID: "1610612747", Side: "home", GameDate: "2024-01-16", Minutes: "265:00", Pts: "124", OtPeriods: "1"},
		{GameID: "0022300452", TeamID: "1610612744", Side: "away", GameDate: "2024-01-16", Minutes: "265:00", Pts: "120", OtPeriods: "1"},
	}
}

func SeedLegacyGameRows() []feed.LegacyGameRow {
	return []feed.LegacyGameRow{
		{
			LegacyID: "202401150BOS", GameDate: "2024-01-15",
			TeamID: "1610612738", OpponentID: "1610612752",
			SeasonType: "Regular Season", WinLoss: "W", Matchup: "BOS vs. NYK",
			Minutes: "240", Pts: "118", Fgm: "44", Fga: "92", Ftm: "15", Fta: "19",
			Reb: "46", Ast: "28", Pf: "17",
		},
		{
			LegacyID: "202401150BOS", GameDate: "2024-01-15",
			TeamID: "1610612752", OpponentID: "1610612738",
			SeasonType: "Regular Season", WinLoss: "L", Matchup: "NYK @ BOS",
			Minutes: "240", Pts: "105", Fgm: "39", Fga: "88", Ftm: "16", Fta: "22",
			Reb: "41", Ast: "22", Pf: "19",
		},
	}
}

func SeedOverrides() []game.Override {
	return []game.Override{
		{
			GameID:       "0022300451",
			TeamIDHome:   "1610612738",
			TeamIDAway:   "1610612752",
			HomeOverride: true,
			AwayOverride: true,
			Source:       "manual verification",
		},
	}
}
