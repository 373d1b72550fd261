package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtledger/courtledger/internal/domain/feed"
)

type FeedRepository struct {
	db *sqlx.DB
}

func NewFeedRepository(db *sqlx.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

func (r *FeedRepository) ListGameLogRows(ctx context.Context) ([]feed.GameLogRow, error) {
	const query = `SELECT season_id, game_id, team_id, team_abbreviation, game_date, matchup, wl,
	season_type, min, pts, fgm, fga, fg3m, fg3a, ftm, fta, reb, ast, stl, blk, tov, pf
FROM raw_game_log
ORDER BY game_id, team_id`

	var rows []rawGameLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select raw game log rows: %w", err)
	}

	out := make([]feed.GameLogRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, feed.GameLogRow{
			SeasonID:   row.SeasonID,
			GameID:     row.GameID,
			TeamID:     row.TeamID,
			TeamAbbr:   row.TeamAbbr,
			GameDate:   row.GameDate,
			Matchup:    row.Matchup,
			WinLoss:    row.WinLoss,
			SeasonType: row.SeasonType,
			Minutes:    row.Minutes,
			Pts:        row.Pts,
			Fgm:        row.Fgm,
			Fga:        row.Fga,
			Fg3m:       row.Fg3m,
			Fg3a:       row.Fg3a,
			Ftm:        row.Ftm,
			Fta:        row.Fta,
			Reb:        row.Reb,
			Ast:        row.Ast,
			Stl:        row.Stl,
			Blk:        row.Blk,
			Tov:        row.Tov,
			Pf:         row.Pf,
		})
	}

	return out, nil
}

func (r *FeedRepository) ListBoxScoreTeamRows(ctx context.Context) ([]feed.BoxScoreTeamRow, error) {
	const query = `SELECT game_id, team_id, side, game_date, min, pts, ot_periods
FROM raw_box_score_team
ORDER BY game_id, team_id`

	var rows []rawBoxScoreTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select raw box score team rows: %w", err)
	}

	out := make([]feed.BoxScoreTeamRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, feed.BoxScoreTeamRow{
			GameID:    row.GameID,
			TeamID:    row.TeamID,
			Side:      row.Side,
			GameDate:  row.GameDate,
			Minutes:   row.Minutes,
			Pts:       row.Pts,
			OtPeriods: row.OtPeriods,
		})
	}

	return out, nil
}

func (r *FeedRepository) ListLegacyGameRows(ctx context.Context) ([]feed.LegacyGameRow, error) {
	const query = `SELECT legacy_game_id, game_date, team_id, opponent_team_id, season_type, wl,
	matchup, min, pts, fgm, fga, ftm, fta, reb, ast, pf
FROM legacy_game_log
ORDER BY legacy_game_id, team_id`

	var rows []legacyGameLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select legacy game log rows: %w", err)
	}

	out := make([]feed.LegacyGameRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, feed.LegacyGameRow{
			LegacyID:   row.LegacyID,
			GameDate:   row.GameDate,
			TeamID:     row.TeamID,
			OpponentID: row.OpponentID,
			SeasonType: row.SeasonType,
			WinLoss:    row.WinLoss,
			Matchup:    row.Matchup,
			Minutes:    row.Minutes,
			Pts:        row.Pts,
			Fgm:        row.Fgm,
			Fga:        row.Fga,
			Ftm:        row.Ftm,
			Fta:        row.Fta,
			Reb:        row.Reb,
			Ast:        row.Ast,
			Pf:         row.Pf,
		})
	}

	return out, nil
}
