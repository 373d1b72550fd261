package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
)

type TeamGameRepository struct {
	db *sqlx.DB
}

func NewTeamGameRepository(db *sqlx.DB) *TeamGameRepository {
	return &TeamGameRepository{db: db}
}

func (r *TeamGameRepository) ReplaceTeamGames(ctx context.Context, rows []teamgame.TeamGame) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace canonical team games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM canonical_team_game`); err != nil {
		return fmt.Errorf("clear canonical team games: %w", err)
	}

	const insert = `INSERT INTO canonical_team_game
	(game_id, team_id, season, season_type, game_date, side, side_source, wl,
	 min, min_invalid, ot_periods, pts_reported, pts_formula, pts_box, pts_source, pts_mismatch,
	 fg_pct, fg3_pct, ft_pct, stats, imputed, published)
VALUES (:game_id, :team_id, :season, :season_type, :game_date, :side, :side_source, :wl,
	 :min, :min_invalid, :ot_periods, :pts_reported, :pts_formula, :pts_box, :pts_source, :pts_mismatch,
	 :fg_pct, :fg3_pct, :ft_pct, :stats, :imputed, :published)`
	for _, row := range rows {
		model, err := teamGameToModel(row)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insert, model); err != nil {
			return fmt.Errorf("insert canonical team game game=%s team=%s: %w", row.GameID, row.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace canonical team games tx: %w", err)
	}
	return nil
}

func (r *TeamGameRepository) ListTeamGames(ctx context.Context) ([]teamgame.TeamGame, error) {
	const query = `SELECT game_id, team_id, season, season_type, game_date, side, side_source, wl,
	min, min_invalid, ot_periods, pts_reported, pts_formula, pts_box, pts_source, pts_mismatch,
	fg_pct, fg3_pct, ft_pct, stats, imputed, published
FROM canonical_team_game
ORDER BY game_id, team_id`

	var rows []canonicalTeamGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select canonical team games: %w", err)
	}

	out := make([]teamgame.TeamGame, 0, len(rows))
	for _, row := range rows {
		item, err := teamGameFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *TeamGameRepository) MarkGamesUnpublished(ctx context.Context, gameIDs []string) error {
	if len(gameIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE canonical_team_game SET published = false WHERE game_id IN (?)`, gameIDs)
	if err != nil {
		return fmt.Errorf("build unpublish canonical team games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("unpublish canonical team games: %w", err)
	}
	return nil
}

func teamGameToModel(row teamgame.TeamGame) (canonicalTeamGameTableModel, error) {
	stats, err := sonic.Marshal(row.Stats)
	if err != nil {
		return canonicalTeamGameTableModel{}, fmt.Errorf("encode stats game=%s team=%s: %w", row.GameID, row.TeamID, err)
	}
	imputed, err := sonic.Marshal(row.Imputed)
	if err != nil {
		return canonicalTeamGameTableModel{}, fmt.Errorf("encode imputed flags game=%s team=%s: %w", row.GameID, row.TeamID, err)
	}

	return canonicalTeamGameTableModel{
		GameID:         row.GameID,
		TeamID:         row.TeamID,
		Season:         row.Season,
		SeasonType:     string(row.SeasonType),
		GameDate:       row.GameDate,
		Side:           row.Side.String(),
		SideSource:     string(row.SideSource),
		WinLoss:        row.WinLoss,
		Minutes:        row.Minutes,
		MinutesInvalid: row.MinutesInvalid,
		OtPeriods:      row.OtPeriods,
		PtsReported:    row.PtsReported,
		PtsFormula:     row.PtsFormula,
		PtsBox:         row.PtsBox,
		PtsSource:      string(row.PtsSource),
		PtsMismatch:    row.PtsMismatch,
		FgPct:          row.FgPct,
		Fg3Pct:         row.Fg3Pct,
		FtPct:          row.FtPct,
		Stats:          stats,
		Imputed:        imputed,
		Published:      true,
	}, nil
}

func teamGameFromModel(row canonicalTeamGameTableModel) (teamgame.TeamGame, error) {
	out := teamgame.TeamGame{
		GameID:         row.GameID,
		TeamID:         row.TeamID,
		Season:         row.Season,
		SeasonType:     game.SeasonType(row.SeasonType),
		GameDate:       row.GameDate,
		Side:           sideFromColumn(row.Side),
		SideSource:     teamgame.SideSource(row.SideSource),
		WinLoss:        row.WinLoss,
		Minutes:        row.Minutes,
		MinutesInvalid: row.MinutesInvalid,
		OtPeriods:      row.OtPeriods,
		PtsReported:    row.PtsReported,
		PtsFormula:     row.PtsFormula,
		PtsBox:         row.PtsBox,
		PtsSource:      teamgame.PtsSource(row.PtsSource),
		PtsMismatch:    row.PtsMismatch,
		FgPct:          row.FgPct,
		Fg3Pct:         row.Fg3Pct,
		FtPct:          row.FtPct,
	}
	if len(row.Stats) > 0 {
		if err := sonic.Unmarshal(row.Stats, &out.Stats); err != nil {
			return teamgame.TeamGame{}, fmt.Errorf("decode stats game=%s team=%s: %w", row.GameID, row.TeamID, err)
		}
	}
	if len(row.Imputed) > 0 {
		if err := sonic.Unmarshal(row.Imputed, &out.Imputed); err != nil {
			return teamgame.TeamGame{}, fmt.Errorf("decode imputed flags game=%s team=%s: %w", row.GameID, row.TeamID, err)
		}
	}
	return out, nil
}

func sideFromColumn(v string) teamgame.Side {
	switch v {
	case "home":
		return teamgame.SideHome
	case "away":
		return teamgame.SideAway
	default:
		return teamgame.SideUnresolved
	}
}
