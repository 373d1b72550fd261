package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtledger/courtledger/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) ReplaceGames(ctx context.Context, games []game.Game) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace canonical games: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM canonical_game`); err != nil {
		return fmt.Errorf("clear canonical games: %w", err)
	}

	const insert = `INSERT INTO canonical_game
	(game_id, game_date, season, season_type, home_team_id, away_team_id, published)
VALUES (:game_id, :game_date, :season, :season_type, :home_team_id, :away_team_id, :published)`
	for _, g := range games {
		model := canonicalGameTableModel{
			GameID:     g.GameID,
			GameDate:   g.GameDate,
			Season:     g.Season,
			SeasonType: string(g.SeasonType),
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
			Published:  true,
		}
		if _, err := tx.NamedExecContext(ctx, insert, model); err != nil {
			return fmt.Errorf("insert canonical game %s: %w", g.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace canonical games tx: %w", err)
	}
	return nil
}

func (r *GameRepository) ListGames(ctx context.Context) ([]game.Game, error) {
	const query = `SELECT game_id, game_date, season, season_type, home_team_id, away_team_id, published
FROM canonical_game
ORDER BY game_id`

	var rows []canonicalGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select canonical games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Game{
			GameID:     row.GameID,
			GameDate:   row.GameDate,
			Season:     row.Season,
			SeasonType: game.SeasonType(row.SeasonType),
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
		})
	}

	return out, nil
}

func (r *GameRepository) ReplaceBridge(ctx context.Context, entries []game.BridgeEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace identity bridge: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM identity_bridge`); err != nil {
		return fmt.Errorf("clear identity bridge: %w", err)
	}

	const insert = `INSERT INTO identity_bridge (legacy_game_id, game_id, status, candidate_count)
VALUES (:legacy_game_id, :game_id, :status, :candidate_count)`
	for _, entry := range entries {
		model := identityBridgeTableModel{
			LegacyID:       entry.LegacyID,
			Status:         string(entry.Status),
			CandidateCount: entry.CandidateCount,
		}
		if entry.GameID != "" {
			model.GameID = sql.NullString{String: entry.GameID, Valid: true}
		}
		if _, err := tx.NamedExecContext(ctx, insert, model); err != nil {
			return fmt.Errorf("insert bridge entry legacy=%s: %w", entry.LegacyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace identity bridge tx: %w", err)
	}
	return nil
}

func (r *GameRepository) ListBridge(ctx context.Context) ([]game.BridgeEntry, error) {
	const query = `SELECT legacy_game_id, game_id, status, candidate_count
FROM identity_bridge
ORDER BY legacy_game_id`

	var rows []identityBridgeTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select identity bridge: %w", err)
	}

	out := make([]game.BridgeEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.BridgeEntry{
			LegacyID:       row.LegacyID,
			GameID:         row.GameID.String,
			Status:         game.BridgeStatus(row.Status),
			CandidateCount: row.CandidateCount,
		})
	}

	return out, nil
}

func (r *GameRepository) MarkGamesUnpublished(ctx context.Context, gameIDs []string) error {
	if len(gameIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE canonical_game SET published = false WHERE game_id IN (?)`, gameIDs)
	if err != nil {
		return fmt.Errorf("build unpublish canonical games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("unpublish canonical games: %w", err)
	}
	return nil
}

type OverrideRepository struct {
	db *sqlx.DB
}

func NewOverrideRepository(db *sqlx.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

func (r *OverrideRepository) ListOverrides(ctx context.Context) ([]game.Override, error) {
	const query = `SELECT game_id, game_date, season, team_id_home, team_id_away,
	home_override, away_override, source, updated_at
FROM home_away_overrides
ORDER BY game_id`

	var rows []homeAwayOverrideTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select home away overrides: %w", err)
	}

	out := make([]game.Override, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Override{
			GameID:       row.GameID,
			GameDate:     row.GameDate,
			Season:       row.Season,
			TeamIDHome:   row.TeamIDHome,
			TeamIDAway:   row.TeamIDAway,
			HomeOverride: row.HomeOverride,
			AwayOverride: row.AwayOverride,
			Source:       row.Source,
			UpdatedAt:    row.UpdatedAt,
		})
	}

	return out, nil
}
