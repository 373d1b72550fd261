package teamgame

import "context"

type Repository interface {
	ReplaceTeamGames(ctx context.Context, rows []TeamGame) error
	ListTeamGames(ctx context.Context) ([]TeamGame, error)
	MarkGamesUnpublished(ctx context.Context, gameIDs []string) error
}
