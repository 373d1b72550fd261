package game

import "context"

type Repository interface {
	ReplaceGames(ctx context.Context, games []Game) error
	ListGames(ctx context.Context) ([]Game, error)
	ReplaceBridge(ctx context.Context, entries []BridgeEntry) error
	ListBridge(ctx context.Context) ([]BridgeEntry, error)
	MarkGamesUnpublished(ctx context.Context, gameIDs []string) error
}

// OverrideRepository reads the externally curated home/away corrections.
// The engine never writes overrides.
type OverrideRepository interface {
	ListOverrides(ctx context.Context) ([]Override, error)
}
