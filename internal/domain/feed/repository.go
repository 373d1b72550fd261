package feed

import "context"

// Repository reads the immutable raw tables produced by the ingestion
// collaborators. The engine never mutates them.
type Repository interface {
	ListGameLogRows(ctx context.Context) ([]GameLogRow, error)
	ListBoxScoreTeamRows(ctx context.Context) ([]BoxScoreTeamRow, error)
	ListLegacyGameRows(ctx context.Context) ([]LegacyGameRow, error)
}
