package memory

import (
	"context"
	"sync"

	"github.com/courtledger/courtledger/internal/domain/feed"
)

type FeedRepository struct {
	mu       sync.RWMutex
	gameLogs []feed.GameLogRow
	boxRows  []feed.BoxScoreTeamRow
	legacy   []feed.LegacyGameRow
}

func NewFeedRepository(gameLogs []feed.GameLogRow, boxRows []feed.BoxScoreTeamRow, legacy []feed.LegacyGameRow) *FeedRepository {
	return &FeedRepository{gameLogs: gameLogs, boxRows: boxRows, legacy: legacy}
}

func (r *FeedRepository) ListGameLogRows(_ context.Context) ([]feed.GameLogRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feed.GameLogRow, 0, len(r.gameLogs))
	out = append(out, r.gameLogs...)
	return out, nil
}

func (r *FeedRepository) ListBoxScoreTeamRows(_ context.Context) ([]feed.BoxScoreTeamRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feed.BoxScoreTeamRow, 0, len(r.boxRows))
	out = append(out, r.boxRows...)
	return out, nil
}

func (r *FeedRepository) ListLegacyGameRows(_ context.Context) ([]feed.LegacyGameRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feed.LegacyGameRow, 0, len(r.legacy))
	out = append(out, r.legacy...)
	return out, nil
}
