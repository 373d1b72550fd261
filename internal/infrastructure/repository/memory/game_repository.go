package memory

import (
	"context"
	"sync"

	"github.com/courtledger/courtledger/internal/domain/game"
)

type GameRepository struct {
	mu          sync.RWMutex
	games       []game.Game
	bridge      []game.BridgeEntry
	unpublished map[string]struct{}
}

func NewGameRepository() *GameRepository {
	return &GameRepository{unpublished: make(map[string]struct{})}
}

func (r *GameRepository) ReplaceGames(_ context.Context, games []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games = append([]game.Game(nil), games...)
	r.unpublished = make(map[string]struct{})
	return nil
}

func (r *GameRepository) ListGames(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.games))
	out = append(out, r.games...)
	return out, nil
}

func (r *GameRepository) ReplaceBridge(_ context.Context, entries []game.BridgeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bridge = append([]game.BridgeEntry(nil), entries...)
	return nil
}

func (r *GameRepository) ListBridge(_ context.Context) ([]game.BridgeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.BridgeEntry, 0, len(r.bridge))
	out = append(out, r.bridge...)
	return out, nil
}

func (r *GameRepository) MarkGamesUnpublished(_ context.Context, gameIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range gameIDs {
		r.unpublished[id] = struct{}{}
	}
	return nil
}

type OverrideRepository struct {
	mu        sync.RWMutex
	overrides []game.Override
}

func NewOverrideRepository(overrides []game.Override) *OverrideRepository {
	return &OverrideRepository{overrides: overrides}
}

func (r *OverrideRepository) ListOverrides(_ context.Context) ([]game.Override, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Override, 0, len(r.overrides))
	out = append(out, r.overrides...)
	return out, nil
}
