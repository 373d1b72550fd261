package memory

import (
	"context"
	"sync"

	"github.com/courtledger/courtledger/internal/domain/teamgame"
)

type TeamGameRepository struct {
	mu          sync.RWMutex
	rows        []teamgame.TeamGame
	unpublished map[string]struct{}
}

func NewTeamGameRepository() *TeamGameRepository {
	return &TeamGameRepository{unpublished: make(map[string]struct{})}
}

func (r *TeamGameRepository) ReplaceTeamGames(_ context.Context, rows []teamgame.TeamGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows = append([]teamgame.TeamGame(nil), rows...)
	r.unpublished = make(map[string]struct{})
	return nil
}

func (r *TeamGameRepository) ListTeamGames(_ context.Context) ([]teamgame.TeamGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teamgame.TeamGame, 0, len(r.rows))
	out = append(out, r.rows...)
	return out, nil
}

func (r *TeamGameRepository) MarkGamesUnpublished(_ context.Context, gameIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range gameIDs {
		r.unpublished[id] = struct{}{}
	}
	return nil
}
