package usecase

import (
	"context"
	"sync"

	"github.com/courtledger/courtledger/internal/domain/drift"
	"github.com/courtledger/courtledger/internal/domain/feed"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/runreport"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
)

func fp(v float64) *float64 { return &v }

type stubFeedRepo struct {
	gameLogs []feed.GameLogRow
	boxRows  []feed.BoxScoreTeamRow
	legacy   []feed.LegacyGameRow
}

func (s *stubFeedRepo) ListGameLogRows(context.Context) ([]feed.GameLogRow, error) {
	return s.gameLogs, nil
}

func (s *stubFeedRepo) ListBoxScoreTeamRows(context.Context) ([]feed.BoxScoreTeamRow, error) {
	return s.boxRows, nil
}

func (s *stubFeedRepo) ListLegacyGameRows(context.Context) ([]feed.LegacyGameRow, error) {
	return s.legacy, nil
}

type stubOverrideRepo struct {
	overrides []game.Override
}

func (s *stubOverrideRepo) ListOverrides(context.Context) ([]game.Override, error) {
	return s.overrides, nil
}

type stubGameRepo struct {
	mu          sync.Mutex
	games       []game.Game
	bridge      []game.BridgeEntry
	unpublished []string
}

func (s *stubGameRepo) ReplaceGames(_ context.Context, games []game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = games
	return nil
}

func (s *stubGameRepo) ListGames(context.Context) ([]game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.games, nil
}

func (s *stubGameRepo) ReplaceBridge(_ context.Context, entries []game.BridgeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridge = entries
	return nil
}

func (s *stubGameRepo) ListBridge(context.Context) ([]game.BridgeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bridge, nil
}

func (s *stubGameRepo) MarkGamesUnpublished(_ context.Context, gameIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unpublished = append(s.unpublished, gameIDs...)
	return nil
}

type stubTeamGameRepo struct {
	mu          sync.Mutex
	rows        []teamgame.TeamGame
	unpublished []string
}

func (s *stubTeamGameRepo) ReplaceTeamGames(_ context.Context, rows []teamgame.TeamGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	return nil
}

func (s *stubTeamGameRepo) ListTeamGames(context.Context) ([]teamgame.TeamGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, nil
}

func (s *stubTeamGameRepo) MarkGamesUnpublished(_ context.Context, gameIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unpublished = append(s.unpublished, gameIDs...)
	return nil
}

type observationKey struct {
	month  string
	metric string
}

type stubDriftRepo struct {
	mu           sync.Mutex
	latest       int
	baselines    map[int][]drift.Baseline
	observations map[observationKey]drift.Observation
}

func newStubDriftRepo() *stubDriftRepo {
	return &stubDriftRepo{
		baselines:    make(map[int][]drift.Baseline),
		observations: make(map[observationKey]drift.Observation),
	}
}

func (s *stubDriftRepo) LatestBaselineVersion(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

func (s *stubDriftRepo) ListBaselines(_ context.Context, version int) ([]drift.Baseline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baselines[version], nil
}

func (s *stubDriftRepo) SaveBaselines(_ context.Context, baselines []drift.Baseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range baselines {
		s.baselines[b.Version] = append(s.baselines[b.Version], b)
		if b.Version > s.latest {
			s.latest = b.Version
		}
	}
	return nil
}

func (s *stubDriftRepo) UpsertObservations(_ context.Context, observations []drift.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obs := range observations {
		s.observations[observationKey{month: obs.Month, metric: obs.Metric}] = obs
	}
	return nil
}

func (s *stubDriftRepo) ListObservations(context.Context) ([]drift.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]drift.Observation, 0, len(s.observations))
	for _, obs := range s.observations {
		out = append(out, obs)
	}
	return out, nil
}

type stubSummaryRepo struct {
	mu    sync.Mutex
	saved []runreport.Summary
}

func (s *stubSummaryRepo) Save(_ context.Context, summary runreport.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, summary)
	return nil
}

func (s *stubSummaryRepo) Latest(context.Context) (runreport.Summary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saved) == 0 {
		return runreport.Summary{}, false, nil
	}
	return s.saved[len(s.saved)-1], true, nil
}
