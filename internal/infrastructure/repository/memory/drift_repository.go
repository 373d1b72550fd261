package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtledger/courtledger/internal/domain/drift"
)

type DriftRepository struct {
	mu           sync.RWMutex
	baselines    map[int][]drift.Baseline
	observations map[string]drift.Observation
}

func NewDriftRepository() *DriftRepository {
	return &DriftRepository{
		baselines:    make(map[int][]drift.Baseline),
		observations: make(map[string]drift.Observation),
	}
}

func observationKey(month, metric string) string {
	return month + "|" + metric
}

func (r *DriftRepository) LatestBaselineVersion(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := 0
	for version := range r.baselines {
		if version > latest {
			latest = version
		}
	}
	return latest, nil
}

func (r *DriftRepository) ListBaselines(_ context.Context, version int) ([]drift.Baseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.baselines[version]
	out := make([]drift.Baseline, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *DriftRepository) SaveBaselines(_ context.Context, baselines []drift.Baseline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range baselines {
		r.baselines[b.Version] = append(r.baselines[b.Version], b)
	}
	return nil
}

func (r *DriftRepository) UpsertObservations(_ context.Context, observations []drift.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, obs := range observations {
		r.observations[observationKey(obs.Month, obs.Metric)] = obs
	}
	return nil
}

func (r *DriftRepository) ListObservations(_ context.Context) ([]drift.Observation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]drift.Observation, 0, len(r.observations))
	for _, obs := range r.observations {
		out = append(out, obs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Metric < out[j].Metric
	})
	return out, nil
}
