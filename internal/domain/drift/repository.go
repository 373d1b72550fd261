package drift

import "context"

type Repository interface {
	LatestBaselineVersion(ctx context.Context) (int, error)
	ListBaselines(ctx context.Context, version int) ([]Baseline, error)
	SaveBaselines(ctx context.Context, baselines []Baseline) error
	// UpsertObservations replaces any existing row for the same
	// (month, metric) pair, keeping drift recomputation idempotent.
	UpsertObservations(ctx context.Context, observations []Observation) error
	ListObservations(ctx context.Context) ([]Observation, error)
}
