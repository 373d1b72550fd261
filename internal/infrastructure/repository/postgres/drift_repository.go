package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/courtledger/courtledger/internal/domain/drift"
)

type DriftRepository struct {
	db *sqlx.DB
}

func NewDriftRepository(db *sqlx.DB) *DriftRepository {
	return &DriftRepository{db: db}
}

func (r *DriftRepository) LatestBaselineVersion(ctx context.Context) (int, error) {
	var version int
	err := r.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM baseline_distribution`)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("select latest baseline version: %w", err)
	}
	return version, nil
}

func (r *DriftRepository) ListBaselines(ctx context.Context, version int) ([]drift.Baseline, error) {
	const query = `SELECT version, metric, mean, stddev, decile_cuts, seasons, sample_size, computed_at
FROM baseline_distribution
WHERE version = $1
ORDER BY metric`

	var rows []baselineDistributionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, version); err != nil {
		return nil, fmt.Errorf("select baselines version %d: %w", version, err)
	}

	out := make([]drift.Baseline, 0, len(rows))
	for _, row := range rows {
		item := drift.Baseline{
			Version:    row.Version,
			Metric:     row.Metric,
			Mean:       row.Mean,
			StdDev:     row.StdDev,
			SampleSize: row.SampleSize,
			ComputedAt: row.ComputedAt,
		}
		if err := sonic.Unmarshal(row.Cuts, &item.Cuts); err != nil {
			return nil, fmt.Errorf("decode decile cuts metric=%s version=%d: %w", row.Metric, row.Version, err)
		}
		if err := sonic.Unmarshal(row.Seasons, &item.Seasons); err != nil {
			return nil, fmt.Errorf("decode baseline seasons metric=%s version=%d: %w", row.Metric, row.Version, err)
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *DriftRepository) SaveBaselines(ctx context.Context, baselines []drift.Baseline) error {
	if len(baselines) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save baselines: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Baseline versions are append only; there is no delete branch.
	const insert = `INSERT INTO baseline_distribution
	(version, metric, mean, stddev, decile_cuts, seasons, sample_size, computed_at)
VALUES (:version, :metric, :mean, :stddev, :decile_cuts, :seasons, :sample_size, :computed_at)`
	for _, b := range baselines {
		cuts, err := sonic.Marshal(b.Cuts)
		if err != nil {
			return fmt.Errorf("encode decile cuts metric=%s: %w", b.Metric, err)
		}
		seasons, err := sonic.Marshal(b.Seasons)
		if err != nil {
			return fmt.Errorf("encode baseline seasons metric=%s: %w", b.Metric, err)
		}
		model := baselineDistributionTableModel{
			Version:    b.Version,
			Metric:     b.Metric,
			Mean:       b.Mean,
			StdDev:     b.StdDev,
			Cuts:       cuts,
			Seasons:    seasons,
			SampleSize: b.SampleSize,
			ComputedAt: b.ComputedAt,
		}
		if _, err := tx.NamedExecContext(ctx, insert, model); err != nil {
			return fmt.Errorf("insert baseline metric=%s version=%d: %w", b.Metric, b.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save baselines tx: %w", err)
	}
	return nil
}

func (r *DriftRepository) UpsertObservations(ctx context.Context, observations []drift.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert drift observations: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsert = `INSERT INTO drift_observation
	(month, metric, baseline_version, sample_size, month_mean, mean_shift, psi, major_shift, major_psi, computed_at)
VALUES (:month, :metric, :baseline_version, :sample_size, :month_mean, :mean_shift, :psi, :major_shift, :major_psi, :computed_at)
ON CONFLICT (month, metric)
DO UPDATE SET
	baseline_version = EXCLUDED.baseline_version,
	sample_size = EXCLUDED.sample_size,
	month_mean = EXCLUDED.month_mean,
	mean_shift = EXCLUDED.mean_shift,
	psi = EXCLUDED.psi,
	major_shift = EXCLUDED.major_shift,
	major_psi = EXCLUDED.major_psi,
	computed_at = EXCLUDED.computed_at`
	for _, obs := range observations {
		model := driftObservationTableModel{
			Month:           obs.Month,
			Metric:          obs.Metric,
			BaselineVersion: obs.BaselineVersion,
			SampleSize:      obs.SampleSize,
			MonthMean:       obs.MonthMean,
			MeanShift:       obs.MeanShift,
			PSI:             obs.PSI,
			MajorShift:      obs.MajorShift,
			MajorPSI:        obs.MajorPSI,
			ComputedAt:      obs.ComputedAt,
		}
		if _, err := tx.NamedExecContext(ctx, upsert, model); err != nil {
			return fmt.Errorf("upsert drift observation month=%s metric=%s: %w", obs.Month, obs.Metric, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert drift observations tx: %w", err)
	}
	return nil
}

func (r *DriftRepository) ListObservations(ctx context.Context) ([]drift.Observation, error) {
	const query = `SELECT month, metric, baseline_version, sample_size, month_mean, mean_shift, psi, major_shift, major_psi, computed_at
FROM drift_observation
ORDER BY month, metric`

	var rows []driftObservationTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select drift observations: %w", err)
	}

	out := make([]drift.Observation, 0, len(rows))
	for _, row := range rows {
		out = append(out, drift.Observation{
			Month:           row.Month,
			Metric:          row.Metric,
			BaselineVersion: row.BaselineVersion,
			SampleSize:      row.SampleSize,
			MonthMean:       row.MonthMean,
			MeanShift:       row.MeanShift,
			PSI:             row.PSI,
			MajorShift:      row.MajorShift,
			MajorPSI:        row.MajorPSI,
			ComputedAt:      row.ComputedAt,
		})
	}

	return out, nil
}
