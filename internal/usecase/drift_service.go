package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtledger/courtledger/internal/domain/drift"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

// DriftThresholds hold the flagging cutoffs for the drift monitor.
type DriftThresholds struct {
	// MajorMeanShift flags a month whose standardized mean shift reaches
	// this many baseline standard deviations (inclusive).
	MajorMeanShift float64
	// MajorPSI flags a month whose population stability index exceeds this.
	MajorPSI float64
	// BaselineSeasons is how many completed regular seasons feed a baseline.
	BaselineSeasons int
	// Workers bounds the per-metric fan-out.
	Workers int
}

func DefaultDriftThresholds() DriftThresholds {
	return DriftThresholds{
		MajorMeanShift:  3,
		MajorPSI:        0.25,
		BaselineSeasons: 2,
		Workers:         4,
	}
}

// DriftMetrics is the default set of tracked metrics.
var DriftMetrics = []string{"pts", "reb", "ast", "tov", "fg3m", "fg3a"}

// DriftService maintains the versioned baseline distributions and measures
// monthly divergence from them. A run pins one baseline version at start
// and never observes a newer one mid-run.
type DriftService struct {
	driftRepo  drift.Repository
	thresholds DriftThresholds
	metrics    []string
	now        func() time.Time
	logger     *logging.Logger
}

func NewDriftService(driftRepo drift.Repository, thresholds DriftThresholds, metrics []string, logger *logging.Logger) *DriftService {
	if len(metrics) == 0 {
		metrics = DriftMetrics
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DriftService{
		driftRepo:  driftRepo,
		thresholds: thresholds,
		metrics:    metrics,
		now:        time.Now,
		logger:     logger,
	}
}

// RecomputeBaseline builds a new baseline version per metric over the two
// most-recently-completed regular seasons. It runs on an explicit schedule,
// not per pipeline run; existing versions are never mutated.
func (s *DriftService) RecomputeBaseline(ctx context.Context, rows []teamgame.TeamGame) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DriftService.RecomputeBaseline")
	defer span.End()

	seasons := s.completedRegularSeasons(rows)
	if len(seasons) == 0 {
		return 0, fmt.Errorf("%w: no completed regular seasons in snapshot", ErrInvalidInput)
	}
	if len(seasons) > s.thresholds.BaselineSeasons {
		seasons = seasons[len(seasons)-s.thresholds.BaselineSeasons:]
	}
	inWindow := make(map[int]struct{}, len(seasons))
	for _, season := range seasons {
		inWindow[season] = struct{}{}
	}

	version, err := s.driftRepo.LatestBaselineVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("latest baseline version: %w", err)
	}
	version++

	computedAt := s.now().UTC()
	baselines := make([]drift.Baseline, 0, len(s.metrics))
	for _, metric := range s.metrics {
		values := observedValues(rows, metric, func(row teamgame.TeamGame) bool {
			if row.SeasonType != game.SeasonTypeRegular {
				return false
			}
			_, ok := inWindow[row.Season]
			return ok
		})
		if len(values) == 0 {
			continue
		}
		mean, stddev := meanStdDev(values)
		baselines = append(baselines, drift.Baseline{
			Version:    version,
			Metric:     metric,
			Mean:       mean,
			StdDev:     stddev,
			Cuts:       decileCuts(values),
			Seasons:    seasons,
			SampleSize: len(values),
			ComputedAt: computedAt,
		})
	}
	if len(baselines) == 0 {
		return 0, fmt.Errorf("%w: no observed values for any tracked metric", ErrInvalidInput)
	}

	if err := s.driftRepo.SaveBaselines(ctx, baselines); err != nil {
		return 0, fmt.Errorf("save baselines version %d: %w", version, err)
	}
	s.logger.InfoContext(ctx, "recomputed baseline distributions",
		"version", version,
		"metrics", len(baselines),
		"seasons", seasons,
	)
	return version, nil
}

// Measure computes drift observations for every calendar month after the
// pinned baseline's window, one task per metric on a bounded worker pool.
// Re-running for a month replaces its row: the output is idempotent by
// (month, metric).
func (s *DriftService) Measure(ctx context.Context, rows []teamgame.TeamGame) (int, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DriftService.Measure")
	defer span.End()

	version, err := s.driftRepo.LatestBaselineVersion(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("latest baseline version: %w", err)
	}
	if version == 0 {
		return 0, 0, ErrNoBaseline
	}
	baselines, err := s.driftRepo.ListBaselines(ctx, version)
	if err != nil {
		return 0, 0, fmt.Errorf("list baselines version %d: %w", version, err)
	}
	baselineByMetric := make(map[string]drift.Baseline, len(baselines))
	windowEnd := 0
	for _, b := range baselines {
		baselineByMetric[b.Metric] = b
		for _, season := range b.Seasons {
			if season > windowEnd {
				windowEnd = season
			}
		}
	}

	workers := s.thresholds.Workers
	if workers <= 0 {
		workers = 1
	}
	taskPool, err := ants.NewPool(workers)
	if err != nil {
		return 0, 0, fmt.Errorf("create drift worker pool: %w", err)
	}
	defer taskPool.Release()

	computedAt := s.now().UTC()
	var (
		mu           sync.Mutex
		wg           sync.WaitGroup
		observations []drift.Observation
	)
	for _, metric := range s.metrics {
		baseline, ok := baselineByMetric[metric]
		if !ok {
			continue
		}
		metric := metric
		wg.Add(1)
		if err := taskPool.Submit(func() {
			defer wg.Done()
			metricObs := s.measureMetric(rows, metric, baseline, windowEnd, computedAt)
			mu.Lock()
			observations = append(observations, metricObs...)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			return 0, 0, fmt.Errorf("submit drift task for %s: %w", metric, err)
		}
	}
	wg.Wait()

	sort.Slice(observations, func(i, j int) bool {
		if observations[i].Month != observations[j].Month {
			return observations[i].Month < observations[j].Month
		}
		return observations[i].Metric < observations[j].Metric
	})
	if err := s.driftRepo.UpsertObservations(ctx, observations); err != nil {
		return 0, 0, fmt.Errorf("upsert drift observations: %w", err)
	}

	s.logger.InfoContext(ctx, "measured drift",
		"baseline_version", version,
		"observations", len(observations),
	)
	return version, len(observations), nil
}

// measureMetric computes one metric's observation per month after the
// baseline window. Pure over its inputs; safe to run concurrently with the
// other metrics.
func (s *DriftService) measureMetric(rows []teamgame.TeamGame, metric string, baseline drift.Baseline, windowEnd int, computedAt time.Time) []drift.Observation {
	valuesByMonth := make(map[string][]float64)
	for _, row := range rows {
		if row.Season <= windowEnd {
			continue
		}
		value := row.Stat(metric)
		if value == nil || row.WasImputed(metric) {
			continue
		}
		month := row.GameDate.Format("2006-01")
		valuesByMonth[month] = append(valuesByMonth[month], *value)
	}

	observations := make([]drift.Observation, 0, len(valuesByMonth))
	for month, values := range valuesByMonth {
		obs := drift.Observation{
			Month:           month,
			Metric:          metric,
			BaselineVersion: baseline.Version,
			SampleSize:      len(values),
			MonthMean:       mean(values),
			ComputedAt:      computedAt,
		}
		// A zero-variance baseline makes the shift undefined; a missing
		// statistic is explicit, not a fatal error.
		if baseline.StdDev > 0 {
			shift := (obs.MonthMean - baseline.Mean) / baseline.StdDev
			obs.MeanShift = &shift
			obs.MajorShift = math.Abs(shift) >= s.thresholds.MajorMeanShift
		}
		if psi, ok := populationStabilityIndex(baseline.Cuts, values); ok {
			obs.PSI = &psi
			obs.MajorPSI = psi > s.thresholds.MajorPSI
		}
		observations = append(observations, obs)
	}
	return observations
}

// populationStabilityIndex compares the month's distribution against the
// baseline's ten decile bins. A bin with zero mass on either side is a
// missing contribution to the sum, not an error: sparse bins are expected
// in small monthly samples.
func populationStabilityIndex(cuts []float64, values []float64) (float64, bool) {
	if len(cuts) != drift.DecileBins-1 || len(values) == 0 {
		return 0, false
	}
	counts := make([]int, drift.DecileBins)
	for _, value := range values {
		counts[binIndex(cuts, value)]++
	}
	baselineShare := 1.0 / float64(drift.DecileBins)
	total := float64(len(values))
	psi := 0.0
	for _, count := range counts {
		if count == 0 {
			continue
		}
		current := float64(count) / total
		psi += (baselineShare - current) * math.Log(baselineShare/current)
	}
	return psi, true
}

// binIndex places a value into the decile bins (cut[i-1], cut[i]]; values
// on a boundary belong to the lower bin.
func binIndex(cuts []float64, value float64) int {
	return sort.SearchFloat64s(cuts, value)
}

// completedRegularSeasons lists seasons with regular-season rows that ended
// before the season in progress, ascending.
func (s *DriftService) completedRegularSeasons(rows []teamgame.TeamGame) []int {
	current := game.SeasonYear(s.now().UTC())
	seen := make(map[int]struct{})
	for _, row := range rows {
		if row.SeasonType == game.SeasonTypeRegular && row.Season < current {
			seen[row.Season] = struct{}{}
		}
	}
	seasons := make([]int, 0, len(seen))
	for season := range seen {
		seasons = append(seasons, season)
	}
	sort.Ints(seasons)
	return seasons
}

func observedValues(rows []teamgame.TeamGame, metric string, match func(teamgame.TeamGame) bool) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if match != nil && !match(row) {
			continue
		}
		if v := row.Stat(metric); v != nil && !row.WasImputed(metric) {
			values = append(values, *v)
		}
	}
	return values
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanStdDev(values []float64) (float64, float64) {
	m := mean(values)
	if len(values) < 2 {
		return m, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return m, math.Sqrt(sum / float64(len(values)-1))
}

// decileCuts returns the nine interior decile boundaries using linear
// interpolation between order statistics.
func decileCuts(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	cuts := make([]float64, 0, drift.DecileBins-1)
	for i := 1; i < drift.DecileBins; i++ {
		cuts = append(cuts, quantile(sorted, float64(i)/float64(drift.DecileBins)))
	}
	return cuts
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
