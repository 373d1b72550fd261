package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/courtledger/courtledger/internal/domain/drift"
	"github.com/courtledger/courtledger/internal/domain/game"
	"github.com/courtledger/courtledger/internal/domain/teamgame"
	"github.com/courtledger/courtledger/internal/platform/logging"
)

func driftRow(gameID string, season int, date time.Time, pts float64) teamgame.TeamGame {
	return teamgame.TeamGame{
		GameID:     gameID,
		TeamID:     "BOS",
		Season:     season,
		SeasonType: game.SeasonTypeRegular,
		GameDate:   date,
		Stats:      map[string]*float64{"pts": fp(pts)},
	}
}

func newDriftService(repo drift.Repository, now time.Time) *DriftService {
	svc := NewDriftService(repo, DefaultDriftThresholds(), []string{"pts"}, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestPopulationStabilityIndexZeroOnMatchingDistribution(t *testing.T) {
	t.Parallel()

	cuts := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	// One value per decile bin reproduces the baseline's uniform shares.
	values := []float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5, 6.5, 7.5, 8.5, 9.5}

	psi, ok := populationStabilityIndex(cuts, values)
	if !ok {
		t.Fatalf("psi not computed")
	}
	if math.Abs(psi) > 1e-12 {
		t.Fatalf("psi = %g, want 0 for a matching distribution", psi)
	}
}

func TestPopulationStabilityIndexFlagsCollapse(t *testing.T) {
	t.Parallel()

	cuts := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	// Every value lands in a single bin; divergence must exceed the
	// major-shift cutoff by a wide margin.
	values := []float64{0.1, 0.2, 0.3, 0.4, 0.5}

	psi, ok := populationStabilityIndex(cuts, values)
	if !ok {
		t.Fatalf("psi not computed")
	}
	if psi <= 0.25 {
		t.Fatalf("psi = %g, want > 0.25 for a collapsed distribution", psi)
	}
}

func TestRecomputeBaselineVersionsAppend(t *testing.T) {
	t.Parallel()

	repo := newStubDriftRepo()
	svc := newDriftService(repo, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC))

	rows := []teamgame.TeamGame{
		driftRow("g1", 2022, time.Date(2022, time.November, 1, 0, 0, 0, 0, time.UTC), 100),
		driftRow("g2", 2022, time.Date(2022, time.December, 1, 0, 0, 0, 0, time.UTC), 110),
		driftRow("g3", 2023, time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), 120),
	}

	version, err := svc.RecomputeBaseline(context.Background(), rows)
	if err != nil {
		t.Fatalf("RecomputeBaseline: %v", err)
	}
	if version != 1 {
		t.Fatalf("first version = %d, want 1", version)
	}

	version, err = svc.RecomputeBaseline(context.Background(), rows)
	if err != nil {
		t.Fatalf("RecomputeBaseline again: %v", err)
	}
	if version != 2 {
		t.Fatalf("second version = %d, want 2", version)
	}
	// Recomputation appends a version; it never rewrites history.
	if len(repo.baselines[1]) == 0 || len(repo.baselines[2]) == 0 {
		t.Fatalf("expected both versions retained, got %v", repo.baselines)
	}

	baseline := repo.baselines[1][0]
	if baseline.Mean != 110 {
		t.Fatalf("baseline mean = %g, want 110", baseline.Mean)
	}
	if len(baseline.Cuts) != drift.DecileBins-1 {
		t.Fatalf("cuts = %d, want %d", len(baseline.Cuts), drift.DecileBins-1)
	}
	if baseline.SampleSize != 3 {
		t.Fatalf("sample size = %d, want 3", baseline.SampleSize)
	}
}

func TestMeasureWithoutBaseline(t *testing.T) {
	t.Parallel()

	svc := newDriftService(newStubDriftRepo(), time.Now())

	_, _, err := svc.Measure(context.Background(), nil)
	if !errors.Is(err, ErrNoBaseline) {
		t.Fatalf("err = %v, want ErrNoBaseline", err)
	}
}

func TestMeasureMeanShiftThresholdInclusive(t *testing.T) {
	t.Parallel()

	repo := newStubDriftRepo()
	if err := repo.SaveBaselines(context.Background(), []drift.Baseline{{
		Version: 1,
		Metric:  "pts",
		Mean:    10,
		StdDev:  1,
		Cuts:    []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Seasons: []int{2022, 2023},
	}}); err != nil {
		t.Fatalf("seed baseline: %v", err)
	}
	svc := newDriftService(repo, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))

	november := time.Date(2024, time.November, 10, 0, 0, 0, 0, time.UTC)
	december := time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC)
	rows := []teamgame.TeamGame{
		// Exactly three baseline standard deviations above the mean.
		driftRow("g1", 2024, november, 13),
		driftRow("g2", 2024, november, 13),
		// Two standard deviations: below the cutoff.
		driftRow("g3", 2024, december, 12),
		driftRow("g4", 2024, december, 12),
	}
	// Imputed values never feed drift statistics.
	outlier := driftRow("g5", 2024, november, 1000)
	outlier.MarkImputed("pts")
	rows = append(rows, outlier)

	version, count, err := svc.Measure(context.Background(), rows)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if version != 1 || count != 2 {
		t.Fatalf("version = %d count = %d, want 1 and 2", version, count)
	}

	nov := repo.observations[observationKey{month: "2024-11", metric: "pts"}]
	if nov.SampleSize != 2 {
		t.Fatalf("november sample = %d, want 2 with the imputed row excluded", nov.SampleSize)
	}
	if nov.MeanShift == nil || *nov.MeanShift != 3 {
		t.Fatalf("november shift = %v, want 3", nov.MeanShift)
	}
	if !nov.MajorShift {
		t.Fatalf("shift of exactly 3 not flagged major")
	}

	dec := repo.observations[observationKey{month: "2024-12", metric: "pts"}]
	if dec.MeanShift == nil || *dec.MeanShift != 2 {
		t.Fatalf("december shift = %v, want 2", dec.MeanShift)
	}
	if dec.MajorShift {
		t.Fatalf("shift of 2 flagged major")
	}
}

func TestMeasureIdempotentByMonthAndMetric(t *testing.T) {
	t.Parallel()

	repo := newStubDriftRepo()
	if err := repo.SaveBaselines(context.Background(), []drift.Baseline{{
		Version: 1,
		Metric:  "pts",
		Mean:    10,
		StdDev:  2,
		Cuts:    []float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Seasons: []int{2022, 2023},
	}}); err != nil {
		t.Fatalf("seed baseline: %v", err)
	}
	svc := newDriftService(repo, time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC))

	rows := []teamgame.TeamGame{
		driftRow("g1", 2024, time.Date(2024, time.November, 10, 0, 0, 0, 0, time.UTC), 12),
	}
	for i := 0; i < 2; i++ {
		if _, _, err := svc.Measure(context.Background(), rows); err != nil {
			t.Fatalf("Measure pass %d: %v", i+1, err)
		}
	}
	if len(repo.observations) != 1 {
		t.Fatalf("observations = %d, want 1 after repeated measurement", len(repo.observations))
	}
}
