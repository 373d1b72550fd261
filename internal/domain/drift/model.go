package drift

import "time"

// DecileBins is the number of baseline-defined bins used for the population
// stability index.
const DecileBins = 10

// Baseline is one metric's reference distribution, computed over the two
// most-recently-completed regular seasons. Baselines are versioned snapshots:
// a run pins one version at start and never observes a newer one mid-run.
type Baseline struct {
	Version    int
	Metric     string
	Mean       float64
	StdDev     float64
	Cuts       []float64 // nine decile cut-points, ascending
	Seasons    []int
	SampleSize int
	ComputedAt time.Time
}

// Observation is the drift measurement for one (month, metric) against one
// baseline version. MeanShift and PSI are nil when statistically degenerate
// (zero-variance baseline, empty month).
type Observation struct {
	Month           string // "2006-01"
	Metric          string
	BaselineVersion int
	SampleSize      int
	MonthMean       float64
	MeanShift       *float64
	PSI             *float64
	MajorShift      bool
	MajorPSI        bool
	ComputedAt      time.Time
}
