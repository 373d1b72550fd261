package postgres

import "time"

type baselineDistributionTableModel struct {
	Version    int       `db:"version"`
	Metric     string    `db:"metric"`
	Mean       float64   `db:"mean"`
	StdDev     float64   `db:"stddev"`
	Cuts       []byte    `db:"decile_cuts"`
	Seasons    []byte    `db:"seasons"`
	SampleSize int       `db:"sample_size"`
	ComputedAt time.Time `db:"computed_at"`
}

type driftObservationTableModel struct {
	Month           string    `db:"month"`
	Metric          string    `db:"metric"`
	BaselineVersion int       `db:"baseline_version"`
	SampleSize      int       `db:"sample_size"`
	MonthMean       float64   `db:"month_mean"`
	MeanShift       *float64  `db:"mean_shift"`
	PSI             *float64  `db:"psi"`
	MajorShift      bool      `db:"major_shift"`
	MajorPSI        bool      `db:"major_psi"`
	ComputedAt      time.Time `db:"computed_at"`
}
