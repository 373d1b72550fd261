package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/courtledger/courtledger/internal/domain/runreport"
)

type RunReportRepository struct {
	db *sqlx.DB
}

func NewRunReportRepository(db *sqlx.DB) *RunReportRepository {
	return &RunReportRepository{db: db}
}

type runSummaryTableModel struct {
	RunID       string    `db:"run_id"`
	StartedAt   time.Time `db:"started_at"`
	FinishedAt  time.Time `db:"finished_at"`
	Publishable bool      `db:"publishable"`
	Payload     []byte    `db:"payload"`
}

func (r *RunReportRepository) Save(ctx context.Context, summary runreport.Summary) error {
	payload, err := sonic.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode run summary %s: %w", summary.RunID, err)
	}

	const insert = `INSERT INTO run_summary (run_id, started_at, finished_at, publishable, payload)
VALUES (:run_id, :started_at, :finished_at, :publishable, :payload)
ON CONFLICT (run_id)
DO UPDATE SET
	finished_at = EXCLUDED.finished_at,
	publishable = EXCLUDED.publishable,
	payload = EXCLUDED.payload`
	model := runSummaryTableModel{
		RunID:       summary.RunID,
		StartedAt:   summary.StartedAt,
		FinishedAt:  summary.FinishedAt,
		Publishable: summary.Publishable,
		Payload:     payload,
	}
	if _, err := r.db.NamedExecContext(ctx, insert, model); err != nil {
		return fmt.Errorf("insert run summary %s: %w", summary.RunID, err)
	}
	return nil
}

func (r *RunReportRepository) Latest(ctx context.Context) (runreport.Summary, bool, error) {
	const query = `SELECT run_id, started_at, finished_at, publishable, payload
FROM run_summary
ORDER BY started_at DESC
LIMIT 1`

	var row runSummaryTableModel
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return runreport.Summary{}, false, nil
		}
		return runreport.Summary{}, false, fmt.Errorf("select latest run summary: %w", err)
	}

	var summary runreport.Summary
	if err := sonic.Unmarshal(row.Payload, &summary); err != nil {
		return runreport.Summary{}, false, fmt.Errorf("decode run summary %s: %w", row.RunID, err)
	}
	return summary, true, nil
}
