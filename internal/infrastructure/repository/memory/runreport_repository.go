package memory

import (
	"context"
	"sync"

	"github.com/courtledger/courtledger/internal/domain/runreport"
)

type RunReportRepository struct {
	mu      sync.RWMutex
	summary []runreport.Summary
}

func NewRunReportRepository() *RunReportRepository {
	return &RunReportRepository{}
}

func (r *RunReportRepository) Save(_ context.Context, summary runreport.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary = append(r.summary, summary)
	return nil
}

func (r *RunReportRepository) Latest(_ context.Context) (runreport.Summary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.summary) == 0 {
		return runreport.Summary{}, false, nil
	}
	return r.summary[len(r.summary)-1], true, nil
}
