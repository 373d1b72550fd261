package runreport

import "context"

type Repository interface {
	Save(ctx context.Context, summary Summary) error
	Latest(ctx context.Context) (Summary, bool, error)
}
