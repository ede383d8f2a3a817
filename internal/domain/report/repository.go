package report

import (
	"context"
)

// Repository defines data access methods for monthly reports.
type Repository interface {
	// Upsert writes the report for (employee, month, year), overwriting any
	// prior total. Upsert is what makes aggregation idempotent.
	Upsert(ctx context.Context, rep MonthlyReport) error

	// List retrieves reports for a period with pagination.
	List(ctx context.Context, filter Filter) ([]MonthlyReport, int64, error)
}
