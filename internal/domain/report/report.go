package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Report is an immutable daily sales snapshot. Repeated generation for the
// same date produces separate rows; there is no dedup on report date.
type Report struct {
	ID          string
	ReportDate  time.Time
	TotalOrders int
	TotalSales  decimal.Decimal
	CreatedAt   time.Time
}

// Repository defines persistence operations for report snapshots.
type Repository interface {
	Create(ctx context.Context, r *Report) error
	List(ctx context.Context) ([]Report, error)
}
