package report

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/stockroom/internal/domain/order"
)

// Service aggregates a day's orders into a persisted Report snapshot.
type Service struct {
	orders  order.Repository
	reports Repository
}

// NewService creates a report Service.
func NewService(orders order.Repository, reports Repository) *Service {
	return &Service{
		orders:  orders,
		reports: reports,
	}
}

// GenerateDaily computes the order count and revenue for the given calendar
// day, persists the snapshot, and returns it. A day with no orders yields a
// report of zeros. Each invocation adds a new row.
func (s *Service) GenerateDaily(ctx context.Context, day time.Time) (*Report, error) {
	count, sales, err := s.orders.DailyTotals(ctx, day)
	if err != nil {
		return nil, errors.Wrap(err, "daily totals")
	}

	r := &Report{
		ID:          uuid.New().String(),
		ReportDate:  day,
		TotalOrders: count,
		TotalSales:  sales,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, errors.Wrap(err, "create report")
	}
	return r, nil
}

// List returns all persisted report snapshots, newest first.
func (s *Service) List(ctx context.Context) ([]Report, error) {
	return s.reports.List(ctx)
}
