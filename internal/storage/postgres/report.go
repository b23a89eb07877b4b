package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/stockroom/internal/domain/report"
)

const (
	createReportSQL = `INSERT INTO reports (id, report_date, total_orders, total_sales)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	listReportsSQL = `SELECT id, report_date, total_orders, total_sales, created_at
		FROM reports ORDER BY created_at DESC`
)

var _ report.Repository = (*ReportRepository)(nil)

// ReportRepository implements report.Repository backed by PostgreSQL.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a ReportRepository that uses the given pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create persists a new report snapshot.
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	err := conn(ctx, r.pool).QueryRow(ctx, createReportSQL,
		rep.ID, rep.ReportDate, rep.TotalOrders, rep.TotalSales,
	).Scan(&rep.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "insert report")
	}
	return nil
}

// List returns all report snapshots, newest first.
func (r *ReportRepository) List(ctx context.Context) ([]report.Report, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listReportsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query reports")
	}
	defer rows.Close()

	var out []report.Report
	for rows.Next() {
		var rep report.Report
		if err := rows.Scan(
			&rep.ID, &rep.ReportDate, &rep.TotalOrders, &rep.TotalSales, &rep.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan report")
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate reports")
	}
	return out, nil
}
