package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/stockroom/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, product_id, user_id, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING order_date`

	listDayOrdersSQL = `SELECT o.id, p.name, u.username, o.quantity, p.price, o.order_date
		FROM orders o
		JOIN products p ON p.id = o.product_id
		JOIN users u ON u.id = o.user_id
		WHERE o.order_date >= $1 AND o.order_date < $2
		ORDER BY o.order_date`

	dailyTotalsSQL = `SELECT COUNT(*), COALESCE(SUM(o.quantity * p.price), 0)
		FROM orders o
		JOIN products p ON p.id = o.product_id
		WHERE o.order_date >= $1 AND o.order_date < $2`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order and fills in its database-assigned order date.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := conn(ctx, r.pool).QueryRow(ctx, createOrderSQL,
		o.ID, o.ProductID, o.UserID, o.Quantity,
	).Scan(&o.OrderDate)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

// ListByDay returns the orders placed on the given calendar day, joined with
// product and user data for export.
func (r *OrderRepository) ListByDay(ctx context.Context, day time.Time) ([]order.DayOrder, error) {
	from, to := dayBounds(day)

	rows, err := conn(ctx, r.pool).Query(ctx, listDayOrdersSQL, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "query day orders")
	}
	defer rows.Close()

	var out []order.DayOrder
	for rows.Next() {
		var o order.DayOrder
		if err := rows.Scan(
			&o.OrderID, &o.ProductName, &o.Username, &o.Quantity, &o.UnitPrice, &o.OrderDate,
		); err != nil {
			return nil, errors.Wrap(err, "scan day order")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate day orders")
	}
	return out, nil
}

// DailyTotals returns the order count and revenue for the given calendar day.
func (r *OrderRepository) DailyTotals(ctx context.Context, day time.Time) (int, decimal.Decimal, error) {
	from, to := dayBounds(day)

	var (
		count int
		sales decimal.Decimal
	)
	err := conn(ctx, r.pool).QueryRow(ctx, dailyTotalsSQL, from, to).Scan(&count, &sales)
	if err != nil {
		return 0, decimal.Zero, errors.Wrap(err, "query daily totals")
	}
	return count, sales, nil
}

func dayBounds(day time.Time) (from, to time.Time) {
	from = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.AddDate(0, 0, 1)
}
