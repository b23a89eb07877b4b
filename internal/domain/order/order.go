package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a placed order. Orders are immutable once created.
type Order struct {
	ID        string
	ProductID string
	UserID    string
	Quantity  int
	OrderDate time.Time
}

// DayOrder is an order row joined with its product and user, as used by the
// daily export.
type DayOrder struct {
	OrderID     string
	ProductName string
	Username    string
	Quantity    int
	UnitPrice   decimal.Decimal
	OrderDate   time.Time
}

// Repository defines persistence operations for orders.
//
// DailyTotals returns the order count and revenue (quantity times unit
// price) for all orders placed on the given calendar day.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	ListByDay(ctx context.Context, day time.Time) ([]DayOrder, error)
	DailyTotals(ctx context.Context, day time.Time) (count int, sales decimal.Decimal, err error)
}
