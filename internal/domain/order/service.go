package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/stockroom/internal/domain/product"
)

// InvalidQuantityError indicates a non-positive requested quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0, got %d", e.Quantity)
}

// OutOfStockError indicates the product has no stock at all.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("'%s' is out of stock.", e.ProductName)
}

// InsufficientStockError indicates the request exceeds the available stock.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only %d units of '%s' are available.", e.Available, e.ProductName)
}

// TxManager runs fn inside a database transaction. Repository calls made with
// the ctx passed to fn join that transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// PlaceRequest holds the input for placing an order.
type PlaceRequest struct {
	ProductID string
	UserID    string
	Quantity  int
}

// Service implements the order placement workflow: validate the requested
// quantity against current stock, decrement inventory, and persist the order.
// The stock read locks the product row, and the decrement and insert commit
// together, so concurrent placements for the same product serialize instead
// of losing updates.
type Service struct {
	tx       TxManager
	products product.Repository
	orders   Repository
	placed   metric.Int64Counter
}

// NewService creates an order Service. meter records the number of placed
// orders; pass a noop meter in tests.
func NewService(tx TxManager, products product.Repository, orders Repository, meter metric.Meter) *Service {
	placed, _ := meter.Int64Counter("stockroom.orders.placed")
	return &Service{
		tx:       tx,
		products: products,
		orders:   orders,
		placed:   placed,
	}
}

// Place validates and persists a single order.
//
// Rejections leave both the product and the order table untouched:
//   - zero stock yields OutOfStockError,
//   - a request above the available stock yields InsufficientStockError.
//
// A request equal to the available stock is accepted and drains the product
// to zero.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if req.Quantity <= 0 {
		return nil, &InvalidQuantityError{Quantity: req.Quantity}
	}

	var placed *Order
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		p, err := s.products.GetForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		switch {
		case p.Quantity == 0:
			return &OutOfStockError{ProductName: p.Name}
		case req.Quantity > p.Quantity:
			return &InsufficientStockError{ProductName: p.Name, Available: p.Quantity}
		}

		if err := s.products.DecrementStock(ctx, p.ID, req.Quantity); err != nil {
			return errors.Wrap(err, "decrement stock")
		}

		o := &Order{
			ID:        uuid.New().String(),
			ProductID: req.ProductID,
			UserID:    req.UserID,
			Quantity:  req.Quantity,
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.placed.Add(ctx, 1)
	return placed, nil
}
