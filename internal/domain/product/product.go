package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Validation errors surfaced to the product form.
var (
	ErrNameRequired      = errors.New("name is required")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrNegativeQuantity  = errors.New("quantity must not be negative")
	ErrNegativeThreshold = errors.New("low stock threshold must not be negative")
)

// Product represents a stocked inventory item. Quantity is never negative;
// it is mutated only by admin edits and order placement.
type Product struct {
	ID                string
	Name              string
	Price             decimal.Decimal
	Quantity          int
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the field-level constraints enforced on create and update.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if p.LowStockThreshold < 0 {
		return ErrNegativeThreshold
	}
	return nil
}

// LowStock reports whether the product is at or below its alert threshold.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// Repository defines persistence operations for products.
//
// GetForUpdate acquires a row lock and must run inside a transaction; the
// order workflow uses it to serialize concurrent stock decrements for the
// same product.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetForUpdate(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, by int) error
	ListLowStock(ctx context.Context) ([]Product, error)
}
