package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/stockroom/internal/domain/product"
)

const (
	productColumns = `id, name, price, quantity, low_stock_threshold, created_at, updated_at`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products ORDER BY name, id`

	getProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	getProductForUpdateSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	createProductSQL = `INSERT INTO products (id, name, price, quantity, low_stock_threshold)
		VALUES ($1, $2, $3, $4, $5)`

	updateProductSQL = `UPDATE products
		SET name = $2, price = $3, quantity = $4, low_stock_threshold = $5, updated_at = now()
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`

	decrementStockSQL = `UPDATE products
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`

	listLowStockSQL = `SELECT ` + productColumns + ` FROM products
		WHERE quantity <= low_stock_threshold ORDER BY name, id`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetByID returns a single product, or product.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return r.get(ctx, getProductSQL, id)
}

// GetForUpdate returns a product with its row locked. Must be called inside
// a transaction.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*product.Product, error) {
	return r.get(ctx, getProductForUpdateSQL, id)
}

func (r *ProductRepository) get(ctx context.Context, query, id string) (*product.Product, error) {
	var p product.Product
	err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Quantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "query product")
	}
	return &p, nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := conn(ctx, r.pool).Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Price, p.Quantity, p.LowStockThreshold,
	)
	if err != nil {
		return errors.Wrap(err, "insert product")
	}
	return nil
}

// Update persists field changes to an existing product, or returns
// product.ErrNotFound when the row no longer exists.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Price, p.Quantity, p.LowStockThreshold,
	)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product, or returns product.ErrNotFound.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// DecrementStock subtracts by from the product's quantity. The guard in the
// WHERE clause backs up the service-level check: a decrement below zero
// matches no rows and reports ErrNotFound rather than corrupting stock.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, by int) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, decrementStockSQL, id, by)
	if err != nil {
		return errors.Wrap(err, "decrement stock")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// ListLowStock returns products at or below their low stock threshold.
func (r *ProductRepository) ListLowStock(ctx context.Context) ([]product.Product, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listLowStockSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query low stock products")
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]product.Product, error) {
	var out []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.Quantity, &p.LowStockThreshold, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate products")
	}
	return out, nil
}
