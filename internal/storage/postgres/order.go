package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/order"
	"github.com/xenking/petrobahia/internal/domain/product"
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

// Create persists a completed order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO orders (id, customer, product, quantity, coupon_code, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.Customer, o.Product.Code(), o.Quantity, o.Coupon.Code(), o.Price, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "creating order %q", o.ID)
	}
	return nil
}

// ListByCustomer returns the orders of customer, newest first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customer string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, customer, product, quantity, coupon_code, price, created_at
		 FROM orders WHERE customer = $1 ORDER BY created_at DESC`,
		customer,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "listing orders of %q", customer)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var (
			o           order.Order
			productCode string
			couponCode  string
			price       decimal.Decimal
		)
		if err := rows.Scan(&o.ID, &o.Customer, &productCode, &o.Quantity, &couponCode, &price, &o.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning order row")
		}
		if o.Product, err = product.Parse(productCode); err != nil {
			return nil, errors.Wrapf(err, "order %q", o.ID)
		}
		o.Coupon, _ = coupon.Parse(couponCode)
		o.Price = price
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating order rows")
	}
	return out, nil
}
