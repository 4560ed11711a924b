package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/product"
)

// ErrInvalidQuantity is the sentinel matched by InvalidQuantityError.
var ErrInvalidQuantity = errors.New("quantity must be greater than 0")

// InvalidQuantityError indicates an order with a non-positive quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0, got %d", e.Quantity)
}

func (e *InvalidQuantityError) Is(target error) bool {
	return target == ErrInvalidQuantity
}

// InvalidProductError indicates a product code outside the catalog.
type InvalidProductError struct {
	Code string
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("unknown product %q", e.Code)
}

// UnknownProductError indicates the price calculator has no rule for a
// parsed product. It is a terminal computation error.
type UnknownProductError struct {
	Product product.Type
	Err     error
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unsupported product %s: %v", e.Product, e.Err)
}

func (e *UnknownProductError) Unwrap() error {
	return e.Err
}

// Reason is a machine-readable failure code carried by Result.
type Reason string

const (
	ReasonInvalidProduct  Reason = "invalid_product"
	ReasonInvalidQuantity Reason = "invalid_quantity"
	ReasonUnknownProduct  Reason = "unknown_product"
)

// Request holds the raw fields of an incoming order.
type Request struct {
	Customer string
	Product  string
	Quantity int
	Coupon   string
}

// Order is a parsed, validated order. It is not mutated after NewOrder.
type Order struct {
	ID        string
	Customer  string
	Product   product.Type
	Quantity  int
	Coupon    coupon.Type
	Price     decimal.Decimal
	CreatedAt time.Time
}

// NewOrder builds an Order, rejecting non-positive quantities.
func NewOrder(customer string, p product.Type, qty int, c coupon.Type) (*Order, error) {
	if qty <= 0 {
		return nil, &InvalidQuantityError{Quantity: qty}
	}
	return &Order{
		Customer: customer,
		Product:  p,
		Quantity: qty,
		Coupon:   c,
	}, nil
}

// HasCoupon reports whether the order carries a coupon.
func (o *Order) HasCoupon() bool {
	return o.Coupon != coupon.None
}

// Result is the outcome of processing one order. Failed results carry a
// zero price, a Reason and the underlying Err.
type Result struct {
	ID       string
	Success  bool
	Customer string
	Product  string
	Quantity int
	Price    decimal.Decimal
	Message  string
	Reason   Reason
	Warnings []string
	Err      error
}

// Repository records completed orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
}
