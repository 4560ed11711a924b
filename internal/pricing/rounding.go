package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/petrobahia/internal/domain/product"
)

// Normalize produces the final price of an order.
//
// Diesel rounds half-to-even to whole units and gasoline rounds half-to-even
// to cents. Ethanol and lubricant truncate to cents, which is a separate
// policy and must stay separate from gasoline's.
//
// A type outside the catalog cannot reach Normalize through the pipeline,
// since Calculate rejects it with ErrUnknownProduct first. Called directly
// with one, Normalize returns price unchanged.
func Normalize(price decimal.Decimal, p product.Type) decimal.Decimal {
	switch p {
	case product.Diesel:
		return price.RoundBank(0)
	case product.Gasoline:
		return price.RoundBank(centsExponent)
	case product.Ethanol, product.Lubricant:
		return price.Truncate(centsExponent)
	default:
		return price
	}
}

// FloorAtZero clamps negative values to zero.
func FloorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
