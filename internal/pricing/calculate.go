package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/petrobahia/internal/domain/product"
)

// ErrUnknownProduct is returned by Calculate for a type outside the catalog.
var ErrUnknownProduct = errors.New("no pricing rule for product")

// Calculate returns the base price of qty units of p with the product's
// volume adjustment applied. Tiers are exclusive, never stacked.
// Quantity validation is the caller's job.
func Calculate(p product.Type, qty int) (decimal.Decimal, error) {
	unit, ok := product.BasePrice(p)
	if !ok {
		return zero, errors.Wrapf(ErrUnknownProduct, "%d", int(p))
	}
	price := unit.Mul(decimal.NewFromInt(int64(qty)))

	switch p {
	case product.Diesel:
		switch {
		case qty > dieselTier2:
			price = price.Mul(pct90)
		case qty > dieselTier1:
			price = price.Mul(pct95)
		}
	case product.Gasoline:
		if qty > gasolineTier {
			price = price.Sub(gasolineBulkRebate)
		}
	case product.Ethanol:
		if qty > ethanolTier {
			price = price.Mul(pct97)
		}
	case product.Lubricant:
	default:
		return zero, errors.Wrapf(ErrUnknownProduct, "%s", p)
	}

	return price, nil
}
