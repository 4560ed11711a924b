package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/product"
)

// ApplyDiscount applies coupon c to price. coupon.None returns price as is.
// LUB2 only discounts lubricant orders; on any other product it is ignored.
// The quantity argument is unused by the current coupons. Values outside
// the coupon set are never produced by coupon.Parse and discount nothing.
func ApplyDiscount(price decimal.Decimal, p product.Type, _ int, c coupon.Type) decimal.Decimal {
	switch c {
	case coupon.None:
		return price
	case coupon.Mega10:
		return price.Mul(pct90)
	case coupon.Novo5:
		return price.Mul(pct95)
	case coupon.Lub2:
		if p == product.Lubricant {
			return price.Sub(lub2Rebate)
		}
		return price
	default:
		return price
	}
}
