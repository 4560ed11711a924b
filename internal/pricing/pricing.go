// Package pricing implements the three pricing stages of an order: volume
// pricing, coupon discount and per-product rounding. Every function is pure
// and safe for concurrent use.
package pricing

import "github.com/shopspring/decimal"

var (
	zero = decimal.Zero

	pct90 = decimal.RequireFromString("0.90")
	pct95 = decimal.RequireFromString("0.95")
	pct97 = decimal.RequireFromString("0.97")

	gasolineBulkRebate = decimal.NewFromInt(100)
	lub2Rebate         = decimal.RequireFromString("2.00")
)

// Volume thresholds. A tier applies only when the quantity is strictly
// greater than its threshold.
const (
	dieselTier1   = 500
	dieselTier2   = 1000
	gasolineTier  = 200
	ethanolTier   = 80
	centsExponent = 2
)
