package product

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrUnknown is returned when a product code does not map to a Type.
var ErrUnknown = errors.New("unknown product")

// Type enumerates the products the distributor sells. Each type selects its
// own volume pricing and rounding rules.
type Type int

const (
	Diesel Type = iota + 1
	Gasoline
	Ethanol
	Lubricant
)

// Code returns the canonical wire code of the product.
func (t Type) Code() string {
	switch t {
	case Diesel:
		return "diesel"
	case Gasoline:
		return "gasolina"
	case Ethanol:
		return "etanol"
	case Lubricant:
		return "lubrificante"
	default:
		return "unknown"
	}
}

func (t Type) String() string {
	return t.Code()
}

// Valid reports whether t is one of the catalog products.
func (t Type) Valid() bool {
	return t >= Diesel && t <= Lubricant
}

var codes = map[string]Type{
	"diesel":       Diesel,
	"gasolina":     Gasoline,
	"gasoline":     Gasoline,
	"etanol":       Ethanol,
	"ethanol":      Ethanol,
	"lubrificante": Lubricant,
	"lubricant":    Lubricant,
}

// Parse resolves a product code. Matching ignores case and surrounding
// whitespace, and accepts English aliases of the canonical codes.
func Parse(code string) (Type, error) {
	t, ok := codes[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return 0, errors.Wrapf(ErrUnknown, "%q", code)
	}
	return t, nil
}

// Base unit prices. The table is read-only after package init.
var basePrices = map[Type]decimal.Decimal{
	Diesel:    decimal.RequireFromString("3.99"),
	Gasoline:  decimal.RequireFromString("5.19"),
	Ethanol:   decimal.RequireFromString("3.59"),
	Lubricant: decimal.RequireFromString("25.00"),
}

// BasePrice returns the static unit price of t.
func BasePrice(t Type) (decimal.Decimal, bool) {
	p, ok := basePrices[t]
	return p, ok
}

// Product pairs a catalog type with its unit price for listing.
type Product struct {
	Type      Type
	BasePrice decimal.Decimal
}

// All returns the catalog in declaration order.
func All() []Product {
	out := make([]Product, 0, len(basePrices))
	for _, t := range []Type{Diesel, Gasoline, Ethanol, Lubricant} {
		out = append(out, Product{Type: t, BasePrice: basePrices[t]})
	}
	return out
}
