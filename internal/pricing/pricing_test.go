package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/product"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		product product.Type
		qty     int
		want    decimal.Decimal
	}{
		{name: "diesel no tier", product: product.Diesel, qty: 100, want: d("399.00")},
		{name: "diesel at 500 no tier", product: product.Diesel, qty: 500, want: d("1995.00")},
		{name: "diesel above 500 takes 5%", product: product.Diesel, qty: 600, want: d("2274.30")},
		{name: "diesel at 1000 takes 5%", product: product.Diesel, qty: 1000, want: d("3790.50")},
		{name: "diesel above 1000 takes 10%", product: product.Diesel, qty: 1200, want: d("4309.20")},
		{name: "gasoline at 200 no rebate", product: product.Gasoline, qty: 200, want: d("1038.00")},
		{name: "gasoline above 200 minus 100", product: product.Gasoline, qty: 300, want: d("1457.00")},
		{name: "ethanol at 80 no tier", product: product.Ethanol, qty: 80, want: d("287.20")},
		// 359 * 0.97 = 348.23
		{name: "ethanol above 80 takes 3%", product: product.Ethanol, qty: 100, want: d("348.23")},
		{name: "lubricant flat", product: product.Lubricant, qty: 12, want: d("300")},
		{name: "lubricant large volume flat", product: product.Lubricant, qty: 5000, want: d("125000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.product, tt.qty)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestCalculate_UnknownProduct(t *testing.T) {
	for _, p := range []product.Type{0, 42} {
		got, err := Calculate(p, 10)
		require.ErrorIs(t, err, ErrUnknownProduct)
		assert.True(t, got.IsZero())
	}
}

// The negative price guard in the order pipeline relies on this: no rule in
// the table may produce a negative base price for a positive quantity.
func TestCalculate_NeverNegative(t *testing.T) {
	for _, p := range product.All() {
		for qty := 1; qty <= 3000; qty++ {
			got, err := Calculate(p.Type, qty)
			require.NoError(t, err)
			require.False(t, got.IsNegative(), "%s x %d = %s", p.Type, qty, got)
		}
	}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name    string
		price   decimal.Decimal
		product product.Type
		coupon  coupon.Type
		want    decimal.Decimal
	}{
		{name: "mega10 on diesel", price: d("4309.20"), product: product.Diesel, coupon: coupon.Mega10, want: d("3878.28")},
		{name: "mega10 on ethanol", price: d("100"), product: product.Ethanol, coupon: coupon.Mega10, want: d("90")},
		{name: "novo5 on ethanol", price: d("179.50"), product: product.Ethanol, coupon: coupon.Novo5, want: d("170.525")},
		{name: "novo5 on lubricant", price: d("300"), product: product.Lubricant, coupon: coupon.Novo5, want: d("285")},
		{name: "lub2 on lubricant", price: d("300"), product: product.Lubricant, coupon: coupon.Lub2, want: d("298")},
		{name: "lub2 on diesel ignored", price: d("399"), product: product.Diesel, coupon: coupon.Lub2, want: d("399")},
		{name: "lub2 on gasoline ignored", price: d("1457"), product: product.Gasoline, coupon: coupon.Lub2, want: d("1457")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyDiscount(tt.price, tt.product, 1, tt.coupon)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestApplyDiscount_NoCouponIsIdentity(t *testing.T) {
	prices := []decimal.Decimal{d("0"), d("0.01"), d("399"), d("1234.5678")}
	for _, p := range product.All() {
		for _, qty := range []int{1, 80, 201, 1001} {
			for _, price := range prices {
				got := ApplyDiscount(price, p.Type, qty, coupon.None)
				assert.True(t, price.Equal(got), "%s x %d: %s != %s", p.Type, qty, price, got)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		price   decimal.Decimal
		product product.Type
		want    decimal.Decimal
	}{
		{name: "diesel rounds to units", price: d("1234.5678"), product: product.Diesel, want: d("1235")},
		{name: "diesel half to even down", price: d("2.5"), product: product.Diesel, want: d("2")},
		{name: "diesel half to even up", price: d("3.5"), product: product.Diesel, want: d("4")},
		{name: "diesel e2e value", price: d("3878.28"), product: product.Diesel, want: d("3878")},
		{name: "gasoline rounds to cents", price: d("1234.56789"), product: product.Gasoline, want: d("1234.57")},
		{name: "gasoline half to even", price: d("0.125"), product: product.Gasoline, want: d("0.12")},
		{name: "ethanol truncates", price: d("1234.5678"), product: product.Ethanol, want: d("1234.56")},
		{name: "ethanol truncates .xx9", price: d("170.529"), product: product.Ethanol, want: d("170.52")},
		{name: "lubricant truncates", price: d("298.999"), product: product.Lubricant, want: d("298.99")},
		{name: "lubricant whole stays", price: d("298"), product: product.Lubricant, want: d("298")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.price, tt.product)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestNormalize_TruncationDiffersFromRounding(t *testing.T) {
	price := d("1234.5678")
	gas := Normalize(price, product.Gasoline)
	eth := Normalize(price, product.Ethanol)

	assert.True(t, d("1234.57").Equal(gas))
	assert.True(t, d("1234.56").Equal(eth))
	assert.False(t, gas.Equal(eth))
}

func TestFloorAtZero(t *testing.T) {
	assert.True(t, FloorAtZero(d("-0.01")).IsZero())
	assert.True(t, d("5").Equal(FloorAtZero(d("5"))))
}

func TestOutsideCatalogTypes(t *testing.T) {
	price := d("1234.5678")

	_, err := Calculate(product.Type(99), 10)
	require.ErrorIs(t, err, ErrUnknownProduct)

	assert.True(t, price.Equal(Normalize(price, product.Type(99))))
	assert.True(t, price.Equal(Normalize(price, product.Type(0))))
	assert.True(t, price.Equal(ApplyDiscount(price, product.Lubricant, 1, coupon.Type(99))))
}
