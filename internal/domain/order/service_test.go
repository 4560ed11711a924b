package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/product"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	mu     sync.Mutex
	orders []*Order
	err    error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
	return m.err
}

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

// --- Tests ---

func TestProcess(t *testing.T) {
	tests := []struct {
		name        string
		req         Request
		wantPrice   decimal.Decimal
		wantProduct string
	}{
		{
			name:        "diesel bulk with mega10",
			req:         Request{Customer: "TransLog", Product: "diesel", Quantity: 1200, Coupon: "MEGA10"},
			wantPrice:   d("3878"),
			wantProduct: "diesel",
		},
		{
			name:        "gasoline bulk without coupon",
			req:         Request{Customer: "MoveMais", Product: "gasolina", Quantity: 300},
			wantPrice:   d("1457"),
			wantProduct: "gasolina",
		},
		{
			// 179.50 * 0.95 = 170.525 -> truncated
			name:        "ethanol with novo5 truncates",
			req:         Request{Customer: "EcoFrota", Product: "etanol", Quantity: 50, Coupon: "NOVO5"},
			wantPrice:   d("170.52"),
			wantProduct: "etanol",
		},
		{
			name:        "lubricant with lub2",
			req:         Request{Customer: "PetroPark", Product: "lubrificante", Quantity: 12, Coupon: "LUB2"},
			wantPrice:   d("298"),
			wantProduct: "lubrificante",
		},
		{
			name:        "lub2 on diesel is ignored",
			req:         Request{Customer: "TransLog", Product: "diesel", Quantity: 100, Coupon: "LUB2"},
			wantPrice:   d("399"),
			wantProduct: "diesel",
		},
		{
			name:        "english alias resolves to canonical code",
			req:         Request{Customer: "MoveMais", Product: "Gasoline", Quantity: 10},
			wantPrice:   d("51.90"),
			wantProduct: "gasolina",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, nil)

			got := svc.Process(context.Background(), tt.req)

			require.True(t, got.Success, got.Message)
			assert.True(t, tt.wantPrice.Equal(got.Price), "expected %s, got %s", tt.wantPrice, got.Price)
			assert.Equal(t, tt.wantProduct, got.Product)
			assert.Equal(t, tt.req.Customer, got.Customer)
			assert.Equal(t, tt.req.Quantity, got.Quantity)
			assert.Equal(t, "order processed", got.Message)
			assert.Empty(t, got.Reason)
			assert.NoError(t, got.Err)
			assert.NotEmpty(t, got.ID)
			assert.Empty(t, got.Warnings)
			assert.Zero(t, svc.GuardTrips())
		})
	}
}

func TestProcess_InvalidQuantity(t *testing.T) {
	svc := newTestService(t, nil)

	for _, qty := range []int{0, -5} {
		got := svc.Process(context.Background(), Request{Customer: "c", Product: "diesel", Quantity: qty})

		assert.False(t, got.Success)
		assert.True(t, got.Price.IsZero())
		assert.Equal(t, ReasonInvalidQuantity, got.Reason)
		assert.Contains(t, got.Message, "quantity")
		require.ErrorIs(t, got.Err, ErrInvalidQuantity)

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, got.Err, &iqErr)
		assert.Equal(t, qty, iqErr.Quantity)
	}
}

func TestProcess_InvalidProduct(t *testing.T) {
	svc := newTestService(t, nil)

	got := svc.Process(context.Background(), Request{Customer: "c", Product: "unknown", Quantity: 10})

	assert.False(t, got.Success)
	assert.True(t, got.Price.IsZero())
	assert.Equal(t, ReasonInvalidProduct, got.Reason)
	assert.Contains(t, got.Message, "unknown product")
	assert.Equal(t, "unknown", got.Product)

	var ipErr *InvalidProductError
	require.ErrorAs(t, got.Err, &ipErr)
	assert.Equal(t, "unknown", ipErr.Code)
}

func TestProcess_InvalidProductCheckedBeforeQuantity(t *testing.T) {
	svc := newTestService(t, nil)

	got := svc.Process(context.Background(), Request{Product: "", Quantity: 0})
	assert.Equal(t, ReasonInvalidProduct, got.Reason)
}

func TestProcess_UnknownCouponDegrades(t *testing.T) {
	svc := newTestService(t, nil)

	got := svc.Process(context.Background(), Request{Customer: "c", Product: "diesel", Quantity: 100, Coupon: "BOGUS"})

	require.True(t, got.Success)
	assert.True(t, d("399").Equal(got.Price))
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "BOGUS")
}

func TestProcess_CalculatorFailure(t *testing.T) {
	svc := newTestService(t, nil)
	calcErr := errors.New("no rule")
	svc.calculate = func(product.Type, int) (decimal.Decimal, error) {
		return decimal.Zero, calcErr
	}

	got := svc.Process(context.Background(), Request{Product: "etanol", Quantity: 1})

	assert.False(t, got.Success)
	assert.True(t, got.Price.IsZero())
	assert.Equal(t, ReasonUnknownProduct, got.Reason)
	require.ErrorIs(t, got.Err, calcErr)

	var upErr *UnknownProductError
	require.ErrorAs(t, got.Err, &upErr)
	assert.Equal(t, product.Ethanol, upErr.Product)
}

func TestProcess_NegativePriceGuard(t *testing.T) {
	svc := newTestService(t, nil)
	svc.calculate = func(product.Type, int) (decimal.Decimal, error) {
		return d("-50"), nil
	}

	got := svc.Process(context.Background(), Request{Product: "gasolina", Quantity: 1, Coupon: "MEGA10"})

	require.True(t, got.Success)
	assert.True(t, got.Price.IsZero())
	assert.Equal(t, int64(1), svc.GuardTrips())
}

func TestProcess_GuardNeverTripsUnderRuleTable(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	for _, p := range product.All() {
		for _, c := range append(coupon.All(), coupon.None) {
			for _, qty := range []int{1, 2, 80, 81, 200, 201, 500, 501, 1000, 1001, 5000} {
				got := svc.Process(ctx, Request{Product: p.Type.Code(), Quantity: qty, Coupon: c.Code()})
				require.True(t, got.Success)
				require.False(t, got.Price.IsNegative(), "%s x %d with %s", p.Type, qty, c)
			}
		}
	}
	assert.Zero(t, svc.GuardTrips())
}

func TestProcess_RecordsHistory(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService(t, repo)
	fixedNow := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixedNow }

	got := svc.Process(context.Background(), Request{Customer: "PetroPark", Product: "lubrificante", Quantity: 12, Coupon: "LUB2"})
	require.True(t, got.Success)

	require.Len(t, repo.orders, 1)
	o := repo.orders[0]
	assert.Equal(t, got.ID, o.ID)
	assert.Equal(t, product.Lubricant, o.Product)
	assert.Equal(t, coupon.Lub2, o.Coupon)
	assert.True(t, o.HasCoupon())
	assert.True(t, d("298").Equal(o.Price))
	assert.Equal(t, fixedNow, o.CreatedAt)
}

func TestProcess_HistoryErrorDoesNotFailOrder(t *testing.T) {
	repo := &mockOrderRepo{err: errors.New("db write failed")}
	svc := newTestService(t, repo)

	got := svc.Process(context.Background(), Request{Product: "diesel", Quantity: 1})

	require.True(t, got.Success)
	assert.Len(t, repo.orders, 1)
}

func TestProcess_FailedOrdersNotRecorded(t *testing.T) {
	repo := &mockOrderRepo{}
	svc := newTestService(t, repo)

	svc.Process(context.Background(), Request{Product: "diesel", Quantity: 0})
	svc.Process(context.Background(), Request{Product: "nope", Quantity: 1})

	assert.Empty(t, repo.orders)
}

func TestProcessBatch(t *testing.T) {
	svc, err := NewService(nil, WithBatchConcurrency(2))
	require.NoError(t, err)

	reqs := []Request{
		{Customer: "TransLog", Product: "diesel", Quantity: 1200, Coupon: "MEGA10"},
		{Customer: "MoveMais", Product: "gasolina", Quantity: 300},
		{Customer: "EcoFrota", Product: "etanol", Quantity: 50, Coupon: "NOVO5"},
		{Customer: "PetroPark", Product: "lubrificante", Quantity: 12, Coupon: "LUB2"},
		{Customer: "Broken", Product: "querosene", Quantity: 1},
	}

	got := svc.ProcessBatch(context.Background(), reqs)

	require.Len(t, got.Results, len(reqs))
	for i, r := range got.Results {
		assert.Equal(t, reqs[i].Customer, r.Customer, "result %d out of order", i)
	}
	assert.Equal(t, 4, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	// 3878 + 1457 + 170.52 + 298
	assert.True(t, d("5803.52").Equal(got.Total), "got %s", got.Total)
}

func TestProcessBatch_Empty(t *testing.T) {
	svc := newTestService(t, nil)

	got := svc.ProcessBatch(context.Background(), nil)

	assert.Empty(t, got.Results)
	assert.True(t, got.Total.IsZero())
}

func TestNewOrder(t *testing.T) {
	o, err := NewOrder("c", product.Diesel, 1, coupon.None)
	require.NoError(t, err)
	assert.False(t, o.HasCoupon())

	_, err = NewOrder("c", product.Diesel, 0, coupon.None)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
