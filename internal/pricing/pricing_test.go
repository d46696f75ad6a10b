package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akzshop/storeapi/internal/domain"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

func items(pairs ...int64) []domain.CartItem {
	// pairs are (price, quantity)
	var out []domain.CartItem
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, domain.CartItem{
			Price:    pairs[i],
			Quantity: int(pairs[i+1]),
		})
	}
	return out
}

func TestQuoteSubtotal(t *testing.T) {
	res, err := Quote(items(450, 2, 320, 1), domain.SubscriptionFree, domain.DeliveryPickup, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1220), res.Subtotal)
}

func TestQuoteAssemblyCost(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.CartItem
		assembly int64
	}{
		{"floor applies below 2000", items(1000, 1), 100},
		{"exactly at floor boundary", items(2000, 1), 100},
		{"five percent above boundary", items(5000, 1), 250},
		{"rounded half up", items(2010, 1), 101}, // 100.5 rounds up
		{"empty cart has no assembly", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Quote(tt.items, domain.SubscriptionFree, domain.DeliveryPickup, "")
			require.NoError(t, err)
			assert.Equal(t, tt.assembly, res.AssemblyCost)
		})
	}
}

func TestQuoteDeliveryCost(t *testing.T) {
	tests := []struct {
		name     string
		tier     domain.Subscription
		method   domain.DeliveryMethod
		subtotal int64 // single item price, qty 1
		want     int64
	}{
		{"courier", domain.SubscriptionFree, domain.DeliveryCourier, 1000, 500},
		{"pickup", domain.SubscriptionFree, domain.DeliveryPickup, 1000, 0},
		{"post", domain.SubscriptionFree, domain.DeliveryPost, 1000, 300},
		{"premium below threshold pays", domain.SubscriptionPremium, domain.DeliveryCourier, 1999, 500},
		{"premium at threshold free", domain.SubscriptionPremium, domain.DeliveryCourier, 2000, 0},
		{"pro at threshold free", domain.SubscriptionPro, domain.DeliveryPost, 2500, 0},
		{"free tier never free", domain.SubscriptionFree, domain.DeliveryCourier, 10000, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Quote(items(tt.subtotal, 1), tt.tier, tt.method, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.DeliveryCost)
		})
	}
}

func TestQuotePromoCodes(t *testing.T) {
	cart := items(1000, 1)

	t.Run("AKZ2024 gives ten percent", func(t *testing.T) {
		res, err := Quote(cart, domain.SubscriptionFree, domain.DeliveryPickup, "AKZ2024")
		require.NoError(t, err)
		assert.Equal(t, int64(100), res.Discount)
	})

	t.Run("FREE500 is flat regardless of subtotal", func(t *testing.T) {
		res, err := Quote(items(50, 1), domain.SubscriptionFree, domain.DeliveryPickup, "FREE500")
		require.NoError(t, err)
		assert.Equal(t, int64(500), res.Discount)
	})

	t.Run("unknown code signals but still quotes", func(t *testing.T) {
		res, err := Quote(cart, domain.SubscriptionFree, domain.DeliveryPickup, "NOPE")
		require.Error(t, err)
		var invalid *perrors.ErrInvalidPromoCode
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "NOPE", invalid.Code)
		assert.Equal(t, int64(0), res.Discount)
		assert.Equal(t, int64(1000), res.Subtotal)
	})

	t.Run("empty code no signal", func(t *testing.T) {
		res, err := Quote(cart, domain.SubscriptionFree, domain.DeliveryPickup, "")
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.Discount)
	})
}

func TestQuoteSubscriptionDiscount(t *testing.T) {
	res, err := Quote(items(1000, 1), domain.SubscriptionPremium, domain.DeliveryPickup, "")
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Discount)

	res, err = Quote(items(1000, 1), domain.SubscriptionPro, domain.DeliveryPickup, "")
	require.NoError(t, err)
	assert.Equal(t, int64(200), res.Discount)
}

func TestQuoteTotal(t *testing.T) {
	// 1000 - 100 (promo) + 500 (courier) + 100 (assembly floor)
	res, err := Quote(items(1000, 1), domain.SubscriptionFree, domain.DeliveryCourier, "AKZ2024")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.Total)
}

func TestQuoteTotalClampedAtZero(t *testing.T) {
	// 50 - 500 + 0 + 100 would be negative
	res, err := Quote(items(50, 1), domain.SubscriptionFree, domain.DeliveryPickup, "FREE500")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)
}

func TestQuoteEmptyCartStillChargesDelivery(t *testing.T) {
	res, err := Quote(nil, domain.SubscriptionFree, domain.DeliveryCourier, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Subtotal)
	assert.Equal(t, int64(0), res.AssemblyCost)
	assert.Equal(t, int64(500), res.DeliveryCost)
	assert.Equal(t, int64(500), res.Total)
}

func TestSavings(t *testing.T) {
	cart := []domain.CartItem{
		{Name: "Овёс премиум", Price: 650, OriginalPrice: 765, SubscriptionPrice: 550, Quantity: 2},
		{Name: "Солевой лизунец", Price: 320, OriginalPrice: 320, Quantity: 1},
	}

	report := Savings(cart, domain.SubscriptionPremium)
	assert.Equal(t, int64(230), report.TotalSavings)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "Овёс премиум", report.Items[0].Name)
	// premium would save another (650-550)*2 on pro
	assert.Equal(t, int64(200), report.PotentialSavings)

	proReport := Savings(cart, domain.SubscriptionPro)
	assert.Equal(t, int64(0), proReport.PotentialSavings)
}

func TestPromoMessage(t *testing.T) {
	assert.Contains(t, PromoMessage("AKZ2024"), "10%")
	assert.Contains(t, PromoMessage("FREE500"), "500")
	assert.Equal(t, "Промокод недействителен", PromoMessage("NOPE"))
}
