package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusConfirmed, OrderStatusInProgress, true},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusShipped, true},
		{OrderStatusInProgress, OrderStatusCancelled, true},
		{OrderStatusInProgress, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestDeliveryCosts(t *testing.T) {
	assert.Equal(t, int64(500), DeliveryCourier.Cost())
	assert.Equal(t, int64(0), DeliveryPickup.Cost())
	assert.Equal(t, int64(300), DeliveryPost.Cost())
}

func TestSubscriptionDiscounts(t *testing.T) {
	assert.Equal(t, int64(0), SubscriptionFree.DiscountPercent())
	assert.Equal(t, int64(10), SubscriptionPremium.DiscountPercent())
	assert.Equal(t, int64(20), SubscriptionPro.DiscountPercent())
}

func TestProfileTierRequiresActiveSubscription(t *testing.T) {
	p := Profile{Subscription: SubscriptionPro, SubscriptionActive: false}
	assert.Equal(t, SubscriptionFree, p.Tier())
	assert.False(t, p.IsPremium())

	p.SubscriptionActive = true
	assert.Equal(t, SubscriptionPro, p.Tier())
	assert.True(t, p.IsPremium())
}

func TestProductPriceForTier(t *testing.T) {
	p := Product{BasePrice: 765, PremiumPrice: 650, ProPrice: 550}
	assert.Equal(t, int64(765), p.PriceFor(SubscriptionFree))
	assert.Equal(t, int64(650), p.PriceFor(SubscriptionPremium))
	assert.Equal(t, int64(550), p.PriceFor(SubscriptionPro))
}
