// Package pricing computes order totals. All amounts are whole rubles.
// The quote is derived from its inputs on every call; nothing is cached.
package pricing

import (
	"github.com/akzshop/storeapi/internal/domain"
	perrors "github.com/akzshop/storeapi/pkg/errors"
)

const (
	// Assembly is charged at 5% of the subtotal with a flat floor.
	assemblyPercent = 5
	assemblyMinimum = 100

	// Paid subscribers get free delivery from this subtotal on.
	freeDeliveryThreshold = 2000
)

// Result is the full price breakdown for a cart
type Result struct {
	Subtotal     int64 `json:"subtotal"`
	Discount     int64 `json:"discount"`
	AssemblyCost int64 `json:"assembly_cost"`
	DeliveryCost int64 `json:"delivery_cost"`
	Total        int64 `json:"total"`
}

// Quote prices a cart for a subscription tier, delivery method and promo
// code. An unknown non-empty promo code yields a valid quote with zero promo
// discount plus an *errors.ErrInvalidPromoCode so the caller can surface it.
//
// An empty cart is still quoted: subtotal and assembly are zero but the
// delivery charge stays, matching the storefront summary. Checkout refuses
// empty carts before an order can be placed.
func Quote(items []domain.CartItem, tier domain.Subscription, method domain.DeliveryMethod, promoCode string) (Result, error) {
	res := Result{}

	for _, item := range items {
		res.Subtotal += item.TotalPrice()
	}

	if res.Subtotal > 0 {
		res.AssemblyCost = assemblyCost(res.Subtotal)
	}

	res.DeliveryCost = method.Cost()
	if freeDelivery(tier, res.Subtotal) {
		res.DeliveryCost = 0
	}

	res.Discount = res.Subtotal * tier.DiscountPercent() / 100

	promoDiscount, known := promoFor(promoCode, res.Subtotal)
	res.Discount += promoDiscount

	res.Total = res.Subtotal - res.Discount + res.DeliveryCost + res.AssemblyCost
	if res.Total < 0 {
		res.Total = 0
	}

	if !known {
		return res, &perrors.ErrInvalidPromoCode{Code: promoCode}
	}
	return res, nil
}

// assemblyCost rounds 5% of the subtotal half-up and applies the floor
func assemblyCost(subtotal int64) int64 {
	cost := (subtotal*assemblyPercent + 50) / 100
	if cost < assemblyMinimum {
		return assemblyMinimum
	}
	return cost
}

func freeDelivery(tier domain.Subscription, subtotal int64) bool {
	switch tier {
	case domain.SubscriptionPremium, domain.SubscriptionPro:
		return subtotal >= freeDeliveryThreshold
	default:
		return false
	}
}
