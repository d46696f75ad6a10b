package pricing

import "strings"

// promo rules are a fixed set, not user-extensible
type promoRule struct {
	percent int64 // percentage of subtotal, floored
	flat    int64 // flat amount in rubles
}

var promoCodes = map[string]promoRule{
	"AKZ2024": {percent: 10},
	"FREE500": {flat: 500},
}

// promoFor returns the discount for a code and whether the code is
// acceptable. An empty code is acceptable with zero discount; an unknown
// non-empty code is not.
func promoFor(code string, subtotal int64) (int64, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, true
	}

	rule, ok := promoCodes[code]
	if !ok {
		return 0, false
	}

	if rule.percent > 0 {
		return subtotal * rule.percent / 100, true
	}
	return rule.flat, true
}

// PromoMessage is the storefront confirmation for a known code
func PromoMessage(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "AKZ2024":
		return "Промокод применен! Скидка 10%"
	case "FREE500":
		return "Промокод применен! Скидка 500 ₽"
	default:
		return "Промокод недействителен"
	}
}
