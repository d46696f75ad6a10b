package pricing

import "github.com/akzshop/storeapi/internal/domain"

// ItemSavings is the tier saving on one cart line
type ItemSavings struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Savings  int64  `json:"savings"`
}

// SavingsReport summarizes what a subscriber saves against base prices,
// and what a premium subscriber would additionally save on the pro tier
type SavingsReport struct {
	TotalSavings     int64         `json:"total_savings"`
	PotentialSavings int64         `json:"potential_savings"`
	Items            []ItemSavings `json:"items"`
}

// Savings compares each line's captured price against its base price.
// For premium shoppers it also accumulates the further saving the pro
// tier would give, used for the upgrade offer.
func Savings(items []domain.CartItem, tier domain.Subscription) SavingsReport {
	report := SavingsReport{}

	for _, item := range items {
		if item.OriginalPrice <= 0 || item.OriginalPrice <= item.Price {
			continue
		}

		saved := (item.OriginalPrice - item.Price) * int64(item.Quantity)
		report.TotalSavings += saved
		report.Items = append(report.Items, ItemSavings{
			Name:     item.Name,
			Quantity: item.Quantity,
			Savings:  saved,
		})

		if tier == domain.SubscriptionPremium && item.SubscriptionPrice > 0 && item.SubscriptionPrice < item.Price {
			report.PotentialSavings += (item.Price - item.SubscriptionPrice) * int64(item.Quantity)
		}
	}

	return report
}
