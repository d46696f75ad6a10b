package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item (horse feed, supplements, care goods).
// Prices are whole rubles; premium/pro prices apply to active subscribers.
type Product struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Specs        string
	Unit         Unit
	BasePrice    int64
	PremiumPrice int64
	ProPrice     int64
	ImageURL     string
	Stock        int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PriceFor returns the unit price for a subscription tier.
func (p Product) PriceFor(tier Subscription) int64 {
	switch tier {
	case SubscriptionPro:
		return p.ProPrice
	case SubscriptionPremium:
		return p.PremiumPrice
	default:
		return p.BasePrice
	}
}

// Cart holds a shopper's pending items, one line per product
type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Find returns the line for a product, or nil when absent
func (c *Cart) Find(productID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// TotalItems is the summed quantity across all lines
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// CartItem is one cart line. Price is the per-unit price captured for the
// shopper's tier at the last read; OriginalPrice is the base price and
// SubscriptionPrice the pro price, kept for savings display.
type CartItem struct {
	ProductID         uuid.UUID
	Name              string
	Specs             string
	Unit              Unit
	Price             int64
	OriginalPrice     int64
	PremiumPrice      int64
	SubscriptionPrice int64
	Quantity          int
	ImageURL          string
	AddedAt           time.Time
}

// TotalPrice is price times quantity for the line
func (i CartItem) TotalPrice() int64 {
	return i.Price * int64(i.Quantity)
}

// Order is an immutable snapshot created at checkout submission
type Order struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	OrderNumber string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	DeliveryCity      string
	DeliveryStreet    string
	DeliveryHouse     string
	DeliveryApartment string
	DeliveryIndex     string

	DeliveryMethod DeliveryMethod
	PaymentMethod  PaymentMethod

	Subtotal     int64
	Discount     int64
	DeliveryCost int64
	AssemblyCost int64
	Total        int64

	Status              OrderStatus
	PromoCode           string
	SubscriptionApplied Subscription
	SubscriptionSavings int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is one line of an order, priced as it was in the cart
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Price     int64
	Quantity  int
	CreatedAt time.Time
}

// User is an account that can log in
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsStaff      bool
	CreatedAt    time.Time
}

// FullName falls back to the username when names are not set
func (u User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// Address is the saved delivery address on a profile
type Address struct {
	City      string
	Street    string
	House     string
	Apartment string
	Index     string
}

// Profile carries shopper data beyond the account: subscription tier,
// saved address and delivery/payment preferences used to pre-fill checkout
type Profile struct {
	UserID             uuid.UUID
	Phone              string
	Subscription       Subscription
	SubscriptionActive bool
	Address            Address
	PreferredDelivery  DeliveryMethod
	PreferredPayment   PaymentMethod
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Tier returns the effective subscription: paid tiers count only while active
func (p Profile) Tier() Subscription {
	if p.SubscriptionActive && (p.Subscription == SubscriptionPremium || p.Subscription == SubscriptionPro) {
		return p.Subscription
	}
	return SubscriptionFree
}

// IsPremium reports whether the shopper has an active paid subscription
func (p Profile) IsPremium() bool {
	return p.Tier() != SubscriptionFree
}

// Horse belongs to a shopper's profile
type Horse struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Breed       string
	Age         int
	Color       string
	Description string
	CreatedAt   time.Time
}

// IdempotencyKey records a checkout submission so a retry with the same
// key returns the already-created order
type IdempotencyKey struct {
	Key       string
	UserID    uuid.UUID
	OrderID   uuid.UUID
	CreatedAt time.Time
}

// OrderEvent is an audit record for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}
