package domain

// Subscription is a shopper's subscription tier
type Subscription string

const (
	SubscriptionFree    Subscription = "free"
	SubscriptionPremium Subscription = "premium"
	SubscriptionPro     Subscription = "pro"
)

// IsValid checks if the subscription tier is known
func (s Subscription) IsValid() bool {
	switch s {
	case SubscriptionFree, SubscriptionPremium, SubscriptionPro:
		return true
	default:
		return false
	}
}

// DiscountPercent is the checkout discount granted by the tier
func (s Subscription) DiscountPercent() int64 {
	switch s {
	case SubscriptionPro:
		return 20
	case SubscriptionPremium:
		return 10
	default:
		return 0
	}
}

// DisplayName returns the storefront name of the tier
func (s Subscription) DisplayName() string {
	switch s {
	case SubscriptionPremium:
		return "Конник"
	case SubscriptionPro:
		return "Спортсмен"
	default:
		return "Любитель"
	}
}

// DeliveryMethod is how an order is delivered
type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryPost    DeliveryMethod = "post"
)

// IsValid checks if the delivery method is known
func (m DeliveryMethod) IsValid() bool {
	switch m {
	case DeliveryCourier, DeliveryPickup, DeliveryPost:
		return true
	default:
		return false
	}
}

// Cost is the base delivery charge in rubles, before subscription benefits
func (m DeliveryMethod) Cost() int64 {
	switch m {
	case DeliveryPickup:
		return 0
	case DeliveryPost:
		return 300
	default: // courier
		return 500
	}
}

// PaymentMethod is how an order is paid
type PaymentMethod string

const (
	PaymentCard      PaymentMethod = "card"
	PaymentSBP       PaymentMethod = "sbp"
	PaymentApplePay  PaymentMethod = "applepay"
	PaymentGooglePay PaymentMethod = "googlepay"
	PaymentCash      PaymentMethod = "cash"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentSBP, PaymentApplePay, PaymentGooglePay, PaymentCash:
		return true
	default:
		return false
	}
}

// Unit is a product measurement unit
type Unit string

const (
	UnitKg    Unit = "kg"
	UnitPiece Unit = "piece"
	UnitPack  Unit = "pack"
	UnitLiter Unit = "liter"
	UnitBag   Unit = "bag"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the order status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusInProgress,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusConfirmed ||
			newStatus == OrderStatusCancelled
	case OrderStatusConfirmed:
		return newStatus == OrderStatusInProgress ||
			newStatus == OrderStatusShipped ||
			newStatus == OrderStatusCancelled
	case OrderStatusInProgress:
		return newStatus == OrderStatusShipped ||
			newStatus == OrderStatusCancelled
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// DisplayName returns the storefront label of the status
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusPending:
		return "В обработке"
	case OrderStatusConfirmed:
		return "Подтвержден"
	case OrderStatusInProgress:
		return "В работе"
	case OrderStatusShipped:
		return "Отправлен"
	case OrderStatusDelivered:
		return "Доставлен"
	case OrderStatusCancelled:
		return "Отменен"
	default:
		return string(s)
	}
}
