package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/akzshop/storeapi/internal/domain"
)

// ProductRepository reads and seeds the catalog
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

// CartRepository stores one cart per user. SetItem is an absolute upsert:
// the quantity passed replaces whatever is stored for that product.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Cart, error)
	SetItem(ctx context.Context, userID uuid.UUID, item domain.CartItem) error
	UpdateItemPrice(ctx context.Context, userID, productID uuid.UUID, price int64) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository stores orders and their immutable item snapshots.
// Create writes the order, its items and the optional idempotency record
// in one transaction, so a key either maps to a committed order or does
// not exist at all.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem, idem *domain.IdempotencyKey) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// UserRepository stores accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProfileRepository stores shopper profiles, one per user
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error
	UpdateSubscription(ctx context.Context, userID uuid.UUID, tier domain.Subscription, active bool) error
}

// HorseRepository stores the horses attached to a profile
type HorseRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Horse, error)
	Create(ctx context.Context, horse *domain.Horse) error
}

// IdempotencyRepository records checkout submissions by client key
type IdempotencyRepository interface {
	Get(ctx context.Context, key string, userID uuid.UUID) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, record *domain.IdempotencyKey) error
}

// OrderEventRepository appends audit events for orders
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
}

// Repositories aggregates all repositories for injection
type Repositories struct {
	Product     ProductRepository
	Cart        CartRepository
	Order       OrderRepository
	User        UserRepository
	Profile     ProfileRepository
	Horse       HorseRepository
	Idempotency IdempotencyRepository
	OrderEvent  OrderEventRepository
}
