package cache

import (
	"context"
	"errors"

	"github.com/akzshop/storeapi/internal/domain"
)

// CartCache keeps recently read carts out of postgres
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

// SessionStore holds per-session state: the anti-forgery token issued at
// login and the shopper's current checkout step
type SessionStore interface {
	SetCSRFToken(ctx context.Context, userID, token string) error
	GetCSRFToken(ctx context.Context, userID string) (string, error)
	DeleteSession(ctx context.Context, userID string) error

	SetCheckoutStep(ctx context.Context, userID, step string) error
	GetCheckoutStep(ctx context.Context, userID string) (string, error)
}

var ErrCacheMiss = errors.New("cache miss")
