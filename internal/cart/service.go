// Package cart implements the shopper's cart: one line per product,
// quantities clamped to [1,10], every mutation persisted and the cache
// invalidated so the next read reprices against the current tier.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/akzshop/storeapi/internal/cache"
	"github.com/akzshop/storeapi/internal/domain"
	"github.com/akzshop/storeapi/internal/repository"
)

const (
	MinQuantity = 1
	MaxQuantity = 10
)

type Service struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	logger   *zap.Logger
	sfg      singleflight.Group // collapses concurrent reads of one cart
}

// NewService creates a new cart service
func NewService(repo repository.CartRepository, products repository.ProductRepository, cartCache cache.CartCache, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		cache:    cartCache,
		logger:   logger,
	}
}

// Get returns the user's cart with line prices refreshed to the tier's
// current product prices, the way the storefront shows them.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, tier domain.Subscription) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID.String(), func() (interface{}, error) {
		cached, err := s.cache.Get(ctx, userID.String())
		if err == nil {
			s.refreshPrices(ctx, userID, cached, tier)
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Cart cache get failed", zap.Error(err))
		}

		crt, err := s.repo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.refreshPrices(ctx, userID, crt, tier)

		go func() {
			if err := s.cache.Set(context.Background(), userID.String(), crt); err != nil {
				s.logger.Warn("Cart cache set failed", zap.Error(err))
			}
		}()

		return crt, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem puts a product into the cart. An existing line has its quantity
// incremented; the result is always clamped to [1,10].
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int, tier domain.Subscription) (*domain.CartItem, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	crt, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQty := quantity
	if existing := crt.Find(productID); existing != nil {
		newQty = existing.Quantity + quantity
	}

	item := domain.CartItem{
		ProductID:         product.ID,
		Name:              product.Name,
		Specs:             product.Specs,
		Unit:              product.Unit,
		Price:             product.PriceFor(tier),
		OriginalPrice:     product.BasePrice,
		PremiumPrice:      product.PremiumPrice,
		SubscriptionPrice: product.ProPrice,
		Quantity:          clampQuantity(newQty),
		ImageURL:          product.ImageURL,
		AddedAt:           time.Now(),
	}

	if err := s.repo.SetItem(ctx, userID, item); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	return &item, nil
}

// UpdateQuantity sets an existing line's quantity, clamped to [1,10].
// Updating an absent line is a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, userID uuid.UUID, productID uuid.UUID, quantity int) error {
	crt, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	line := crt.Find(productID)
	if line == nil {
		return nil
	}

	line.Quantity = clampQuantity(quantity)
	if err := s.repo.SetItem(ctx, userID, *line); err != nil {
		return err
	}

	s.invalidate(userID)
	return nil
}

// RemoveItem deletes a line; removing an absent line is a no-op
func (s *Service) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) error {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// Clear empties the cart, invoked after a successful order
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// Count is the summed quantity shown in the header badge
func (s *Service) Count(ctx context.Context, userID uuid.UUID, tier domain.Subscription) (int, error) {
	crt, err := s.Get(ctx, userID, tier)
	if err != nil {
		return 0, err
	}
	return crt.TotalItems(), nil
}

// refreshPrices re-captures line prices for the tier; a tier change between
// reads must show up immediately, as the original storefront does
func (s *Service) refreshPrices(ctx context.Context, userID uuid.UUID, crt *domain.Cart, tier domain.Subscription) {
	for i := range crt.Items {
		item := &crt.Items[i]
		want := tierPrice(*item, tier)
		if want <= 0 || want == item.Price {
			continue
		}
		item.Price = want
		if err := s.repo.UpdateItemPrice(ctx, userID, item.ProductID, want); err != nil {
			s.logger.Warn("Failed to persist refreshed cart price", zap.Error(err))
		}
	}
}

func tierPrice(item domain.CartItem, tier domain.Subscription) int64 {
	switch tier {
	case domain.SubscriptionPro:
		return item.SubscriptionPrice
	case domain.SubscriptionPremium:
		return item.PremiumPrice
	default:
		return item.OriginalPrice
	}
}

func (s *Service) invalidate(userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID.String()); err != nil {
		s.logger.Warn("Cart cache invalidate failed", zap.Error(err))
	}
}

func clampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}
