package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akzshop/storeapi/internal/domain"
)

const (
	cartBaseTTL = 15 * time.Minute
	sessionTTL  = 24 * time.Hour
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// RedisCache implements both CartCache and SessionStore on one client
type RedisCache struct {
	client *redis.Client
}

func (r *RedisCache) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, userID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// jitter spreads expiry so a burst of carts doesn't fall out at once
	ttl := cartBaseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := r.client.Set(ctx, cartKey(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) SetCSRFToken(ctx context.Context, userID, token string) error {
	if err := r.client.Set(ctx, csrfKey(userID), token, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetCSRFToken(ctx context.Context, userID string) (string, error) {
	token, err := r.client.Get(ctx, csrfKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return token, nil
}

func (r *RedisCache) DeleteSession(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, csrfKey(userID), stepKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisCache) SetCheckoutStep(ctx context.Context, userID, step string) error {
	if err := r.client.Set(ctx, stepKey(userID), step, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) GetCheckoutStep(ctx context.Context, userID string) (string, error) {
	step, err := r.client.Get(ctx, stepKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return step, nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func csrfKey(userID string) string {
	return fmt.Sprintf("session:csrf:%s", userID)
}

func stepKey(userID string) string {
	return fmt.Sprintf("session:step:%s", userID)
}
