package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vindenez/Matplaner-backend/internal/domain"
)

// DefaultTTL is how long cached offer lists live before expiring.
const DefaultTTL = 15 * time.Minute

// ProductCache implements repository.ProductCache using Redis.
// Offers are stored as a JSON array under one key per EAN.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a Redis-backed product cache. A non-positive ttl
// falls back to DefaultTTL.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

func cacheKey(ean string) string {
	return "product:ean:" + ean
}

// Get returns the cached offers for an EAN. A miss returns (nil, nil).
func (c *ProductCache) Get(ctx context.Context, ean string) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, cacheKey(ean)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached product %s: %w", ean, err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cached product %s: %w", ean, err)
	}
	return products, nil
}

// Set stores the offers for an EAN with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, ean string, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products for cache: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(ean), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache product %s: %w", ean, err)
	}
	return nil
}

// Invalidate removes the cached entry for an EAN.
func (c *ProductCache) Invalidate(ctx context.Context, ean string) error {
	if err := c.client.Del(ctx, cacheKey(ean)).Err(); err != nil {
		return fmt.Errorf("invalidate cached product %s: %w", ean, err)
	}
	return nil
}
